package model

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/irielink/internal/apperr"
)

func TestParseDollars(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
	}{
		{"9.99", 999},
		{"12.345", 1235},
		{"12.344", 1234},
		{"0.005", 1},
		{"10", 1000},
		{" $4.50 ", 450},
		{"", 0},
		{"abc", 0},
		{"-3.00", 0},
		{"92233720368547758.07", 9223372036854775807},
		{"92233720368547758.08", 0},
		{"100000000000000000", 0},
		{"1e30", 0},
	}

	for _, tt := range tests {
		if got := ParseDollars(tt.raw); got != tt.want {
			t.Errorf("ParseDollars(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"3", 3},
		{"", 1},
		{"two", 1},
		{"0", 1},
		{"-4", 1},
	}

	for _, tt := range tests {
		if got := ParseQuantity(tt.raw); got != tt.want {
			t.Errorf("ParseQuantity(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "9.99", FormatCents(999))
	assert.Equal(t, "0.00", FormatCents(0))
	assert.Equal(t, "12.35", FormatCents(1235))
}

func TestParseItemFormDefaults(t *testing.T) {
	in := ParseItemForm(url.Values{
		"name":          {"  Rice 5lb "},
		"price_dollars": {"9.99"},
		"category_ids":  {"1", "x", "3", "-2"},
	})

	assert.Equal(t, "Rice 5lb", in.Name)
	assert.Equal(t, int64(999), in.PriceCents)
	assert.Equal(t, 1, in.Quantity)
	assert.Equal(t, "", in.Note)
	assert.Equal(t, []int64{1, 3}, in.CategoryIDs)
	assert.NoError(t, in.Validate())
}

func TestParseItemFormHugePriceIsNotRejected(t *testing.T) {
	for _, raw := range []string{"92233720368547758.08", "100000000000000000", "1e30"} {
		in := ParseItemForm(url.Values{"name": {"Yacht"}, "price_dollars": {raw}})
		assert.Equal(t, int64(0), in.PriceCents, raw)
		assert.NoError(t, in.Validate(), raw)
	}
}

func TestValidateRequiresName(t *testing.T) {
	in := ParseItemForm(url.Values{"price_dollars": {"5"}})

	err := in.Validate()
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, "is required", apperr.As(err).Details()["name"])
}

func TestValidateRejectsOversizedNote(t *testing.T) {
	in := ParseItemForm(url.Values{"name": {"Kettle"}, "note": {strings.Repeat("a", 1001)}})

	err := in.Validate()
	require.Error(t, err)
	assert.Contains(t, apperr.As(err).Details(), "note")
}

func TestItemHelpers(t *testing.T) {
	item := Item{PriceCents: 1999, Categories: []Category{{ID: 2, Name: "Food"}, {ID: 4, Name: "Kitchen Supplies"}}}

	assert.Equal(t, "19.99", item.PriceDollars())
	assert.True(t, item.InCategory(4))
	assert.False(t, item.InCategory(1))
}
