package model

import (
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/erazemk/irielink/internal/apperr"
)

// ItemInput carries the admin-editable fields of an item. Build it with
// ParseItemForm so the defaulting rules are applied in one place.
type ItemInput struct {
	Name         string  `form:"name" validate:"required,max=200"`
	Description  string  `form:"description" validate:"max=2000"`
	ImageURL     string  `form:"image_url" validate:"max=2048"`
	PriceCents   int64   `form:"price_dollars" validate:"min=0"`
	PurchaseLink string  `form:"purchase_link" validate:"max=2048"`
	Quantity     int     `form:"quantity" validate:"min=1"`
	Note         string  `form:"note" validate:"max=1000"`
	CategoryIDs  []int64 `form:"category_ids"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if tag := f.Tag.Get("form"); tag != "" {
			return tag
		}
		return f.Name
	})
	return v
}

// ParseItemForm builds an ItemInput from submitted form values. Numeric fields
// never fail: a missing or malformed price is 0 cents and a missing, malformed
// or non-positive quantity is 1.
func ParseItemForm(values url.Values) ItemInput {
	in := ItemInput{
		Name:         strings.TrimSpace(values.Get("name")),
		Description:  strings.TrimSpace(values.Get("description")),
		ImageURL:     strings.TrimSpace(values.Get("image_url")),
		PriceCents:   ParseDollars(values.Get("price_dollars")),
		PurchaseLink: strings.TrimSpace(values.Get("purchase_link")),
		Quantity:     ParseQuantity(values.Get("quantity")),
		Note:         strings.TrimSpace(values.Get("note")),
	}
	for _, raw := range values["category_ids"] {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		in.CategoryIDs = append(in.CategoryIDs, id)
	}
	return in
}

// Normalize applies the numeric defaults to an input that did not come from
// ParseItemForm.
func (in ItemInput) Normalize() ItemInput {
	if in.Quantity < 1 {
		in.Quantity = 1
	}
	if in.PriceCents < 0 {
		in.PriceCents = 0
	}
	return in
}

// Validate checks the input after defaulting. Only a missing name or an
// oversized text field can fail.
func (in ItemInput) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.Wrap(apperr.CodeValidation, err, "invalid item")
	}
	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		details[fe.Field()] = validationMessage(fe)
	}
	return apperr.New(apperr.CodeValidation, "invalid item").WithDetails(details)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	}
	return "is invalid"
}

// ParseDollars converts a decimal dollar amount to cents, rounding half away
// from zero ("12.345" is 1235). Blank, malformed or negative input is 0, and so
// is an amount whose cents do not fit in an int64.
func ParseDollars(raw string) int64 {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "$"))
	if raw == "" {
		return 0
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return 0
	}
	cents := d.Shift(2).Round(0)
	if !cents.BigInt().IsInt64() {
		return 0
	}
	return cents.IntPart()
}

// ParseQuantity parses a desired count, defaulting to 1.
func ParseQuantity(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// FormatCents renders cents as a dollar amount with two decimals.
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
