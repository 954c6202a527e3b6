package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOfWrappedError(t *testing.T) {
	err := fmt.Errorf("updating item: %w", NotFound("item", 7))

	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
	assert.Equal(t, "NOT_FOUND: item 7 not found", As(err).Error())
}

func TestUntypedErrorsAreStoreFailures(t *testing.T) {
	err := errors.New("disk I/O error")

	assert.Equal(t, CodeStoreFailure, CodeOf(err))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
	assert.Nil(t, As(err))
	assert.False(t, IsNotFound(nil))
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(CodeStoreFailure, sql.ErrConnDone, "listing items")

	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Contains(t, err.Error(), "listing items")
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "invalid item").WithDetails(map[string]string{"name": "is required"})

	assert.Equal(t, "is required", err.Details()["name"])
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}
