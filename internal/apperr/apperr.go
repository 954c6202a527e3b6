// Package apperr is the registry's error taxonomy. Repositories return these
// for conditions the caller is expected to handle; anything else is a store
// failure and surfaces as a generic 500.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeNotFound     Code = "NOT_FOUND"
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeStoreFailure Code = "STORE_FAILURE"
	CodeAuthFailure  Code = "AUTH_FAILURE"
)

var statusByCode = map[Code]int{
	CodeNotFound:     http.StatusNotFound,
	CodeValidation:   http.StatusBadRequest,
	CodeStoreFailure: http.StatusInternalServerError,
	CodeAuthFailure:  http.StatusUnauthorized,
}

// Error is a coded error with an optional cause and details.
type Error struct {
	code    Code
	message string
	details map[string]string
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

// NotFound builds a NotFound error for the given entity and id.
func NotFound(entity string, id int64) *Error {
	return New(CodeNotFound, fmt.Sprintf("%s %d not found", entity, id))
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeStoreFailure
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() map[string]string {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details map[string]string) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As returns the first *Error in err's chain, or nil.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf returns the code of err. Untyped errors are store failures.
func CodeOf(err error) Code {
	if typed := As(err); typed != nil {
		return typed.Code()
	}
	return CodeStoreFailure
}

func IsNotFound(err error) bool {
	return err != nil && CodeOf(err) == CodeNotFound
}

func IsValidation(err error) bool {
	return err != nil && CodeOf(err) == CodeValidation
}

// HTTPStatus maps err to the status a handler should answer with.
func HTTPStatus(err error) int {
	if status, ok := statusByCode[CodeOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}
