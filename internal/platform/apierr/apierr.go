package apierr

import (
	"errors"
	"fmt"
	"net/http"

	domainagg "github.com/yungbote/courseprogress-backend/internal/domain/aggregates"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Message is the text shown to API callers. Internal failures never leak their cause.
func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	if e.Status >= http.StatusInternalServerError {
		return http.StatusText(e.Status)
	}
	return domainagg.MessageOf(e.Err)
}

var statusByCode = map[domainagg.ErrorCode]int{
	domainagg.CodeValidation:            http.StatusBadRequest,
	domainagg.CodeUnauthorized:          http.StatusUnauthorized,
	domainagg.CodeNotFound:              http.StatusNotFound,
	domainagg.CodeBusinessRuleViolation: http.StatusUnprocessableEntity,
	domainagg.CodeConflict:              http.StatusConflict,
	domainagg.CodePreconditionFailed:    http.StatusPreconditionFailed,
	domainagg.CodeRetryable:             http.StatusServiceUnavailable,
	domainagg.CodeInternal:              http.StatusInternalServerError,
}

// FromError maps an aggregate/service error onto an HTTP status and code.
// Untyped errors become 500 internal.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	code := domainagg.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		return New(http.StatusInternalServerError, string(domainagg.CodeInternal), err)
	}
	return New(status, string(code), err)
}
