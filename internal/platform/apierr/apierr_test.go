package apierr

import (
	"errors"
	"net/http"
	"testing"

	domainagg "github.com/yungbote/courseprogress-backend/internal/domain/aggregates"
)

func TestFromErrorMapsCodes(t *testing.T) {
	cases := map[domainagg.ErrorCode]int{
		domainagg.CodeValidation:            http.StatusBadRequest,
		domainagg.CodeUnauthorized:          http.StatusUnauthorized,
		domainagg.CodeNotFound:              http.StatusNotFound,
		domainagg.CodeBusinessRuleViolation: http.StatusUnprocessableEntity,
		domainagg.CodeConflict:              http.StatusConflict,
	}
	for code, want := range cases {
		got := FromError(domainagg.NewError(code, "op", "msg", nil))
		if got.Status != want || got.Code != string(code) {
			t.Fatalf("FromError(%s): want=%d got=%d/%s", code, want, got.Status, got.Code)
		}
		if got.Message() != "msg" {
			t.Fatalf("FromError(%s) message: got=%q", code, got.Message())
		}
	}
}

func TestFromErrorRetryableHidesMessage(t *testing.T) {
	got := FromError(domainagg.NewError(domainagg.CodeRetryable, "op", "could not serialize access", nil))
	if got.Status != http.StatusServiceUnavailable || got.Code != string(domainagg.CodeRetryable) {
		t.Fatalf("retryable: want=503/retryable got=%d/%s", got.Status, got.Code)
	}
	if got.Message() != "Service Unavailable" {
		t.Fatalf("retryable message: want=%q got=%q", "Service Unavailable", got.Message())
	}
}

func TestFromErrorHidesInternalCause(t *testing.T) {
	got := FromError(errors.New("pq: connection refused"))
	if got.Status != http.StatusInternalServerError || got.Code != "internal" {
		t.Fatalf("untyped: got=%d/%s", got.Status, got.Code)
	}
	if got.Message() != "Internal Server Error" {
		t.Fatalf("untyped message: got=%q", got.Message())
	}
	if FromError(nil) != nil {
		t.Fatalf("nil: want nil")
	}
}
