package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeUnauthenticated: http.StatusUnauthorized,
		CodeTokenExpired:    http.StatusUnauthorized,
		CodeForbidden:       http.StatusForbidden,
		CodeNoBrand:         http.StatusForbidden,
		CodeValidation:      http.StatusBadRequest,
		CodeNotFound:        http.StatusNotFound,
		CodeConflict:        http.StatusConflict,
		CodeInternal:        http.StatusInternalServerError,
		Code("mystery"):     http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := code.HTTPStatus(); got != want {
			t.Errorf("%s.HTTPStatus() = %d, want %d", code, got, want)
		}
	}
}

func TestFromPreservesCodedErrors(t *testing.T) {
	orig := Forbidden()
	wrapped := fmt.Errorf("while deleting campaign: %w", orig)

	e := From(wrapped)
	if e.Code != CodeForbidden {
		t.Errorf("code = %q, want %q", e.Code, CodeForbidden)
	}
}

func TestFromNormalizesUnknownErrors(t *testing.T) {
	e := From(errors.New("connection refused"))
	if e.Code != CodeInternal {
		t.Errorf("code = %q, want %q", e.Code, CodeInternal)
	}
	if e.Message != "internal server error" {
		t.Errorf("message = %q, detail must not leak", e.Message)
	}
	if e.Unwrap() == nil {
		t.Error("cause must stay reachable for logging")
	}
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", Conflict("reward already used"))
	if !IsCode(err, CodeConflict) {
		t.Error("IsCode must see through wrapping")
	}
	if IsCode(err, CodeNotFound) {
		t.Error("IsCode must not match a different code")
	}
	if IsCode(errors.New("plain"), CodeConflict) {
		t.Error("IsCode must reject uncoded errors")
	}
}
