package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusByKind(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{Validation("companyName is required"), http.StatusBadRequest},
		{BadRequest("invalid id"), http.StatusBadRequest},
		{NotFound("Lead not found"), http.StatusNotFound},
		{Forbidden("do not contact"), http.StatusForbidden},
		{Unauthorized("Invalid or missing API key"), http.StatusUnauthorized},
		{Misconfigured("API key not configured"), http.StatusInternalServerError},
		{Internal("boom"), http.StatusInternalServerError},
		{New(KindUnknown, "?"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := tc.err.HTTPStatus(); got != tc.want {
			t.Errorf("%q: expected status %d, got %d", tc.err.Message, tc.want, got)
		}
	}
}

func TestGetKindFollowsWrappedChain(t *testing.T) {
	base := NotFound("Lead not found")
	wrapped := fmt.Errorf("score lead: %w", base)

	if GetKind(wrapped) != KindNotFound {
		t.Fatalf("expected KindNotFound through wrapping, got %v", GetKind(wrapped))
	}
	if !Is(wrapped, KindNotFound) {
		t.Fatal("expected Is to match wrapped kind")
	}
	if GetKind(errors.New("plain")) != KindUnknown {
		t.Fatal("expected KindUnknown for untyped error")
	}
}

func TestWrapKeepsCauseOutOfMessage(t *testing.T) {
	cause := errors.New("conn reset")
	err := Wrap(KindInternal, "update lead", cause)

	if err.Message != "update lead" {
		t.Fatalf("unexpected message %q", err.Message)
	}
	if err.Error() != "update lead: conn reset" {
		t.Fatalf("unexpected error text %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected underlying error to be preserved")
	}
}
