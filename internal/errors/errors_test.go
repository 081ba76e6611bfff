package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(NoMatch, "no branch matches 'xyz'", nil)

	want := "[NO_MATCH] no branch matches 'xyz'"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestErrorFormattingWithCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := New(StoreUnavailable, "could not record checkout", cause)

	want := "[STORE_UNAVAILABLE] could not record checkout: disk full"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := New(CheckoutFailed, "git checkout failed", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestSuggestedFixesAttached(t *testing.T) {
	err := New(NoMatch, "nothing matched", nil)
	if len(err.SuggestedFixes) == 0 {
		t.Fatal("NoMatch errors should carry suggested fixes")
	}
	for _, fix := range err.SuggestedFixes {
		if !fix.Safe {
			t.Errorf("NoMatch fix %q should be safe", fix.Command)
		}
	}
}

func TestSuggestedFixesUnknownCode(t *testing.T) {
	if fixes := GetSuggestedFixes(InternalError); fixes != nil {
		t.Errorf("InternalError should have no canned fixes, got %v", fixes)
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(StaleAlias, "alias broke", nil)); got != StaleAlias {
		t.Errorf("CodeOf = %s, want %s", got, StaleAlias)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != InternalError {
		t.Errorf("CodeOf(plain error) = %s, want %s", got, InternalError)
	}
}

func TestWithDetails(t *testing.T) {
	err := New(NoMatch, "nothing matched", nil).WithDetails(map[string]string{"pattern": "xyz"})
	details, ok := err.Details.(map[string]string)
	if !ok || details["pattern"] != "xyz" {
		t.Errorf("Details = %v, want pattern=xyz", err.Details)
	}
}
