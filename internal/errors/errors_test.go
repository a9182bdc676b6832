package errors

import (
	stderrors "errors"
	"testing"
)

func TestExitErrorUnwrap(t *testing.T) {
	err := NewUserError(ErrInvalidConfig, "check the config file")

	if !stderrors.Is(err, ErrInvalidConfig) {
		t.Error("expected ExitError to unwrap to ErrInvalidConfig")
	}

	var exitErr *ExitError
	if !stderrors.As(err, &exitErr) {
		t.Fatal("expected errors.As to find ExitError")
	}
	if exitErr.Code != ExitUser {
		t.Errorf("Code = %d, want %d", exitErr.Code, ExitUser)
	}
	if exitErr.Suggestion != "check the config file" {
		t.Errorf("Suggestion = %q", exitErr.Suggestion)
	}
}

func TestExitErrorNilErr(t *testing.T) {
	err := NewExitError(nil, ExitSystem)
	if err.Error() != "exit code 2" {
		t.Errorf("Error() = %q, want %q", err.Error(), "exit code 2")
	}
}

func TestWrappedSentinel(t *testing.T) {
	err := Wrap(ErrNoActiveAdapter, "reading tools")
	if !Is(err, ErrNoActiveAdapter) {
		t.Error("wrapped sentinel should match with Is")
	}
}
