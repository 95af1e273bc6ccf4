package services_test

import (
	"errors"
	"strings"
	"testing"

	"encore/internal/services"
	"encore/internal/store"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTransient, "exporting", "write track", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"exporting", "write track", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "analyzing", "profile", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestFailureStatusMapping(t *testing.T) {
	validationErr := services.Wrap(services.ErrValidation, "analyzing", "read input", "invalid", nil)
	if status := services.FailureStatus(validationErr); status != store.StatusReview {
		t.Fatalf("expected review for validation error, got %s", status)
	}

	transientErr := services.Wrap(services.ErrTransient, "exporting", "copy", "copy failed", errors.New("io"))
	if status := services.FailureStatus(transientErr); status != store.StatusFailed {
		t.Fatalf("expected failed for transient error, got %s", status)
	}

	if status := services.FailureStatus(nil); status != store.StatusFailed {
		t.Fatalf("expected failed for nil error, got %s", status)
	}
}
