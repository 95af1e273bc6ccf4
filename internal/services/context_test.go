package services_test

import (
	"context"
	"testing"

	"encore/internal/services"
)

func TestRunIDRoundTrip(t *testing.T) {
	ctx := services.WithRunID(context.Background(), 7)
	id, ok := services.RunIDFromContext(ctx)
	if !ok || id != 7 {
		t.Fatalf("expected run id 7, got %d (ok=%v)", id, ok)
	}
	if _, ok := services.RunIDFromContext(context.Background()); ok {
		t.Fatal("expected absent run id")
	}
}

func TestStageEmptyValueIgnored(t *testing.T) {
	ctx := services.WithStage(context.Background(), "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected empty stage to be dropped")
	}
	ctx = services.WithStage(ctx, "analyzing")
	stage, ok := services.StageFromContext(ctx)
	if !ok || stage != "analyzing" {
		t.Fatalf("expected stage analyzing, got %q (ok=%v)", stage, ok)
	}
}

func TestCorrelationIDRoundTrip(t *testing.T) {
	ctx := services.WithCorrelationID(context.Background(), "run-1234")
	id, ok := services.CorrelationIDFromContext(ctx)
	if !ok || id != "run-1234" {
		t.Fatalf("expected correlation id, got %q (ok=%v)", id, ok)
	}
}
