package pipeline

import (
	"context"
	"log/slog"

	"encore/internal/store"
)

// Handler describes the contract the runner needs from each stage.
type Handler interface {
	Prepare(context.Context, *store.Run) error
	Execute(context.Context, *store.Run) error
}

// LoggerAware lets the runner hand stages a logger enriched with run context.
type LoggerAware interface {
	SetLogger(*slog.Logger)
}
