package pbx

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("pbx: call event not found")

const (
	defaultListLimit = 50
	pendingLimit     = 10
)

// EventFilter narrows List results.
type EventFilter struct {
	AgentID   string
	Processed *bool

	// Limit defaults to defaultListLimit when zero.
	Limit int64
}

// Repository abstracts call-event persistence. Lookup misses return
// ErrNotFound. MarkProcessed and AttachCall overwrite unconditionally, so
// re-marking an already-processed event is not an error.
type Repository interface {
	Insert(ctx context.Context, ev *CallEvent) error
	FindByID(ctx context.Context, id string) (*CallEvent, error)
	List(ctx context.Context, f EventFilter) ([]CallEvent, error)
	MarkProcessed(ctx context.Context, id, processedAt string) error
	AttachCall(ctx context.Context, id, callID, processedAt string) error
}
