package calls

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("calls: not found")

const (
	listCap   = 1000
	exportCap = 10000
)

// Filter narrows List results. Search is a case-insensitive substring match
// over caller number, contact name and notes. Date bounds are inclusive and
// compare against the canonical RFC3339 timestamp strings.
type Filter struct {
	Search   string
	CallType string
	Priority string
	Status   string
	DateFrom string
	DateTo   string

	// Limit defaults to listCap when zero. CSV export passes exportCap.
	Limit int64
}

// Patch carries a partial update; only non-nil fields are applied.
type Patch struct {
	Duration        *int
	Notes           *string
	CallType        *string
	Priority        *string
	Status          *string
	ResolutionNotes *string
}

// Repository abstracts call persistence, including the aggregations the
// stats endpoint needs. Lookup misses return ErrNotFound.
type Repository interface {
	Insert(ctx context.Context, call *Call) error
	FindByID(ctx context.Context, id string) (*Call, error)
	List(ctx context.Context, f Filter) ([]Call, error)
	Update(ctx context.Context, id string, p Patch) error

	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, ts string) (int64, error)
	GroupCount(ctx context.Context, field string) (map[string]int64, error)
	AverageDuration(ctx context.Context) (float64, error)
}
