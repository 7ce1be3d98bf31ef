package contacts

import (
	"context"
	"errors"
)

var (
	ErrNotFound   = errors.New("contacts: not found")
	ErrPhoneTaken = errors.New("contacts: phone number already registered")
)

// Filter narrows List results. Search is a case-insensitive substring match
// over name, phone number, email and company; Tag is exact membership.
type Filter struct {
	Search string
	Tag    string
}

// Patch carries a partial update; only non-nil fields are applied.
type Patch struct {
	PhoneNumber *string
	Name        *string
	Email       *string
	Address     *string
	Company     *string
	Tags        *[]string
	UpdatedAt   *string
}

// Repository abstracts contact persistence. Lookup misses return ErrNotFound.
type Repository interface {
	Insert(ctx context.Context, c *Contact) error
	FindByID(ctx context.Context, id string) (*Contact, error)
	FindByPhone(ctx context.Context, phone string) (*Contact, error)
	List(ctx context.Context, f Filter) ([]Contact, error)
	Update(ctx context.Context, id string, p Patch) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
