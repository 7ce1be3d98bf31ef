package users

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("users: not found")

// Filter narrows List results. Search is a case-insensitive substring match
// over name and email.
type Filter struct {
	Search string
	Role   string
	Status string
}

// Patch carries a partial update; only non-nil fields are applied.
type Patch struct {
	Name         *string
	Email        *string
	Role         *Role
	Status       *Status
	Extension    *string
	PasswordHash *string
	LastLogin    *string
}

func (p Patch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Role == nil && p.Status == nil &&
		p.Extension == nil && p.PasswordHash == nil && p.LastLogin == nil
}

// Repository abstracts user persistence. Lookup misses return ErrNotFound.
type Repository interface {
	Insert(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByExtension(ctx context.Context, extension string) (*User, error)
	List(ctx context.Context, f Filter) ([]User, error)
	Update(ctx context.Context, id string, p Patch) error
	Delete(ctx context.Context, id string) error

	Count(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role Role) (int64, error)
}
