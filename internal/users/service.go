package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"helpline-crm/pkg/utils"

	"github.com/google/uuid"
)

var (
	ErrEmailTaken       = errors.New("users: email already registered")
	ErrSelfRoleChange   = errors.New("users: cannot change your own role")
	ErrSelfDeactivate   = errors.New("users: cannot deactivate your own account")
	ErrSelfDelete       = errors.New("users: cannot delete your own account")
	ErrPasswordTooShort = errors.New("users: password must be at least 6 characters")
)

const minPasswordLen = 6

// ContactCounter and CallCounter are the narrow slices of the contact and
// call repositories the admin dashboard needs.
type ContactCounter interface {
	Count(ctx context.Context) (int64, error)
}

type CallCounter interface {
	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, ts string) (int64, error)
}

// Service implements admin user management and the dashboard stats.
type Service struct {
	repo     Repository
	contacts ContactCounter
	calls    CallCounter

	Now func() time.Time
}

func NewService(repo Repository, contacts ContactCounter, calls CallCounter) *Service {
	return &Service{repo: repo, contacts: contacts, calls: calls}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) List(ctx context.Context, f Filter) ([]User, error) {
	out, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Normalize()
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Normalize()
	return u, nil
}

// Create adds a staff account with an admin-chosen role. Unlike
// self-registration, last_login starts out unset.
func (s *Service) Create(ctx context.Context, email, password, name string, role Role) (*User, error) {
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if !ValidRole(role) {
		return nil, fmt.Errorf("users: invalid role %q", role)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("users: hash password: %w", err)
	}

	u := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		Status:       StatusActive,
		CreatedAt:    utils.FormatRFC3339(s.now()),
		LastLogin:    nil,
	}
	if err := s.repo.Insert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Update applies a partial edit. Self-protection: an admin can neither drop
// their own admin role nor deactivate their own account.
func (s *Service) Update(ctx context.Context, actorID, id string, p Patch) (*User, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	if id == actorID && p.Role != nil && *p.Role != RoleAdmin {
		return nil, ErrSelfRoleChange
	}
	if id == actorID && p.Status != nil && *p.Status == StatusInactive {
		return nil, ErrSelfDeactivate
	}

	if !p.Empty() {
		if err := s.repo.Update(ctx, id, p); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

func (s *Service) ResetPassword(ctx context.Context, id, newPassword string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if len(newPassword) < minPasswordLen {
		return ErrPasswordTooShort
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("users: hash password: %w", err)
	}
	return s.repo.Update(ctx, id, Patch{PasswordHash: &hash})
}

func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	if id == actorID {
		return ErrSelfDelete
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// AdminStats is the dashboard payload.
type AdminStats struct {
	Users    UserStats         `json:"users"`
	Contacts ContactStats      `json:"contacts"`
	Calls    CallActivityStats `json:"calls"`
}

type UserStats struct {
	Total  int64            `json:"total"`
	Active int64            `json:"active"`
	ByRole map[string]int64 `json:"by_role"`
}

type ContactStats struct {
	Total int64 `json:"total"`
}

type CallActivityStats struct {
	Total      int64 `json:"total"`
	Last7Days  int64 `json:"last_7_days"`
}

func (s *Service) Stats(ctx context.Context) (AdminStats, error) {
	var out AdminStats
	var err error

	if out.Users.Total, err = s.repo.Count(ctx); err != nil {
		return AdminStats{}, err
	}
	if out.Users.Active, err = s.repo.CountActive(ctx); err != nil {
		return AdminStats{}, err
	}
	out.Users.ByRole = make(map[string]int64, 3)
	for _, role := range []Role{RoleAdmin, RoleSupervisor, RoleAgent} {
		n, err := s.repo.CountByRole(ctx, role)
		if err != nil {
			return AdminStats{}, err
		}
		out.Users.ByRole[string(role)] = n
	}

	if out.Contacts.Total, err = s.contacts.Count(ctx); err != nil {
		return AdminStats{}, err
	}
	if out.Calls.Total, err = s.calls.Count(ctx); err != nil {
		return AdminStats{}, err
	}

	weekAgo := utils.FormatRFC3339(s.now().Add(-7 * 24 * time.Hour))
	if out.Calls.Last7Days, err = s.calls.CountSince(ctx, weekAgo); err != nil {
		return AdminStats{}, err
	}
	return out, nil
}
