package contacts

import (
	"context"
	"errors"
	"time"

	"helpline-crm/pkg/utils"

	"github.com/google/uuid"
)

// CreateParams are the caller-supplied fields for a new contact.
type CreateParams struct {
	PhoneNumber string
	Name        *string
	Email       *string
	Address     *string
	Company     *string
	Tags        []string
}

// Service implements the contact registry.
type Service struct {
	repo Repository

	Now func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) List(ctx context.Context, f Filter) ([]Contact, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id string) (*Contact, error) {
	return s.repo.FindByID(ctx, id)
}

// GetByPhone is a side-effect-free presence check; a miss is a valid result,
// not an error.
func (s *Service) GetByPhone(ctx context.Context, phone string) (*Contact, bool, error) {
	c, err := s.repo.FindByPhone(ctx, phone)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return c, true, nil
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Contact, error) {
	if _, err := s.repo.FindByPhone(ctx, params.PhoneNumber); err == nil {
		return nil, ErrPhoneTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := utils.FormatRFC3339(s.now())
	tags := params.Tags
	if tags == nil {
		tags = []string{}
	}
	c := &Contact{
		ID:          uuid.NewString(),
		PhoneNumber: params.PhoneNumber,
		Name:        params.Name,
		Email:       params.Email,
		Address:     params.Address,
		Company:     params.Company,
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update applies non-nil fields and always refreshes updated_at.
func (s *Service) Update(ctx context.Context, id string, p Patch) (*Contact, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	now := utils.FormatRFC3339(s.now())
	p.UpdatedAt = &now
	if err := s.repo.Update(ctx, id, p); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
