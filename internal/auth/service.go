package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"helpline-crm/internal/users"
	"helpline-crm/pkg/utils"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	ErrAccountInactive    = errors.New("auth: account is deactivated")
)

// Session is what register and login hand back to the client.
type Session struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        *users.User `json:"user"`
}

// Service implements self-registration and login.
type Service struct {
	repo   users.Repository
	tokens *Manager

	Now func() time.Time
}

func NewService(repo users.Repository, tokens *Manager) *Service {
	return &Service{repo: repo, tokens: tokens}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Register creates an account and returns a fresh session. The first account
// ever created becomes admin; everyone after that starts as agent.
func (s *Service) Register(ctx context.Context, email, password, name string) (*Session, error) {
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, users.ErrEmailTaken
	} else if !errors.Is(err, users.ErrNotFound) {
		return nil, err
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	role := users.RoleAgent
	if count == 0 {
		role = users.RoleAdmin
	}

	hash, err := users.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	now := s.now()
	nowStr := utils.FormatRFC3339(now)
	u := &users.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		Status:       users.StatusActive,
		CreatedAt:    nowStr,
		LastLogin:    &nowStr,
	}
	if err := s.repo.Insert(ctx, u); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(now, u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	return &Session{AccessToken: token, TokenType: "bearer", User: u}, nil
}

// Login verifies credentials, refreshes last_login and returns a session.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, users.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !users.CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	u.Normalize()
	if u.Inactive() {
		return nil, ErrAccountInactive
	}

	now := s.now()
	nowStr := utils.FormatRFC3339(now)
	if err := s.repo.Update(ctx, u.ID, users.Patch{LastLogin: &nowStr}); err != nil {
		return nil, err
	}
	u.LastLogin = &nowStr

	token, err := s.tokens.Issue(now, u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	return &Session{AccessToken: token, TokenType: "bearer", User: u}, nil
}
