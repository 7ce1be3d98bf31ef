package pbx

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"helpline-crm/internal/contacts"
	"helpline-crm/internal/users"
	"helpline-crm/pkg/utils"

	"github.com/google/uuid"
)

// ContactLookup is the slice of the contact repository caller resolution
// needs.
type ContactLookup interface {
	FindByPhone(ctx context.Context, phone string) (*contacts.Contact, error)
}

// AgentDirectory resolves the answering agent from webhook metadata.
type AgentDirectory interface {
	FindByEmail(ctx context.Context, email string) (*users.User, error)
	FindByExtension(ctx context.Context, extension string) (*users.User, error)
}

// Service is the call-event router: it authenticates webhook deliveries,
// resolves the caller to a contact and the answering agent to a user, records
// the event and computes the redirect target for the agent UI.
type Service struct {
	repo          Repository
	contactRepo   ContactLookup
	agents        AgentDirectory
	webhookSecret string

	Now func() time.Time
}

func NewService(repo Repository, contactRepo ContactLookup, agents AgentDirectory, webhookSecret string) *Service {
	return &Service{
		repo:          repo,
		contactRepo:   contactRepo,
		agents:        agents,
		webhookSecret: webhookSecret,
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// VerifySecret checks the shared webhook secret. With no secret configured
// every delivery is accepted; that weaker mode matches the PBX-side default
// and is called out in DESIGN.md.
func (s *Service) VerifySecret(supplied string) bool {
	if s.webhookSecret == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(s.webhookSecret)) == 1
}

// redirect is the pure routing decision: the outcome of contact resolution
// fully determines where the agent UI should navigate.
func redirect(contact *contacts.Contact, normalized, eventID string) (url, message string) {
	if contact != nil {
		url = fmt.Sprintf("/calls/new?contact=%s&phone=%s&callEventId=%s", contact.ID, normalized, eventID)
		message = fmt.Sprintf("Contact found: %s", contact.DisplayName())
		return url, message
	}
	url = fmt.Sprintf("/contacts/new?phone=%s&callEventId=%s", normalized, eventID)
	message = fmt.Sprintf("New caller: %s - Create contact first", normalized)
	return url, message
}

// HandleEvent processes one webhook delivery. Contact and agent misses are
// soft: the event is always recorded and always yields a redirect.
func (s *Service) HandleEvent(ctx context.Context, ev WebhookEvent) (*WebhookResult, error) {
	normalized := NormalizeCallerID(ev.CallerID)

	contact, err := s.contactRepo.FindByPhone(ctx, normalized)
	if errors.Is(err, contacts.ErrNotFound) {
		// The PBX may send a pre-formatted number matching a legacy record.
		contact, err = s.contactRepo.FindByPhone(ctx, ev.CallerID)
	}
	if err != nil && !errors.Is(err, contacts.ErrNotFound) {
		return nil, err
	}

	var contactID *string
	if contact != nil {
		contactID = &contact.ID
	}

	var agent *users.User
	if ev.AgentUsername != nil && *ev.AgentUsername != "" {
		if u, err := s.agents.FindByEmail(ctx, *ev.AgentUsername); err == nil {
			agent = u
		} else if !errors.Is(err, users.ErrNotFound) {
			return nil, err
		}
	}
	if agent == nil && ev.Extension != nil && *ev.Extension != "" {
		if u, err := s.agents.FindByExtension(ctx, *ev.Extension); err == nil {
			agent = u
		} else if !errors.Is(err, users.ErrNotFound) {
			return nil, err
		}
	}
	var agentID *string
	if agent != nil {
		agentID = &agent.ID
	}

	eventID := uuid.NewString()
	now := utils.FormatRFC3339(s.now())
	redirectURL, message := redirect(contact, normalized, eventID)

	timestamp := now
	if ev.Timestamp != nil && *ev.Timestamp != "" {
		timestamp = *ev.Timestamp
	}
	direction := "inbound"
	if ev.Direction != nil && *ev.Direction != "" {
		direction = *ev.Direction
	}

	record := &CallEvent{
		ID:             eventID,
		FreePBXCallID:  ev.CallID,
		CallerNumber:   normalized,
		AgentID:        agentID,
		AgentExtension: ev.Extension,
		ContactID:      contactID,
		ContactExists:  contact != nil,
		EventType:      ev.EventType,
		Direction:      direction,
		RedirectURL:    redirectURL,
		Timestamp:      timestamp,
		CreatedAt:      now,
		Processed:      false,
	}
	if err := s.repo.Insert(ctx, record); err != nil {
		return nil, err
	}

	return &WebhookResult{
		Success:       true,
		RedirectURL:   redirectURL,
		ContactExists: contact != nil,
		ContactID:     contactID,
		CallEventID:   eventID,
		Message:       message,
	}, nil
}

// scope restricts agents to their own events; supervisors and admins see all.
func scope(viewer *users.User, f EventFilter) EventFilter {
	if f.AgentID == "" && viewer != nil && viewer.Role == users.RoleAgent {
		f.AgentID = viewer.ID
	}
	return f
}

func (s *Service) ListEvents(ctx context.Context, viewer *users.User, f EventFilter) ([]CallEvent, error) {
	return s.repo.List(ctx, scope(viewer, f))
}

func (s *Service) Get(ctx context.Context, id string) (*CallEvent, error) {
	return s.repo.FindByID(ctx, id)
}

// MarkProcessed flips an event to processed; repeating it is a no-op by
// overwrite, not an error.
func (s *Service) MarkProcessed(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.MarkProcessed(ctx, id, utils.FormatRFC3339(s.now()))
}

// Pending returns the viewer's unprocessed events, newest first, capped to a
// small page for the notification poll.
func (s *Service) Pending(ctx context.Context, viewer *users.User) ([]CallEvent, error) {
	unprocessed := false
	f := EventFilter{Processed: &unprocessed, Limit: pendingLimit}
	return s.repo.List(ctx, scope(viewer, f))
}

// FreePBXCallID and AttachCall implement the call ledger's EventStore: a
// logged call copies the PBX call id off its originating event and marks the
// event consumed.

func (s *Service) FreePBXCallID(ctx context.Context, eventID string) (*string, bool, error) {
	ev, err := s.repo.FindByID(ctx, eventID)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return ev.FreePBXCallID, true, nil
}

func (s *Service) AttachCall(ctx context.Context, eventID, callID, processedAt string) error {
	return s.repo.AttachCall(ctx, eventID, callID, processedAt)
}
