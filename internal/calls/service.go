package calls

import (
	"context"
	"errors"
	"time"

	"helpline-crm/internal/contacts"
	"helpline-crm/pkg/utils"

	"github.com/google/uuid"
)

// ContactStore is the slice of the contact repository call logging needs for
// resolution and auto-creation.
type ContactStore interface {
	FindByID(ctx context.Context, id string) (*contacts.Contact, error)
	FindByPhone(ctx context.Context, phone string) (*contacts.Contact, error)
	Insert(ctx context.Context, c *contacts.Contact) error
}

// EventStore links logged calls back to the PBX call events that triggered
// them.
type EventStore interface {
	// FreePBXCallID returns the PBX call id recorded on the event, or
	// ok=false when the event does not exist.
	FreePBXCallID(ctx context.Context, eventID string) (*string, bool, error)
	// AttachCall marks the event processed and back-references the call.
	AttachCall(ctx context.Context, eventID, callID, processedAt string) error
}

// CreateParams are the caller-supplied fields for a new call record.
type CreateParams struct {
	CallerNumber    string
	Duration        int
	Notes           *string
	CallType        string
	Priority        string
	Status          string
	ResolutionNotes *string
	ContactID       string
}

// Service implements the call ledger.
type Service struct {
	repo        Repository
	contactRepo ContactStore
	events      EventStore

	Now func() time.Time
}

func NewService(repo Repository, contactRepo ContactStore, events EventStore) *Service {
	return &Service{repo: repo, contactRepo: contactRepo, events: events}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) List(ctx context.Context, f Filter) ([]Call, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id string) (*Call, error) {
	return s.repo.FindByID(ctx, id)
}

// resolveContact finds the contact for a new call: explicit contact_id first,
// then caller number, else a bare contact is auto-created. The auto-create
// path can race with an identical concurrent request and produce a duplicate
// contact; there are no multi-document transactions here and the compound
// write is accepted as-is (see DESIGN.md).
func (s *Service) resolveContact(ctx context.Context, contactID, callerNumber string) (*contacts.Contact, error) {
	if contactID != "" {
		c, err := s.contactRepo.FindByID(ctx, contactID)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, contacts.ErrNotFound) {
			return nil, err
		}
	}

	c, err := s.contactRepo.FindByPhone(ctx, callerNumber)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, contacts.ErrNotFound) {
		return nil, err
	}

	now := utils.FormatRFC3339(s.now())
	c = &contacts.Contact{
		ID:          uuid.NewString(),
		PhoneNumber: callerNumber,
		Tags:        []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.contactRepo.Insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Create logs a call, denormalizing agent identity and contact name onto the
// record. When callEventID names a known PBX event, its freepbx_call_id is
// copied over and the event is marked processed; an unknown id is ignored.
func (s *Service) Create(ctx context.Context, agentID, agentName string, params CreateParams, callEventID string) (*Call, error) {
	contact, err := s.resolveContact(ctx, params.ContactID, params.CallerNumber)
	if err != nil {
		return nil, err
	}

	now := utils.FormatRFC3339(s.now())
	call := &Call{
		ID:              uuid.NewString(),
		ContactID:       contact.ID,
		AgentID:         agentID,
		AgentName:       agentName,
		CallerNumber:    params.CallerNumber,
		ContactName:     contact.Name,
		Duration:        params.Duration,
		Notes:           params.Notes,
		CallType:        params.CallType,
		Priority:        params.Priority,
		Status:          params.Status,
		ResolutionNotes: params.ResolutionNotes,
		Timestamp:       now,
	}

	if callEventID != "" && s.events != nil {
		pbxID, ok, err := s.events.FreePBXCallID(ctx, callEventID)
		if err != nil {
			return nil, err
		}
		if ok {
			call.FreePBXCallID = pbxID
			if err := s.events.AttachCall(ctx, callEventID, call.ID, now); err != nil {
				return nil, err
			}
		}
	}

	if err := s.repo.Insert(ctx, call); err != nil {
		return nil, err
	}
	return call, nil
}

func (s *Service) Update(ctx context.Context, id string, p Patch) (*Call, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, p); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// Stats aggregates the ledger. "Today" starts at UTC midnight; "this week"
// starts at the most recent Monday midnight UTC.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	now := s.now().UTC()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	weekStart := todayStart.AddDate(0, 0, -daysSinceMonday)

	var out Stats
	var err error

	if out.TotalCalls, err = s.repo.Count(ctx); err != nil {
		return Stats{}, err
	}
	if out.CallsToday, err = s.repo.CountSince(ctx, utils.FormatRFC3339(todayStart)); err != nil {
		return Stats{}, err
	}
	if out.CallsThisWeek, err = s.repo.CountSince(ctx, utils.FormatRFC3339(weekStart)); err != nil {
		return Stats{}, err
	}
	if out.CallsByType, err = s.repo.GroupCount(ctx, "call_type"); err != nil {
		return Stats{}, err
	}
	if out.CallsByPriority, err = s.repo.GroupCount(ctx, "priority"); err != nil {
		return Stats{}, err
	}
	if out.CallsByStatus, err = s.repo.GroupCount(ctx, "status"); err != nil {
		return Stats{}, err
	}
	if out.AvgDuration, err = s.repo.AverageDuration(ctx); err != nil {
		return Stats{}, err
	}
	return out, nil
}
