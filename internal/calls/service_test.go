package calls

import (
	"context"
	"errors"
	"testing"
	"time"

	"helpline-crm/internal/contacts"
)

func str(s string) *string { return &s }

// stubEventStore fakes the PBX event linkage.
type stubEventStore struct {
	pbxIDs   map[string]*string
	attached map[string]string // event id -> call id
}

func newStubEventStore() *stubEventStore {
	return &stubEventStore{pbxIDs: make(map[string]*string), attached: make(map[string]string)}
}

func (s *stubEventStore) FreePBXCallID(_ context.Context, eventID string) (*string, bool, error) {
	id, ok := s.pbxIDs[eventID]
	return id, ok, nil
}

func (s *stubEventStore) AttachCall(_ context.Context, eventID, callID, _ string) error {
	s.attached[eventID] = callID
	return nil
}

func newTestService(t *testing.T) (*Service, *MemoryRepo, *contacts.MemoryRepo, *stubEventStore) {
	t.Helper()
	repo := NewMemoryRepo()
	contactRepo := contacts.NewMemoryRepo()
	events := newStubEventStore()
	svc := NewService(repo, contactRepo, events)
	svc.Now = func() time.Time { return time.Unix(1700000000, 0).UTC() } // 2023-11-14T22:13:20Z
	return svc, repo, contactRepo, events
}

func TestCreateAutoCreatesContact(t *testing.T) {
	svc, _, contactRepo, _ := newTestService(t)
	ctx := context.Background()

	call, err := svc.Create(ctx, "agent-1", "Agent One", CreateParams{
		CallerNumber: "5550199",
		Duration:     120,
		CallType:     "inquiry",
		Priority:     "normal",
		Status:       "completed",
	}, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	n, err := contactRepo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Fatalf("contact count = %d, want exactly one auto-created", n)
	}

	c, err := contactRepo.FindByPhone(ctx, "5550199")
	if err != nil {
		t.Fatalf("FindByPhone: %v", err)
	}
	if call.ContactID != c.ID {
		t.Fatalf("call contact_id = %s, want %s", call.ContactID, c.ID)
	}
	if c.Name != nil {
		t.Fatalf("auto-created contact should be bare, got name %q", *c.Name)
	}
	if call.ContactName != nil {
		t.Fatalf("contact_name = %v, want nil", call.ContactName)
	}
}

func TestCreateWithExistingContact(t *testing.T) {
	svc, _, contactRepo, _ := newTestService(t)
	ctx := context.Background()

	c := &contacts.Contact{
		ID: "c1", PhoneNumber: "5550100", Name: str("Alice"),
		Tags: []string{}, CreatedAt: "2023-01-01T00:00:00Z", UpdatedAt: "2023-01-01T00:00:00Z",
	}
	if err := contactRepo.Insert(ctx, c); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	call, err := svc.Create(ctx, "agent-1", "Agent One", CreateParams{
		CallerNumber: "5550100",
		CallType:     "complaint",
		Priority:     "high",
		Status:       "in_progress",
		ContactID:    "c1",
	}, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if call.ContactID != "c1" {
		t.Fatalf("contact_id = %s, want c1", call.ContactID)
	}
	if call.ContactName == nil || *call.ContactName != "Alice" {
		t.Fatalf("contact_name = %v, want Alice", call.ContactName)
	}
	if call.AgentName != "Agent One" || call.Timestamp != "2023-11-14T22:13:20Z" {
		t.Fatalf("unexpected call: %+v", call)
	}

	n, _ := contactRepo.Count(ctx)
	if n != 1 {
		t.Fatalf("contact count = %d, want 1 (no duplicate)", n)
	}
}

func TestCreateLinksCallEvent(t *testing.T) {
	svc, _, _, events := newTestService(t)
	ctx := context.Background()

	events.pbxIDs["ev1"] = str("PBX-42")

	call, err := svc.Create(ctx, "agent-1", "Agent One", CreateParams{
		CallerNumber: "5550100",
		CallType:     "inquiry",
		Priority:     "normal",
		Status:       "completed",
	}, "ev1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if call.FreePBXCallID == nil || *call.FreePBXCallID != "PBX-42" {
		t.Fatalf("freepbx_call_id = %v, want PBX-42", call.FreePBXCallID)
	}
	if events.attached["ev1"] != call.ID {
		t.Fatalf("event not attached to call: %+v", events.attached)
	}
}

func TestCreateIgnoresUnknownCallEvent(t *testing.T) {
	svc, _, _, events := newTestService(t)
	ctx := context.Background()

	call, err := svc.Create(ctx, "agent-1", "Agent One", CreateParams{
		CallerNumber: "5550100",
		CallType:     "inquiry",
		Priority:     "normal",
		Status:       "completed",
	}, "no-such-event")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if call.FreePBXCallID != nil {
		t.Fatalf("freepbx_call_id = %v, want nil", call.FreePBXCallID)
	}
	if len(events.attached) != 0 {
		t.Fatalf("unexpected attach: %+v", events.attached)
	}
}

func TestUpdatePartial(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	seed := Call{
		ID: "call-1", ContactID: "c1", AgentID: "agent-1", AgentName: "Agent One",
		CallerNumber: "5550100", Duration: 60, Notes: str("first contact"),
		CallType: "inquiry", Priority: "normal", Status: "in_progress",
		Timestamp: "2023-11-14T10:00:00Z",
	}
	if err := repo.Insert(ctx, &seed); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	status := "completed"
	got, err := svc.Update(ctx, "call-1", Patch{Status: &status})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Status != "completed" {
		t.Fatalf("status = %s", got.Status)
	}
	if got.Notes == nil || *got.Notes != "first contact" || got.Duration != 60 {
		t.Fatalf("untouched fields changed: %+v", got)
	}

	if _, err := svc.Update(ctx, "missing", Patch{Status: &status}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStatsEmptyLedger(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	got, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if got.TotalCalls != 0 || got.AvgDuration != 0 {
		t.Fatalf("empty ledger stats: %+v", got)
	}
}

func TestStatsWindows(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	// Fixed "now" is Tuesday 2023-11-14; today starts at its UTC midnight
	// and the week at Monday 2023-11-13.
	seed := []Call{
		{ID: "c1", CallerNumber: "1", Duration: 120, CallType: "inquiry", Priority: "normal", Status: "completed", Timestamp: "2023-11-14T10:00:00Z"},
		{ID: "c2", CallerNumber: "2", Duration: 60, CallType: "complaint", Priority: "high", Status: "completed", Timestamp: "2023-11-13T09:00:00Z"},
		{ID: "c3", CallerNumber: "3", Duration: 30, CallType: "inquiry", Priority: "normal", Status: "follow_up", Timestamp: "2023-11-10T15:00:00Z"},
	}
	for i := range seed {
		if err := repo.Insert(ctx, &seed[i]); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	got, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if got.TotalCalls != 3 {
		t.Fatalf("total = %d, want 3", got.TotalCalls)
	}
	if got.CallsToday != 1 {
		t.Fatalf("today = %d, want 1", got.CallsToday)
	}
	if got.CallsThisWeek != 2 {
		t.Fatalf("this week = %d, want 2", got.CallsThisWeek)
	}
	if got.CallsByType["inquiry"] != 2 || got.CallsByType["complaint"] != 1 {
		t.Fatalf("by type: %+v", got.CallsByType)
	}
	if got.CallsByStatus["completed"] != 2 || got.CallsByStatus["follow_up"] != 1 {
		t.Fatalf("by status: %+v", got.CallsByStatus)
	}
	if got.AvgDuration != 70 {
		t.Fatalf("avg duration = %v, want 70", got.AvgDuration)
	}
}
