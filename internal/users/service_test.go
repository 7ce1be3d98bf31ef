package users_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"helpline-crm/internal/calls"
	"helpline-crm/internal/contacts"
	"helpline-crm/internal/users"
)

func newTestService(t *testing.T) (*users.Service, *users.MemoryRepo, *calls.MemoryRepo) {
	t.Helper()
	repo := users.NewMemoryRepo()
	callRepo := calls.NewMemoryRepo()
	svc := users.NewService(repo, contacts.NewMemoryRepo(), callRepo)
	svc.Now = func() time.Time { return time.Unix(1700000000, 0).UTC() }
	return svc, repo, callRepo
}

func seedAdmin(t *testing.T, svc *users.Service) *users.User {
	t.Helper()
	u, err := svc.Create(context.Background(), "admin@example.com", "secret1", "Admin", users.RoleAdmin)
	if err != nil {
		t.Fatalf("Create admin: %v", err)
	}
	return u
}

func TestCreateUser(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, "agent@example.com", "secret1", "Agent", users.RoleAgent)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Status != users.StatusActive || u.LastLogin != nil {
		t.Fatalf("unexpected user: %+v", u)
	}
	if !users.CheckPassword("secret1", u.PasswordHash) {
		t.Fatal("stored hash does not verify")
	}

	if _, err := svc.Create(ctx, "agent@example.com", "other", "Dup", users.RoleAgent); !errors.Is(err, users.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if _, err := svc.Create(ctx, "x@example.com", "secret1", "X", users.Role("boss")); err == nil {
		t.Fatal("expected invalid role to fail")
	}
}

func TestUpdateSelfProtection(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	admin := seedAdmin(t, svc)

	agent := users.RoleAgent
	if _, err := svc.Update(ctx, admin.ID, admin.ID, users.Patch{Role: &agent}); !errors.Is(err, users.ErrSelfRoleChange) {
		t.Fatalf("expected ErrSelfRoleChange, got %v", err)
	}
	inactive := users.StatusInactive
	if _, err := svc.Update(ctx, admin.ID, admin.ID, users.Patch{Status: &inactive}); !errors.Is(err, users.ErrSelfDeactivate) {
		t.Fatalf("expected ErrSelfDeactivate, got %v", err)
	}

	// Rejected edits must leave the account untouched.
	stored, err := repo.FindByID(ctx, admin.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.Role != users.RoleAdmin || stored.Status != users.StatusActive {
		t.Fatalf("account changed: %+v", stored)
	}

	// Re-asserting the admin role on yourself is allowed.
	adminRole := users.RoleAdmin
	if _, err := svc.Update(ctx, admin.ID, admin.ID, users.Patch{Role: &adminRole}); err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func TestUpdateOtherUser(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	admin := seedAdmin(t, svc)

	other, err := svc.Create(ctx, "agent@example.com", "secret1", "Agent", users.RoleAgent)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	sup := users.RoleSupervisor
	ext := "1001"
	got, err := svc.Update(ctx, admin.ID, other.ID, users.Patch{Role: &sup, Extension: &ext})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Role != users.RoleSupervisor || got.Extension != "1001" {
		t.Fatalf("update not applied: %+v", got)
	}
	if got.Name != "Agent" {
		t.Fatalf("untouched field changed: %+v", got)
	}
}

func TestResetPassword(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, "agent@example.com", "secret1", "Agent", users.RoleAgent)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Existence is checked before password policy.
	if err := svc.ResetPassword(ctx, "missing", "x"); !errors.Is(err, users.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.ResetPassword(ctx, u.ID, "short"); !errors.Is(err, users.ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}

	if err := svc.ResetPassword(ctx, u.ID, "newsecret"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	stored, err := repo.FindByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !users.CheckPassword("newsecret", stored.PasswordHash) {
		t.Fatal("new password does not verify")
	}
	if users.CheckPassword("secret1", stored.PasswordHash) {
		t.Fatal("old password still verifies")
	}
}

func TestDeleteSelfProtection(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	admin := seedAdmin(t, svc)

	if err := svc.Delete(ctx, admin.ID, admin.ID); !errors.Is(err, users.ErrSelfDelete) {
		t.Fatalf("expected ErrSelfDelete, got %v", err)
	}
	if _, err := repo.FindByID(ctx, admin.ID); err != nil {
		t.Fatalf("account deleted despite guard: %v", err)
	}

	other, err := svc.Create(ctx, "agent@example.com", "secret1", "Agent", users.RoleAgent)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(ctx, admin.ID, other.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.FindByID(ctx, other.ID); !errors.Is(err, users.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStats(t *testing.T) {
	svc, repo, callRepo := newTestService(t)
	ctx := context.Background()

	seedAdmin(t, svc)
	sup, err := svc.Create(ctx, "sup@example.com", "secret1", "Sup", users.RoleSupervisor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, "agent@example.com", "secret1", "Agent", users.RoleAgent); err != nil {
		t.Fatalf("Create: %v", err)
	}
	inactive := users.StatusInactive
	if err := repo.Update(ctx, sup.ID, users.Patch{Status: &inactive}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	// Fixed "now" is 2023-11-14T22:13:20Z; only one call falls in the last
	// seven days.
	ledger := []calls.Call{
		{ID: "c1", CallerNumber: "1", CallType: "inquiry", Priority: "normal", Status: "completed", Timestamp: "2023-11-12T10:00:00Z"},
		{ID: "c2", CallerNumber: "2", CallType: "inquiry", Priority: "normal", Status: "completed", Timestamp: "2023-10-01T10:00:00Z"},
	}
	for i := range ledger {
		if err := callRepo.Insert(ctx, &ledger[i]); err != nil {
			t.Fatalf("Insert call: %v", err)
		}
	}

	got, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if got.Users.Total != 3 || got.Users.Active != 2 {
		t.Fatalf("user stats: %+v", got.Users)
	}
	if got.Users.ByRole["admin"] != 1 || got.Users.ByRole["supervisor"] != 1 || got.Users.ByRole["agent"] != 1 {
		t.Fatalf("by role: %+v", got.Users.ByRole)
	}
	if got.Calls.Total != 2 || got.Calls.Last7Days != 1 {
		t.Fatalf("call stats: %+v", got.Calls)
	}
}
