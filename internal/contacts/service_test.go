package contacts

import (
	"context"
	"errors"
	"testing"
	"time"
)

func str(s string) *string { return &s }

func newTestService() (*Service, *MemoryRepo) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	svc.Now = func() time.Time { return time.Unix(1700000000, 0).UTC() }
	return svc, repo
}

func TestCreateAndGetByPhone(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateParams{
		PhoneNumber: "+15550123456",
		Name:        str("Alice"),
		Company:     str("Acme"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.CreatedAt != "2023-11-14T22:13:20Z" || created.UpdatedAt != created.CreatedAt {
		t.Fatalf("timestamps: %+v", created)
	}
	if created.Tags == nil {
		t.Fatal("tags should default to an empty slice")
	}

	got, found, err := svc.GetByPhone(ctx, "+15550123456")
	if err != nil {
		t.Fatalf("GetByPhone: %v", err)
	}
	if !found || got.ID != created.ID {
		t.Fatalf("lookup: found=%v got=%+v", found, got)
	}

	// A miss is a result, not an error.
	_, found, err = svc.GetByPhone(ctx, "+10000000000")
	if err != nil {
		t.Fatalf("GetByPhone miss: %v", err)
	}
	if found {
		t.Fatal("expected miss")
	}
}

func TestCreateDuplicatePhone(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateParams{PhoneNumber: "5550100"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, CreateParams{PhoneNumber: "5550100", Name: str("Dup")}); !errors.Is(err, ErrPhoneTaken) {
		t.Fatalf("expected ErrPhoneTaken, got %v", err)
	}

	n, _ := repo.Count(ctx)
	if n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
}

func TestUpdatePartial(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateParams{PhoneNumber: "5550100", Name: str("Alice"), Email: str("alice@example.com")})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	svc.Now = func() time.Time { return time.Unix(1700090000, 0).UTC() }

	got, err := svc.Update(ctx, created.ID, Patch{Company: str("Acme")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Company == nil || *got.Company != "Acme" {
		t.Fatalf("company = %v", got.Company)
	}
	if got.Name == nil || *got.Name != "Alice" || got.Email == nil || *got.Email != "alice@example.com" {
		t.Fatalf("untouched fields changed: %+v", got)
	}
	if got.UpdatedAt != "2023-11-15T23:13:20Z" || got.CreatedAt != created.CreatedAt {
		t.Fatalf("timestamps: created=%s updated=%s", got.CreatedAt, got.UpdatedAt)
	}

	if _, err := svc.Update(ctx, "missing", Patch{Company: str("x")}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListSearchAndTag(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	seed := []CreateParams{
		{PhoneNumber: "5550100", Name: str("Alice"), Company: str("Acme Corp"), Tags: []string{"vip"}},
		{PhoneNumber: "5550101", Name: str("Bob"), Company: str("Beta LLC"), Tags: []string{"vip", "billing"}},
		{PhoneNumber: "5550102", Name: str("Carol")},
	}
	for _, p := range seed {
		if _, err := svc.Create(ctx, p); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := svc.List(ctx, Filter{Search: "acme"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || *got[0].Name != "Alice" {
		t.Fatalf("search: %+v", got)
	}

	got, err = svc.List(ctx, Filter{Tag: "vip"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("tag filter: %+v", got)
	}

	// Tag matching is exact, not substring.
	got, err = svc.List(ctx, Filter{Tag: "vi"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("partial tag matched: %+v", got)
	}
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateParams{PhoneNumber: "5550100"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
