package contacts

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo is an in-memory repository for tests and early development.
// It mirrors MongoRepo's filter and ordering semantics.
type MemoryRepo struct {
	mu       sync.RWMutex
	contacts map[string]Contact
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{contacts: make(map[string]Contact)}
}

func (r *MemoryRepo) Insert(_ context.Context, c *Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contacts[c.ID] = *c
	return nil
}

func (r *MemoryRepo) FindByID(_ context.Context, id string) (*Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contacts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *MemoryRepo) FindByPhone(_ context.Context, phone string) (*Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.contacts {
		if c.PhoneNumber == phone {
			c := c
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func contains(field *string, search string) bool {
	return field != nil && strings.Contains(strings.ToLower(*field), search)
}

func (r *MemoryRepo) List(_ context.Context, f Filter) ([]Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Contact
	search := strings.ToLower(f.Search)
	for _, c := range r.contacts {
		if search != "" &&
			!contains(c.Name, search) &&
			!strings.Contains(strings.ToLower(c.PhoneNumber), search) &&
			!contains(c.Email, search) &&
			!contains(c.Company, search) {
			continue
		}
		if f.Tag != "" && !hasTag(c.Tags, f.Tag) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	if len(out) > listCap {
		out = out[:listCap]
	}
	return out, nil
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (r *MemoryRepo) Update(_ context.Context, id string, p Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[id]
	if !ok {
		return ErrNotFound
	}
	if p.PhoneNumber != nil {
		c.PhoneNumber = *p.PhoneNumber
	}
	if p.Name != nil {
		name := *p.Name
		c.Name = &name
	}
	if p.Email != nil {
		email := *p.Email
		c.Email = &email
	}
	if p.Address != nil {
		addr := *p.Address
		c.Address = &addr
	}
	if p.Company != nil {
		company := *p.Company
		c.Company = &company
	}
	if p.Tags != nil {
		c.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.UpdatedAt != nil {
		c.UpdatedAt = *p.UpdatedAt
	}
	r.contacts[id] = c
	return nil
}

func (r *MemoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contacts[id]; !ok {
		return ErrNotFound
	}
	delete(r.contacts, id)
	return nil
}

func (r *MemoryRepo) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.contacts)), nil
}
