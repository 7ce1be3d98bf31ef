package pbx

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory repository for tests and early development.
// It mirrors MongoRepo's filter and ordering semantics.
type MemoryRepo struct {
	mu     sync.RWMutex
	events map[string]CallEvent
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{events: make(map[string]CallEvent)}
}

func (r *MemoryRepo) Insert(_ context.Context, ev *CallEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[ev.ID] = *ev
	return nil
}

func (r *MemoryRepo) FindByID(_ context.Context, id string) (*CallEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ev, ok := r.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &ev, nil
}

func (r *MemoryRepo) List(_ context.Context, f EventFilter) ([]CallEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []CallEvent
	for _, ev := range r.events {
		if f.AgentID != "" && (ev.AgentID == nil || *ev.AgentID != f.AgentID) {
			continue
		}
		if f.Processed != nil && ev.Processed != *f.Processed {
			continue
		}
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) MarkProcessed(_ context.Context, id, processedAt string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[id]
	if !ok {
		return ErrNotFound
	}
	ev.Processed = true
	ev.ProcessedAt = &processedAt
	r.events[id] = ev
	return nil
}

func (r *MemoryRepo) AttachCall(_ context.Context, id, callID, processedAt string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[id]
	if !ok {
		return ErrNotFound
	}
	ev.Processed = true
	ev.ProcessedAt = &processedAt
	ev.CallID = &callID
	r.events[id] = ev
	return nil
}
