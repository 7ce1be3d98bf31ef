package calls

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo is an in-memory repository for tests and early development.
// It mirrors MongoRepo's filter, ordering and aggregation semantics.
type MemoryRepo struct {
	mu    sync.RWMutex
	calls map[string]Call
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{calls: make(map[string]Call)}
}

func (r *MemoryRepo) Insert(_ context.Context, call *Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[call.ID] = *call
	return nil
}

func (r *MemoryRepo) FindByID(_ context.Context, id string) (*Call, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	call, ok := r.calls[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &call, nil
}

func matches(call Call, f Filter) bool {
	if f.Search != "" {
		search := strings.ToLower(f.Search)
		name := ""
		if call.ContactName != nil {
			name = *call.ContactName
		}
		notes := ""
		if call.Notes != nil {
			notes = *call.Notes
		}
		if !strings.Contains(strings.ToLower(call.CallerNumber), search) &&
			!strings.Contains(strings.ToLower(name), search) &&
			!strings.Contains(strings.ToLower(notes), search) {
			return false
		}
	}
	if f.CallType != "" && call.CallType != f.CallType {
		return false
	}
	if f.Priority != "" && call.Priority != f.Priority {
		return false
	}
	if f.Status != "" && call.Status != f.Status {
		return false
	}
	if f.DateFrom != "" && call.Timestamp < f.DateFrom {
		return false
	}
	if f.DateTo != "" && call.Timestamp > f.DateTo {
		return false
	}
	return true
}

func (r *MemoryRepo) List(_ context.Context, f Filter) ([]Call, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Call
	for _, call := range r.calls {
		if matches(call, f) {
			out = append(out, call)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })

	limit := f.Limit
	if limit <= 0 {
		limit = listCap
	}
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) Update(_ context.Context, id string, p Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	call, ok := r.calls[id]
	if !ok {
		return ErrNotFound
	}
	if p.Duration != nil {
		call.Duration = *p.Duration
	}
	if p.Notes != nil {
		notes := *p.Notes
		call.Notes = &notes
	}
	if p.CallType != nil {
		call.CallType = *p.CallType
	}
	if p.Priority != nil {
		call.Priority = *p.Priority
	}
	if p.Status != nil {
		call.Status = *p.Status
	}
	if p.ResolutionNotes != nil {
		rn := *p.ResolutionNotes
		call.ResolutionNotes = &rn
	}
	r.calls[id] = call
	return nil
}

func (r *MemoryRepo) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.calls)), nil
}

func (r *MemoryRepo) CountSince(_ context.Context, ts string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, call := range r.calls {
		if call.Timestamp >= ts {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepo) GroupCount(_ context.Context, field string) (map[string]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]int64)
	for _, call := range r.calls {
		switch field {
		case "call_type":
			out[call.CallType]++
		case "priority":
			out[call.Priority]++
		case "status":
			out[call.Status]++
		}
	}
	return out, nil
}

func (r *MemoryRepo) AverageDuration(_ context.Context) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.calls) == 0 {
		return 0, nil
	}
	var total int
	for _, call := range r.calls {
		total += call.Duration
	}
	return float64(total) / float64(len(r.calls)), nil
}
