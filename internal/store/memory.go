package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps records in insertion order in process memory. Records are
// cloned on the way in and out so callers never share stored state.
type MemoryStore[T Record[T]] struct {
	mu      sync.RWMutex
	records []T
	opts    options
}

// NewMemoryStore returns an empty store.
func NewMemoryStore[T Record[T]](opts ...Option) *MemoryStore[T] {
	return &MemoryStore[T]{opts: buildOptions(opts)}
}

func (s *MemoryStore[T]) Insert(_ context.Context, rec T) (string, error) {
	now := s.opts.now()
	stored := rec.Clone()
	stored.AssignID(uuid.NewString())
	stored.MarkCreated(now)

	s.mu.Lock()
	s.records = append(s.records, stored)
	s.mu.Unlock()

	// Reflect the generated fields back to the caller's copy.
	rec.AssignID(stored.GetID())
	rec.MarkCreated(now)
	return stored.GetID(), nil
}

func (s *MemoryStore[T]) Get(_ context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.records[i].Clone(), nil
	}
	var zero T
	return zero, ErrNotFound
}

func (s *MemoryStore[T]) List(_ context.Context, q Query) ([]T, error) {
	s.mu.RLock()
	out := make([]T, 0, len(s.records))
	for _, rec := range s.records {
		if matchesAll(rec, q.Filters) {
			out = append(out, rec.Clone())
		}
	}
	s.mu.RUnlock()

	if len(q.Order) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			for _, o := range q.Order {
				a, b := out[i].Attr(o.Column), out[j].Attr(o.Column)
				if a == b {
					continue
				}
				if o.Desc {
					return a > b
				}
				return a < b
			}
			return false
		})
	}
	return out, nil
}

func (s *MemoryStore[T]) Update(_ context.Context, id string, mutate func(T) error) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	i := s.indexOf(id)
	if i < 0 {
		return zero, ErrNotFound
	}

	draft := s.records[i].Clone()
	if err := mutate(draft); err != nil {
		return zero, err
	}
	draft.AssignID(id)
	draft.MarkUpdated(s.opts.now())
	s.records[i] = draft
	return draft.Clone(), nil
}

func (s *MemoryStore[T]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
	return nil
}

func (s *MemoryStore[T]) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// indexOf must be called with the lock held.
func (s *MemoryStore[T]) indexOf(id string) int {
	for i, rec := range s.records {
		if rec.GetID() == id {
			return i
		}
	}
	return -1
}

func matchesAll[T Record[T]](rec T, filters []Filter) bool {
	for _, f := range filters {
		if f.Value == "" {
			continue
		}
		if !f.matches(rec.Attr(f.Column)) {
			return false
		}
	}
	return true
}
