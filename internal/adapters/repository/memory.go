package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/pkg/metrics"
)

// MemoryStore implements Store and History in process memory.
// The participant set is small and fully re-sorted on every claim, so a map
// plus a registration-order slice is all the indexing this store needs.
type MemoryStore struct {
	mu           sync.RWMutex
	participants map[string]*model.Participant
	order        []string // participant ids in registration order
	names        map[string]string
	nextSeq      int64

	histMu  sync.RWMutex
	history []model.HistoryEntry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		participants: make(map[string]*model.Participant),
		names:        make(map[string]string),
	}
}

// List returns all participants in registration order.
func (s *MemoryStore) List(ctx context.Context) ([]model.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Participant, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.participants[id])
	}
	return out, nil
}

// Get returns one participant by id.
func (s *MemoryStore) Get(ctx context.Context, id string) (model.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.participants[id]
	if !ok {
		return model.Participant{}, ErrNotFound
	}
	return *p, nil
}

// Insert registers a new participant with zero points.
func (s *MemoryStore) Insert(ctx context.Context, name string) (model.Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Participant{}, ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.names[name]; exists {
		return model.Participant{}, ErrDuplicateName
	}

	s.nextSeq++
	p := &model.Participant{
		ID:        uuid.NewString(),
		Name:      name,
		Points:    0,
		Rank:      0,
		Seq:       s.nextSeq,
		CreatedAt: time.Now().UTC(),
	}
	s.participants[p.ID] = p
	s.order = append(s.order, p.ID)
	s.names[name] = p.ID

	metrics.UpdateTotalParticipants(len(s.order))
	return *p, nil
}

// UpdatePoints sets a participant's point total.
func (s *MemoryStore) UpdatePoints(ctx context.Context, id string, total int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.participants[id]
	if !ok {
		return ErrNotFound
	}
	p.Points = total
	return nil
}

// UpdateRank sets a participant's rank.
func (s *MemoryStore) UpdateRank(ctx context.Context, id string, rank int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.participants[id]
	if !ok {
		return ErrNotFound
	}
	p.Rank = rank
	return nil
}

// ResetPoints zeroes every participant's point total.
func (s *MemoryStore) ResetPoints(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.participants {
		p.Points = 0
	}
	return nil
}

// Count returns the number of registered participants.
func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Append records a completed claim.
func (s *MemoryStore) Append(ctx context.Context, entry model.HistoryEntry) error {
	s.histMu.Lock()
	defer s.histMu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	s.history = append(s.history, entry)
	metrics.UpdateHistorySize(len(s.history))
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *MemoryStore) Recent(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}

	s.histMu.RLock()
	defer s.histMu.RUnlock()

	n := len(s.history)
	if limit > n {
		limit = n
	}
	out := make([]model.HistoryEntry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.history[i])
	}
	return out, nil
}

// Clear removes all history entries.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.histMu.Lock()
	defer s.histMu.Unlock()

	s.history = nil
	metrics.UpdateHistorySize(0)
	return nil
}
