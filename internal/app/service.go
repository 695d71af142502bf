// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	eventqueue "github.com/okian/podium/internal/adapters/mq/queue"
	repository "github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/domain/award"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/ranking"
	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/pkg/logger"
	"github.com/okian/podium/pkg/metrics"
)

// participantLocks serializes claims per participant. Locks are created on
// first use and kept for the process lifetime; participants are never
// deleted, so the map only grows with the participant count.
type participantLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newParticipantLocks() *participantLocks {
	return &participantLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *participantLocks) get(id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[id] = lock
	}
	return lock
}

// Service coordinates the claim pipeline: point mutation, history append,
// rank recomputation and observer broadcast.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	history repository.History
	engine  *ranking.Engine
	events  eventqueue.Queue
	source  award.Source
	locks   *participantLocks

	// Configuration
	historyLimit int
	queueSize    int
	seedNames    []string

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the participant store backend.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithHistory sets the claim history backend.
func WithHistory(history repository.History) Option {
	return func(s *Service) {
		if history != nil {
			s.history = history
		}
	}
}

// WithQueue sets the broadcast queue consumed by the observer hub.
func WithQueue(q eventqueue.Queue) Option {
	return func(s *Service) {
		if q != nil {
			s.events = q
		}
	}
}

// WithAwardSource sets the point award source used by claims.
func WithAwardSource(source award.Source) Option {
	return func(s *Service) {
		if source != nil {
			s.source = source
		}
	}
}

// WithHistoryLimit sets the maximum number of history entries served per read.
func WithHistoryLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.historyLimit = limit
		}
	}
}

// WithQueueSize sets the capacity of the default broadcast queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithSeedParticipants sets the names registered on first start when the
// store is empty.
func WithSeedParticipants(names []string) Option {
	return func(s *Service) {
		s.seedNames = names
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		historyLimit: 100,
		queueSize:    1024,
		locks:        newParticipantLocks(),
		logger:       nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components and seeds the roster.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting leaderboard service...")

	// Initialize components not supplied via options
	if s.store == nil {
		mem := repository.NewMemoryStore()
		s.store = mem
		if s.history == nil {
			s.history = mem
		}
		s.logger.Info(ctx, "using in-memory store")
	}
	if s.history == nil {
		s.history = repository.NewMemoryStore()
	}
	if s.events == nil {
		s.events = eventqueue.NewInMemoryQueue(
			eventqueue.WithCapacity(s.queueSize),
		)
	}
	if s.source == nil {
		s.source = award.NewRandomSource()
	}
	s.engine = ranking.NewEngine(s.store)

	if err := s.seed(ctx); err != nil {
		return err
	}

	if _, err := s.engine.Recompute(ctx); err != nil {
		return err
	}

	s.started = true
	s.logger.Info(ctx, "leaderboard service started",
		logger.Int("participants", s.store.Count(ctx)),
		logger.Int("historyLimit", s.historyLimit),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping leaderboard service...")

	if s.events != nil {
		_ = s.events.Close()
	}
	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "leaderboard service stopped")
}

// seed registers the configured starter roster when the store is empty.
func (s *Service) seed(ctx context.Context) error {
	if len(s.seedNames) == 0 || s.store.Count(ctx) > 0 {
		return nil
	}

	for _, name := range s.seedNames {
		if _, err := s.store.Insert(ctx, name); err != nil {
			return err
		}
	}
	s.logger.Info(ctx, "seeded starter participants",
		logger.Int("count", len(s.seedNames)),
	)
	return nil
}

// Claim awards a random point delta to the participant, records the claim
// in history, recomputes ranks and broadcasts the result to observers.
//
// Claims against the same participant are serialized; claims against
// different participants run concurrently. Cancellation is honored only up
// to the point commit. Once the total is written the pipeline runs to
// completion regardless of the caller.
func (s *Service) Claim(ctx context.Context, id string) (model.ClaimResult, error) {
	start := time.Now()

	lock := s.locks.get(id)
	lock.Lock()

	p, err := s.store.Get(ctx, id)
	if err != nil {
		lock.Unlock()
		metrics.RecordClaimFailed()
		return model.ClaimResult{}, err
	}

	if err := ctx.Err(); err != nil {
		lock.Unlock()
		metrics.RecordClaimFailed()
		return model.ClaimResult{}, err
	}

	delta := s.source.Draw()
	total := p.Points + delta

	if err := s.store.UpdatePoints(ctx, p.ID, total); err != nil {
		lock.Unlock()
		metrics.RecordClaimFailed()
		return model.ClaimResult{}, err
	}
	lock.Unlock()

	// The total is committed; detach from the caller's cancellation so the
	// history entry, recompute and broadcast always happen.
	ctx = context.WithoutCancel(ctx)

	entry := model.HistoryEntry{
		ParticipantID:   p.ID,
		ParticipantName: p.Name,
		PointsGained:    delta,
		TotalPoints:     total,
	}
	if err := s.history.Append(ctx, entry); err != nil {
		metrics.RecordClaimFailed()
		return model.ClaimResult{}, err
	}

	snapshot, err := s.engine.Recompute(ctx)
	if err != nil {
		metrics.RecordClaimFailed()
		return model.ClaimResult{}, err
	}

	event := model.RankingEvent{
		Type:     model.EventRankingUpdate,
		Rankings: snapshot,
		ClaimedBy: &types.ClaimInfo{
			ParticipantID: p.ID,
			Name:          p.Name,
			PointsGained:  delta,
			TotalPoints:   total,
		},
	}
	if !s.events.Enqueue(ctx, event) {
		s.logger.Warn(ctx, "ranking broadcast dropped",
			logger.String("participantID", p.ID),
		)
	}

	metrics.RecordClaimProcessed()
	metrics.RecordPointsAwarded(delta)
	metrics.RecordClaimLatency(float64(time.Since(start).Milliseconds()))

	return model.ClaimResult{
		ParticipantID: p.ID,
		Name:          p.Name,
		PointsGained:  delta,
		TotalPoints:   total,
	}, nil
}

// Register adds a new participant with zero points and places them in the
// ranking. Registration is not broadcast; observers see the newcomer with
// the next claim-triggered update.
func (s *Service) Register(ctx context.Context, name string) (model.Participant, error) {
	p, err := s.store.Insert(ctx, name)
	if err != nil {
		return model.Participant{}, err
	}

	snapshot, err := s.engine.Recompute(ctx)
	if err != nil {
		return model.Participant{}, err
	}
	for _, entry := range snapshot {
		if entry.ID == p.ID {
			p.Rank = entry.Rank
			break
		}
	}

	s.logger.Info(ctx, "participant registered",
		logger.String("id", p.ID),
		logger.String("name", p.Name),
		logger.Int("rank", p.Rank),
	)
	return p, nil
}

// Ranking returns the current ranking snapshot, ordered by rank ascending.
func (s *Service) Ranking(ctx context.Context) ([]types.RankedParticipant, error) {
	return s.engine.Snapshot(ctx)
}

// Participant returns one participant with their current derived rank.
func (s *Service) Participant(ctx context.Context, id string) (model.Participant, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return model.Participant{}, err
	}

	snapshot, err := s.engine.Snapshot(ctx)
	if err != nil {
		return model.Participant{}, err
	}
	for _, entry := range snapshot {
		if entry.ID == p.ID {
			p.Rank = entry.Rank
			break
		}
	}
	return p, nil
}

// History returns recent claims, newest first. A non-positive limit falls
// back to the configured default; larger requests are capped to it.
func (s *Service) History(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	if limit <= 0 || limit > s.historyLimit {
		limit = s.historyLimit
	}

	entries, err := s.history.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Reset zeroes every participant's points, clears the claim history and
// broadcasts a reset notice carrying the zeroed ranking.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.store.ResetPoints(ctx); err != nil {
		return err
	}
	if err := s.history.Clear(ctx); err != nil {
		return err
	}

	snapshot, err := s.engine.Recompute(ctx)
	if err != nil {
		return err
	}

	event := model.RankingEvent{
		Type:     model.EventReset,
		Rankings: snapshot,
	}
	if !s.events.Enqueue(ctx, event) {
		s.logger.Warn(ctx, "reset broadcast dropped")
	}

	metrics.UpdateHistorySize(0)
	s.logger.Info(ctx, "leaderboard reset",
		logger.Int("participants", len(snapshot)),
	)
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":      s.started,
		"historyLimit": s.historyLimit,
	}

	if s.started {
		totalParticipants := s.store.Count(ctx)
		stats["queueLength"] = s.events.Len(ctx)
		stats["totalParticipants"] = totalParticipants

		metrics.UpdateTotalParticipants(totalParticipants)
	}

	return stats
}
