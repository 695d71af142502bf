// Package ranking computes and persists dense participant ranks.
package ranking

import (
	"context"
	"sort"
	"time"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/pkg/metrics"
)

// Store is the slice of the participant store the engine needs.
type Store interface {
	List(ctx context.Context) ([]model.Participant, error)
	UpdateRank(ctx context.Context, id string, rank int) error
}

// Engine derives rank from point totals and writes it back to the store.
// It performs no network I/O of its own; store failures bubble unchanged.
type Engine struct {
	store Store
}

// NewEngine creates a ranking engine over the given store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Snapshot derives the current ranking without persisting it: participants
// ordered by points descending, registration order breaking ties (earliest
// registered ranks higher). The tie-break is a total order, so two
// participants never share a rank number.
func (e *Engine) Snapshot(ctx context.Context) ([]types.RankedParticipant, error) {
	participants, err := e.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return rank(participants), nil
}

// Recompute derives the current ranking and persists dense 1..N ranks back
// to the store.
func (e *Engine) Recompute(ctx context.Context) ([]types.RankedParticipant, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRankRecompute()
		metrics.RecordRankRecomputeLatency(float64(time.Since(start).Milliseconds()))
	}()

	snapshot, err := e.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	for _, entry := range snapshot {
		if err := e.store.UpdateRank(ctx, entry.ID, entry.Rank); err != nil {
			return nil, err
		}
	}
	return snapshot, nil
}

// rank orders participants and assigns dense 1-based positions.
func rank(participants []model.Participant) []types.RankedParticipant {
	sort.SliceStable(participants, func(i, j int) bool {
		if participants[i].Points != participants[j].Points {
			return participants[i].Points > participants[j].Points
		}
		return participants[i].Seq < participants[j].Seq
	})

	snapshot := make([]types.RankedParticipant, 0, len(participants))
	for i, p := range participants {
		snapshot = append(snapshot, types.RankedParticipant{
			Rank:   i + 1,
			ID:     p.ID,
			Name:   p.Name,
			Points: p.Points,
		})
	}
	return snapshot
}
