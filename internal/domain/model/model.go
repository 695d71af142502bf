// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/podium/internal/domain/types"
)

// Participant is an entity competing for rank.
// Points are mutated only through claims; Rank only through recomputation.
type Participant struct {
	ID        string    // stable unique identifier
	Name      string    // unique, non-empty display name
	Points    int       // non-negative accumulator
	Rank      int       // 1-based, dense, 1 = highest points
	Seq       int64     // registration order, tie-break key
	CreatedAt time.Time // registration timestamp
}

// HistoryEntry records one completed claim. Immutable once created.
type HistoryEntry struct {
	ID              string
	ParticipantID   string
	ParticipantName string // denormalized snapshot at claim time
	PointsGained    int
	TotalPoints     int // post-claim total
	Timestamp       time.Time
}

// ClaimResult is returned to the caller of a successful claim.
type ClaimResult struct {
	ParticipantID string
	Name          string
	PointsGained  int
	TotalPoints   int
}

// Ranking event types delivered to observers.
const (
	EventRankingUpdate = "ranking_update"
	EventReset         = "reset"
)

// RankingEvent is the unit broadcast to observers. ClaimedBy is populated
// only for claim-triggered updates.
type RankingEvent struct {
	Type      string                    `json:"type"`
	Rankings  []types.RankedParticipant `json:"rankings"`
	ClaimedBy *types.ClaimInfo          `json:"claimedBy,omitempty"`
}
