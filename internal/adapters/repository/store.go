// Package repository defines the participant store and history log contracts.
package repository

import (
	"context"

	"github.com/okian/podium/internal/domain/model"
)

// Store provides read/write access to participant records.
//
// Points and rank are written by different owners (the claim coordinator and
// the ranking engine respectively), so they are updated through separate
// methods rather than a whole-record upsert.
type Store interface {
	// List returns all participants in registration order.
	List(ctx context.Context) ([]model.Participant, error)

	// Get returns one participant. Returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, id string) (model.Participant, error)

	// Insert registers a new participant with zero points.
	// Returns ErrDuplicateName if the name is already taken.
	Insert(ctx context.Context, name string) (model.Participant, error)

	// UpdatePoints sets a participant's point total.
	UpdatePoints(ctx context.Context, id string, total int) error

	// UpdateRank sets a participant's rank.
	UpdateRank(ctx context.Context, id string, rank int) error

	// ResetPoints zeroes every participant's point total.
	ResetPoints(ctx context.Context) error

	// Count returns the number of registered participants.
	Count(ctx context.Context) int
}

// History is the append-only claim log. Entries are never mutated; storage
// is unbounded and only reads are limited.
type History interface {
	// Append records a completed claim.
	Append(ctx context.Context, entry model.HistoryEntry) error

	// Recent returns up to limit entries, newest first.
	// Returns ErrInvalidLimit when limit < 1.
	Recent(ctx context.Context, limit int) ([]model.HistoryEntry, error)

	// Clear removes all entries.
	Clear(ctx context.Context) error
}
