package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/pkg/metrics"
)

// Postgres error code for unique constraint violations.
const pqUniqueViolation = "23505"

// PostgresStore implements Store and History over PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection pool and ensures the schema exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	s := &PostgresStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS participants (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			points BIGINT NOT NULL DEFAULT 0,
			rank INT NOT NULL DEFAULT 0,
			seq BIGSERIAL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS history (
			id TEXT PRIMARY KEY,
			participant_id TEXT NOT NULL REFERENCES participants(id),
			participant_name TEXT NOT NULL,
			points_gained INT NOT NULL,
			total_points BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS history_created_at_idx ON history (created_at DESC);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: ensure schema: %w", ErrUnavailable, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// List returns all participants in registration order.
func (s *PostgresStore) List(ctx context.Context) ([]model.Participant, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOpLatency(float64(time.Since(start).Milliseconds())) }()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, points, rank, seq, created_at FROM participants ORDER BY seq ASC`)
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	var out []model.Participant
	for rows.Next() {
		var p model.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.Points, &p.Rank, &p.Seq, &p.CreatedAt); err != nil {
			metrics.RecordStoreError()
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return out, nil
}

// Get returns one participant by id.
func (s *PostgresStore) Get(ctx context.Context, id string) (model.Participant, error) {
	var p model.Participant
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, points, rank, seq, created_at FROM participants WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Points, &p.Rank, &p.Seq, &p.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return model.Participant{}, ErrNotFound
	case err != nil:
		metrics.RecordStoreError()
		return model.Participant{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return p, nil
}

// Insert registers a new participant with zero points.
func (s *PostgresStore) Insert(ctx context.Context, name string) (model.Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Participant{}, ErrInvalidName
	}

	var p model.Participant
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO participants (id, name) VALUES ($1, $2)
		 RETURNING id, name, points, rank, seq, created_at`,
		uuid.NewString(), name).
		Scan(&p.ID, &p.Name, &p.Points, &p.Rank, &p.Seq, &p.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return model.Participant{}, ErrDuplicateName
		}
		metrics.RecordStoreError()
		return model.Participant{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	metrics.UpdateTotalParticipants(s.Count(ctx))
	return p, nil
}

// UpdatePoints sets a participant's point total.
func (s *PostgresStore) UpdatePoints(ctx context.Context, id string, total int) error {
	return s.updateColumn(ctx, `UPDATE participants SET points = $1 WHERE id = $2`, total, id)
}

// UpdateRank sets a participant's rank.
func (s *PostgresStore) UpdateRank(ctx context.Context, id string, rank int) error {
	return s.updateColumn(ctx, `UPDATE participants SET rank = $1 WHERE id = $2`, rank, id)
}

func (s *PostgresStore) updateColumn(ctx context.Context, query string, value int, id string) error {
	start := time.Now()
	defer func() { metrics.RecordStoreOpLatency(float64(time.Since(start).Milliseconds())) }()

	res, err := s.db.ExecContext(ctx, query, value, id)
	if err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetPoints zeroes every participant's point total.
func (s *PostgresStore) ResetPoints(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE participants SET points = 0`); err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

// Count returns the number of registered participants.
func (s *PostgresStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM participants`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// Append records a completed claim.
func (s *PostgresStore) Append(ctx context.Context, entry model.HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO history (id, participant_id, participant_name, points_gained, total_points, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.ParticipantID, entry.ParticipantName,
		entry.PointsGained, entry.TotalPoints, entry.Timestamp)
	if err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, participant_id, participant_name, points_gained, total_points, created_at
		 FROM history ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	var out []model.HistoryEntry
	for rows.Next() {
		var e model.HistoryEntry
		if err := rows.Scan(&e.ID, &e.ParticipantID, &e.ParticipantName,
			&e.PointsGained, &e.TotalPoints, &e.Timestamp); err != nil {
			metrics.RecordStoreError()
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return out, nil
}

// Clear removes all history entries.
func (s *PostgresStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM history`); err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}
