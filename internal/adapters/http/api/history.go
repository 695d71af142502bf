// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/types"
)

// HistoryDependencies defines the interface for history reads.
type HistoryDependencies interface {
	History(ctx context.Context, limit int) ([]model.HistoryEntry, error)
}

// HistoryHandler handles claim history requests.
type HistoryHandler struct {
	deps HistoryDependencies
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps HistoryDependencies) *HistoryHandler {
	return &HistoryHandler{deps: deps}
}

// HandleGetHistory handles GET /api/history?limit=N requests.
// A missing or non-positive limit falls back to the service default.
func (h *HistoryHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		limit = parsed
	}

	entries, err := h.deps.History(r.Context(), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]types.HistoryEntry, len(entries))
	for i, entry := range entries {
		out[i] = types.HistoryEntry{
			ID:              entry.ID,
			ParticipantID:   entry.ParticipantID,
			ParticipantName: entry.ParticipantName,
			PointsGained:    entry.PointsGained,
			TotalPoints:     entry.TotalPoints,
			Timestamp:       entry.Timestamp,
		}
	}
	writeJSON(w, http.StatusOK, out)
}
