// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	repository "github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/adapters/ws"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Claim awards points to a participant and broadcasts the new ranking.
	Claim(ctx context.Context, id string) (model.ClaimResult, error)

	// Register adds a new participant.
	Register(ctx context.Context, name string) (model.Participant, error)

	// Read operations expose leaderboard data.
	Ranking(ctx context.Context) ([]types.RankedParticipant, error)
	Participant(ctx context.Context, id string) (model.Participant, error)
	History(ctx context.Context, limit int) ([]model.HistoryEntry, error)

	// Reset zeroes all points and clears the claim history.
	Reset(ctx context.Context) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	participantsHandler *ParticipantsHandler
	claimHandler        *ClaimHandler
	historyHandler      *HistoryHandler
	resetHandler        *ResetHandler
	wsHandler           *WSHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, hub *ws.Hub) *Server {
	return &Server{
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(statsProvider),
		participantsHandler: NewParticipantsHandler(deps),
		claimHandler:        NewClaimHandler(deps),
		historyHandler:      NewHistoryHandler(deps),
		resetHandler:        NewResetHandler(deps),
		wsHandler:           NewWSHandler(hub),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/participants", MetricsMiddleware(s.participantsHandler.HandleParticipants, "participants"))
	mux.HandleFunc("/api/participants/", MetricsMiddleware(s.participantsHandler.HandleGetParticipant, "participant"))
	mux.HandleFunc("/api/claim/", MetricsMiddleware(s.claimHandler.HandleClaim, "claim"))
	mux.HandleFunc("/api/history", MetricsMiddleware(s.historyHandler.HandleGetHistory, "history"))
	mux.HandleFunc("/api/reset", MetricsMiddleware(s.resetHandler.HandleReset, "reset"))
	mux.HandleFunc("/ws", s.wsHandler.HandleWS)
}

// participantResponse mirrors the read shape of a single participant.
type participantResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Points    int    `json:"points"`
	Rank      int    `json:"rank"`
	CreatedAt string `json:"createdAt"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates store sentinels to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrDuplicateName):
		writeError(w, http.StatusConflict, "duplicate_name", err)
	case errors.Is(err, repository.ErrInvalidName), errors.Is(err, repository.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, repository.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
