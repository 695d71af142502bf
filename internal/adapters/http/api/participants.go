// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/types"
)

// ParticipantDependencies defines the interface for participant operations.
type ParticipantDependencies interface {
	Register(ctx context.Context, name string) (model.Participant, error)
	Ranking(ctx context.Context) ([]types.RankedParticipant, error)
	Participant(ctx context.Context, id string) (model.Participant, error)
}

// ParticipantsHandler handles roster reads and registrations.
type ParticipantsHandler struct {
	deps ParticipantDependencies
}

// NewParticipantsHandler creates a new participants handler.
func NewParticipantsHandler(deps ParticipantDependencies) *ParticipantsHandler {
	return &ParticipantsHandler{deps: deps}
}

// registerRequest mirrors the body of POST /api/participants.
type registerRequest struct {
	Name string `json:"name"`
}

func (r registerRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("missing name")
	}
	return nil
}

// HandleParticipants handles GET and POST /api/participants requests.
func (h *ParticipantsHandler) HandleParticipants(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleRegister(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *ParticipantsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	rankings, err := h.deps.Ranking(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rankings)
}

func (h *ParticipantsHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	p, err := h.deps.Register(r.Context(), req.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toParticipantResponse(p))
}

// HandleGetParticipant handles GET /api/participants/{id} requests.
func (h *ParticipantsHandler) HandleGetParticipant(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /api/participants/
	id := strings.TrimPrefix(r.URL.Path, "/api/participants/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	p, err := h.deps.Participant(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toParticipantResponse(p))
}

func toParticipantResponse(p model.Participant) participantResponse {
	return participantResponse{
		ID:        p.ID,
		Name:      p.Name,
		Points:    p.Points,
		Rank:      p.Rank,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}
