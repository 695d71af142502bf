// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/types"
)

// ClaimDependencies defines the interface for claim operations.
type ClaimDependencies interface {
	Claim(ctx context.Context, id string) (model.ClaimResult, error)
}

// ClaimHandler handles point claim requests.
type ClaimHandler struct {
	deps ClaimDependencies
}

// NewClaimHandler creates a new claim handler.
func NewClaimHandler(deps ClaimDependencies) *ClaimHandler {
	return &ClaimHandler{deps: deps}
}

// HandleClaim handles POST /api/claim/{id} requests.
func (h *ClaimHandler) HandleClaim(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /api/claim/
	id := strings.TrimPrefix(r.URL.Path, "/api/claim/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	result, err := h.deps.Claim(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.ClaimInfo{
		ParticipantID: result.ParticipantID,
		Name:          result.Name,
		PointsGained:  result.PointsGained,
		TotalPoints:   result.TotalPoints,
	})
}
