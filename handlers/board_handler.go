package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"squares-app-go/services"
)

// BoardHandler serves the read-side views of a pool: the annotated grid and
// the participant leaderboard
type BoardHandler struct {
	aggregator  *services.AggregatorService
	poolService *services.PoolService
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(aggregator *services.AggregatorService, poolService *services.PoolService) *BoardHandler {
	return &BoardHandler{
		aggregator:  aggregator,
		poolService: poolService,
	}
}

// GetPool handles GET /api/pools/{poolID}
func (h *BoardHandler) GetPool(w http.ResponseWriter, r *http.Request) {
	poolID := mux.Vars(r)["poolID"]

	pool, err := h.poolService.GetPool(r.Context(), poolID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, pool)
}

// Board handles GET /api/pools/{poolID}/board
func (h *BoardHandler) Board(w http.ResponseWriter, r *http.Request) {
	poolID := mux.Vars(r)["poolID"]

	badges, err := h.aggregator.BoardForPool(r.Context(), poolID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, badges)
}

// Leaderboard handles GET /api/pools/{poolID}/leaderboard
func (h *BoardHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	poolID := mux.Vars(r)["poolID"]

	entries, err := h.aggregator.LeaderboardForPool(r.Context(), poolID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
