package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"squares-app-go/middleware"
	"squares-app-go/models"
	"squares-app-go/services"
)

// AdminHandler exposes the commissioner endpoints: manual scoring, game
// recomputation, poll control, and pool management
type AdminHandler struct {
	adminScoring *services.AdminScoringService
	pollManager  *services.PollManager
	poolService  *services.PoolService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminScoring *services.AdminScoringService, pollManager *services.PollManager, poolService *services.PoolService) *AdminHandler {
	return &AdminHandler{
		adminScoring: adminScoring,
		pollManager:  pollManager,
		poolService:  poolService,
	}
}

// ApplyScoring handles POST /api/admin/scoring
func (h *AdminHandler) ApplyScoring(w http.ResponseWriter, r *http.Request) {
	var req services.AdminScoringRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user := middleware.GetUserFromContext(r)
	log.Printf("AdminHandler: %s applying %s to game %s", user.Email, req.Action, req.GameID)

	outcome, err := h.adminScoring.Apply(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// Recompute handles POST /api/admin/games/{gameID}/recompute
func (h *AdminHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["gameID"]

	user := middleware.GetUserFromContext(r)
	log.Printf("AdminHandler: %s requested recompute of game %s", user.Email, gameID)

	outcome, err := h.adminScoring.Recompute(r.Context(), gameID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// StartPoll handles POST /api/admin/games/{gameID}/poll/start
func (h *AdminHandler) StartPoll(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["gameID"]

	h.pollManager.StartPolling(gameID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"gameId":  gameID,
		"polling": h.pollManager.IsPolling(gameID),
	})
}

// StopPoll handles POST /api/admin/games/{gameID}/poll/stop
func (h *AdminHandler) StopPoll(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["gameID"]

	h.pollManager.StopPolling(gameID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"gameId":  gameID,
		"polling": h.pollManager.IsPolling(gameID),
	})
}

// createPoolRequest is the body for pool creation
type createPoolRequest struct {
	Name           string             `json:"name"`
	Mode           models.ScoringMode `json:"mode"`
	ReverseScoring bool               `json:"reverseScoring"`
	Payouts        models.PayoutTable `json:"payouts"`
}

// CreatePool handles POST /api/admin/pools
func (h *AdminHandler) CreatePool(w http.ResponseWriter, r *http.Request) {
	var req createPoolRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "pool name is required")
		return
	}

	user := middleware.GetUserFromContext(r)

	pool, err := h.poolService.CreatePool(r.Context(), req.Name, user.ID, req.Mode, req.ReverseScoring, req.Payouts)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	log.Printf("AdminHandler: %s created pool %s (%s)", user.Email, pool.ID, pool.Name)
	writeJSON(w, http.StatusCreated, pool)
}

// claimSquareRequest is the body for claiming a square
type claimSquareRequest struct {
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Label string `json:"label"`
}

// ClaimSquare handles POST /api/admin/pools/{poolID}/squares
func (h *AdminHandler) ClaimSquare(w http.ResponseWriter, r *http.Request) {
	poolID := mux.Vars(r)["poolID"]

	var req claimSquareRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Label == "" {
		writeError(w, http.StatusBadRequest, "participant label is required")
		return
	}

	pool, err := h.poolService.ClaimSquare(r.Context(), poolID, models.Cell{Row: req.Row, Col: req.Col}, req.Label)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, pool)
}

// attachGameRequest is the body for attaching a game to a pool
type attachGameRequest struct {
	GameID string `json:"gameId"`
}

// AttachGame handles POST /api/admin/pools/{poolID}/games
func (h *AdminHandler) AttachGame(w http.ResponseWriter, r *http.Request) {
	poolID := mux.Vars(r)["poolID"]

	var req attachGameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.GameID == "" {
		writeError(w, http.StatusBadRequest, "gameId is required")
		return
	}

	pool, err := h.poolService.AttachGame(r.Context(), poolID, req.GameID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, pool)
}

// LockGrid handles POST /api/admin/pools/{poolID}/lock - assigns digits and
// freezes the grid. Scoring refuses to run against an unlocked grid.
func (h *AdminHandler) LockGrid(w http.ResponseWriter, r *http.Request) {
	poolID := mux.Vars(r)["poolID"]

	user := middleware.GetUserFromContext(r)

	pool, err := h.poolService.LockGrid(r.Context(), poolID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	log.Printf("AdminHandler: %s locked grid for pool %s", user.Email, poolID)
	writeJSON(w, http.StatusOK, pool)
}
