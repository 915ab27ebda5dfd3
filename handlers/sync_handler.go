package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"squares-app-go/services"
)

// SyncHandler triggers on-demand score syncs for a game
type SyncHandler struct {
	syncService *services.GameSyncService
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(syncService *services.GameSyncService) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
	}
}

// SyncGame handles POST /api/games/{gameID}/sync
func (h *SyncHandler) SyncGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["gameID"]
	if gameID == "" {
		writeError(w, http.StatusBadRequest, "missing game id")
		return
	}

	outcome, err := h.syncService.SyncGame(r.Context(), gameID)
	if err != nil {
		log.Printf("SyncHandler: Sync failed for game %s: %v", gameID, err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// GameState handles GET /api/games/{gameID} - returns the last synced state
func (h *SyncHandler) GameState(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["gameID"]

	state, err := h.syncService.StateForGame(r.Context(), gameID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if state == nil {
		writeError(w, http.StatusNotFound, "game has never been synced")
		return
	}

	writeJSON(w, http.StatusOK, state)
}
