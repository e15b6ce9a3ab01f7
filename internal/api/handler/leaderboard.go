package handler

import (
	"net/http"

	"github.com/doughlab/cookieclicker/internal/api/response"
	"github.com/doughlab/cookieclicker/internal/model"
	"github.com/doughlab/cookieclicker/internal/storage"
)

// ActiveLister reports which players currently hold a realtime session
type ActiveLister interface {
	ActivePlayers() []string
}

// LeaderboardHandler serves leaderboard snapshots over REST
type LeaderboardHandler struct {
	store  storage.PlayerStore
	active ActiveLister
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(store storage.PlayerStore, active ActiveLister) *LeaderboardHandler {
	return &LeaderboardHandler{
		store:  store,
		active: active,
	}
}

// Get handles GET /leaderboard
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.GetLeaderboard(r.Context(), model.LeaderboardSize)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardResponse{
		Data:          entries,
		ActivePlayers: h.active.ActivePlayers(),
	})
}
