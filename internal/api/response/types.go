package response

import (
	"time"

	"github.com/doughlab/cookieclicker/internal/model"
)

// Player represents a player in API responses
type Player struct {
	Username         string    `json:"username"`
	Cookies          float64   `json:"cookies"`
	CookiesPerSecond float64   `json:"cookiesPerSecond"`
	LastUpdated      time.Time `json:"lastUpdated"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		Username:         p.Username,
		Cookies:          p.Cookies,
		CookiesPerSecond: p.CookiesPerSecond,
		LastUpdated:      p.LastUpdated,
	}
}

// AuthResponse is the response for the register and login endpoints
type AuthResponse struct {
	Player  Player `json:"player"`
	Created bool   `json:"created"`
}

// AvailabilityResponse is the response for username availability checks
type AvailabilityResponse struct {
	Available bool `json:"available"`
}

// LeaderboardResponse is the response for the leaderboard endpoint
type LeaderboardResponse struct {
	Data          []model.LeaderboardEntry `json:"data"`
	ActivePlayers []string                 `json:"activePlayers"`
}
