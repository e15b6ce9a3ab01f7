package realtime

import "github.com/doughlab/cookieclicker/internal/model"

// Client-to-server message types
const (
	MessageTypeRegister = "register"
	MessageTypeUpdate   = "update"
)

// Server-to-client message types
const (
	MessageTypeInit        = "init"
	MessageTypeLeaderboard = "leaderboard"
	MessageTypeError       = "error"
)

// Error strings surfaced over the wire
const (
	errInvalidCredentials   = "Invalid credentials"
	errInvalidMessageFormat = "Invalid message format"
	errRegisterFailed       = "Failed to register player"
	errUpdateFailed         = "Failed to update player data"
	errLeaderboardFailed    = "Failed to update leaderboard"
	errSessionActive        = "Session already active"
)

// ClientMessage is any inbound frame; unused fields stay zero
type ClientMessage struct {
	Type             string  `json:"type"`
	Username         string  `json:"username"`
	Password         string  `json:"password"`
	Cookies          float64 `json:"cookies"`
	CookiesPerSecond float64 `json:"cookiesPerSecond"`
}

// InitMessage is the snapshot sent after a successful register
type InitMessage struct {
	Type   string                 `json:"type"`
	Player model.LeaderboardEntry `json:"player"`
}

// LeaderboardMessage is the broadcast leaderboard state
type LeaderboardMessage struct {
	Type          string                   `json:"type"`
	Data          []model.LeaderboardEntry `json:"data"`
	ActivePlayers []string                 `json:"activePlayers"`
}

// ErrorMessage reports a protocol or server-side failure
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
