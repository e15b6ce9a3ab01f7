package model

import "time"

// Player represents a game account with its persisted counters
type Player struct {
	Username         string    `json:"username"`
	PasswordHash     string    `json:"-"`
	Cookies          float64   `json:"cookies"`
	CookiesPerSecond float64   `json:"cookiesPerSecond"`
	LastUpdated      time.Time `json:"lastUpdated"`
}

// Starting counters for a newly created account
const (
	StartingCookies          = 2000.0
	StartingCookiesPerSecond = 0.0
)

// NewPlayer creates a player with the starting counters
func NewPlayer(username, passwordHash string, now time.Time) *Player {
	return &Player{
		Username:         username,
		PasswordHash:     passwordHash,
		Cookies:          StartingCookies,
		CookiesPerSecond: StartingCookiesPerSecond,
		LastUpdated:      now,
	}
}

// LeaderboardEntry is a player reduced to its public leaderboard fields
type LeaderboardEntry struct {
	Username         string  `json:"username"`
	Cookies          float64 `json:"cookies"`
	CookiesPerSecond float64 `json:"cookiesPerSecond"`
}

// EntryFromPlayer converts a player to its leaderboard representation
func EntryFromPlayer(p *Player) LeaderboardEntry {
	return LeaderboardEntry{
		Username:         p.Username,
		Cookies:          p.Cookies,
		CookiesPerSecond: p.CookiesPerSecond,
	}
}

// LeaderboardSize is the number of entries in a leaderboard snapshot
const LeaderboardSize = 10
