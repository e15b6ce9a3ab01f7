package storage

import (
	"context"

	"github.com/doughlab/cookieclicker/internal/model"
)

// PlayerStore defines the interface for player persistence
type PlayerStore interface {
	// GetPlayer returns the player with the given username, or
	// model.ErrPlayerNotFound
	GetPlayer(ctx context.Context, username string) (*model.Player, error)

	// UsernameExists reports whether a player row exists for username
	UsernameExists(ctx context.Context, username string) (bool, error)

	// CreatePlayer inserts a new player row; returns
	// model.ErrUsernameTaken if the username is in use
	CreatePlayer(ctx context.Context, player *model.Player) error

	// UpdateCounters writes cookies and cookiesPerSecond for username
	// and refreshes its update timestamp. Last write wins.
	UpdateCounters(ctx context.Context, username string, cookies, cookiesPerSecond float64) error

	// GetLeaderboard returns up to limit players ordered by cookies
	// descending, reduced to their public fields
	GetLeaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
}
