package realtime

import "time"

// Config holds tunables for the realtime layer
type Config struct {
	// MaxConnectionsPerAddr caps concurrent connections per source address
	MaxConnectionsPerAddr int

	// BroadcastInterval is the minimum delay between update-triggered
	// leaderboard broadcasts
	BroadcastInterval time.Duration

	// TakeoverPolicy decides what happens when a username registers on a
	// second connection while one is already bound
	TakeoverPolicy TakeoverPolicy
}

// DefaultConfig returns the stock realtime settings
func DefaultConfig() Config {
	return Config{
		MaxConnectionsPerAddr: 3,
		BroadcastInterval:     5 * time.Second,
		TakeoverPolicy:        TakeoverReplace,
	}
}
