package redis

// Key prefixes for the Redis keyspace
const (
	playerKeyPrefix = "ckr:player:"
	leaderboardKey  = "ckr:leaderboard"
)

// playerKey returns the key for a player record
func playerKey(username string) string {
	return playerKeyPrefix + username
}
