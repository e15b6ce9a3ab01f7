package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/doughlab/cookieclicker/internal/model"
	"github.com/doughlab/cookieclicker/internal/storage"
)

// Storage is a Redis-backed implementation of the player store.
// Player records are JSON values keyed by username; the leaderboard is a
// sorted set scored by cookies so the top-N query stays cheap.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.PlayerStore = (*Storage)(nil)

func (s *Storage) GetPlayer(ctx context.Context, username string) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	return unmarshalPlayer(data)
}

func (s *Storage) UsernameExists(ctx context.Context, username string) (bool, error) {
	exists, err := s.client.Exists(ctx, playerKey(username)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	data, err := marshalPlayer(player)
	if err != nil {
		return err
	}

	ok, err := s.client.SetNX(ctx, playerKey(player.Username), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrUsernameTaken
	}

	return s.client.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  player.Cookies,
		Member: player.Username,
	}).Err()
}

func (s *Storage) UpdateCounters(ctx context.Context, username string, cookies, cookiesPerSecond float64) error {
	player, err := s.GetPlayer(ctx, username)
	if err != nil {
		return err
	}

	player.Cookies = cookies
	player.CookiesPerSecond = cookiesPerSecond
	player.LastUpdated = time.Now()

	data, err := marshalPlayer(player)
	if err != nil {
		return err
	}

	// Pipeline the record write and leaderboard rescore
	pipe := s.client.Pipeline()
	pipe.Set(ctx, playerKey(username), data, 0)
	pipe.ZAdd(ctx, leaderboardKey, redis.Z{Score: cookies, Member: username})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetLeaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	top, err := s.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(top) == 0 {
		return []model.LeaderboardEntry{}, nil
	}

	// Fetch the full records for cookiesPerSecond
	pipe := s.client.Pipeline()
	gets := make([]*redis.StringCmd, len(top))
	for i, z := range top {
		gets[i] = pipe.Get(ctx, playerKey(z.Member.(string)))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	entries := make([]model.LeaderboardEntry, 0, len(top))
	for i, z := range top {
		username := z.Member.(string)
		entry := model.LeaderboardEntry{Username: username, Cookies: z.Score}

		data, err := gets[i].Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// Index entry without a record; score alone still ranks it
				entries = append(entries, entry)
				continue
			}
			return nil, err
		}
		player, err := unmarshalPlayer(data)
		if err != nil {
			return nil, err
		}
		entry.CookiesPerSecond = player.CookiesPerSecond
		entries = append(entries, entry)
	}
	return entries, nil
}

func marshalPlayer(player *model.Player) ([]byte, error) {
	// PasswordHash is excluded from the model's public JSON, so records
	// are marshalled through a private mirror struct
	return json.Marshal(storedPlayer{
		Username:         player.Username,
		PasswordHash:     player.PasswordHash,
		Cookies:          player.Cookies,
		CookiesPerSecond: player.CookiesPerSecond,
		LastUpdated:      player.LastUpdated,
	})
}

func unmarshalPlayer(data []byte) (*model.Player, error) {
	var sp storedPlayer
	if err := json.Unmarshal(data, &sp); err != nil {
		return nil, err
	}
	return &model.Player{
		Username:         sp.Username,
		PasswordHash:     sp.PasswordHash,
		Cookies:          sp.Cookies,
		CookiesPerSecond: sp.CookiesPerSecond,
		LastUpdated:      sp.LastUpdated,
	}, nil
}

type storedPlayer struct {
	Username         string    `json:"username"`
	PasswordHash     string    `json:"passwordHash"`
	Cookies          float64   `json:"cookies"`
	CookiesPerSecond float64   `json:"cookiesPerSecond"`
	LastUpdated      time.Time `json:"lastUpdated"`
}
