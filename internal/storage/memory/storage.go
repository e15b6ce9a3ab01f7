package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/doughlab/cookieclicker/internal/dependencies/clock"
	"github.com/doughlab/cookieclicker/internal/model"
	"github.com/doughlab/cookieclicker/internal/storage"
)

// Storage is an in-memory implementation of the player store
type Storage struct {
	mu      sync.RWMutex
	clock   clock.Clock
	players map[string]*model.Player
}

// New creates a new in-memory storage instance
func New(clk clock.Clock) *Storage {
	return &Storage{
		clock:   clk,
		players: make(map[string]*model.Player),
	}
}

// Ensure Storage implements the interface
var _ storage.PlayerStore = (*Storage)(nil)

func (s *Storage) GetPlayer(ctx context.Context, username string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	p := *player
	return &p, nil
}

func (s *Storage) UsernameExists(ctx context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.players[username]
	return ok, nil
}

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[player.Username]; ok {
		return model.ErrUsernameTaken
	}
	p := *player
	s.players[player.Username] = &p
	return nil
}

func (s *Storage) UpdateCounters(ctx context.Context, username string, cookies, cookiesPerSecond float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[username]
	if !ok {
		return model.ErrPlayerNotFound
	}
	player.Cookies = cookies
	player.CookiesPerSecond = cookiesPerSecond
	player.LastUpdated = s.clock.Now()
	return nil
}

func (s *Storage) GetLeaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]model.LeaderboardEntry, 0, len(s.players))
	for _, p := range s.players {
		entries = append(entries, model.EntryFromPlayer(p))
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Cookies != entries[j].Cookies {
			return entries[i].Cookies > entries[j].Cookies
		}
		return entries[i].Username < entries[j].Username
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
