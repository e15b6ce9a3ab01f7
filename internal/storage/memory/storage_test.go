package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/doughlab/cookieclicker/internal/dependencies/mocks"
	"github.com/doughlab/cookieclicker/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	clock   *mocks.MockClock
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.storage = New(s.clock)
	s.ctx = context.Background()
}

func (s *StorageSuite) TestCreateAndGetPlayer() {
	player := model.NewPlayer("alice", "hash", time.Now())

	err := s.storage.CreatePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice", retrieved.Username)
	s.Equal(model.StartingCookies, retrieved.Cookies)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestCreatePlayerDuplicateUsername() {
	player := model.NewPlayer("alice", "hash", time.Now())
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, player))

	err := s.storage.CreatePlayer(s.ctx, model.NewPlayer("alice", "other", time.Now()))
	s.ErrorIs(err, model.ErrUsernameTaken)
}

func (s *StorageSuite) TestUsernameExists() {
	exists, err := s.storage.UsernameExists(s.ctx, "alice")
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.storage.CreatePlayer(s.ctx, model.NewPlayer("alice", "hash", time.Now())))

	exists, err = s.storage.UsernameExists(s.ctx, "alice")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *StorageSuite) TestUpdateCounters() {
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, model.NewPlayer("alice", "hash", time.Now())))

	err := s.storage.UpdateCounters(s.ctx, "alice", 550, 1.2)
	s.Require().NoError(err)

	player, err := s.storage.GetPlayer(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(550.0, player.Cookies)
	s.Equal(1.2, player.CookiesPerSecond)
	s.False(player.LastUpdated.IsZero())
}

func (s *StorageSuite) TestUpdateCountersStampsClockTime() {
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, model.NewPlayer("alice", "hash", s.clock.Now())))

	s.clock.Advance(time.Minute)
	s.Require().NoError(s.storage.UpdateCounters(s.ctx, "alice", 550, 1.2))

	player, err := s.storage.GetPlayer(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(s.clock.Now(), player.LastUpdated)
}

func (s *StorageSuite) TestUpdateCountersUnknownPlayer() {
	err := s.storage.UpdateCounters(s.ctx, "nobody", 100, 0)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestLeaderboardOrderedByCookiesDesc() {
	for i, cookies := range []float64{100, 900, 500} {
		p := model.NewPlayer(fmt.Sprintf("player%d", i), "hash", time.Now())
		p.Cookies = cookies
		s.Require().NoError(s.storage.CreatePlayer(s.ctx, p))
	}

	entries, err := s.storage.GetLeaderboard(s.ctx, model.LeaderboardSize)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal("player1", entries[0].Username)
	s.Equal("player2", entries[1].Username)
	s.Equal("player0", entries[2].Username)
}

func (s *StorageSuite) TestLeaderboardLimit() {
	for i := 0; i < 15; i++ {
		p := model.NewPlayer(fmt.Sprintf("player%02d", i), "hash", time.Now())
		p.Cookies = float64(i * 100)
		s.Require().NoError(s.storage.CreatePlayer(s.ctx, p))
	}

	entries, err := s.storage.GetLeaderboard(s.ctx, model.LeaderboardSize)
	s.Require().NoError(err)
	s.Len(entries, model.LeaderboardSize)
	for i := 1; i < len(entries); i++ {
		s.GreaterOrEqual(entries[i-1].Cookies, entries[i].Cookies)
	}
}
