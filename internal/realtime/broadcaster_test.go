package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/doughlab/cookieclicker/internal/dependencies/mocks"
	"github.com/doughlab/cookieclicker/internal/model"
	"github.com/doughlab/cookieclicker/internal/storage/memory"
	"github.com/doughlab/cookieclicker/internal/testutil"
)

type BroadcasterSuite struct {
	suite.Suite
	storage     *memory.Storage
	registry    *Registry
	hub         *Hub
	clock       *mocks.MockClock
	broadcaster *Broadcaster
	client      *Client
	ctx         context.Context
}

func TestBroadcasterSuite(t *testing.T) {
	suite.Run(t, new(BroadcasterSuite))
}

func (s *BroadcasterSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.storage = memory.New(s.clock)
	s.registry = NewRegistry(TakeoverReplace)
	s.hub = NewHub(testutil.NopLogger())
	go s.hub.Run()
	s.broadcaster = NewBroadcaster(s.storage, s.registry, s.hub, s.clock, 5*time.Second, testutil.NopLogger())

	s.client = newTestClient(sendBufferSize)
	s.hub.Register(s.client)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, model.NewPlayer("alice", "hash", now)))
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, model.NewPlayer("bob", "hash", now)))
	s.Require().NoError(s.storage.UpdateCounters(s.ctx, "alice", 500, 1.5))
	s.Require().NoError(s.storage.UpdateCounters(s.ctx, "bob", 300, 0))
}

func (s *BroadcasterSuite) TearDownTest() {
	s.broadcaster.Close()
	s.hub.Close()
}

func (s *BroadcasterSuite) recvLeaderboard() LeaderboardMessage {
	frame := recvFrame(s.T(), s.client.send)
	var msg LeaderboardMessage
	s.Require().NoError(json.Unmarshal(frame, &msg))
	return msg
}

func (s *BroadcasterSuite) TestBroadcastNowSendsLeaderboard() {
	_, _ = s.registry.Bind("alice", s.client)

	s.broadcaster.BroadcastNow(s.ctx)

	msg := s.recvLeaderboard()
	s.Equal(MessageTypeLeaderboard, msg.Type)
	s.Require().Len(msg.Data, 2)
	s.Equal("alice", msg.Data[0].Username)
	s.Equal(500.0, msg.Data[0].Cookies)
	s.Equal("bob", msg.Data[1].Username)
	s.Equal([]string{"alice"}, msg.ActivePlayers)
}

func (s *BroadcasterSuite) TestThrottledBroadcastWaitsForInterval() {
	s.broadcaster.BroadcastThrottled()

	select {
	case frame := <-s.client.send:
		s.Failf("premature broadcast", "got frame %q before the interval elapsed", frame)
	case <-time.After(50 * time.Millisecond):
	}

	s.clock.Advance(5 * time.Second)
	msg := s.recvLeaderboard()
	s.Equal(MessageTypeLeaderboard, msg.Type)
}

func (s *BroadcasterSuite) TestThrottledBroadcastsCoalesce() {
	for i := 0; i < 10; i++ {
		s.broadcaster.BroadcastThrottled()
	}
	s.clock.Advance(5 * time.Second)

	s.recvLeaderboard()
	select {
	case frame := <-s.client.send:
		s.Failf("duplicate broadcast", "got extra frame %q", frame)
	case <-time.After(50 * time.Millisecond):
	}
}

func (s *BroadcasterSuite) TestThrottledBroadcastReflectsLatestCounters() {
	s.broadcaster.BroadcastThrottled()

	// Counters written while the broadcast is pending must be included
	s.Require().NoError(s.storage.UpdateCounters(s.ctx, "alice", 550, 1.2))

	s.clock.Advance(5 * time.Second)
	msg := s.recvLeaderboard()
	s.Equal(550.0, msg.Data[0].Cookies)
}

func (s *BroadcasterSuite) TestStoreFailureBroadcastsError() {
	failing := NewBroadcaster(
		&failingStore{err: errors.New("connection refused")},
		s.registry, s.hub, s.clock, 5*time.Second, testutil.NopLogger())
	defer failing.Close()

	failing.BroadcastNow(s.ctx)

	frame := recvFrame(s.T(), s.client.send)
	var msg ErrorMessage
	s.Require().NoError(json.Unmarshal(frame, &msg))
	s.Equal(MessageTypeError, msg.Type)
	s.Equal(errLeaderboardFailed, msg.Error)
}
