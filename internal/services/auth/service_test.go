package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/doughlab/cookieclicker/internal/dependencies/mocks"
	"github.com/doughlab/cookieclicker/internal/model"
	"github.com/doughlab/cookieclicker/internal/storage/memory"
	"github.com/doughlab/cookieclicker/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.storage = memory.New(s.clock)
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	player, err := s.service.Register(s.ctx, "alice", "pass1")
	s.Require().NoError(err)

	s.Equal("alice", player.Username)
	s.Equal(model.StartingCookies, player.Cookies)
	s.Equal(model.StartingCookiesPerSecond, player.CookiesPerSecond)
	s.NotEmpty(player.PasswordHash)
	s.NotEqual("pass1", player.PasswordHash)
}

func (s *ServiceSuite) TestRegisterPersistsPlayer() {
	_, err := s.service.Register(s.ctx, "alice", "pass1")
	s.Require().NoError(err)

	stored, err := s.storage.GetPlayer(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice", stored.Username)
}

func (s *ServiceSuite) TestRegisterFailsIfUsernameTaken() {
	_, err := s.service.Register(s.ctx, "alice", "pass1")
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, "alice", "different")
	s.ErrorIs(err, model.ErrUsernameTaken)
}

func (s *ServiceSuite) TestRegisterRejectsShortUsername() {
	_, err := s.service.Register(s.ctx, "al", "pass1")
	s.ErrorIs(err, ErrUsernameTooShort)
}

func (s *ServiceSuite) TestRegisterRejectsBadPasswordLength() {
	_, err := s.service.Register(s.ctx, "alice", "abc")
	s.ErrorIs(err, ErrPasswordLength)

	_, err = s.service.Register(s.ctx, "alice", "thispasswordiswaytoolong1")
	s.ErrorIs(err, ErrPasswordLength)
}

func (s *ServiceSuite) TestRegisterRejectsForbiddenCharacters() {
	_, err := s.service.Register(s.ctx, "ali<ce>", "pass1")
	s.ErrorIs(err, ErrInvalidCharacters)

	_, err = s.service.Register(s.ctx, "alice", "pa/ss\\1")
	s.ErrorIs(err, ErrInvalidCharacters)
}

// Authenticate tests

func (s *ServiceSuite) TestAuthenticateSucceeds() {
	_, err := s.service.Register(s.ctx, "alice", "pass1")
	s.Require().NoError(err)

	player, err := s.service.Authenticate(s.ctx, "alice", "pass1")
	s.Require().NoError(err)
	s.Equal("alice", player.Username)
}

func (s *ServiceSuite) TestAuthenticateFailsWithWrongPassword() {
	_, err := s.service.Register(s.ctx, "alice", "pass1")
	s.Require().NoError(err)

	_, err = s.service.Authenticate(s.ctx, "alice", "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestAuthenticateFailsWithUnknownUser() {
	_, err := s.service.Authenticate(s.ctx, "nobody", "pass1")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// LoginOrRegister tests

func (s *ServiceSuite) TestLoginOrRegisterCreatesNewAccount() {
	player, created, err := s.service.LoginOrRegister(s.ctx, "alice", "pass1")
	s.Require().NoError(err)
	s.True(created)
	s.Equal(model.StartingCookies, player.Cookies)
}

func (s *ServiceSuite) TestLoginOrRegisterLogsInExistingAccount() {
	_, _, err := s.service.LoginOrRegister(s.ctx, "alice", "pass1")
	s.Require().NoError(err)

	player, created, err := s.service.LoginOrRegister(s.ctx, "alice", "pass1")
	s.Require().NoError(err)
	s.False(created)
	s.Equal("alice", player.Username)
}

func (s *ServiceSuite) TestLoginOrRegisterRejectsWrongPasswordForExistingUser() {
	_, _, err := s.service.LoginOrRegister(s.ctx, "alice", "pass1")
	s.Require().NoError(err)

	_, _, err = s.service.LoginOrRegister(s.ctx, "alice", "other")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// CheckUsername tests

func (s *ServiceSuite) TestCheckUsernameAvailable() {
	available, err := s.service.CheckUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.True(available)
}

func (s *ServiceSuite) TestCheckUsernameTaken() {
	_, err := s.service.Register(s.ctx, "alice", "pass1")
	s.Require().NoError(err)

	available, err := s.service.CheckUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.False(available)
}

func (s *ServiceSuite) TestCheckUsernameTooShort() {
	_, err := s.service.CheckUsername(s.ctx, "al")
	s.ErrorIs(err, ErrUsernameTooShort)
}
