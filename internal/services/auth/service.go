package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/doughlab/cookieclicker/internal/dependencies/clock"
	"github.com/doughlab/cookieclicker/internal/model"
	"github.com/doughlab/cookieclicker/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTooShort   = errors.New("username must be at least 3 characters")
	ErrPasswordLength     = errors.New("password must be between 4 and 20 characters")
	ErrInvalidCharacters  = errors.New("invalid characters in username or password")
)

// Field limits
const (
	minUsernameLen = 3
	minPasswordLen = 4
	maxPasswordLen = 20
)

// Characters never allowed in credentials
const forbiddenChars = `<>{}()/\`

// Service validates credentials and creates player accounts
type Service struct {
	store  storage.PlayerStore
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a new auth service
func New(store storage.PlayerStore, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		clock:  clk,
		logger: logger.With(slog.String("component", "auth")),
	}
}

// Authenticate checks a username/password pair against the store.
// Any mismatch, including an unknown username, yields ErrInvalidCredentials;
// store failures pass through unchanged.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*model.Player, error) {
	player, err := s.store.GetPlayer(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(player.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return player, nil
}

// Register creates a new player account with the starting counters
func (s *Service) Register(ctx context.Context, username, password string) (*model.Player, error) {
	if err := ValidateFields(username, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	player := model.NewPlayer(username, string(hash), s.clock.Now())
	if err := s.store.CreatePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("player registered", slog.String("username", username))
	return player, nil
}

// LoginOrRegister logs an existing player in, or creates the account if the
// username is free. An existing username with a wrong password yields
// ErrInvalidCredentials rather than falling through to registration.
// The second return value reports whether a new account was created.
func (s *Service) LoginOrRegister(ctx context.Context, username, password string) (*model.Player, bool, error) {
	if err := ValidateFields(username, password); err != nil {
		return nil, false, err
	}

	player, err := s.Authenticate(ctx, username, password)
	if err == nil {
		return player, false, nil
	}
	if !errors.Is(err, ErrInvalidCredentials) {
		return nil, false, err
	}

	exists, err := s.store.UsernameExists(ctx, username)
	if err != nil {
		return nil, false, err
	}
	if exists {
		return nil, false, ErrInvalidCredentials
	}

	player, err = s.Register(ctx, username, password)
	if err != nil {
		return nil, false, err
	}
	return player, true, nil
}

// CheckUsername reports whether a username is free to register
func (s *Service) CheckUsername(ctx context.Context, username string) (bool, error) {
	if len(username) < minUsernameLen {
		return false, ErrUsernameTooShort
	}
	exists, err := s.store.UsernameExists(ctx, username)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// ValidateFields enforces the credential field rules: username at least 3
// characters, password 4-20 characters, no markup or path characters in
// either field
func ValidateFields(username, password string) error {
	if strings.ContainsAny(username, forbiddenChars) || strings.ContainsAny(password, forbiddenChars) {
		return ErrInvalidCharacters
	}
	if len(username) < minUsernameLen {
		return ErrUsernameTooShort
	}
	if len(password) < minPasswordLen || len(password) > maxPasswordLen {
		return ErrPasswordLength
	}
	return nil
}
