package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/doughlab/cookieclicker/internal/model"
	"github.com/doughlab/cookieclicker/internal/storage"
)

// Storage is a Postgres-backed implementation of the player store
type Storage struct {
	db *sql.DB
}

// New opens a Postgres connection pool and verifies it
func New(cfg Config) (*Storage, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storage{db: db}, nil
}

// NewWithDB creates a Postgres storage with an existing pool (for testing)
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// Close closes the connection pool
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.PlayerStore = (*Storage)(nil)

// InitSchema creates the players table if it does not exist
func (s *Storage) InitSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS players (
			username TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			cookies DOUBLE PRECISION NOT NULL DEFAULT 0,
			cookies_per_second DOUBLE PRECISION NOT NULL DEFAULT 0,
			last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, username string) (*model.Player, error) {
	var player model.Player
	err := s.db.QueryRowContext(ctx, `
		SELECT username, password_hash, cookies, cookies_per_second, last_updated
		FROM players WHERE username = $1`, username).
		Scan(&player.Username, &player.PasswordHash, &player.Cookies,
			&player.CookiesPerSecond, &player.LastUpdated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return &player, nil
}

func (s *Storage) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM players WHERE username = $1)`, username).
		Scan(&exists)
	return exists, err
}

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO players (username, password_hash, cookies, cookies_per_second, last_updated)
		VALUES ($1, $2, $3, $4, $5)`,
		player.Username, player.PasswordHash, player.Cookies,
		player.CookiesPerSecond, player.LastUpdated)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return model.ErrUsernameTaken
		}
		return err
	}
	return nil
}

func (s *Storage) UpdateCounters(ctx context.Context, username string, cookies, cookiesPerSecond float64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE players
		SET cookies = $2, cookies_per_second = $3, last_updated = NOW()
		WHERE username = $1`, username, cookies, cookiesPerSecond)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.ErrPlayerNotFound
	}
	return nil
}

func (s *Storage) GetLeaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, cookies, cookies_per_second
		FROM players ORDER BY cookies DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	entries := make([]model.LeaderboardEntry, 0, limit)
	for rows.Next() {
		var entry model.LeaderboardEntry
		if err := rows.Scan(&entry.Username, &entry.Cookies, &entry.CookiesPerSecond); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
