package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/doughlab/cookieclicker/internal/model"
	"github.com/doughlab/cookieclicker/internal/services/auth"
	"github.com/doughlab/cookieclicker/internal/storage"
)

// State is a connection's position in the session protocol
type State int

const (
	// StateUnauthenticated is the initial state after admission
	StateUnauthenticated State = iota
	// StateAuthenticated is reached after a successful register message
	StateAuthenticated
)

// Effect is an action the connection runner must carry out after a
// transition. Effects are applied in order; a close effect ends the list.
type Effect interface {
	isEffect()
}

// EffectBind binds the connection as Username's active session
type EffectBind struct {
	Username string
}

// EffectUnbind releases a session binding this connection held for a
// previous identity
type EffectUnbind struct {
	Username string
}

// EffectSendInit sends the init snapshot to this connection
type EffectSendInit struct {
	Player model.LeaderboardEntry
}

// EffectSendError sends an error message to this connection
type EffectSendError struct {
	Message string
}

// EffectClose closes this connection
type EffectClose struct{}

// EffectBroadcastNow requests an immediate leaderboard broadcast
type EffectBroadcastNow struct{}

// EffectBroadcastThrottled requests a throttled leaderboard broadcast
type EffectBroadcastThrottled struct{}

func (EffectBind) isEffect()               {}
func (EffectUnbind) isEffect()             {}
func (EffectSendInit) isEffect()           {}
func (EffectSendError) isEffect()          {}
func (EffectClose) isEffect()              {}
func (EffectBroadcastNow) isEffect()       {}
func (EffectBroadcastThrottled) isEffect() {}

// Machine is the per-connection session state machine. It owns no socket;
// each inbound frame yields a list of effects for the runner to apply, so
// transitions are testable in isolation.
type Machine struct {
	auth   *auth.Service
	store  storage.PlayerStore
	logger *slog.Logger

	state    State
	username string
}

// NewMachine creates a machine in the unauthenticated state
func NewMachine(authService *auth.Service, store storage.PlayerStore, logger *slog.Logger) *Machine {
	return &Machine{
		auth:   authService,
		store:  store,
		logger: logger,
	}
}

// State returns the current protocol state
func (m *Machine) State() State {
	return m.state
}

// Username returns the bound identity, empty until authenticated
func (m *Machine) Username() string {
	return m.username
}

// Handle processes one inbound frame and returns the effects to apply
func (m *Machine) Handle(ctx context.Context, raw []byte) []Effect {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return []Effect{EffectSendError{Message: errInvalidMessageFormat}}
	}

	switch msg.Type {
	case MessageTypeRegister:
		return m.handleRegister(ctx, msg)
	case MessageTypeUpdate:
		return m.handleUpdate(ctx, msg)
	default:
		return []Effect{EffectSendError{Message: errInvalidMessageFormat}}
	}
}

func (m *Machine) handleRegister(ctx context.Context, msg ClientMessage) []Effect {
	player, err := m.auth.Authenticate(ctx, msg.Username, msg.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return []Effect{
				EffectSendError{Message: errInvalidCredentials},
				EffectClose{},
			}
		}
		m.logger.Error("register failed",
			slog.String("username", msg.Username),
			slog.Any("error", err))
		return []Effect{
			EffectSendError{Message: errRegisterFailed},
			EffectClose{},
		}
	}

	prev := m.username
	m.state = StateAuthenticated
	m.username = player.Username

	// A repeat register under a new identity abandons the old session;
	// release it so the old username leaves the active set
	effects := make([]Effect, 0, 4)
	if prev != "" && prev != player.Username {
		effects = append(effects, EffectUnbind{Username: prev})
	}
	return append(effects,
		EffectBind{Username: player.Username},
		EffectSendInit{Player: model.EntryFromPlayer(player)},
		EffectBroadcastNow{},
	)
}

func (m *Machine) handleUpdate(ctx context.Context, msg ClientMessage) []Effect {
	// Updates for an identity other than the bound one are dropped without
	// a reply: surfacing the mismatch would leak credential-validation
	// signals on a channel with no rate limiting.
	if m.state != StateAuthenticated || msg.Username != m.username {
		return nil
	}

	// Re-validate before writing; the connection may be stale or hijacked
	if _, err := m.auth.Authenticate(ctx, msg.Username, msg.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil
		}
		m.logger.Error("update validation failed",
			slog.String("username", msg.Username),
			slog.Any("error", err))
		return []Effect{EffectSendError{Message: errUpdateFailed}}
	}

	if err := m.store.UpdateCounters(ctx, msg.Username, msg.Cookies, msg.CookiesPerSecond); err != nil {
		m.logger.Error("update write failed",
			slog.String("username", msg.Username),
			slog.Any("error", err))
		return []Effect{EffectSendError{Message: errUpdateFailed}}
	}

	return []Effect{EffectBroadcastThrottled{}}
}
