package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/doughlab/cookieclicker/internal/api/handler"
	apimiddleware "github.com/doughlab/cookieclicker/internal/api/middleware"
	"github.com/doughlab/cookieclicker/internal/dependencies/clock"
	"github.com/doughlab/cookieclicker/internal/middleware"
	"github.com/doughlab/cookieclicker/internal/services/auth"
	"github.com/doughlab/cookieclicker/internal/storage"
)

// Per-address request limits, matching what the browser client expects
const (
	GeneralRateLimit  = 100
	GeneralRateWindow = time.Minute
	LoginRateLimit    = 5
	LoginRateWindow   = 15 * time.Minute
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	Clock       clock.Clock
	AuthService *auth.Service
	Store       storage.PlayerStore
	Active      handler.ActiveLister
	Realtime    http.Handler
	CORSOrigin  string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	playerHandler := handler.NewPlayerHandler(cfg.AuthService)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.Store, cfg.Active)

	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	corsMiddleware := middleware.CORS(cfg.CORSOrigin)
	generalLimit := apimiddleware.RateLimit(
		middleware.NewRateLimiter(cfg.Clock, GeneralRateLimit, GeneralRateWindow))
	loginLimit := apimiddleware.RateLimit(
		middleware.NewRateLimiter(cfg.Clock, LoginRateLimit, LoginRateWindow))

	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(corsMiddleware)
	r.Use(generalLimit)

	// Credential endpoints carry a tighter limit on top of the general one
	creds := r.NewRoute().Subrouter()
	creds.Use(loginLimit)
	creds.HandleFunc("/register", playerHandler.Register).Methods(http.MethodPost, http.MethodOptions)
	creds.HandleFunc("/login-or-register", playerHandler.LoginOrRegister).Methods(http.MethodPost, http.MethodOptions)

	r.HandleFunc("/check-username", playerHandler.CheckUsername).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/leaderboard", leaderboardHandler.Get).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Realtime endpoint; admission control happens inside the handler
	if cfg.Realtime != nil {
		r.Handle("/ws", cfg.Realtime).Methods(http.MethodGet)
	}

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
