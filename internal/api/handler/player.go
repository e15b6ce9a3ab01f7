package handler

import (
	"encoding/json"
	"net/http"

	"github.com/doughlab/cookieclicker/internal/api/request"
	"github.com/doughlab/cookieclicker/internal/api/response"
	"github.com/doughlab/cookieclicker/internal/services/auth"
)

// PlayerHandler handles account endpoints
type PlayerHandler struct {
	authService *auth.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(authService *auth.Service) *PlayerHandler {
	return &PlayerHandler{
		authService: authService,
	}
}

// Register handles POST /register
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	player, err := h.authService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponse{
		Player:  response.PlayerFromModel(player),
		Created: true,
	})
}

// LoginOrRegister handles POST /login-or-register
func (h *PlayerHandler) LoginOrRegister(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	player, created, err := h.authService.LoginOrRegister(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.JSON(w, status, response.AuthResponse{
		Player:  response.PlayerFromModel(player),
		Created: created,
	})
}

// CheckUsername handles POST /check-username
func (h *PlayerHandler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	var req request.CheckUsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}

	available, err := h.authService.CheckUsername(r.Context(), req.Username)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AvailabilityResponse{Available: available})
}
