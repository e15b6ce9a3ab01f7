package request

// RegisterRequest is the request body for creating an account
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the request body for login-or-register
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CheckUsernameRequest is the request body for an availability check
type CheckUsernameRequest struct {
	Username string `json:"username"`
}
