package domain

// ============================================================
// Auth
// ============================================================

// Role claims issued by the backend.
const (
	RoleAdmin   = "ROLE_ADMIN"
	RoleCliente = "ROLE_CLIENTE"
)

// Session storage keys.
const TokenKey = "token"

// LoginRequest is the body for POST /api/v1/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the body for 200 from POST /api/v1/auth/login.
type LoginResponse struct {
	Token string `json:"token"`
}
