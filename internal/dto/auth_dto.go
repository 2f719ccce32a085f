package dto

import "time"

type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

type MeResponse struct {
	Email string `json:"email"`
}

// PersistedIdentity is the session-identity blob written to local storage.
type PersistedIdentity struct {
	Email       string    `json:"email"`
	LastLoginAt time.Time `json:"last_login_at"`
}
