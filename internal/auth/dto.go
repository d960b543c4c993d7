package auth

import (
	"github.com/angelmondragon/roomreserve-backend/internal/users"
	"github.com/angelmondragon/roomreserve-backend/pkg/types"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest contains the payload required to request a new account.
type SignupRequest struct {
	Name       string `json:"name" validate:"required,notblank,max=120"`
	Email      string `json:"email" validate:"required,email,max=254"`
	Password   string `json:"password" validate:"required,min=8,max=128"`
	Department string `json:"department" validate:"max=120"`
}

// LoginResponse contains the tokens and user produced by a successful login.
type LoginResponse struct {
	AccessToken      string          `json:"access_token"`
	RefreshToken     string          `json:"refresh_token"`
	RefreshExpiresAt types.Timestamp `json:"refresh_expires_at"`
	User             *users.UserDTO  `json:"user"`
}

// RefreshInput identifies the session being rotated.
type RefreshInput struct {
	AccessTokenID string
	RefreshToken  string
	UserID        string
}

// RefreshResult returns the tokens issued after a rotation.
type RefreshResult struct {
	AccessToken      string          `json:"access_token"`
	RefreshToken     string          `json:"refresh_token"`
	RefreshExpiresAt types.Timestamp `json:"refresh_expires_at"`
}
