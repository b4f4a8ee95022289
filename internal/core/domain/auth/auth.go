package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthToken is returned on successful login
type AuthToken struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// Claims carries the authenticated user id inside the access token
type Claims struct {
	UserID uuid.UUID `json:"userId"`

	jwt.RegisteredClaims
}
