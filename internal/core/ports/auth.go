package ports

import (
	"context"
	"time"

	"github.com/avatarctic/finance-tracker/internal/core/domain/auth"
	"github.com/avatarctic/finance-tracker/internal/core/domain/user"
	"github.com/google/uuid"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *user.RegisterRequest) (*user.User, error)
	Login(ctx context.Context, req *auth.LoginRequest) (*auth.AuthToken, error)
	// IssueToken signs an access token for userID.
	IssueToken(userID uuid.UUID) (string, time.Time, error)
	// ValidateToken verifies token and returns the user it was issued for.
	ValidateToken(ctx context.Context, token string) (uuid.UUID, error)
	Logout(ctx context.Context, token string) error
}

// TokenBlacklist stores revoked tokens until they would have expired anyway
type TokenBlacklist interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
