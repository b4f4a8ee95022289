package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	config "github.com/avatarctic/finance-tracker/configs"
	"github.com/avatarctic/finance-tracker/internal/core/domain/auth"
	"github.com/avatarctic/finance-tracker/internal/core/domain/user"
	"github.com/avatarctic/finance-tracker/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo  ports.UserRepository
	blacklist ports.TokenBlacklist
	jwtConfig *config.JWTConfig
	logger    *logrus.Logger
}

func NewAuthService(userRepo ports.UserRepository, blacklist ports.TokenBlacklist, jwtConfig *config.JWTConfig, logger *logrus.Logger) ports.AuthService {
	return &AuthService{
		userRepo:  userRepo,
		blacklist: blacklist,
		jwtConfig: jwtConfig,
		logger:    logger,
	}
}

func (s *AuthService) Register(ctx context.Context, req *user.RegisterRequest) (*user.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, user.ErrEmailTaken
	} else if err != nil && !errors.Is(err, user.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	newUser := &user.User{
		ID:           uuid.New(),
		Username:     strings.TrimSpace(req.Username),
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": newUser.ID}).Info("user registered")
	}
	return newUser, nil
}

func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.AuthToken, error) {
	foundUser, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(foundUser.PasswordHash), []byte(req.Password)); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": foundUser.ID}).Warn("login rejected: password mismatch")
		}
		return nil, auth.ErrInvalidCredentials
	}

	token, _, err := s.IssueToken(foundUser.ID)
	if err != nil {
		return nil, err
	}
	return &auth.AuthToken{
		Token:     token,
		ExpiresIn: int64(s.jwtConfig.TokenTTL.Seconds()),
	}, nil
}

// Logout blacklists token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.parseClaims(token)
	if err != nil {
		return err
	}
	if s.blacklist == nil {
		return nil
	}
	expiresAt := time.Now().Add(s.jwtConfig.TokenTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.blacklist.Revoke(ctx, token, expiresAt); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": claims.UserID}).Info("user logged out")
	}
	return nil
}
