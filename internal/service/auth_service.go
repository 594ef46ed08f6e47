package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/nmoreno/walletly/internal/auth"
	"github.com/nmoreno/walletly/internal/models"
)

// AuthService handles registration and login, issuing JWT session
// tokens on success.
type AuthService struct {
	authenticator auth.Authenticator
	jwt           *auth.JWTManager
}

// NewAuthService creates an AuthService.
func NewAuthService(authenticator auth.Authenticator, jwt *auth.JWTManager) *AuthService {
	return &AuthService{authenticator: authenticator, jwt: jwt}
}

// Register creates a new account and returns the user with a session
// token.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (*models.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || name == "" {
		return nil, "", badRequest("email and name are required")
	}

	user, err := s.authenticator.Register(ctx, email, name, password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrEmailExists):
			return nil, "", &Error{Kind: KindBadRequest, Msg: err.Error()}
		default:
			slog.Error("Register failed", "email", email, "error", err)
			return nil, "", internal("registration failed", err)
		}
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		slog.Error("Register token generation failed", "user_id", user.ID, "error", err)
		return nil, "", internal("token generation failed", err)
	}

	slog.Info("User registered", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

// Login authenticates the credentials and returns the user with a
// session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		slog.Warn("Login failed", "email", email)
		return nil, "", unauthenticated("invalid email or password")
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		slog.Error("Login token generation failed", "user_id", user.ID, "error", err)
		return nil, "", internal("token generation failed", err)
	}

	slog.Info("User logged in", "user_id", user.ID)
	return user, token, nil
}
