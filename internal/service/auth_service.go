package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jengzang/iceberg-dashboard/internal/logging"
	"github.com/jengzang/iceberg-dashboard/internal/models"
	"github.com/jengzang/iceberg-dashboard/internal/session"
	"github.com/jengzang/iceberg-dashboard/internal/validation"
)

// AuthAPI is the part of the iceberg API that authenticates users.
type AuthAPI interface {
	Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error)
	Signup(ctx context.Context, reg models.Registration) (string, error)
}

// Sessions creates and ends gateway sessions. *session.Manager implements it.
type Sessions interface {
	Create(ctx context.Context, user models.User, upstreamToken string) (*session.Session, string, error)
	Refresh(ctx context.Context, s *session.Session) (string, error)
	Delete(ctx context.Context, id string) error
}

// LoginResponse is returned to the browser after a successful login
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}

// AuthService proxies credentials to the backend and issues gateway sessions
type AuthService struct {
	api      AuthAPI
	sessions Sessions
}

// NewAuthService creates an auth service
func NewAuthService(api AuthAPI, sessions Sessions) *AuthService {
	return &AuthService{api: api, sessions: sessions}
}

// Login checks credentials with the backend and opens a session. Backend
// rejections such as 401 Bad Credentials are returned unchanged.
func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (*LoginResponse, error) {
	if err := validation.ValidateStruct(&creds); err != nil {
		return nil, err
	}

	res, err := s.api.Login(ctx, creds)
	if err != nil {
		return nil, err
	}

	user := models.User{Username: creds.Username, IsSuperuser: res.IsSuperuser, SignedIn: true}
	sess, token, err := s.sessions.Create(ctx, user, res.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	logging.Ctx(ctx).Info().Str("user", user.Username).Bool("superuser", user.IsSuperuser).Msg("user logged in")
	return &LoginResponse{Token: token, ExpiresAt: sess.ExpiresAt, User: sess.User}, nil
}

// Signup registers a user and returns the backend's confirmation message.
func (s *AuthService) Signup(ctx context.Context, reg models.Registration) (string, error) {
	if err := validation.ValidateStruct(&reg); err != nil {
		return "", err
	}
	msg, err := s.api.Signup(ctx, reg)
	if err != nil {
		return "", err
	}
	logging.Ctx(ctx).Info().Str("user", reg.Username).Msg("user signed up")
	return msg, nil
}

// Refresh reissues the session token with a fresh expiry.
func (s *AuthService) Refresh(ctx context.Context, sess *session.Session) (*LoginResponse, error) {
	token, err := s.sessions.Refresh(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh session: %w", err)
	}
	logging.Ctx(ctx).Debug().Str("user", sess.User.Username).Time("expires_at", sess.ExpiresAt).Msg("session refreshed")
	return &LoginResponse{Token: token, ExpiresAt: sess.ExpiresAt, User: sess.User}, nil
}

// Logout ends the session.
func (s *AuthService) Logout(ctx context.Context, sess *session.Session) error {
	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	logging.Ctx(ctx).Info().Str("user", sess.User.Username).Msg("user logged out")
	return nil
}
