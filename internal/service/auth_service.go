package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/auth"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
)

// LoginResult is returned by login and refresh.
type LoginResult struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	Expires      time.Time `json:"expires"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	Success      bool      `json:"success"`
	Message      string    `json:"message"`
}

type AuthService struct {
	users   *auth.UserStore
	tokens  *auth.TokenManager
	refresh *auth.RefreshStore
}

func NewAuthService(users *auth.UserStore, tokens *auth.TokenManager, refresh *auth.RefreshStore) *AuthService {
	return &AuthService{users: users, tokens: tokens, refresh: refresh}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.Authenticate(username, password)
	if err != nil {
		log.Warn().Str("username", username).Msg("auth: failed login")
		return nil, err
	}

	res, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	res.Message = "Login successful"
	log.Info().Str("username", user.Username).Msg("auth: user logged in")
	return res, nil
}

// Refresh exchanges a refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	username, next, err := s.refresh.Rotate(refreshToken)
	if err != nil {
		return nil, err
	}
	user, err := s.users.Get(username)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown user", domain.ErrInvalidToken)
	}

	token, expires, err := s.tokens.Generate(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:        token,
		RefreshToken: next,
		Expires:      expires,
		Username:     user.Username,
		Role:         user.Role,
		Success:      true,
		Message:      "Token refreshed successfully",
	}, nil
}

// Logout revokes every refresh token of username. Access tokens stay valid
// until they expire.
func (s *AuthService) Logout(ctx context.Context, username string) {
	n := s.refresh.RevokeUser(username)
	log.Info().Str("username", username).Int("revoked", n).Msg("auth: user logged out")
}

func (s *AuthService) Validate(ctx context.Context, token string) (*auth.Claims, error) {
	return s.tokens.Validate(token)
}

func (s *AuthService) ChangePassword(ctx context.Context, username, current, next, confirm string) error {
	if next != confirm {
		return fmt.Errorf("%w: passwords do not match", domain.ErrInvalidInput)
	}
	if err := s.users.ChangePassword(username, current, next); err != nil {
		return err
	}
	log.Info().Str("username", username).Msg("auth: password changed")
	return nil
}

func (s *AuthService) UserInfo(ctx context.Context, username string) (*auth.UserInfo, error) {
	user, err := s.users.Get(username)
	if err != nil {
		return nil, err
	}
	info := user.Info()
	return &info, nil
}

func (s *AuthService) issue(user auth.User) (*LoginResult, error) {
	token, expires, err := s.tokens.Generate(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:        token,
		RefreshToken: s.refresh.Issue(user.Username),
		Expires:      expires,
		Username:     user.Username,
		Role:         user.Role,
		Success:      true,
	}, nil
}
