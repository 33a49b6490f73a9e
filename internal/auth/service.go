package auth

import (
	"context"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"samajsetu/internal/platform/config"
	dErrors "samajsetu/pkg/domain-errors"
)

// TokenResponse is the login payload returned to the admin client.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Service authenticates the configured admin account. The password is
// hashed once at startup so login always runs a bcrypt comparison.
type Service struct {
	username     string
	passwordHash []byte
	tokens       *JWTService
	logger       *slog.Logger
}

type ServiceOption func(*Service)

func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

func NewService(cfg config.AdminConfig, tokens *JWTService, opts ...ServiceOption) (*Service, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to prepare admin credentials")
	}
	s := &Service{
		username:     cfg.Username,
		passwordHash: hash,
		tokens:       tokens,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Login checks the credentials and mints an access token.
func (s *Service) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	if username != s.username {
		s.logger.WarnContext(ctx, "login failed", "username", username)
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		s.logger.WarnContext(ctx, "login failed", "username", username)
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Invalid username or password")
	}

	token, err := s.tokens.GenerateAccessToken(username)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to generate access token", "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate access token")
	}

	s.logger.InfoContext(ctx, "admin logged in", "username", username)
	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokens.ExpiresIn().Seconds()),
	}, nil
}
