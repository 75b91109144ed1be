package account

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/opp/planner/internal/platform/auth"
)

type Service struct {
	creds  CredentialRepository
	tokens *auth.Tokens
	logger zerolog.Logger
}

func NewService(creds CredentialRepository, tokens *auth.Tokens, logger zerolog.Logger) *Service {
	return &Service{creds: creds, tokens: tokens, logger: logger}
}

// Register stores the credential as given. Empty and duplicate values are
// accepted.
func (s *Service) Register(ctx context.Context, username, password string) error {
	if err := s.creds.Create(ctx, &Credential{Username: username, Password: password}); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	s.logger.Info().Str("user", username).Msg("user registered")
	return nil
}

// Login returns a session token when a stored credential matches exactly.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	ok, err := s.creds.Find(ctx, username, password)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if !ok {
		s.logger.Warn().Str("user", username).Msg("login failed")
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(username)
}
