package credentials

import (
	"context"
	"fmt"
	"time"

	"github.com/vvka-141/blobloader/pkg/blobloader"
)

// TokenProvider acquires short-lived cloud tokens that stand in for a password.
type TokenProvider interface {
	GetToken(ctx context.Context) (token string, expiresOn time.Time, err error)
	String() string
}

// minTokenLifetime is the remaining lifetime below which a warning is logged.
const minTokenLifetime = 5 * time.Minute

// TokenSource yields a cloud token as the connection password.
type TokenSource struct {
	provider TokenProvider
	logger   blobloader.Logger
	now      func() time.Time
}

// NewTokenSource creates a TokenSource over provider.
func NewTokenSource(provider TokenProvider, logger blobloader.Logger) *TokenSource {
	return &TokenSource{provider: provider, logger: logger, now: time.Now}
}

func (s *TokenSource) Password(ctx context.Context, _, _ string) (string, bool, error) {
	s.logger.Verbose("Acquiring token from %s", s.provider)

	token, expiresOn, err := s.provider.GetToken(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire token from %s: %w", s.provider, err)
	}

	if remaining := expiresOn.Sub(s.now()); remaining < minTokenLifetime {
		s.logger.Info("Warning: token from %s expires in %v", s.provider, remaining.Round(time.Second))
	}
	return token, true, nil
}

var _ blobloader.PasswordSource = (*TokenSource)(nil)
