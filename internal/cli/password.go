package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/vvka-141/blobloader/internal/credentials"
	"github.com/vvka-141/blobloader/internal/db"
	"github.com/vvka-141/blobloader/internal/tui"
	"github.com/vvka-141/blobloader/pkg/blobloader"
)

// Replaced in tests.
var (
	connectorFactory blobloader.ConnectorFactory = db.NewConnector
	promptPassword   credentials.PromptFunc      = tui.PromptPassword
	isInteractive                                = tui.IsInteractive
)

// passwordSource selects where the connection secret comes from:
//   - sqlite and google IAM profiles need none
//   - aws-iam and azure profiles use a freshly issued token
//   - --batch reads one line from stdin
//   - otherwise the credential file, then a terminal prompt
func passwordSource(profile *blobloader.Profile, stdin io.Reader, logger blobloader.Logger) (blobloader.PasswordSource, error) {
	if profile.Driver == blobloader.DriverSQLite || !profile.AuthMethod.NeedsPassword() {
		return credentials.NoPassword{}, nil
	}

	switch profile.AuthMethod {
	case blobloader.AuthMethodAWSIAM, blobloader.AuthMethodAzureEntraID:
		provider, err := db.NewTokenProvider(profile)
		if err != nil {
			return nil, err
		}
		logger.Verbose("Using %s token authentication", provider)
		return credentials.NewTokenSource(provider, logger), nil
	}

	if rootFlags.batch {
		return credentials.NewReaderSource(stdin), nil
	}

	store, err := credentials.NewStore(rootFlags.passwdFile)
	if err != nil {
		return nil, err
	}
	return credentials.ChainSource{
		credentials.NewStoredSource(store, logger),
		credentials.NewPromptSource(promptPassword, isInteractive),
	}, nil
}

// obtainPassword runs the profile's password source. Failing to obtain a
// secret means the connection cannot be attempted.
func obtainPassword(ctx context.Context, profile *blobloader.Profile, stdin io.Reader, logger blobloader.Logger) (string, error) {
	src, err := passwordSource(profile, stdin, logger)
	if err != nil {
		return "", blobloader.WrapError(blobloader.KindConnection, err, fmt.Sprintf("cannot authenticate %s: %v", profile.IdentityKey(), err))
	}

	password, ok, err := src.Password(ctx, profile.User, profile.DSN)
	if err != nil {
		return "", blobloader.WrapError(blobloader.KindConnection, err, fmt.Sprintf("cannot obtain password for %s: %v", profile.IdentityKey(), err))
	}
	if !ok {
		return "", blobloader.NewError(blobloader.KindConnection, "no password available for %s", profile.IdentityKey())
	}
	return password, nil
}
