package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/blobloader/internal/config"
	"github.com/vvka-141/blobloader/internal/session"
)

// blobOperation is the session call a command performs once connected.
type blobOperation func(s *session.Session, ctx context.Context, id int64, path string) error

// runBlobCommand resolves the profile, checks the local path, connects,
// runs op and disconnects. Nothing contacts the database before the
// profile and the path have been validated.
func runBlobCommand(cmd *cobra.Command, args []string, checkPath func(string) (string, error), op blobOperation) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	logger := newLogger(cmd)

	profile, err := config.Resolve(rootFlags.cfgFile, rootFlags.cfgKey)
	if err != nil {
		return err
	}
	logger.Verbose("Using profile %q (%s, table %s%s)", profile.Name, profile.Driver, profile.SchemaPrefix(), profile.TableName)

	path, err := checkPath(args[1])
	if err != nil {
		return err
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connector, err := connectorFactory(profile)
	if err != nil {
		return err
	}
	password, err := obtainPassword(ctx, profile, cmd.InOrStdin(), logger)
	if err != nil {
		return err
	}

	s := session.New(profile, connector, logger)
	if err := s.Connect(ctx, password); err != nil {
		return err
	}
	defer s.Disconnect(context.WithoutCancel(ctx))

	return op(s, ctx, id, path)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: must be an integer", arg)
	}
	return id, nil
}
