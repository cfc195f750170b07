package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/blobloader/internal/credentials"
	"github.com/vvka-141/blobloader/pkg/blobloader"
)

var savePasswdCmd = &cobra.Command{
	Use:   "savepasswd <user> [dsn]",
	Short: "Save a password in the credential file",
	Long: `Savepasswd stores the password for <user>@<dsn> in the credential file
(default ~/.blobloader_passwd). An omitted dsn is stored as LOCAL, matching
profiles without a dsn. Existing entries for other identities are kept.

The password is prompted on the terminal, or read from stdin with -b.
The file holds plaintext passwords and is written with mode 0600.

Examples:
  blobloader savepasswd scott postgres://db.example.com/blobs
  printf 'tiger\n' | blobloader savepasswd -b scott`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSavePasswd,
}

var echoPasswdCmd = &cobra.Command{
	Use:   "echopasswd <user> [dsn]",
	Short: "Print a password stored in the credential file",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runEchoPasswd,
}

func init() {
	rootCmd.AddCommand(savePasswdCmd)
	rootCmd.AddCommand(echoPasswdCmd)
}

func identityArgs(args []string) (user, dsn string) {
	user = args[0]
	if len(args) > 1 {
		dsn = args[1]
	}
	return user, dsn
}

func runSavePasswd(cmd *cobra.Command, args []string) error {
	user, dsn := identityArgs(args)
	logger := newLogger(cmd)

	store, err := credentials.NewStore(rootFlags.passwdFile)
	if err != nil {
		return err
	}

	var src blobloader.PasswordSource
	if rootFlags.batch {
		src = credentials.NewReaderSource(cmd.InOrStdin())
	} else {
		src = credentials.NewPromptSource(promptPassword, isInteractive)
	}

	password, _, err := src.Password(cmd.Context(), user, dsn)
	if err != nil {
		return err
	}

	if err := store.Save(user, dsn, password); err != nil {
		return err
	}
	logger.Info("Saved password for %s in %s", blobloader.IdentityKey(user, dsn), store.Path())
	return nil
}

func runEchoPasswd(cmd *cobra.Command, args []string) error {
	user, dsn := identityArgs(args)

	store, err := credentials.NewStore(rootFlags.passwdFile)
	if err != nil {
		return err
	}

	password, found, err := store.Read(user, dsn)
	if err != nil && !errors.Is(err, blobloader.ErrCredentialNotFound) {
		return err
	}
	if !found {
		return blobloader.NewError(blobloader.KindConfig, "no password stored for %s in %s",
			blobloader.IdentityKey(user, dsn), store.Path())
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), password)
	return err
}
