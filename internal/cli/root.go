package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vvka-141/blobloader/internal/logging"
	"github.com/vvka-141/blobloader/pkg/blobloader"
)

var rootCmd = &cobra.Command{
	Use:   "blobloader",
	Short: "Load files into and dump files out of database BLOB columns",
	Long: `blobloader moves whole files between the local filesystem and a single
BLOB column of a database table, addressed by a numeric id.

The table, id column and blob column come from a named profile in the
configuration file (default ~/.blobloader, profile "default"):

  {
    "default": {
      "user": "scott",
      "table_name": "documents",
      "id_column": "doc_id",
      "blob_column": "content",
      "schema": "archive",
      "dsn": "postgres://db.example.com:5432/blobs"
    }
  }

Passwords are read from the credential file (default ~/.blobloader_passwd,
written by savepasswd), prompted on the terminal, or read from stdin with -b.

Exit Codes:
  0  - Success
  1  - General error (invalid arguments or unexpected failure)
  2  - Source file or destination directory not found
  3  - Configuration file, profile or required field missing
  8  - Database connection failed
  9  - Database operation failed (including no matching record)
  70 - Panic or unexpected system error`,
	SilenceUsage: true,
}

var rootFlags struct {
	verbose    bool
	batch      bool
	cfgFile    string
	cfgKey     string
	passwdFile string
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&rootFlags.verbose, "verbose", "v", false, "Enable verbose output")
	flags.BoolVarP(&rootFlags.batch, "batch", "b", false, "Read the password from stdin instead of prompting")
	flags.StringVar(&rootFlags.cfgFile, "cfgfile", blobloader.DefaultConfigFile, "Configuration file")
	flags.StringVar(&rootFlags.cfgKey, "cfgkey", blobloader.DefaultConfigKey, "Profile name in the configuration file")
	flags.StringVar(&rootFlags.passwdFile, "passwdfile", blobloader.DefaultPasswordFile, "Credential file")
}

// newLogger creates a console logger on the command's stderr.
func newLogger(cmd *cobra.Command) *logging.ConsoleLogger {
	return logging.NewWriterLogger(cmd.ErrOrStderr(), rootFlags.verbose)
}

