package cli

import (
	"github.com/spf13/cobra"

	"github.com/vvka-141/blobloader/internal/session"
)

var loadCmd = &cobra.Command{
	Use:   "load <id> <filename>",
	Short: "Store a file in the BLOB column of the row with the given id",
	Long: `Load reads the whole file and stores it in the profile's blob column of
the row whose id column equals <id>, then commits.

A missing file exits with code 2 before any connection is made. When no
row matches, nothing is updated and a warning is printed.

Examples:
  blobloader load 42 ./report.pdf
  blobloader load --cfgkey staging 42 ./report.pdf
  echo "$DB_PASSWORD" | blobloader load -b 42 ./report.pdf`,
	Args: cobra.ExactArgs(2),
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	return runBlobCommand(cmd, args, session.CheckSource, (*session.Session).Load)
}
