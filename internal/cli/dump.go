package cli

import (
	"github.com/spf13/cobra"

	"github.com/vvka-141/blobloader/internal/session"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <id> <filename>",
	Short: "Write the BLOB of the row with the given id to a file",
	Long: `Dump fetches the profile's blob column of the row whose id column equals
<id> and writes it to <filename>, replacing any existing content.

A missing destination directory exits with code 2 before any connection is
made. When no row matches, the destination is left untouched and the
command exits with code 9.

Examples:
  blobloader dump 42 ./report.pdf
  blobloader dump --cfgfile ./blobloader.yaml --cfgkey prod 42 /tmp/out.bin`,
	Args: cobra.ExactArgs(2),
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	return runBlobCommand(cmd, args, session.CheckDestination, (*session.Session).Dump)
}
