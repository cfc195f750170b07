package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vvka-141/blobloader/internal/config"
	"github.com/vvka-141/blobloader/internal/sqlbuild"
	"github.com/vvka-141/blobloader/pkg/blobloader"
)

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Show the resolved profile and the statements it renders",
	Long: `Print resolves the selected profile and shows its fields together with the
update and select statements blobloader would execute. Nothing connects to
the database.

Examples:
  blobloader print
  blobloader print --cfgkey prod --format yaml`,
	Args: cobra.NoArgs,
	RunE: runPrint,
}

var printFlags struct {
	format string
}

func init() {
	rootCmd.AddCommand(printCmd)
	printCmd.Flags().StringVar(&printFlags.format, "format", "text", "Output format: text, json or yaml")
}

// profileReport is the document rendered by print.
type profileReport struct {
	Profile         *blobloader.Profile `json:"profile" yaml:"profile"`
	AuthMethod      string              `json:"auth_method" yaml:"auth_method"`
	UpdateStatement string              `json:"update_statement" yaml:"update_statement"`
	SelectStatement string              `json:"select_statement" yaml:"select_statement"`
}

func runPrint(cmd *cobra.Command, args []string) error {
	profile, err := config.Resolve(rootFlags.cfgFile, rootFlags.cfgKey)
	if err != nil {
		return err
	}

	stmts := sqlbuild.Build(profile)
	report := profileReport{
		Profile:         profile,
		AuthMethod:      profile.AuthMethod.String(),
		UpdateStatement: stmts.Update,
		SelectStatement: stmts.Select,
	}

	out := cmd.OutOrStdout()
	switch printFlags.format {
	case "text", "":
		return printText(out, report)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (expected text, json or yaml)", printFlags.format)
	}
}

func printText(w io.Writer, r profileReport) error {
	p := r.Profile
	fields := []struct{ name, value string }{
		{"description", p.Description},
		{"user", p.User},
		{"table_name", p.TableName},
		{"id_column", p.IDColumn},
		{"blob_column", p.BlobColumn},
		{"schema", p.Schema},
		{"dsn", p.DSN},
		{"driver", string(p.Driver)},
		{"auth_method", r.AuthMethod},
	}

	if _, err := fmt.Fprintf(w, "Profile: %s\n", p.Name); err != nil {
		return err
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "  %-12s %s\n", f.name+":", f.value); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n%s\n%s\n", r.UpdateStatement, r.SelectStatement)
	return err
}
