package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gig-manager/backend/internal/config"
	"github.com/gig-manager/backend/internal/importer"
)

// app is shared by the subcommands.
type app struct {
	envFiles []string
	cfg      *config.Configuration
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "gig-import",
		Short:         "Validate and import gig and asset spreadsheets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.envFiles...)
			if err != nil {
				return withCode(exitUsage, err)
			}
			config.SetupLogging(cfg, cmd.ErrOrStderr())
			a.cfg = cfg
			return nil
		},
	}
	cmd.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", nil, "Env files to load (default .env,.env.local)")

	cmd.AddCommand(newValidateCmd(a))
	cmd.AddCommand(newCommitCmd(a))
	cmd.AddCommand(newTemplateCmd())
	return cmd
}

// importFlags are the options shared by validate and commit.
type importFlags struct {
	importType string
	timezone   string
}

func (f *importFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.importType, "type", "", "Import type: gigs or assets (required)")
	cmd.Flags().StringVar(&f.timezone, "timezone", "", "Timezone for gig rows without one (IANA name)")
	_ = cmd.MarkFlagRequired("type")
}

// buildPartition reads path and validates every row.
func buildPartition(path string, f importFlags, timezone string, statuses []string) (*importer.Partition, error) {
	t, err := importer.ParseImportType(f.importType)
	if err != nil {
		return nil, withCode(exitUsage, err)
	}
	if f.timezone != "" {
		if !importer.IsValidTimezone(f.timezone) {
			return nil, withCode(exitUsage, fmt.Errorf("invalid --timezone %q", f.timezone))
		}
		timezone = f.timezone
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, withCode(exitUsage, fmt.Errorf("reading %s: %w", path, err))
	}
	records, err := importer.Parse(data)
	if err != nil {
		return nil, withCode(exitValidation, err)
	}

	v, err := importer.NewValidator(t, importer.ValidatorOptions{
		UserTimezone:   timezone,
		DetectTimezone: importer.DetectLocalTimezone,
		GigStatuses:    statuses,
	})
	if err != nil {
		return nil, withCode(exitUsage, err)
	}
	return importer.BuildPartition(records, v), nil
}

// rowReport is one invalid row in command output.
type rowReport struct {
	Row    int                        `json:"row"`
	Errors []importer.ValidationError `json:"errors"`
}

func invalidReports(p *importer.Partition) []rowReport {
	rows := p.InvalidRows()
	out := make([]rowReport, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowReport{Row: r.RowIndex, Errors: r.Errors})
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}
