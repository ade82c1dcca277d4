package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gig-manager/backend/internal/importer"
)

type validateOutput struct {
	File    string           `json:"file"`
	Summary importer.Summary `json:"summary"`
	Invalid []rowReport      `json:"invalid"`
}

func newValidateCmd(a *app) *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a spreadsheet without writing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := buildPartition(args[0], flags, a.cfg.Import.DefaultTimezone, a.cfg.Import.GigStatuses)
			if err != nil {
				return err
			}

			summary := p.Summary()
			if err := writeJSON(cmd.OutOrStdout(), validateOutput{
				File:    args[0],
				Summary: summary,
				Invalid: invalidReports(p),
			}); err != nil {
				return err
			}
			if summary.Invalid > 0 {
				return withCode(exitValidation, fmt.Errorf("%d of %d rows are invalid", summary.Invalid, summary.Total))
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
