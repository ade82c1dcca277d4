package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gig-manager/backend/internal/importer"
)

func newTemplateCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "template <gigs|assets>",
		Short: "Print the CSV template for an import type",
		Args:  cobra.ExactArgs(1),
		// Templates need no configuration.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := importer.ParseImportType(args[0])
			if err != nil {
				return withCode(exitUsage, err)
			}
			body, err := importer.Template(t)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			if output == "-" {
				output = importer.TemplateFileName(t)
			}
			if err := os.WriteFile(output, body, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Wrote", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", `Write to a file instead of stdout ("-" uses the default file name)`)
	return cmd
}
