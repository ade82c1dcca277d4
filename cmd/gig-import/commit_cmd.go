package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gig-manager/backend/internal/importer"
	"github.com/gig-manager/backend/internal/storage"
)

type commitOutput struct {
	File    string                `json:"file"`
	BatchID string                `json:"batch_id"`
	Result  importer.CommitResult `json:"result"`
	Summary importer.Summary      `json:"summary"`
	Skipped []rowReport           `json:"skipped,omitempty"`
}

func newCommitCmd(a *app) *cobra.Command {
	var (
		flags          importFlags
		organizationID string
		allowInvalid   bool
	)

	cmd := &cobra.Command{
		Use:   "commit <file>",
		Short: "Validate a spreadsheet and write its valid rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, err := storage.Open(a.cfg.Database.Driver, a.cfg.DatabaseDSN())
			if err != nil {
				return withCode(exitDB, err)
			}
			defer db.Close()
			if err := storage.RunMigrations(ctx, db); err != nil {
				return withCode(exitDB, err)
			}

			orgs := storage.NewOrganizationRepository(db)
			owner, err := orgs.GetByID(ctx, organizationID)
			if err != nil {
				return withCode(exitDB, err)
			}
			if owner == nil {
				return withCode(exitUsage, fmt.Errorf("organization %s not found", organizationID))
			}

			defaults, err := storage.ResolveImportDefaults(ctx, storage.NewSettingsRepository(db),
				a.cfg.Import.DefaultTimezone, a.cfg.Import.GigStatuses)
			if err != nil {
				return withCode(exitDB, err)
			}

			p, err := buildPartition(args[0], flags, defaults.DefaultTimezone, defaults.GigStatuses)
			if err != nil {
				return err
			}
			skipped := invalidReports(p)
			if len(skipped) > 0 && !allowInvalid {
				_ = writeJSON(cmd.OutOrStdout(), validateOutput{File: args[0], Summary: p.Summary(), Invalid: skipped})
				return withCode(exitValidation, fmt.Errorf("%d rows are invalid; fix them or pass --allow-invalid", len(skipped)))
			}

			committer := importer.NewCommitter(orgs, storage.NewGigRepository(db), storage.NewAssetRepository(db), nil)
			batchID := uuid.NewString()
			result, err := committer.Commit(ctx, p, importer.CommitOptions{BatchID: batchID, Owner: *owner})
			if err != nil {
				return withCode(exitDB, err)
			}
			log.Info().Str("batch_id", batchID).Int("committed", result.SuccessCount).Int("failed", len(result.Errors)).Msg("Import finished")

			if err := writeJSON(cmd.OutOrStdout(), commitOutput{
				File:    args[0],
				BatchID: batchID,
				Result:  result,
				Summary: p.Summary(),
				Skipped: skipped,
			}); err != nil {
				return err
			}
			if len(result.Errors) > 0 {
				return withCode(exitCommit, errors.New("some rows failed to import"))
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&organizationID, "organization", "", "ID of the organization the import belongs to (required)")
	cmd.Flags().BoolVar(&allowInvalid, "allow-invalid", false, "Commit valid rows even when others are invalid")
	_ = cmd.MarkFlagRequired("organization")
	return cmd
}
