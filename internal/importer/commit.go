package importer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/gig-manager/backend/internal/storage/models"
)

// OrganizationStore looks up and creates organizations. FindByName matches
// the name ignoring case and returns nil when nothing matches.
type OrganizationStore interface {
	FindByName(ctx context.Context, name string, typ models.OrganizationType) (*models.Organization, error)
	Create(ctx context.Context, org *models.Organization) error
}

// GigStore persists gigs together with their participants.
type GigStore interface {
	Create(ctx context.Context, gig *models.Gig) error
}

// AssetStore persists assets.
type AssetStore interface {
	Create(ctx context.Context, asset *models.Asset) error
}

// CommitOptions identifies who is importing and labels the batch for observers.
type CommitOptions struct {
	BatchID string
	// Owner is the organization performing the import. It joins every gig as
	// a participant and owns every asset.
	Owner models.Organization
}

// Committer writes valid rows through the persistence collaborators.
type Committer struct {
	orgs     OrganizationStore
	gigs     GigStore
	assets   AssetStore
	observer Observer
}

// NewCommitter creates a committer. Any store may be nil if the matching
// import type is never committed; observer may be nil.
func NewCommitter(orgs OrganizationStore, gigs GigStore, assets AssetStore, observer Observer) *Committer {
	if observer == nil {
		observer = Observers{}
	}
	return &Committer{
		orgs:     orgs,
		gigs:     gigs,
		assets:   assets,
		observer: observer,
	}
}

// Commit persists every valid, not yet committed row of p in row order, one at
// a time. Row failures are recorded on the row and in the result; they never
// stop the batch. An error is returned only when the batch cannot start.
//
// The batch is detached from ctx cancellation: once started it runs over all
// valid rows.
func (c *Committer) Commit(ctx context.Context, p *Partition, opts CommitOptions) (CommitResult, error) {
	if p == nil {
		return CommitResult{}, errors.New("commit: nil partition")
	}
	if opts.Owner.ID == "" {
		return CommitResult{}, errors.New("commit: owner organization is required")
	}
	switch p.Type() {
	case ImportTypeGigs:
		if c.orgs == nil || c.gigs == nil {
			return CommitResult{}, errors.New("commit: gig import requires organization and gig stores")
		}
	case ImportTypeAssets:
		if c.assets == nil {
			return CommitResult{}, errors.New("commit: asset import requires an asset store")
		}
	default:
		return CommitResult{}, fmt.Errorf("commit: %w: %q", ErrUnknownImportType, p.Type())
	}

	ctx = context.WithoutCancel(ctx)
	started := time.Now()
	result := CommitResult{Errors: []string{}}

	for i := range p.valid {
		row := &p.valid[i]
		if !row.IsValid || row.ImportStatus == ImportStatusCommitted {
			continue
		}

		row.ImportStatus = ImportStatusCommitting
		id, err := c.commitRow(ctx, row, opts.Owner)
		if err != nil {
			row.ImportStatus = ImportStatusFailed
			row.ImportError = err.Error()
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", row.RowIndex, err))
			log.Warn().
				Err(err).
				Str("batch_id", opts.BatchID).
				Str("type", string(p.Type())).
				Int("row", row.RowIndex).
				Msg("Import row failed")
			c.observer.RowFailed(opts.BatchID, p.Type(), row.RowIndex, err)
			continue
		}

		row.ImportStatus = ImportStatusCommitted
		row.ImportError = ""
		result.SuccessCount++
		c.observer.RowCommitted(opts.BatchID, p.Type(), row.RowIndex, id)
	}

	log.Info().
		Str("batch_id", opts.BatchID).
		Str("type", string(p.Type())).
		Int("committed", result.SuccessCount).
		Int("failed", len(result.Errors)).
		Dur("duration", time.Since(started)).
		Msg("Import batch completed")
	c.observer.BatchCompleted(opts.BatchID, p.Type(), result)

	return result, nil
}

func (c *Committer) commitRow(ctx context.Context, row *ParsedRow, owner models.Organization) (string, error) {
	switch data := row.Data.(type) {
	case GigRowData:
		return c.commitGig(ctx, data, owner)
	case AssetRowData:
		return c.commitAsset(ctx, data, owner)
	}
	return "", fmt.Errorf("unsupported row data %T", row.Data)
}

func (c *Committer) commitGig(ctx context.Context, data GigRowData, owner models.Organization) (string, error) {
	start, err := ParseInstant(data.Start)
	if err != nil {
		return "", fmt.Errorf("parsing start: %w", err)
	}
	end, err := ParseInstant(data.End)
	if err != nil {
		return "", fmt.Errorf("parsing end: %w", err)
	}

	participants := []models.GigParticipant{{OrganizationID: owner.ID, Role: string(owner.Type)}}
	for _, ref := range []struct {
		name string
		typ  models.OrganizationType
	}{
		{data.Act, models.OrganizationTypeAct},
		{data.Venue, models.OrganizationTypeVenue},
	} {
		if strings.TrimSpace(ref.name) == "" {
			continue
		}
		org, err := c.findOrCreateOrganization(ctx, ref.name, ref.typ)
		if err != nil {
			return "", err
		}
		participants = append(participants, models.GigParticipant{OrganizationID: org.ID, Role: string(ref.typ)})
	}

	gig := &models.Gig{
		OrganizationID: owner.ID,
		Title:          data.Title,
		Status:         data.Status,
		StartTime:      start,
		EndTime:        end,
		Timezone:       data.Timezone,
		Tags:           SplitTags(data.Tags),
		Notes:          data.Notes,
		Participants:   participants,
	}
	if data.Amount != "" {
		amount, err := decimal.NewFromString(data.Amount)
		if err != nil {
			return "", fmt.Errorf("parsing amount: %w", err)
		}
		gig.Amount = decimal.NewNullDecimal(amount)
	}

	if err := c.gigs.Create(ctx, gig); err != nil {
		return "", err
	}
	return gig.ID, nil
}

// findOrCreateOrganization returns the organization whose name matches
// case-insensitively with the same type, creating it when none exists.
func (c *Committer) findOrCreateOrganization(ctx context.Context, name string, typ models.OrganizationType) (models.Organization, error) {
	name = strings.TrimSpace(name)
	found, err := c.orgs.FindByName(ctx, name, typ)
	if err != nil {
		return models.Organization{}, fmt.Errorf("searching %s %q: %w", strings.ToLower(string(typ)), name, err)
	}
	if found != nil {
		return *found, nil
	}

	org := models.Organization{Name: name, Type: typ}
	if err := c.orgs.Create(ctx, &org); err != nil {
		return models.Organization{}, fmt.Errorf("creating %s %q: %w", strings.ToLower(string(typ)), name, err)
	}
	log.Debug().Str("id", org.ID).Str("name", name).Str("type", string(typ)).Msg("Created organization during import")
	return org, nil
}

func (c *Committer) commitAsset(ctx context.Context, data AssetRowData, owner models.Organization) (string, error) {
	acquired, err := ParseAcquisitionDate(data.AcquisitionDate)
	if err != nil {
		return "", fmt.Errorf("parsing acquisition date: %w", err)
	}

	asset := &models.Asset{
		OrganizationID:    owner.ID,
		Category:          data.Category,
		SubCategory:       data.SubCategory,
		ManufacturerModel: data.ManufacturerModel,
		EquipmentType:     data.EquipmentType,
		SerialNumber:      data.SerialNumber,
		AcquisitionDate:   acquired,
		Vendor:            data.Vendor,
		Quantity:          1,
		Insured:           ParseInsured(data.Insured),
		InsuranceCategory: data.InsuranceCategory,
		Notes:             data.Notes,
	}
	if data.Quantity != "" {
		n, err := strconv.Atoi(data.Quantity)
		if err != nil {
			return "", fmt.Errorf("parsing quantity: %w", err)
		}
		asset.Quantity = n
	}
	if asset.CostPerItem, err = parseOptionalDecimal(data.CostPerItem); err != nil {
		return "", fmt.Errorf("parsing cost per item: %w", err)
	}
	if asset.ReplacementValuePerItem, err = parseOptionalDecimal(data.ReplacementValuePerItem); err != nil {
		return "", fmt.Errorf("parsing replacement value: %w", err)
	}

	if err := c.assets.Create(ctx, asset); err != nil {
		return "", err
	}
	return asset.ID, nil
}

func parseOptionalDecimal(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}
