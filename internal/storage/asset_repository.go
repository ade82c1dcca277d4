package storage

import (
	"context"
	"fmt"

	"github.com/gig-manager/backend/internal/storage/models"
)

// AssetRepository provides data access for equipment assets.
type AssetRepository struct {
	BaseRepository
}

// NewAssetRepository creates a new asset repository.
func NewAssetRepository(db *DB) *AssetRepository {
	return &AssetRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

const assetColumns = `id, organization_id, category, sub_category, manufacturer_model,
		equipment_type, serial_number, acquisition_date, vendor, cost_per_item, quantity,
		replacement_value_per_item, insured, insurance_category, notes, created_at, updated_at`

// Create inserts a new asset.
func (r *AssetRepository) Create(ctx context.Context, asset *models.Asset) error {
	asset.ID = GenerateID()
	asset.CreatedAt = r.Now()
	asset.UpdatedAt = asset.CreatedAt

	_, err := r.DB().ExecContext(ctx, r.Rebind(`
		INSERT INTO assets (`+assetColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`),
		asset.ID, asset.OrganizationID, asset.Category, asset.SubCategory,
		asset.ManufacturerModel, asset.EquipmentType, asset.SerialNumber,
		asset.AcquisitionDate, asset.Vendor, asset.CostPerItem, asset.Quantity,
		asset.ReplacementValuePerItem, asset.Insured, asset.InsuranceCategory,
		asset.Notes, asset.CreatedAt, asset.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting asset: %w", err)
	}

	return nil
}

// List retrieves assets, optionally only those owned by organizationID.
func (r *AssetRepository) List(ctx context.Context, organizationID string) ([]models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets`
	var args []any
	if organizationID != "" {
		query += ` WHERE organization_id = ?`
		args = append(args, organizationID)
	}
	query += ` ORDER BY category, manufacturer_model`

	assets := []models.Asset{}
	if err := r.DB().SelectContext(ctx, &assets, r.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("querying assets: %w", err)
	}
	return assets, nil
}

// Count returns the number of assets.
func (r *AssetRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB().GetContext(ctx, &n, "SELECT COUNT(*) FROM assets"); err != nil {
		return 0, fmt.Errorf("counting assets: %w", err)
	}
	return n, nil
}
