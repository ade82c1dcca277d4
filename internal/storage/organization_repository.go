package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/gig-manager/backend/internal/storage/models"
)

// OrganizationRepository provides data access for organizations.
type OrganizationRepository struct {
	BaseRepository
}

// NewOrganizationRepository creates a new organization repository.
func NewOrganizationRepository(db *DB) *OrganizationRepository {
	return &OrganizationRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

const organizationColumns = `id, name, type, created_at, updated_at`

// likeEscaper escapes LIKE wildcards. '!' is used as the escape character
// because MySQL treats a backslash inside a string literal as an escape.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Create inserts a new organization.
func (r *OrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	org.ID = GenerateID()
	org.CreatedAt = r.Now()
	org.UpdatedAt = org.CreatedAt

	_, err := r.DB().ExecContext(ctx, r.Rebind(`
		INSERT INTO organizations (id, name, name_key, type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`),
		org.ID, org.Name, models.OrganizationNameKey(org.Name), org.Type, org.CreatedAt, org.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting organization: %w", err)
	}

	return nil
}

// GetByID retrieves an organization by its ID. It returns nil if none exists.
func (r *OrganizationRepository) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	org := &models.Organization{}
	err := r.DB().GetContext(ctx, org, r.Rebind(`
		SELECT `+organizationColumns+` FROM organizations WHERE id = ?
	`), id)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying organization: %w", err)
	}
	return org, nil
}

// FindByName returns the organization of the given type whose name equals
// name ignoring case and surrounding space. It returns nil if none exists.
func (r *OrganizationRepository) FindByName(ctx context.Context, name string, typ models.OrganizationType) (*models.Organization, error) {
	org := &models.Organization{}
	err := r.DB().GetContext(ctx, org, r.Rebind(`
		SELECT `+organizationColumns+` FROM organizations
		WHERE name_key = ? AND type = ?
		ORDER BY created_at, id
		LIMIT 1
	`), models.OrganizationNameKey(name), typ)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying organization by name: %w", err)
	}
	return org, nil
}

// Search returns organizations whose name contains filter.Name, ignoring
// case, optionally restricted to one type.
func (r *OrganizationRepository) Search(ctx context.Context, filter models.OrganizationFilter) ([]models.Organization, error) {
	var (
		where []string
		args  []any
	)
	if key := models.OrganizationNameKey(filter.Name); key != "" {
		where = append(where, "name_key LIKE ? ESCAPE '!'")
		args = append(args, "%"+likeEscaper.Replace(key)+"%")
	}
	if filter.Type != "" {
		where = append(where, "type = ?")
		args = append(args, filter.Type)
	}

	query := "SELECT " + organizationColumns + " FROM organizations"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	orgs := []models.Organization{}
	if err := r.DB().SelectContext(ctx, &orgs, r.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("querying organizations: %w", err)
	}
	return orgs, nil
}

// List retrieves all organizations.
func (r *OrganizationRepository) List(ctx context.Context) ([]models.Organization, error) {
	return r.Search(ctx, models.OrganizationFilter{})
}

// Count returns the number of organizations.
func (r *OrganizationRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB().GetContext(ctx, &n, "SELECT COUNT(*) FROM organizations"); err != nil {
		return 0, fmt.Errorf("counting organizations: %w", err)
	}
	return n, nil
}
