package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/gig-manager/backend/internal/storage/models"
)

// GigRepository provides data access for gigs and their participants.
type GigRepository struct {
	BaseRepository
}

// NewGigRepository creates a new gig repository.
func NewGigRepository(db *DB) *GigRepository {
	return &GigRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// GigFilter narrows a gig listing.
type GigFilter struct {
	OrganizationID string
	Limit          int
}

// gigRow is the table shape of a gig; tags are stored comma separated.
type gigRow struct {
	ID             string              `db:"id"`
	OrganizationID string              `db:"organization_id"`
	Title          string              `db:"title"`
	Status         string              `db:"status"`
	StartTime      time.Time           `db:"start_time"`
	EndTime        time.Time           `db:"end_time"`
	Timezone       string              `db:"timezone"`
	Tags           string              `db:"tags"`
	Notes          string              `db:"notes"`
	Amount         decimal.NullDecimal `db:"amount"`
	CreatedAt      time.Time           `db:"created_at"`
	UpdatedAt      time.Time           `db:"updated_at"`
}

func (g gigRow) model() models.Gig {
	tags := []string{}
	for _, t := range strings.Split(g.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return models.Gig{
		ID:             g.ID,
		OrganizationID: g.OrganizationID,
		Title:          g.Title,
		Status:         g.Status,
		StartTime:      g.StartTime.UTC(),
		EndTime:        g.EndTime.UTC(),
		Timezone:       g.Timezone,
		Tags:           tags,
		Notes:          g.Notes,
		Amount:         g.Amount,
		Participants:   []models.GigParticipant{},
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	}
}

const gigColumns = `id, organization_id, title, status, start_time, end_time, timezone,
		tags, notes, amount, created_at, updated_at`

// Create inserts a gig and its participants in one transaction.
func (r *GigRepository) Create(ctx context.Context, gig *models.Gig) error {
	gig.ID = GenerateID()
	gig.CreatedAt = r.Now()
	gig.UpdatedAt = gig.CreatedAt

	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO gigs (`+gigColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`),
			gig.ID, gig.OrganizationID, gig.Title, gig.Status,
			gig.StartTime.UTC(), gig.EndTime.UTC(), gig.Timezone,
			strings.Join(gig.Tags, ","), gig.Notes, gig.Amount,
			gig.CreatedAt, gig.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting gig: %w", err)
		}

		for i := range gig.Participants {
			p := &gig.Participants[i]
			p.GigID = gig.ID
			if _, err := tx.ExecContext(ctx, tx.Rebind(`
				INSERT INTO gig_participants (gig_id, organization_id, role) VALUES (?, ?, ?)
			`), p.GigID, p.OrganizationID, p.Role); err != nil {
				return fmt.Errorf("inserting gig participant: %w", err)
			}
		}
		return nil
	})
}

// GetByID retrieves a gig with its participants. It returns nil if none exists.
func (r *GigRepository) GetByID(ctx context.Context, id string) (*models.Gig, error) {
	var row gigRow
	err := r.DB().GetContext(ctx, &row, r.Rebind(`SELECT `+gigColumns+` FROM gigs WHERE id = ?`), id)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying gig: %w", err)
	}

	gigs := []models.Gig{row.model()}
	if err := r.attachParticipants(ctx, gigs); err != nil {
		return nil, err
	}
	return &gigs[0], nil
}

// List retrieves gigs ordered by start time.
func (r *GigRepository) List(ctx context.Context, filter GigFilter) ([]models.Gig, error) {
	query := `SELECT ` + gigColumns + ` FROM gigs`
	var args []any
	if filter.OrganizationID != "" {
		query += ` WHERE organization_id = ?`
		args = append(args, filter.OrganizationID)
	}
	query += ` ORDER BY start_time, title`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	var rows []gigRow
	if err := r.DB().SelectContext(ctx, &rows, r.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("querying gigs: %w", err)
	}

	gigs := make([]models.Gig, 0, len(rows))
	for _, row := range rows {
		gigs = append(gigs, row.model())
	}
	if err := r.attachParticipants(ctx, gigs); err != nil {
		return nil, err
	}
	return gigs, nil
}

// Count returns the number of gigs.
func (r *GigRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB().GetContext(ctx, &n, "SELECT COUNT(*) FROM gigs"); err != nil {
		return 0, fmt.Errorf("counting gigs: %w", err)
	}
	return n, nil
}

func (r *GigRepository) attachParticipants(ctx context.Context, gigs []models.Gig) error {
	if len(gigs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(gigs))
	byID := make(map[string]int, len(gigs))
	for i, g := range gigs {
		ids = append(ids, g.ID)
		byID[g.ID] = i
	}

	query, args, err := sqlx.In(`
		SELECT gig_id, organization_id, role FROM gig_participants
		WHERE gig_id IN (?) ORDER BY gig_id, role
	`, ids)
	if err != nil {
		return fmt.Errorf("building participant query: %w", err)
	}

	var participants []models.GigParticipant
	if err := r.DB().SelectContext(ctx, &participants, r.Rebind(query), args...); err != nil {
		return fmt.Errorf("querying gig participants: %w", err)
	}
	for _, p := range participants {
		if i, ok := byID[p.GigID]; ok {
			gigs[i].Participants = append(gigs[i].Participants, p)
		}
	}
	return nil
}
