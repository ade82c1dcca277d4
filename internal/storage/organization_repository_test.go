package storage

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gig-manager/backend/internal/storage/models"
)

func TestOrganizationRepository_Create(t *testing.T) {
	db, mock := newMockDB(t, DriverSQLite)
	repo := NewOrganizationRepository(db)

	mock.ExpectExec("INSERT INTO organizations").
		WithArgs(sqlmock.AnyArg(), "The Owls", "the owls", "Act", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	org := &models.Organization{Name: "The Owls", Type: models.OrganizationTypeAct}
	require.NoError(t, repo.Create(context.Background(), org))
	assert.Len(t, org.ID, 36)
	assert.False(t, org.CreatedAt.IsZero())
}

func TestOrganizationRepository_Search(t *testing.T) {
	db, mock := newMockDB(t, DriverSQLite)
	repo := NewOrganizationRepository(db)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, name, type, created_at, updated_at FROM organizations WHERE name_key LIKE ? ESCAPE '!' AND type = ? ORDER BY name LIMIT 5",
	)).
		WithArgs("%blue room%", "Venue").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "created_at", "updated_at"}).
			AddRow("v1", "Blue Room", "Venue", now, now).
			AddRow("v2", "The Blue Room Annex", "Venue", now, now))

	orgs, err := repo.Search(context.Background(), models.OrganizationFilter{
		Name:  " Blue ROOM ",
		Type:  models.OrganizationTypeVenue,
		Limit: 5,
	})
	require.NoError(t, err)
	require.Len(t, orgs, 2)
	assert.Equal(t, "Blue Room", orgs[0].Name)
	assert.Equal(t, models.OrganizationTypeVenue, orgs[0].Type)
}

func TestOrganizationRepository_SearchPostgresBindvars(t *testing.T) {
	db, mock := newMockDB(t, DriverPostgres)
	repo := NewOrganizationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE name_key LIKE $1 ESCAPE '!' AND type = $2")).
		WithArgs("%owls%", "Act").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "created_at", "updated_at"}))

	orgs, err := repo.Search(context.Background(), models.OrganizationFilter{Name: "owls", Type: models.OrganizationTypeAct})
	require.NoError(t, err)
	assert.Empty(t, orgs)
}

func TestOrganizationRepository_SearchEscapesWildcards(t *testing.T) {
	db, mock := newMockDB(t, DriverMySQL)
	repo := NewOrganizationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE name_key LIKE ? ESCAPE '!'")).
		WithArgs(`%ac\dc 100!% !_x!!%`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "created_at", "updated_at"}))

	_, err := repo.Search(context.Background(), models.OrganizationFilter{Name: `AC\DC 100% _x!`})
	require.NoError(t, err)
}

func TestOrganizationRepository_FindByName(t *testing.T) {
	db, mock := newMockDB(t, DriverPostgres)
	repo := NewOrganizationRepository(db)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE name_key = $1 AND type = $2")).
		WithArgs("björk", "Act").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "created_at", "updated_at"}).
			AddRow("a1", "BJÖRK", "Act", now, now))

	org, err := repo.FindByName(context.Background(), "  BJÖRK ", models.OrganizationTypeAct)
	require.NoError(t, err)
	require.NotNil(t, org)
	assert.Equal(t, "a1", org.ID)
}

func TestOrganizationRepository_FindByNameMissing(t *testing.T) {
	db, mock := newMockDB(t, DriverSQLite)
	repo := NewOrganizationRepository(db)

	mock.ExpectQuery("WHERE name_key = \\? AND type = \\?").
		WithArgs("nobody", "Venue").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "created_at", "updated_at"}))

	org, err := repo.FindByName(context.Background(), "Nobody", models.OrganizationTypeVenue)
	require.NoError(t, err)
	assert.Nil(t, org)
}

func TestOrganizationRepository_GetByIDMissing(t *testing.T) {
	db, mock := newMockDB(t, DriverSQLite)
	repo := NewOrganizationRepository(db)

	mock.ExpectQuery("FROM organizations WHERE id = ?").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "created_at", "updated_at"}))

	org, err := repo.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, org)
}
