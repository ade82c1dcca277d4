package handlers

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/gig-manager/backend/internal/api/middleware"
	"github.com/gig-manager/backend/internal/storage"
	"github.com/gig-manager/backend/internal/storage/models"
)

// GigLister lists stored gigs.
type GigLister interface {
	List(ctx context.Context, filter storage.GigFilter) ([]models.Gig, error)
}

// AssetLister lists stored assets.
type AssetLister interface {
	List(ctx context.Context, organizationID string) ([]models.Asset, error)
}

// ListGigs returns gigs, optionally for one organization.
func ListGigs(gigs GigLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := gigs.List(r.Context(), storage.GigFilter{
			OrganizationID: r.URL.Query().Get("organization_id"),
			Limit:          queryLimit(r, 0),
		})
		if err != nil {
			log.Error().Err(err).Msg("Failed to list gigs")
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to list gigs")
			return
		}
		if list == nil {
			list = []models.Gig{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// ListAssets returns assets, optionally for one organization.
func ListAssets(assets AssetLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := assets.List(r.Context(), r.URL.Query().Get("organization_id"))
		if err != nil {
			log.Error().Err(err).Msg("Failed to list assets")
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to list assets")
			return
		}
		if list == nil {
			list = []models.Asset{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}
