package handlers

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gig-manager/backend/internal/api/middleware"
	"github.com/gig-manager/backend/internal/storage/models"
)

// CreateOrganizationRequest is the body of POST /organizations.
type CreateOrganizationRequest struct {
	Name string                  `json:"name" validate:"required,max=255"`
	Type models.OrganizationType `json:"type" validate:"required"`
}

// ListOrganizations searches organizations by name substring and type.
func ListOrganizations(orgs OrganizationStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := models.OrganizationFilter{
			Name:  strings.TrimSpace(q.Get("name")),
			Type:  models.OrganizationType(q.Get("type")),
			Limit: queryLimit(r, 100),
		}
		if filter.Type != "" && !filter.Type.Valid() {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Unknown organization type")
			return
		}

		list, err := orgs.Search(r.Context(), filter)
		if err != nil {
			log.Error().Err(err).Msg("Failed to search organizations")
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to list organizations")
			return
		}
		if list == nil {
			list = []models.Organization{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// CreateOrganization adds an organization.
func CreateOrganization(orgs OrganizationStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateOrganizationRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if !req.Type.Valid() {
			middleware.WriteErrorWithDetails(w, http.StatusBadRequest, middleware.ErrValidation, "Request validation failed",
				map[string]string{"type": "oneof"})
			return
		}

		org := &models.Organization{Name: strings.TrimSpace(req.Name), Type: req.Type}
		if err := orgs.Create(r.Context(), org); err != nil {
			log.Error().Err(err).Str("name", org.Name).Msg("Failed to create organization")
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create organization")
			return
		}
		writeJSON(w, http.StatusCreated, org)
	}
}
