package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gig-manager/backend/internal/api/middleware"
	"github.com/gig-manager/backend/internal/importer"
	"github.com/gig-manager/backend/internal/storage"
)

// SettingsService serves the settings endpoints.
type SettingsService struct {
	Store interface {
		SettingsStore
		All(ctx context.Context) (map[string]string, error)
	}
	DefaultTimezone string
	GigStatuses     []string
}

// SettingsResponse shows the effective import defaults and the raw stored
// overrides.
type SettingsResponse struct {
	storage.ImportDefaults
	Stored map[string]string `json:"stored"`
}

// UpdateSettingsRequest changes the stored import defaults. Omitted fields are
// left alone; an empty value clears the override.
type UpdateSettingsRequest struct {
	DefaultTimezone *string  `json:"default_timezone"`
	GigStatuses     []string `json:"gig_statuses" validate:"omitempty,dive,required,excludesall=0x2C"`
}

// GetSettings returns the effective settings.
func GetSettings(svc *SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeSettings(w, r, svc)
	}
}

// UpdateSettings stores new import defaults and returns the effective settings.
func UpdateSettings(svc *SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req UpdateSettingsRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.DefaultTimezone != nil {
			tz := strings.TrimSpace(*req.DefaultTimezone)
			if tz != "" && !importer.IsValidTimezone(tz) {
				middleware.WriteErrorWithDetails(w, http.StatusBadRequest, middleware.ErrValidation, "Request validation failed",
					map[string]string{"default_timezone": "timezone"})
				return
			}
			req.DefaultTimezone = &tz
		}

		if req.DefaultTimezone != nil {
			if err := svc.Store.Set(ctx, storage.SettingDefaultTimezone, *req.DefaultTimezone); err != nil {
				log.Error().Err(err).Msg("Failed to update default timezone")
				middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update settings")
				return
			}
		}
		if req.GigStatuses != nil {
			trimmed := make([]string, 0, len(req.GigStatuses))
			for _, s := range req.GigStatuses {
				trimmed = append(trimmed, strings.TrimSpace(s))
			}
			if err := svc.Store.Set(ctx, storage.SettingGigStatuses, strings.Join(trimmed, ",")); err != nil {
				log.Error().Err(err).Msg("Failed to update gig statuses")
				middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update settings")
				return
			}
		}

		writeSettings(w, r, svc)
	}
}

func writeSettings(w http.ResponseWriter, r *http.Request, svc *SettingsService) {
	ctx := r.Context()

	defaults, err := importDefaults(ctx, svc.Store, svc.DefaultTimezone, svc.GigStatuses)
	if err != nil {
		log.Error().Err(err).Msg("Failed to resolve settings")
		middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query settings")
		return
	}
	stored, err := svc.Store.All(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to query settings")
		middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query settings")
		return
	}
	writeJSON(w, http.StatusOK, SettingsResponse{ImportDefaults: defaults, Stored: stored})
}
