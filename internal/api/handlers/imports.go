package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/gig-manager/backend/internal/api/middleware"
	"github.com/gig-manager/backend/internal/importer"
	"github.com/gig-manager/backend/internal/metrics"
	"github.com/gig-manager/backend/internal/session"
	"github.com/gig-manager/backend/internal/storage"
	"github.com/gig-manager/backend/internal/storage/models"
)

// OrganizationStore is the organization persistence the handlers use.
type OrganizationStore interface {
	GetByID(ctx context.Context, id string) (*models.Organization, error)
	Search(ctx context.Context, filter models.OrganizationFilter) ([]models.Organization, error)
	Create(ctx context.Context, org *models.Organization) error
}

// SettingsStore reads and writes persisted settings.
type SettingsStore interface {
	Get(ctx context.Context, name string) (string, bool, error)
	Set(ctx context.Context, name, value string) error
}

// ImportService bundles what the import endpoints need.
type ImportService struct {
	Sessions      *session.Store
	Organizations OrganizationStore
	Settings      SettingsStore
	Committer     *importer.Committer
	// Metrics is optional.
	Metrics *metrics.Recorder

	// DefaultTimezone and GigStatuses apply when no setting overrides them.
	DefaultTimezone string
	GigStatuses     []string
	DetectTimezone  importer.TimezoneDetector
	MaxUploadSize   int64
}

// createImportForm holds the non-file fields of an upload.
type createImportForm struct {
	Type           string `form:"type" validate:"required,oneof=gigs assets"`
	OrganizationID string `form:"organization_id" validate:"required"`
	Timezone       string `form:"timezone" validate:"omitempty,timezone"`
}

// EditRowRequest sets one field of an invalid row.
type EditRowRequest struct {
	Field string  `json:"field" validate:"required"`
	Value *string `json:"value" validate:"required"`
}

// PromoteResponse reports a promotion and the resulting session state.
type PromoteResponse struct {
	Promoted int `json:"promoted"`
	session.Snapshot
}

// CommitResponse is the outcome of a commit call.
type CommitResponse struct {
	importer.CommitResult
	Summary importer.Summary `json:"summary"`
}

// CreateImport parses an uploaded file and opens a repair session for it.
func CreateImport(svc *ImportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		r.Body = http.MaxBytesReader(w, r.Body, svc.MaxUploadSize)
		if err := r.ParseMultipartForm(svc.MaxUploadSize); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				middleware.WriteError(w, http.StatusRequestEntityTooLarge, middleware.ErrTooLarge,
					fmt.Sprintf("File exceeds the %d byte upload limit", svc.MaxUploadSize))
				return
			}
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Expected a multipart form upload")
			return
		}

		form := createImportForm{
			Type:           strings.ToLower(strings.TrimSpace(r.FormValue("type"))),
			OrganizationID: strings.TrimSpace(r.FormValue("organization_id")),
			Timezone:       strings.TrimSpace(r.FormValue("timezone")),
		}
		if !validRequest(w, &form) {
			return
		}
		importType := importer.ImportType(form.Type)

		owner, err := svc.Organizations.GetByID(ctx, form.OrganizationID)
		if err != nil {
			log.Error().Err(err).Str("organization_id", form.OrganizationID).Msg("Failed to load organization")
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to load organization")
			return
		}
		if owner == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Organization not found")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "A file field is required")
			return
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Failed to read uploaded file")
			return
		}

		records, err := importer.Parse(data)
		if err != nil {
			if svc.Metrics != nil {
				svc.Metrics.ObserveParseError(importType)
			}
			var perr *importer.ParseError
			var details any
			if errors.As(err, &perr) && perr.Line > 0 {
				details = map[string]int{"line": perr.Line}
			}
			middleware.WriteErrorWithDetails(w, http.StatusUnprocessableEntity, middleware.ErrParse, err.Error(), details)
			return
		}

		defaults, err := importDefaults(ctx, svc.Settings, svc.DefaultTimezone, svc.GigStatuses)
		if err != nil {
			log.Error().Err(err).Msg("Failed to load import settings")
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to load settings")
			return
		}
		userTZ := form.Timezone
		if userTZ == "" {
			userTZ = defaults.DefaultTimezone
		}

		v, err := importer.NewValidator(importType, importer.ValidatorOptions{
			UserTimezone:   userTZ,
			DetectTimezone: svc.DetectTimezone,
			GigStatuses:    defaults.GigStatuses,
		})
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, err.Error())
			return
		}

		p := importer.BuildPartition(records, v)
		if svc.Metrics != nil {
			svc.Metrics.ObserveParsed(importType, p.Summary())
		}
		sess := svc.Sessions.Create(p, *owner, userTZ, header.Filename)

		log.Info().
			Str("import_id", sess.ID).
			Str("type", string(importType)).
			Int("rows", p.Len()).
			Int("invalid", len(p.InvalidRows())).
			Msg("Import session created")

		writeJSON(w, http.StatusCreated, sess.Snapshot())
	}
}

// GetImport returns a session with its valid and invalid rows.
func GetImport(svc *ImportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := lookupSession(w, r, svc.Sessions)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, sess.Snapshot())
	}
}

// EditImportRow changes one field of an invalid row and returns the
// re-validated row.
func EditImportRow(svc *ImportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := lookupSession(w, r, svc.Sessions)
		if !ok {
			return
		}
		rowIndex, err := strconv.Atoi(mux.Vars(r)["rowIndex"])
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Row index must be a number")
			return
		}

		var req EditRowRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		var row importer.ParsedRow
		err = sess.Do(func(p *importer.Partition) error {
			var err error
			row, err = p.Edit(rowIndex, req.Field, *req.Value)
			return err
		})
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, row)
		case errors.Is(err, importer.ErrRowNotFound):
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, err.Error())
		case errors.Is(err, importer.ErrRowNotEditable):
			middleware.WriteError(w, http.StatusConflict, middleware.ErrConflict, err.Error())
		case errors.Is(err, importer.ErrUnknownField):
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, err.Error())
		default:
			log.Error().Err(err).Str("import_id", sess.ID).Int("row", rowIndex).Msg("Failed to edit row")
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to edit row")
		}
	}
}

// PromoteImportRows moves repaired rows into the valid set.
func PromoteImportRows(svc *ImportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := lookupSession(w, r, svc.Sessions)
		if !ok {
			return
		}
		var promoted int
		_ = sess.Do(func(p *importer.Partition) error {
			promoted = p.PromoteFixedRows()
			return nil
		})
		writeJSON(w, http.StatusOK, PromoteResponse{Promoted: promoted, Snapshot: sess.Snapshot()})
	}
}

// CommitImport commits the session's valid rows. Row failures are reported
// in the result; only bookkeeping failures produce an error status.
func CommitImport(svc *ImportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := lookupSession(w, r, svc.Sessions)
		if !ok {
			return
		}

		var resp CommitResponse
		err := sess.Do(func(p *importer.Partition) error {
			result, err := svc.Committer.Commit(r.Context(), p, importer.CommitOptions{
				BatchID: sess.ID,
				Owner:   sess.Owner,
			})
			if err != nil {
				return err
			}
			resp = CommitResponse{CommitResult: result, Summary: p.Summary()}
			return nil
		})
		if err != nil {
			log.Error().Err(err).Str("import_id", sess.ID).Msg("Import commit failed")
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to commit import")
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// DeleteImport discards a session.
func DeleteImport(svc *ImportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !svc.Sessions.Delete(mux.Vars(r)["id"]) {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, session.ErrNotFound.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// DownloadTemplate serves the CSV template for an import type.
func DownloadTemplate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := importer.ParseImportType(mux.Vars(r)["type"])
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, err.Error())
			return
		}
		body, err := importer.Template(t)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to build template")
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", importer.TemplateFileName(t)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}

func lookupSession(w http.ResponseWriter, r *http.Request, sessions *session.Store) (*session.Session, bool) {
	sess, err := sessions.Get(mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, err.Error())
		return nil, false
	}
	return sess, true
}

// importDefaults resolves the session defaults, falling back to the built-in
// gig statuses.
func importDefaults(ctx context.Context, settings SettingsStore, timezone string, statuses []string) (storage.ImportDefaults, error) {
	d, err := storage.ResolveImportDefaults(ctx, settings, timezone, statuses)
	if err != nil {
		return d, err
	}
	if len(d.GigStatuses) == 0 {
		d.GigStatuses = importer.DefaultGigStatuses
	}
	return d, nil
}
