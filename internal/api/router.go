// Package api provides HTTP routing and handlers for the REST API.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gig-manager/backend/internal/api/handlers"
	"github.com/gig-manager/backend/internal/api/middleware"
	"github.com/gig-manager/backend/internal/config"
	"github.com/gig-manager/backend/internal/importer"
	"github.com/gig-manager/backend/internal/metrics"
	"github.com/gig-manager/backend/internal/session"
	"github.com/gig-manager/backend/internal/storage"
	"github.com/gig-manager/backend/internal/websocket"
)

// Services are the dependencies shared by the HTTP handlers.
type Services struct {
	Config        *config.Configuration
	DB            *storage.DB
	Organizations *storage.OrganizationRepository
	Gigs          *storage.GigRepository
	Assets        *storage.AssetRepository
	Settings      *storage.SettingsRepository
	Sessions      *session.Store
	Janitor       *session.Janitor
	Committer     *importer.Committer
	Hub           *websocket.Hub
	Metrics       *metrics.Recorder
	Version       string
}

// NewRouter creates and configures the HTTP router with all API routes.
func NewRouter(s Services) *mux.Router {
	r := mux.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logging)
	r.Use(middleware.ErrorRecovery)

	if s.Config.Prometheus.Enabled {
		r.Handle(s.Config.Prometheus.Path, promhttp.Handler()).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()

	// Health and status endpoints
	api.HandleFunc("/health", handlers.HealthCheck(s.DB)).Methods("GET")
	api.HandleFunc("/status", handlers.Status(&handlers.StatusService{
		Organizations: s.Organizations,
		Gigs:          s.Gigs,
		Assets:        s.Assets,
		Sessions:      s.Sessions,
		Janitor:       s.Janitor,
		Hub:           s.Hub,
		Version:       s.Version,
	})).Methods("GET")

	// WebSocket endpoint
	api.HandleFunc("/ws", handlers.WebSocketUpgrade(s.Hub)).Methods("GET")

	// Import endpoints
	imports := &handlers.ImportService{
		Sessions:        s.Sessions,
		Organizations:   s.Organizations,
		Settings:        s.Settings,
		Committer:       s.Committer,
		Metrics:         s.Metrics,
		DefaultTimezone: s.Config.Import.DefaultTimezone,
		GigStatuses:     s.Config.Import.GigStatuses,
		DetectTimezone:  importer.DetectLocalTimezone,
		MaxUploadSize:   s.Config.Import.MaxUploadSize,
	}
	api.HandleFunc("/imports", handlers.CreateImport(imports)).Methods("POST")
	api.HandleFunc("/imports/templates/{type}", handlers.DownloadTemplate()).Methods("GET")
	api.HandleFunc("/imports/{id}", handlers.GetImport(imports)).Methods("GET")
	api.HandleFunc("/imports/{id}", handlers.DeleteImport(imports)).Methods("DELETE")
	api.HandleFunc("/imports/{id}/rows/{rowIndex:[0-9]+}", handlers.EditImportRow(imports)).Methods("PATCH")
	api.HandleFunc("/imports/{id}/promote", handlers.PromoteImportRows(imports)).Methods("POST")
	api.HandleFunc("/imports/{id}/commit", handlers.CommitImport(imports)).Methods("POST")

	// Organization, gig and asset endpoints
	api.HandleFunc("/organizations", handlers.ListOrganizations(s.Organizations)).Methods("GET")
	api.HandleFunc("/organizations", handlers.CreateOrganization(s.Organizations)).Methods("POST")
	api.HandleFunc("/gigs", handlers.ListGigs(s.Gigs)).Methods("GET")
	api.HandleFunc("/assets", handlers.ListAssets(s.Assets)).Methods("GET")

	// Settings endpoints
	settings := &handlers.SettingsService{
		Store:           s.Settings,
		DefaultTimezone: s.Config.Import.DefaultTimezone,
		GigStatuses:     s.Config.Import.GigStatuses,
	}
	api.HandleFunc("/settings", handlers.GetSettings(settings)).Methods("GET")
	api.HandleFunc("/settings", handlers.UpdateSettings(settings)).Methods("PUT")

	// Serve static frontend files
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.Config.StaticDir)))

	return r
}
