package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gig-manager/backend/internal/session"
	"github.com/gig-manager/backend/internal/websocket"
)

// Pinger checks database connectivity.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Counter counts stored records.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status      string `json:"status"`
	DBConnected bool   `json:"db_connected"`
}

// HealthCheck returns a handler that performs a health check.
func HealthCheck(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		dbConnected := db.PingContext(ctx) == nil

		status := "healthy"
		code := http.StatusOK
		if !dbConnected {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, HealthResponse{Status: status, DBConnected: dbConnected})
	}
}

// StatusService bundles what the status endpoint reports on.
type StatusService struct {
	Organizations Counter
	Gigs          Counter
	Assets        Counter
	Sessions      *session.Store
	Janitor       *session.Janitor
	Hub           *websocket.Hub
	Version       string
}

// StatusResponse represents the system status response.
type StatusResponse struct {
	Version            string     `json:"version"`
	OrganizationsCount int        `json:"organizations_count"`
	GigsCount          int        `json:"gigs_count"`
	AssetsCount        int        `json:"assets_count"`
	ActiveImports      int        `json:"active_imports"`
	WebSocketClients   int        `json:"websocket_clients"`
	NextSweepAt        *time.Time `json:"next_sweep_at,omitempty"`
}

// Status returns a handler that provides system status information.
func Status(svc *StatusService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		resp := StatusResponse{
			Version:            svc.Version,
			OrganizationsCount: count(ctx, svc.Organizations, "organizations"),
			GigsCount:          count(ctx, svc.Gigs, "gigs"),
			AssetsCount:        count(ctx, svc.Assets, "assets"),
		}
		if svc.Sessions != nil {
			resp.ActiveImports = svc.Sessions.Len()
		}
		if svc.Hub != nil {
			resp.WebSocketClients = svc.Hub.ClientCount()
		}
		if svc.Janitor != nil {
			resp.NextSweepAt = svc.Janitor.NextRun()
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// count reports zero when the count is unavailable.
func count(ctx context.Context, c Counter, what string) int {
	if c == nil {
		return 0
	}
	n, err := c.Count(ctx)
	if err != nil {
		log.Warn().Err(err).Str("table", what).Msg("Failed to count records")
		return 0
	}
	return n
}
