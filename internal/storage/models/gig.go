package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Gig is a single booked event.
type Gig struct {
	ID             string              `json:"id" db:"id"`
	OrganizationID string              `json:"organization_id" db:"organization_id"`
	Title          string              `json:"title" db:"title"`
	Status         string              `json:"status" db:"status"`
	StartTime      time.Time           `json:"start_time" db:"start_time"`
	EndTime        time.Time           `json:"end_time" db:"end_time"`
	Timezone       string              `json:"timezone" db:"timezone"`
	Tags           []string            `json:"tags" db:"-"`
	Notes          string              `json:"notes,omitempty" db:"notes"`
	Amount         decimal.NullDecimal `json:"amount" db:"amount"`
	Participants   []GigParticipant    `json:"participants" db:"-"`
	CreatedAt      time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at" db:"updated_at"`
}

// GigParticipant links an organization to a gig under a role.
type GigParticipant struct {
	GigID          string `json:"gig_id" db:"gig_id"`
	OrganizationID string `json:"organization_id" db:"organization_id"`
	Role           string `json:"role" db:"role"`
}
