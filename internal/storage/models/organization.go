// Package models contains the domain models for the application.
package models

import (
	"strings"
	"time"
)

// OrganizationType identifies what role an organization plays in a production.
type OrganizationType string

// Organization type constants
const (
	OrganizationTypeProduction OrganizationType = "Production"
	OrganizationTypeSound      OrganizationType = "Sound"
	OrganizationTypeLighting   OrganizationType = "Lighting"
	OrganizationTypeStaging    OrganizationType = "Staging"
	OrganizationTypeRentals    OrganizationType = "Rentals"
	OrganizationTypeVenue      OrganizationType = "Venue"
	OrganizationTypeAct        OrganizationType = "Act"
	OrganizationTypeAgency     OrganizationType = "Agency"
)

// OrganizationTypes lists every known organization type.
var OrganizationTypes = []OrganizationType{
	OrganizationTypeProduction,
	OrganizationTypeSound,
	OrganizationTypeLighting,
	OrganizationTypeStaging,
	OrganizationTypeRentals,
	OrganizationTypeVenue,
	OrganizationTypeAct,
	OrganizationTypeAgency,
}

// Valid reports whether t is one of the known organization types.
func (t OrganizationType) Valid() bool {
	for _, known := range OrganizationTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Organization is a company, act or venue that takes part in gigs.
type Organization struct {
	ID        string           `json:"id" db:"id"`
	Name      string           `json:"name" db:"name"`
	Type      OrganizationType `json:"type" db:"type"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`
}

// OrganizationFilter narrows an organization search.
// Name matches case-insensitively as a substring.
type OrganizationFilter struct {
	Name  string
	Type  OrganizationType
	Limit int
}

// OrganizationNameKey folds a name for case-insensitive comparison.
// Folding happens in Go so every database driver sees the same key.
func OrganizationNameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
