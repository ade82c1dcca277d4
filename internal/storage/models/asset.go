package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Asset is a piece of equipment owned by an organization.
type Asset struct {
	ID                      string              `json:"id" db:"id"`
	OrganizationID          string              `json:"organization_id" db:"organization_id"`
	Category                string              `json:"category" db:"category"`
	SubCategory             string              `json:"sub_category,omitempty" db:"sub_category"`
	ManufacturerModel       string              `json:"manufacturer_model" db:"manufacturer_model"`
	EquipmentType           string              `json:"equipment_type,omitempty" db:"equipment_type"`
	SerialNumber            string              `json:"serial_number,omitempty" db:"serial_number"`
	AcquisitionDate         time.Time           `json:"acquisition_date" db:"acquisition_date"`
	Vendor                  string              `json:"vendor,omitempty" db:"vendor"`
	CostPerItem             decimal.NullDecimal `json:"cost_per_item" db:"cost_per_item"`
	Quantity                int                 `json:"quantity" db:"quantity"`
	ReplacementValuePerItem decimal.NullDecimal `json:"replacement_value_per_item" db:"replacement_value_per_item"`
	Insured                 bool                `json:"insured" db:"insured"`
	InsuranceCategory       string              `json:"insurance_category,omitempty" db:"insurance_category"`
	Notes                   string              `json:"notes,omitempty" db:"notes"`
	CreatedAt               time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt               time.Time           `json:"updated_at" db:"updated_at"`
}
