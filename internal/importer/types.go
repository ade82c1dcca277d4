// Package importer implements bulk spreadsheet imports of gigs and assets:
// parsing, per-row validation and normalization, interactive repair of invalid
// rows, and a sequential commit that tolerates per-row failure.
package importer

import (
	"fmt"
	"strings"
)

// ImportType selects the row schema, validator and commit procedure.
type ImportType string

// Import type constants
const (
	ImportTypeGigs   ImportType = "gigs"
	ImportTypeAssets ImportType = "assets"
)

// ParseImportType converts a user-supplied string into an ImportType.
func ParseImportType(s string) (ImportType, error) {
	switch ImportType(strings.ToLower(strings.TrimSpace(s))) {
	case ImportTypeGigs:
		return ImportTypeGigs, nil
	case ImportTypeAssets:
		return ImportTypeAssets, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownImportType, s)
}

// RawRecord maps a column header to the cell value of one data line.
type RawRecord map[string]string

// Value returns the trimmed value of the first present key.
func (r RawRecord) Value(keys ...string) string {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Clone returns a shallow copy safe to mutate.
func (r RawRecord) Clone() RawRecord {
	out := make(RawRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ImportStatus tracks a row through the commit phase.
type ImportStatus string

// Import status constants
const (
	ImportStatusPending    ImportStatus = "pending"
	ImportStatusCommitting ImportStatus = "committing"
	ImportStatusCommitted  ImportStatus = "committed"
	ImportStatusFailed     ImportStatus = "failed"
)

// ValidationError is one violated rule on one field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RowData is the normalized content of a row. It is implemented only by
// GigRowData and AssetRowData.
type RowData interface {
	ImportType() ImportType
	rowData()
}

// GigRowData is a normalized gig row. Start and End hold canonical UTC
// instants once they parse; otherwise they hold what the user typed and the
// matching Original field is set.
type GigRowData struct {
	Title         string `json:"title"`
	Start         string `json:"start"`
	End           string `json:"end"`
	Timezone      string `json:"timezone"`
	Status        string `json:"status"`
	Act           string `json:"act,omitempty"`
	Venue         string `json:"venue,omitempty"`
	Tags          string `json:"tags,omitempty"`
	Notes         string `json:"notes,omitempty"`
	Amount        string `json:"amount,omitempty"`
	OriginalStart string `json:"original_start,omitempty"`
	OriginalEnd   string `json:"original_end,omitempty"`
}

// ImportType implements RowData.
func (GigRowData) ImportType() ImportType { return ImportTypeGigs }
func (GigRowData) rowData()               {}

// AssetRowData is a normalized asset row.
type AssetRowData struct {
	Category                string `json:"category"`
	SubCategory             string `json:"sub_category,omitempty"`
	ManufacturerModel       string `json:"manufacturer_model"`
	EquipmentType           string `json:"equipment_type,omitempty"`
	SerialNumber            string `json:"serial_number,omitempty"`
	AcquisitionDate         string `json:"acquisition_date"`
	Vendor                  string `json:"vendor,omitempty"`
	CostPerItem             string `json:"cost_per_item,omitempty"`
	Quantity                string `json:"quantity,omitempty"`
	ReplacementValuePerItem string `json:"replacement_value_per_item,omitempty"`
	Insured                 string `json:"insured,omitempty"`
	InsuranceCategory       string `json:"insurance_category,omitempty"`
	Notes                   string `json:"notes,omitempty"`
}

// ImportType implements RowData.
func (AssetRowData) ImportType() ImportType { return ImportTypeAssets }
func (AssetRowData) rowData()               {}

// ParsedRow is one data line after validation. RowIndex counts the header as
// row 1 and identifies the row for the whole session.
type ParsedRow struct {
	RowIndex     int               `json:"row_index"`
	Raw          RawRecord         `json:"raw"`
	Data         RowData           `json:"data"`
	Errors       []ValidationError `json:"errors"`
	IsValid      bool              `json:"is_valid"`
	ImportStatus ImportStatus      `json:"import_status"`
	ImportError  string            `json:"import_error,omitempty"`
}

// FieldErrors returns the errors reported against field.
func (r ParsedRow) FieldErrors(field string) []ValidationError {
	var out []ValidationError
	for _, e := range r.Errors {
		if e.Field == field {
			out = append(out, e)
		}
	}
	return out
}

// CommitResult aggregates the outcome of one commit call.
type CommitResult struct {
	SuccessCount int      `json:"success_count"`
	Errors       []string `json:"errors"`
}
