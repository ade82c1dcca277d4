package importer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validator turns a raw record into a ParsedRow for one import type.
// Implementations are pure: the same record always yields the same row.
type Validator interface {
	Type() ImportType
	Columns() []string
	Validate(rec RawRecord, rowIndex int) ParsedRow
}

// ValidatorOptions configures the validators built by NewValidator.
type ValidatorOptions struct {
	// UserTimezone is the session default applied when a gig row has no timezone.
	UserTimezone string
	// DetectTimezone reports the host zone; nil skips detection.
	DetectTimezone TimezoneDetector
	// GigStatuses lists the accepted gig status values.
	GigStatuses []string
}

// NewValidator returns the validator for t.
func NewValidator(t ImportType, opts ValidatorOptions) (Validator, error) {
	switch t {
	case ImportTypeGigs:
		return NewGigValidator(opts), nil
	case ImportTypeAssets:
		return NewAssetValidator(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownImportType, t)
}

// columnAliases maps alternate spellings onto canonical column names.
var columnAliases = map[string]string{
	"sub_category": "sub-category",
	"subcategory":  "sub-category",
}

// canonicalColumn resolves field against columns, accepting aliases and
// ignoring case.
func canonicalColumn(columns []string, field string) (string, bool) {
	f := strings.ToLower(strings.TrimSpace(field))
	if alias, ok := columnAliases[f]; ok {
		f = alias
	}
	for _, c := range columns {
		if c == f {
			return c, true
		}
	}
	return "", false
}

// parseNonNegative parses a numeric cell, tolerating a currency symbol and
// thousands separators.
func parseNonNegative(value string) (decimal.Decimal, bool) {
	v := strings.TrimSpace(value)
	v = strings.TrimPrefix(v, "$")
	v = strings.ReplaceAll(v, ",", "")
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return decimal.Decimal{}, false
	}
	return d, true
}

func newRow(rowIndex int, rec RawRecord, data RowData, errs []ValidationError) ParsedRow {
	if errs == nil {
		errs = []ValidationError{}
	}
	return ParsedRow{
		RowIndex:     rowIndex,
		Raw:          rec,
		Data:         data,
		Errors:       errs,
		IsValid:      len(errs) == 0,
		ImportStatus: ImportStatusPending,
	}
}
