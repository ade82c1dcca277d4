package importer

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// AssetColumns is the asset spreadsheet header, in template order.
var AssetColumns = []string{
	"category", "sub-category", "manufacturer_model", "equipment_type", "serial_number",
	"acquisition_date", "vendor", "cost_per_item", "quantity", "replacement_value_per_item",
	"insured", "insurance_category", "notes",
}

const acquisitionDateLayout = "2006-01-02"

var strictDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// AssetValidator validates asset rows.
type AssetValidator struct{}

// NewAssetValidator creates an asset validator.
func NewAssetValidator() *AssetValidator {
	return &AssetValidator{}
}

// Type implements Validator.
func (v *AssetValidator) Type() ImportType { return ImportTypeAssets }

// Columns implements Validator.
func (v *AssetValidator) Columns() []string { return AssetColumns }

// Validate implements Validator.
func (v *AssetValidator) Validate(rec RawRecord, rowIndex int) ParsedRow {
	rec = rec.Clone()
	data := AssetRowData{
		Category:                rec.Value("category"),
		SubCategory:             rec.Value("sub-category", "sub_category"),
		ManufacturerModel:       rec.Value("manufacturer_model"),
		EquipmentType:           rec.Value("equipment_type"),
		SerialNumber:            rec.Value("serial_number"),
		AcquisitionDate:         rec.Value("acquisition_date"),
		Vendor:                  rec.Value("vendor"),
		CostPerItem:             rec.Value("cost_per_item"),
		Quantity:                rec.Value("quantity"),
		ReplacementValuePerItem: rec.Value("replacement_value_per_item"),
		Insured:                 rec.Value("insured"),
		InsuranceCategory:       rec.Value("insurance_category"),
		Notes:                   rec.Value("notes"),
	}
	var errs []ValidationError

	if data.Category == "" {
		errs = append(errs, ValidationError{Field: "category", Message: "Category is required"})
	}
	if data.ManufacturerModel == "" {
		errs = append(errs, ValidationError{Field: "manufacturer_model", Message: "Manufacturer/model is required"})
	}

	if data.AcquisitionDate == "" {
		errs = append(errs, ValidationError{Field: "acquisition_date", Message: "Acquisition date is required"})
	} else if _, err := ParseAcquisitionDate(data.AcquisitionDate); err != nil {
		errs = append(errs, ValidationError{
			Field:   "acquisition_date",
			Message: "Acquisition date must be a valid date in YYYY-MM-DD format",
		})
	}

	if data.CostPerItem != "" {
		if d, ok := parseNonNegative(data.CostPerItem); ok {
			data.CostPerItem = d.String()
		} else {
			errs = append(errs, ValidationError{Field: "cost_per_item", Message: "Cost per item must be a non-negative number"})
		}
	}

	if data.Quantity != "" {
		if n, err := strconv.Atoi(data.Quantity); err != nil || n <= 0 {
			errs = append(errs, ValidationError{Field: "quantity", Message: "Quantity must be a positive integer"})
		} else {
			data.Quantity = strconv.Itoa(n)
		}
	}

	if data.ReplacementValuePerItem != "" {
		if d, ok := parseNonNegative(data.ReplacementValuePerItem); ok {
			data.ReplacementValuePerItem = d.String()
		} else {
			errs = append(errs, ValidationError{
				Field:   "replacement_value_per_item",
				Message: "Replacement value per item must be a non-negative number",
			})
		}
	}

	return newRow(rowIndex, rec, data, errs)
}

// ParseAcquisitionDate accepts only a real calendar date written as YYYY-MM-DD.
func ParseAcquisitionDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !strictDate.MatchString(s) {
		return time.Time{}, &time.ParseError{Layout: acquisitionDateLayout, Value: s, Message: ": expected YYYY-MM-DD"}
	}
	return time.ParseInLocation(acquisitionDateLayout, s, time.UTC)
}

// ParseInsured reads the insured column. Anything other than yes/true/1/y is false.
func ParseInsured(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1", "y":
		return true
	}
	return false
}
