package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

var templateExamples = map[ImportType][]string{
	ImportTypeGigs: {
		"Summer Festival Main Stage",
		"2026-07-18T19:00:00",
		"2026-07-18T23:00:00",
		"America/Los_Angeles",
		"Booked",
		"The Midnight Owls",
		"Greek Theatre",
		"festival,outdoor",
		"Load-in at 2pm",
		"2500.00",
	},
	ImportTypeAssets: {
		"Audio",
		"Microphones",
		"Shure SM58",
		"Dynamic Microphone",
		"SM58-0042",
		"2024-03-15",
		"Sweetwater",
		"99.00",
		"4",
		"110.00",
		"yes",
		"Portable Equipment",
		"Kept in road case B",
	},
}

// Template returns a CSV document with the header for t and one example row.
func Template(t ImportType) ([]byte, error) {
	var columns []string
	switch t {
	case ImportTypeGigs:
		columns = GigColumns
	case ImportTypeAssets:
		columns = AssetColumns
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownImportType, t)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	if err := w.Write(templateExamples[t]); err != nil {
		return nil, fmt.Errorf("writing example: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("writing template: %w", err)
	}
	return buf.Bytes(), nil
}

// TemplateFileName is the suggested download name for t's template.
func TemplateFileName(t ImportType) string {
	return fmt.Sprintf("%s-import-template.csv", t)
}
