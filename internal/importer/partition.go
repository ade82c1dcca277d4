package importer

import (
	"fmt"
	"sort"
)

// Partition holds one uploaded file's rows split into valid and invalid sets,
// each ordered by row index. A Partition is not safe for concurrent use.
type Partition struct {
	validator Validator
	valid     []ParsedRow
	invalid   []ParsedRow
}

// Summary counts rows by classification and commit status.
type Summary struct {
	Total     int `json:"total"`
	Valid     int `json:"valid"`
	Invalid   int `json:"invalid"`
	Committed int `json:"committed"`
	Failed    int `json:"failed"`
}

// BuildPartition validates every record and splits the results. The record at
// position i gets row index i+2, the header being row 1.
func BuildPartition(records []RawRecord, v Validator) *Partition {
	rows := make([]ParsedRow, 0, len(records))
	for i, rec := range records {
		rows = append(rows, v.Validate(rec, i+2))
	}
	return NewPartition(rows, v)
}

// NewPartition splits already validated rows by their IsValid flag.
func NewPartition(rows []ParsedRow, v Validator) *Partition {
	p := &Partition{validator: v}
	for _, row := range rows {
		if row.IsValid {
			p.valid = append(p.valid, row)
		} else {
			p.invalid = append(p.invalid, row)
		}
	}
	sortRows(p.valid)
	sortRows(p.invalid)
	return p
}

// Type returns the import type of every row in the partition.
func (p *Partition) Type() ImportType {
	return p.validator.Type()
}

// ValidRows returns a copy of the valid set.
func (p *Partition) ValidRows() []ParsedRow {
	return append([]ParsedRow{}, p.valid...)
}

// InvalidRows returns a copy of the invalid set.
func (p *Partition) InvalidRows() []ParsedRow {
	return append([]ParsedRow{}, p.invalid...)
}

// Len returns the total number of rows.
func (p *Partition) Len() int {
	return len(p.valid) + len(p.invalid)
}

// Row looks a row up by index in either set.
func (p *Partition) Row(rowIndex int) (ParsedRow, bool) {
	if i := findRow(p.valid, rowIndex); i >= 0 {
		return p.valid[i], true
	}
	if i := findRow(p.invalid, rowIndex); i >= 0 {
		return p.invalid[i], true
	}
	return ParsedRow{}, false
}

// Edit sets one column of an invalid row and re-validates that row in place.
// The row stays in the invalid set even when it becomes valid; call
// PromoteFixedRows to move it.
func (p *Partition) Edit(rowIndex int, field, value string) (ParsedRow, error) {
	i := findRow(p.invalid, rowIndex)
	if i < 0 {
		if findRow(p.valid, rowIndex) >= 0 {
			return ParsedRow{}, fmt.Errorf("%w: row %d is already valid", ErrRowNotEditable, rowIndex)
		}
		return ParsedRow{}, fmt.Errorf("%w: %d", ErrRowNotFound, rowIndex)
	}
	column, ok := canonicalColumn(p.validator.Columns(), field)
	if !ok {
		return ParsedRow{}, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	raw := p.invalid[i].Raw.Clone()
	raw[column] = value
	row := p.validator.Validate(raw, rowIndex)
	p.invalid[i] = row
	return row, nil
}

// PromoteFixedRows moves every invalid row whose IsValid flag is now set into
// the valid set and returns how many moved.
func (p *Partition) PromoteFixedRows() int {
	var stay []ParsedRow
	moved := 0
	for _, row := range p.invalid {
		if row.IsValid {
			p.valid = append(p.valid, row)
			moved++
		} else {
			stay = append(stay, row)
		}
	}
	if moved == 0 {
		return 0
	}
	p.invalid = stay
	sortRows(p.valid)
	return moved
}

// Summary counts the partition's rows.
func (p *Partition) Summary() Summary {
	s := Summary{
		Total:   p.Len(),
		Valid:   len(p.valid),
		Invalid: len(p.invalid),
	}
	for _, row := range p.valid {
		switch row.ImportStatus {
		case ImportStatusCommitted:
			s.Committed++
		case ImportStatusFailed:
			s.Failed++
		}
	}
	return s
}

func findRow(rows []ParsedRow, rowIndex int) int {
	i := sort.Search(len(rows), func(i int) bool { return rows[i].RowIndex >= rowIndex })
	if i < len(rows) && rows[i].RowIndex == rowIndex {
		return i
	}
	return -1
}

func sortRows(rows []ParsedRow) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].RowIndex < rows[j].RowIndex })
}
