package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse turns an uploaded file into header-keyed records. Workbooks are read
// from their first sheet; anything else is treated as CSV.
func Parse(data []byte) ([]RawRecord, error) {
	if mimetype.Detect(data).Is(xlsxMIME) {
		return ParseXLSX(bytes.NewReader(data))
	}
	return ParseCSV(bytes.NewReader(data))
}

// ParseCSV reads a UTF-8 CSV document. The first line is the header.
func ParseCSV(r io.Reader) ([]RawRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("reading file: %w", err)}
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, &ParseError{Err: ErrInvalidEncoding}
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	lines, err := cr.ReadAll()
	if err != nil {
		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) {
			return nil, &ParseError{Line: csvErr.Line, Err: csvErr.Err}
		}
		return nil, &ParseError{Err: err}
	}
	return buildRecords(lines)
}

// ParseXLSX reads the first worksheet of an Excel workbook.
func ParseXLSX(r io.Reader) ([]RawRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("opening workbook: %w", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Err: ErrMissingHeader}
	}
	lines, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("reading sheet %q: %w", sheets[0], err)}
	}
	for i, line := range lines {
		for _, cell := range line {
			if !utf8.ValidString(cell) {
				return nil, &ParseError{Line: i + 1, Err: ErrInvalidEncoding}
			}
		}
	}
	return buildRecords(lines)
}

func buildRecords(lines [][]string) ([]RawRecord, error) {
	if len(lines) == 0 || isBlankLine(lines[0]) {
		return nil, &ParseError{Err: ErrMissingHeader}
	}

	header := make([]string, len(lines[0]))
	for i, h := range lines[0] {
		header[i] = strings.TrimSpace(h)
	}

	records := make([]RawRecord, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if isBlankLine(line) {
			continue
		}
		rec := make(RawRecord, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(line) {
				rec[name] = strings.TrimSpace(line[i])
			} else {
				rec[name] = ""
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func isBlankLine(line []string) bool {
	for _, cell := range line {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
