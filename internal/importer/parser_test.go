package importer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCSV_HeaderKeyedRecords(t *testing.T) {
	data := "\xEF\xBB\xBF title , start ,status\n" +
		"  Gala , 2026-06-15 ,Booked\n" +
		"\n" +
		",,\n" +
		"Short row\n"

	records, err := Parse([]byte(data))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, RawRecord{"title": "Gala", "start": "2026-06-15", "status": "Booked"}, records[0])
	assert.Equal(t, RawRecord{"title": "Short row", "start": "", "status": ""}, records[1])
}

func TestParseCSV_QuotedFields(t *testing.T) {
	data := "title,notes\n\"Gala, Night\",\"line one\nline two\"\n"
	records, err := Parse([]byte(data))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Gala, Night", records[0]["title"])
	assert.Equal(t, "line one\nline two", records[0]["notes"])
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	records, err := Parse([]byte("title,start\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		is   error
	}{
		{"empty file", []byte{}, ErrMissingHeader},
		{"blank header", []byte("\n\n"), ErrMissingHeader},
		{"invalid utf8", []byte("title\n\xff\xfe broken\n"), ErrInvalidEncoding},
		{"unmatched quote", []byte("title,start\n\"Gala,2026-06-15\n"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ParseCSV(bytesReader(tt.data))
			require.Error(t, err)
			assert.Nil(t, records)

			var perr *ParseError
			require.True(t, errors.As(err, &perr), "expected *ParseError, got %T", err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestParseCSV_UnmatchedQuoteReportsLine(t *testing.T) {
	_, err := ParseCSV(bytesReader([]byte("title\nok\n\"open\n")))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Greater(t, perr.Line, 0)
	assert.Contains(t, perr.Error(), "parsing file: line")
}

func TestParseXLSX_FirstSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{" category ", "manufacturer_model", "acquisition_date"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Audio", " Shure SM58 ", "2024-03-15"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]interface{}{"Lighting"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	records, err := ParseXLSX(buf)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, RawRecord{"category": "Audio", "manufacturer_model": "Shure SM58", "acquisition_date": "2024-03-15"}, records[0])
	assert.Equal(t, RawRecord{"category": "Lighting", "manufacturer_model": "", "acquisition_date": ""}, records[1])
}

func TestParseXLSX_NotAWorkbook(t *testing.T) {
	_, err := ParseXLSX(bytesReader([]byte("title\nGala\n")))
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}
