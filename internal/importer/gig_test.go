package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedZone(name string) TimezoneDetector {
	return func() string { return name }
}

func newTestGigValidator() *GigValidator {
	return NewGigValidator(ValidatorOptions{DetectTimezone: fixedZone("UTC")})
}

func gigRecord(overrides map[string]string) RawRecord {
	rec := RawRecord{
		"title":    "Spring Gala",
		"start":    "2026-06-15T20:00:00Z",
		"end":      "",
		"timezone": "America/New_York",
		"status":   "Booked",
	}
	for k, v := range overrides {
		rec[k] = v
	}
	return rec
}

func gigData(t *testing.T, row ParsedRow) GigRowData {
	t.Helper()
	data, ok := row.Data.(GigRowData)
	require.True(t, ok, "expected GigRowData, got %T", row.Data)
	return data
}

func TestGigValidator_ValidRow(t *testing.T) {
	row := newTestGigValidator().Validate(gigRecord(map[string]string{
		"act":    "The Owls",
		"venue":  "Blue Room",
		"tags":   "a, b",
		"amount": "$1,250.50",
	}), 2)

	require.True(t, row.IsValid, "errors: %v", row.Errors)
	assert.Empty(t, row.Errors)
	assert.Equal(t, 2, row.RowIndex)
	assert.Equal(t, ImportStatusPending, row.ImportStatus)

	data := gigData(t, row)
	assert.Equal(t, "2026-06-15T20:00:00.000Z", data.Start)
	assert.Equal(t, "2026-06-15T22:00:00.000Z", data.End)
	assert.Equal(t, "America/New_York", data.Timezone)
	assert.Equal(t, "1250.5", data.Amount)
}

func TestGigValidator_OffsetConvertedToUTC(t *testing.T) {
	row := newTestGigValidator().Validate(gigRecord(map[string]string{
		"start": "2026-06-15T22:00:00-07:00",
	}), 2)
	require.True(t, row.IsValid)
	data := gigData(t, row)
	assert.Equal(t, "2026-06-16T05:00:00.000Z", data.Start)
	assert.Equal(t, "2026-06-16T07:00:00.000Z", data.End)
	// The display timezone comes from the column, never from the offset.
	assert.Equal(t, "America/New_York", data.Timezone)
}

func TestGigValidator_DateOnlyAnchorsAtNoon(t *testing.T) {
	for _, start := range []string{"2026-06-15", "06/15/2026", "06-15-2026"} {
		row := newTestGigValidator().Validate(gigRecord(map[string]string{"start": start}), 2)
		require.True(t, row.IsValid, "%s: %v", start, row.Errors)
		data := gigData(t, row)
		assert.Equal(t, "2026-06-15T12:00:00.000Z", data.Start, start)
		assert.Equal(t, "2026-06-15T12:00:00.000Z", data.End, start)
	}
}

func TestGigValidator_DateOnlyEndAfterDateOnlyStart(t *testing.T) {
	row := newTestGigValidator().Validate(gigRecord(map[string]string{
		"start": "2026-06-15",
		"end":   "2026-06-17",
	}), 2)
	require.True(t, row.IsValid, "%v", row.Errors)
	assert.Equal(t, "2026-06-17T12:00:00.000Z", gigData(t, row).End)
}

// Two date-only values on the same day describe a single all-day gig.
func TestGigValidator_DateOnlyEndSameDayAsStart(t *testing.T) {
	row := newTestGigValidator().Validate(gigRecord(map[string]string{
		"start": "2026-06-15",
		"end":   "2026-06-15",
	}), 2)
	require.True(t, row.IsValid, "%v", row.Errors)
	assert.Empty(t, row.FieldErrors("end"))
	data := gigData(t, row)
	assert.Equal(t, "2026-06-15T12:00:00.000Z", data.Start)
	assert.Equal(t, "2026-06-15T12:00:00.000Z", data.End)

	row = newTestGigValidator().Validate(gigRecord(map[string]string{
		"start": "2026-06-15",
		"end":   "2026-06-14",
	}), 2)
	assert.False(t, row.IsValid)
	require.Len(t, row.FieldErrors("end"), 1)
}

func TestGigValidator_NaiveTimeUsesRowTimezone(t *testing.T) {
	row := newTestGigValidator().Validate(gigRecord(map[string]string{
		"start":    "2026-01-10 19:30",
		"timezone": "Europe/London",
	}), 2)
	require.True(t, row.IsValid)
	assert.Equal(t, "2026-01-10T19:30:00.000Z", gigData(t, row).Start)
}

func TestGigValidator_EndNotAfterStart(t *testing.T) {
	for _, end := range []string{"2026-06-15T20:00:00Z", "2026-06-15T19:00:00Z"} {
		row := newTestGigValidator().Validate(gigRecord(map[string]string{"end": end}), 2)
		assert.False(t, row.IsValid)
		errs := row.FieldErrors("end")
		require.Len(t, errs, 1)
		assert.Equal(t, "End time must be after start time", errs[0].Message)
	}
}

func TestGigValidator_UnparsableDatesKeepOriginal(t *testing.T) {
	row := newTestGigValidator().Validate(gigRecord(map[string]string{
		"start": "next friday",
		"end":   "late",
	}), 5)

	assert.False(t, row.IsValid)
	startErrs := row.FieldErrors("start")
	require.Len(t, startErrs, 1)
	assert.Contains(t, startErrs[0].Message, `"next friday"`)
	endErrs := row.FieldErrors("end")
	require.Len(t, endErrs, 1)
	assert.Contains(t, endErrs[0].Message, `"late"`)

	data := gigData(t, row)
	assert.Equal(t, "next friday", data.OriginalStart)
	assert.Equal(t, "late", data.OriginalEnd)
}

func TestGigValidator_UnparsableStartSkipsEndDefault(t *testing.T) {
	row := newTestGigValidator().Validate(gigRecord(map[string]string{"start": "soon"}), 2)
	assert.Len(t, row.FieldErrors("start"), 1)
	assert.Empty(t, row.FieldErrors("end"))
	assert.Empty(t, gigData(t, row).End)
}

func TestGigValidator_InvalidTimezoneReportedWithOtherErrors(t *testing.T) {
	row := newTestGigValidator().Validate(gigRecord(map[string]string{
		"timezone": "Eastern",
		"title":    "  ",
		"status":   "",
	}), 2)

	assert.False(t, row.IsValid)
	assert.Len(t, row.FieldErrors("timezone"), 1)
	assert.Len(t, row.FieldErrors("title"), 1)
	assert.Len(t, row.FieldErrors("status"), 1)
	// Dates still normalize using the fallback zone.
	assert.Empty(t, row.FieldErrors("start"))
	assert.Equal(t, "Eastern", gigData(t, row).Timezone)
}

func TestGigValidator_InvalidTimezoneWithValidDates(t *testing.T) {
	row := newTestGigValidator().Validate(gigRecord(map[string]string{
		"timezone": "Nowhere/Special",
		"end":      "2026-06-15T23:00:00Z",
	}), 2)
	assert.False(t, row.IsValid)
	require.Len(t, row.Errors, 1)
	assert.Equal(t, "timezone", row.Errors[0].Field)
}

func TestGigValidator_TimezoneDefaults(t *testing.T) {
	v := NewGigValidator(ValidatorOptions{
		UserTimezone:   "America/Denver",
		DetectTimezone: fixedZone("Europe/Paris"),
	})
	row := v.Validate(gigRecord(map[string]string{"timezone": ""}), 2)
	require.True(t, row.IsValid)
	assert.Equal(t, "America/Denver", gigData(t, row).Timezone)

	v = NewGigValidator(ValidatorOptions{DetectTimezone: fixedZone("Europe/Paris")})
	row = v.Validate(gigRecord(map[string]string{"timezone": ""}), 2)
	assert.Equal(t, "Europe/Paris", gigData(t, row).Timezone)

	v = NewGigValidator(ValidatorOptions{})
	row = v.Validate(gigRecord(map[string]string{"timezone": ""}), 2)
	assert.Equal(t, "UTC", gigData(t, row).Timezone)
}

func TestGigValidator_Status(t *testing.T) {
	v := NewGigValidator(ValidatorOptions{GigStatuses: []string{"Hold", "Confirmed"}})

	row := v.Validate(gigRecord(map[string]string{"status": "confirmed"}), 2)
	require.True(t, row.IsValid)
	assert.Equal(t, "Confirmed", gigData(t, row).Status)

	row = v.Validate(gigRecord(map[string]string{"status": "Booked"}), 2)
	errs := row.FieldErrors("status")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "Hold, Confirmed")
}

func TestGigValidator_Amount(t *testing.T) {
	for _, amount := range []string{"-1", "lots", "12..5"} {
		row := newTestGigValidator().Validate(gigRecord(map[string]string{"amount": amount}), 2)
		errs := row.FieldErrors("amount")
		require.Len(t, errs, 1, amount)
		assert.Equal(t, "Amount must be a non-negative number", errs[0].Message)
	}
	row := newTestGigValidator().Validate(gigRecord(map[string]string{"amount": "0"}), 2)
	assert.True(t, row.IsValid)
}

func TestGigValidator_Idempotent(t *testing.T) {
	v := newTestGigValidator()
	rec := gigRecord(map[string]string{"start": "bad", "timezone": "Nope"})
	first := v.Validate(rec, 3)
	for i := 0; i < 3; i++ {
		again := v.Validate(rec, 3)
		assert.Equal(t, first, again)
	}
}

func TestGigValidator_DoesNotMutateInput(t *testing.T) {
	rec := gigRecord(nil)
	row := newTestGigValidator().Validate(rec, 2)
	row.Raw["title"] = "changed"
	assert.Equal(t, "Spring Gala", rec["title"])
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"rock", "outdoor"}, SplitTags(" rock, ,outdoor ,"))
	assert.Equal(t, []string{}, SplitTags(""))
}
