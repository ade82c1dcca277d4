package importer

import (
	"fmt"
	"strings"
	"time"
)

// GigColumns is the gig spreadsheet header, in template order.
var GigColumns = []string{"title", "start", "end", "timezone", "status", "act", "venue", "tags", "notes", "amount"}

// DefaultGigStatuses are used when no statuses are configured.
var DefaultGigStatuses = []string{"Date Hold", "Proposed", "Booked", "Completed", "Cancelled", "Settled"}

// GigValidator validates gig rows.
type GigValidator struct {
	userTimezone string
	detect       TimezoneDetector
	statuses     []string
}

// NewGigValidator creates a gig validator.
func NewGigValidator(opts ValidatorOptions) *GigValidator {
	statuses := opts.GigStatuses
	if len(statuses) == 0 {
		statuses = DefaultGigStatuses
	}
	return &GigValidator{
		userTimezone: opts.UserTimezone,
		detect:       opts.DetectTimezone,
		statuses:     statuses,
	}
}

// Type implements Validator.
func (v *GigValidator) Type() ImportType { return ImportTypeGigs }

// Columns implements Validator.
func (v *GigValidator) Columns() []string { return GigColumns }

// Validate implements Validator.
func (v *GigValidator) Validate(rec RawRecord, rowIndex int) ParsedRow {
	rec = rec.Clone()
	data := GigRowData{
		Title:    rec.Value("title"),
		Start:    rec.Value("start"),
		End:      rec.Value("end"),
		Timezone: rec.Value("timezone"),
		Status:   rec.Value("status"),
		Act:      rec.Value("act"),
		Venue:    rec.Value("venue"),
		Tags:     rec.Value("tags"),
		Notes:    rec.Value("notes"),
		Amount:   rec.Value("amount"),
	}
	var errs []ValidationError

	if data.Title == "" {
		errs = append(errs, ValidationError{Field: "title", Message: "Title is required"})
	}

	tz, tzOK := ResolveTimezone(data.Timezone, v.userTimezone, v.detect)
	if !tzOK {
		errs = append(errs, ValidationError{
			Field:   "timezone",
			Message: fmt.Sprintf("Invalid timezone %q: use an IANA name such as America/New_York", data.Timezone),
		})
	} else {
		data.Timezone = tz
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}

	rawStart, rawEnd := data.Start, data.End
	var start, end time.Time
	var startOK, endOK, startDateOnly, endDateOnly bool

	if rawStart == "" {
		errs = append(errs, ValidationError{Field: "start", Message: "Start date is required"})
	} else if t, dateOnly, err := ParseDateTime(rawStart, loc); err != nil {
		errs = append(errs, ValidationError{Field: "start", Message: fmt.Sprintf("Invalid start date: %q", rawStart)})
		data.OriginalStart = rawStart
	} else {
		start, startDateOnly, startOK = t, dateOnly, true
		data.Start = FormatInstant(start)
	}

	switch {
	case rawEnd == "" && startOK:
		end, endDateOnly, endOK = start, startDateOnly, true
		if !startDateOnly {
			end = start.Add(DefaultGigDuration)
		}
		data.End = FormatInstant(end)
	case rawEnd == "":
		// Defaults from start once start is fixed.
	default:
		if t, dateOnly, err := ParseDateTime(rawEnd, loc); err != nil {
			errs = append(errs, ValidationError{Field: "end", Message: fmt.Sprintf("Invalid end date: %q", rawEnd)})
			data.OriginalEnd = rawEnd
		} else {
			end, endDateOnly, endOK = t, dateOnly, true
			data.End = FormatInstant(end)
		}
	}

	if startOK && endOK {
		allDay := startDateOnly && endDateOnly
		if (allDay && end.Before(start)) || (!allDay && !end.After(start)) {
			errs = append(errs, ValidationError{Field: "end", Message: "End time must be after start time"})
		}
	}

	if data.Status == "" {
		errs = append(errs, ValidationError{Field: "status", Message: "Status is required"})
	} else if canonical, ok := v.matchStatus(data.Status); ok {
		data.Status = canonical
	} else {
		errs = append(errs, ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("Invalid status %q: must be one of %s", data.Status, strings.Join(v.statuses, ", ")),
		})
	}

	if data.Amount != "" {
		if d, ok := parseNonNegative(data.Amount); ok {
			data.Amount = d.String()
		} else {
			errs = append(errs, ValidationError{Field: "amount", Message: "Amount must be a non-negative number"})
		}
	}

	return newRow(rowIndex, rec, data, errs)
}

func (v *GigValidator) matchStatus(s string) (string, bool) {
	for _, status := range v.statuses {
		if strings.EqualFold(status, s) {
			return status, true
		}
	}
	return "", false
}

// SplitTags splits a comma separated tag cell into trimmed, non-empty tags.
func SplitTags(s string) []string {
	tags := []string{}
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
