package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	// Embedded zone database so timezone validation does not depend on the host.
	_ "time/tzdata"
)

// InstantLayout is the canonical serialization of a normalized instant.
const InstantLayout = "2006-01-02T15:04:05.000Z"

// DefaultGigDuration is added to a timed start when the end is left empty.
const DefaultGigDuration = 2 * time.Hour

// TimezoneDetector reports the caller's local IANA timezone, or "" if unknown.
type TimezoneDetector func() string

type dateLayout struct {
	format   string
	dateOnly bool
	zoned    bool
}

// Tried in order; the first layout that parses wins.
var dateLayouts = []dateLayout{
	// ISO-8601
	{format: time.RFC3339Nano, zoned: true},
	{format: "2006-01-02T15:04:05.999999999Z0700", zoned: true},
	{format: "2006-01-02T15:04Z07:00", zoned: true},
	{format: "2006-01-02T15:04:05.999999999"},
	{format: "2006-01-02T15:04"},
	{format: "2006-01-02", dateOnly: true},
	// YYYY-MM-DD HH:MM[:SS]
	{format: "2006-01-02 15:04:05"},
	{format: "2006-01-02 15:04"},
	// MM/DD/YYYY[ HH:MM[:SS]]
	{format: "1/2/2006 15:04:05"},
	{format: "1/2/2006 15:04"},
	{format: "1/2/2006", dateOnly: true},
	// MM-DD-YYYY[ HH:MM[:SS]]
	{format: "1-2-2006 15:04:05"},
	{format: "1-2-2006 15:04"},
	{format: "1-2-2006", dateOnly: true},
	// MM/DD/YYYY with an ISO style time suffix
	{format: "1/2/2006T15:04:05"},
	{format: "1/2/2006T15:04"},
}

// ParseDateTime converts a date or date-time literal into a UTC instant.
// Date-only values land on noon UTC of that calendar date. Values without an
// explicit offset are read as wall-clock time in loc.
func ParseDateTime(value string, loc *time.Location) (t time.Time, dateOnly bool, err error) {
	value = strings.TrimSpace(value)
	if loc == nil {
		loc = time.UTC
	}
	for _, l := range dateLayouts {
		switch {
		case l.zoned:
			if parsed, perr := time.Parse(l.format, value); perr == nil {
				return parsed.UTC(), false, nil
			}
		case l.dateOnly:
			if parsed, perr := time.ParseInLocation(l.format, value, time.UTC); perr == nil {
				return NoonUTC(parsed), true, nil
			}
		default:
			if parsed, perr := time.ParseInLocation(l.format, value, loc); perr == nil {
				return parsed.UTC(), false, nil
			}
		}
	}
	return time.Time{}, false, fmt.Errorf("unrecognized date format: %q", value)
}

// NoonUTC returns 12:00 UTC on the calendar date of t.
func NoonUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

// FormatInstant renders t in InstantLayout.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(InstantLayout)
}

// ParseInstant reads a value produced by FormatInstant.
func ParseInstant(s string) (time.Time, error) {
	return time.Parse(InstantLayout, s)
}

// IsValidTimezone reports whether name is a loadable IANA identifier.
func IsValidTimezone(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || name == "Local" {
		return false
	}
	_, err := time.LoadLocation(name)
	return err == nil
}

// ResolveTimezone picks the effective timezone for a row: a valid row value,
// then the user's default, then the detected local zone, then UTC. The second
// return is false when the row supplied a value that is not a valid zone.
func ResolveTimezone(rowTZ, userTZ string, detect TimezoneDetector) (string, bool) {
	rowTZ = strings.TrimSpace(rowTZ)
	if rowTZ != "" && IsValidTimezone(rowTZ) {
		return rowTZ, true
	}
	rowOK := rowTZ == ""
	if IsValidTimezone(userTZ) {
		return strings.TrimSpace(userTZ), rowOK
	}
	if detect != nil {
		if detected := detect(); IsValidTimezone(detected) {
			return detected, rowOK
		}
	}
	return "UTC", rowOK
}

// DetectLocalTimezone inspects TZ and /etc/localtime for the host zone name.
func DetectLocalTimezone() string {
	if tz := strings.TrimPrefix(os.Getenv("TZ"), ":"); IsValidTimezone(tz) {
		return tz
	}
	if name := time.Local.String(); name != "Local" && IsValidTimezone(name) {
		return name
	}
	target, err := filepath.EvalSymlinks("/etc/localtime")
	if err != nil {
		return ""
	}
	if i := strings.Index(target, "zoneinfo/"); i >= 0 {
		if name := target[i+len("zoneinfo/"):]; IsValidTimezone(name) {
			return name
		}
	}
	return ""
}
