package compliance

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the CRM wire format for date-only properties.
const DateLayout = "2006-01-02"

const usDateLayout = "01/02/2006"

// ParseDate reads a CRM date value into a civil date (midnight UTC).
// Accepted forms: "2006-01-02", an RFC 3339 timestamp (only the date part is
// used), "01/02/2006" and epoch milliseconds. Empty or unreadable values
// report false.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if i := strings.IndexByte(s, 'T'); i > 0 {
		s = s[:i]
	}
	if isDigits(s) {
		ms, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		return civil(time.UnixMilli(ms).UTC()), true
	}
	for _, layout := range []string{DateLayout, usDateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a civil date in CRM wire format.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// SameDate reports whether two raw CRM values name the same day. Values that
// cannot be parsed are compared verbatim.
func SameDate(a, b string) bool {
	da, okA := ParseDate(a)
	db, okB := ParseDate(b)
	if okA && okB {
		return da.Equal(db)
	}
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}

func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func addDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
