package content

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	time.RFC1123Z,
	time.RFC1123,
}

var dateOnlyLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseDate converts the date representations found in exported records into
// an instant. Date-only strings are read as UTC midnight, zone-less date
// times as local time. Numbers are epoch milliseconds.
func ParseDate(value any) (time.Time, bool) {
	switch typed := value.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return typed, !typed.IsZero()
	case *time.Time:
		if typed == nil {
			return time.Time{}, false
		}
		return *typed, !typed.IsZero()
	case float64:
		return fromMillis(typed)
	case int:
		return fromMillis(float64(typed))
	case int64:
		return fromMillis(float64(typed))
	case json.Number:
		f, err := typed.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return fromMillis(f)
	case string:
		return parseDateString(typed)
	default:
		return time.Time{}, false
	}
}

func parseDateString(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	for _, layout := range dateOnlyLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func fromMillis(ms float64) (time.Time, bool) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)), true
}

// FormatDate renders t as "<year>년 <month>월 <day>일" in local time. The
// zero time renders as an empty string.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	local := t.Local()
	return fmt.Sprintf("%d년 %d월 %d일", local.Year(), int(local.Month()), local.Day())
}
