package shared

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Timestamp layouts the music API reports like times in. RFC 3339 first, then
// a couple of date-only variants seen on album release dates.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// IsoToUnix converts an ISO-8601 timestamp string to unix seconds (UTC).
// An empty string converts to 0.
func IsoToUnix(iso string) (int64, error) {
	if iso == "" {
		return 0, nil
	}
	t, err := parseTimestamp(iso)
	if err != nil {
		return 0, err
	}
	return t.UTC().Unix(), nil
}

// IsoToYear returns the year component of an ISO-8601 timestamp or date string.
func IsoToYear(iso string) (int, error) {
	t, err := parseTimestamp(iso)
	if err != nil {
		return 0, err
	}
	return t.UTC().Year(), nil
}

func parseTimestamp(iso string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, iso); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable timestamp %q", ErrInvalidInput, iso)
}

// StripFloatSuffix removes a spurious trailing ".0" from a stringified cell value.
//
// Spreadsheet backends may coerce integer id columns to floating point, so an
// id like 5078559 reads back as "5078559.0".
func StripFloatSuffix(value any) string {
	if value == nil {
		return ""
	}
	s := strings.TrimSpace(fmt.Sprint(value))
	return strings.TrimSuffix(s, ".0")
}

// ValueToBool normalizes a checkbox cell value. Backends may report the cell
// as a native bool, a "TRUE"/"FALSE" string, or a number.
func ValueToBool(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "TRUE")
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		b, err := strconv.ParseBool(fmt.Sprint(v))
		return err == nil && b
	}
}

// ValueToString stringifies and trims a cell value, mapping nil to "".
func ValueToString(value any) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(value))
}
