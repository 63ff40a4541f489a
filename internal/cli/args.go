package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/runoshun/three-daily-goals/internal/domain"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

// parseTaskID parses a task ID string to int.
func parseTaskID(s string) (int, error) {
	// Remove leading # if present
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid task ID %q", s)
	}
	if id <= 0 {
		return 0, errors.New("task ID must be positive")
	}
	return id, nil
}

// parseDate parses a calendar day: YYYY-MM-DD, "today", "tomorrow" or "+Nd".
// The result is the start of that day in the provider's location.
func parseDate(s string, tp domain.TimeProvider) (time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "today":
		return domain.DateInDays(tp, 0), nil
	case "tomorrow":
		return domain.DateInDays(tp, 1), nil
	}
	if strings.HasPrefix(s, "+") && strings.HasSuffix(s, "d") {
		n, err := strconv.Atoi(s[1 : len(s)-1])
		if err == nil && n >= 0 {
			return domain.DateInDays(tp, n), nil
		}
	}
	d, err := time.ParseInLocation(dateLayout, s, tp.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD, today, tomorrow or +Nd)", s)
	}
	return d, nil
}

// parseWhen parses an event start: "YYYY-MM-DD HH:MM", "HH:MM" (today) or RFC 3339.
func parseWhen(s string, tp domain.TimeProvider) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(dateTimeLayout, s, tp.Location()); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("15:04", s, tp.Location()); err == nil {
		return domain.TodayAt(tp, t.Hour(), t.Minute()), nil
	}
	return time.Time{}, fmt.Errorf("invalid start %q (use \"YYYY-MM-DD HH:MM\", HH:MM or RFC 3339)", s)
}

// formatTime formats t for display in the local zone of t.
func formatTime(t time.Time) string {
	return t.Format(dateTimeLayout)
}

// formatSize formats a byte count.
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}
