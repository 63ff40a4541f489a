package calendar

import (
	"io"
	"strings"
	"time"

	"github.com/runoshun/three-daily-goals/internal/domain"
)

const icsTimeLayout = "20060102T150405Z"

// ExportICS writes events as an iCalendar document.
func ExportICS(w io.Writer, events []domain.Event, now time.Time) error {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Three Daily Goals//Calendar Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}
	for _, e := range events {
		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+escapeICSText(e.ID+"@three-daily-goals"),
			"DTSTAMP:"+now.UTC().Format(icsTimeLayout),
			"DTSTART:"+e.Start.UTC().Format(icsTimeLayout),
			"DTEND:"+e.End.UTC().Format(icsTimeLayout),
			"SUMMARY:"+escapeICSText(e.Title),
		)
		if notes := strings.TrimSpace(e.Notes); notes != "" {
			lines = append(lines, "DESCRIPTION:"+escapeICSText(notes))
		}
		if e.URL != "" {
			lines = append(lines, "URL:"+e.URL)
		}
		lines = append(lines, "END:VEVENT")
	}
	lines = append(lines, "END:VCALENDAR", "")

	_, err := io.WriteString(w, strings.Join(lines, "\r\n"))
	return err
}

func escapeICSText(s string) string {
	repl := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
	)
	return repl.Replace(s)
}
