package export

import (
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sadopc/taskdeck/internal/store"
)

const icsDateLayout = "20060102"

// ToICS writes one all-day event per open task.
func ToICS(snap store.Snapshot, path string, now time.Time) error {
	if err := os.WriteFile(path, []byte(buildCalendar(snap, now)), 0o644); err != nil {
		return fmt.Errorf("write ics file: %w", err)
	}
	return nil
}

func buildCalendar(snap store.Snapshot, now time.Time) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//taskdeck//Task Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}
	stamp := now.UTC().Format("20060102T150405Z")

	for _, t := range snap.Tasks {
		if t.Completed {
			continue
		}
		due := t.DueDate
		start := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, due.Location())
		end := start.AddDate(0, 0, 1)

		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+escapeICSText("task-"+t.ID+"@taskdeck"),
			"DTSTAMP:"+stamp,
			"SUMMARY:"+escapeICSText(t.Title),
			"DTSTART;VALUE=DATE:"+start.Format(icsDateLayout),
			"DTEND;VALUE=DATE:"+end.Format(icsDateLayout),
			fmt.Sprintf("PRIORITY:%d", icsPriority(t.Priority)),
		)
		if name := projectName(snap, t.ProjectID); name != "" {
			lines = append(lines, "CATEGORIES:"+escapeICSText(name))
		}
		lines = append(lines, "END:VEVENT")
	}

	lines = append(lines, "END:VCALENDAR")
	for i, line := range lines {
		lines[i] = foldICSLine(line)
	}
	return strings.Join(lines, "\r\n") + "\r\n"
}

// foldICSLine splits a content line into 75-octet chunks, continuing each
// with CRLF and a space (RFC 5545 3.1). Multi-byte runes are never split.
func foldICSLine(line string) string {
	const limit = 75
	if len(line) <= limit {
		return line
	}

	var b strings.Builder
	width := limit
	for len(line) > width {
		cut := width
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		// Continuation lines spend one octet on the leading space.
		width = limit - 1
	}
	b.WriteString(line)
	return b.String()
}

// icsPriority maps to RFC 5545 values: 1 highest, 9 lowest.
func icsPriority(p store.Priority) int {
	switch p {
	case store.PriorityHigh:
		return 1
	case store.PriorityMedium:
		return 5
	case store.PriorityLow:
		return 9
	}
	return 0
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
