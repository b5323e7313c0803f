// Package render formats event lists as Markdown for chat replies.
package render

import (
	"fmt"
	"strings"
	"time"

	"eventaide/internal/models"
)

const (
	NoEvents  = "_No events found._"
	separator = "\n---\n\n"
	missing   = "—"
)

// Markdown renders events as numbered H3 blocks separated by horizontal rules.
func Markdown(events []models.CompactEvent) string {
	if len(events) == 0 {
		return NoEvents
	}

	blocks := make([]string, 0, len(events))
	for i, ev := range events {
		blocks = append(blocks, block(i+1, ev))
	}
	return strings.TrimSpace(strings.Join(blocks, separator))
}

// Document renders the full "Top N events" page for city.
func Document(city string, n int, events []models.CompactEvent) string {
	return fmt.Sprintf("## Top %d events in %s\n\n", n, city) + Markdown(events)
}

func block(i int, ev models.CompactEvent) string {
	lines := []string{
		fmt.Sprintf("### %d. %s", i, orMissing(ev.Name)),
		"",
		fmt.Sprintf("**Venue:** %s  ", orMissing(ev.Venue.Name)),
		fmt.Sprintf("**When:** %s%s  ", FormatDate(ev.Date), timeSuffix(ev.Time)),
	}
	if where := location(ev.Venue); where != "" {
		lines = append(lines, fmt.Sprintf("**Where:** %s  ", where))
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

// FormatDate turns "2025-03-15" into "Sat, Mar 15". Values that are too short
// or do not parse are returned unchanged.
func FormatDate(date string) string {
	if len(date) < 10 {
		return date
	}
	t, err := time.Parse("2006-01-02", date[:10])
	if err != nil {
		return date
	}
	return t.Format("Mon, Jan 02")
}

func timeSuffix(t string) string {
	if t == "" {
		return ""
	}
	return " at " + t
}

func location(v models.Venue) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{v.Address, v.City, v.State} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func orMissing(s string) string {
	if s == "" {
		return missing
	}
	return s
}
