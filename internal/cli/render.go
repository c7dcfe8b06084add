package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/lomoval/event-organizer/internal/storage"
)

const (
	titleWidth       = 20
	descriptionWidth = 30
	boxWidth         = 36
)

// truncate shortens s to width runes, marking the cut with "...".
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

func renderList(w io.Writer, events []storage.Event, what string) {
	if len(events) == 0 {
		fmt.Fprintf(w, "\nNo %s found.\n", what)
		return
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTitle\tDate/Time\tType\tAttendees")
	for _, e := range events {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n",
			e.ID, truncate(e.Title, titleWidth), e.Time, e.Visibility, len(e.Attendees))
	}
	tw.Flush()
}

func renderDetails(w io.Writer, e storage.Event, creator string) {
	line := strings.Repeat("-", boxWidth)
	row := func(format string, args ...interface{}) {
		fmt.Fprintf(w, "| %-*s |\n", boxWidth-4, fmt.Sprintf(format, args...))
	}

	fmt.Fprintf(w, "\n+%s+\n", line[:boxWidth-2])
	row("%s", truncate(e.Title, boxWidth-4))
	fmt.Fprintf(w, "+%s+\n", line[:boxWidth-2])
	row("ID: %d", e.ID)
	row("Time: %s", e.Time)
	row("Type: %s", e.Visibility)
	if creator == "" {
		row("Creator: %d", e.OwnerID)
	} else {
		row("Creator: %s", truncate(creator, boxWidth-13))
	}
	row("Attendees: %d", len(e.Attendees))
	if e.Description != "" {
		fmt.Fprintf(w, "+%s+\n", line[:boxWidth-2])
		row("%s", truncate(e.Description, descriptionWidth))
	}
	fmt.Fprintf(w, "+%s+\n", line[:boxWidth-2])
}
