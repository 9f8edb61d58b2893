// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"tasklist/internal/view"
)

const (
	// FilterSeparator is the separator line under a filter header.
	FilterSeparator = "------------"

	markDone = "[x]"
	markOpen = "[ ]"
)

// FormatRow formats a task row.
// Format: "{N:>4}  {MARK} {TEXT}\n" (4-wide right-aligned number, two spaces,
// completion mark, text)
func FormatRow(w io.Writer, num int, row *view.Row) {
	mark := markOpen
	if row.Completed() {
		mark = markDone
	}
	fmt.Fprintf(w, "%4d  %s %s\n", num, mark, normalizeText(row.Text()))
}

// FormatFilterHeader formats the header printed above a filtered list.
func FormatFilterHeader(w io.Writer, filter view.Filter, shown, total int) {
	fmt.Fprintln(w, FilterSeparator)
	fmt.Fprintf(w, "%s (%d of %d)\n", filter, shown, total)
	fmt.Fprintln(w, FilterSeparator)
}

// normalizeText normalizes task text for display.
// - Empty or whitespace-only text becomes "(untitled)"
// - Newlines are replaced with spaces
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	if strings.TrimSpace(text) == "" {
		return "(untitled)"
	}
	return text
}
