package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tasklist/internal/view"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("51")).
			Bold(true).
			Padding(0, 1)

	filterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Strikethrough(true)

	leavingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Strikethrough(true)

	editorStyle = lipgloss.NewStyle().
			Underline(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

const (
	inputHelp = "enter add • tab list • ctrl+c quit"
	listHelp  = "↑/↓ move • space toggle • e edit • d delete • f filter • a add • q quit"
	editHelp  = "enter save • esc cancel"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	el := m.ctrl.Elements()
	var b strings.Builder

	b.WriteString(titleStyle.Render("Tasks"))
	b.WriteString("  ")
	b.WriteString(filterStyle.Render("filter: " + string(el.Filter.Value)))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	rows := el.List.Visible()
	if len(rows) == 0 {
		b.WriteString(dimStyle.Render("  no tasks"))
		b.WriteString("\n")
	}
	for i, row := range rows {
		selected := m.focus == focusList && i == m.cursor
		b.WriteString(m.renderRow(row, selected))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderRow(row *view.Row, selected bool) string {
	pointer := "  "
	if selected {
		pointer = cursorStyle.Render("> ")
	}

	check := "[ ]"
	if row.Completed() {
		check = "[x]"
	}

	var text string
	switch {
	case row.Leaving():
		text = leavingStyle.Render(row.Text())
	case row.Editing() && row.ID() == m.editingID:
		text = editorStyle.Render(m.editor.View())
	case row.Editing():
		text = editorStyle.Render(row.Editor().Value)
	case row.Completed():
		text = completedStyle.Render(row.Text())
	default:
		text = row.Text()
	}

	line := fmt.Sprintf("%s%s %s", pointer, check, text)
	if selected && !row.Leaving() && !row.Editing() {
		line += dimStyle.Render("  " + controlHints(row))
	}
	return line
}

func controlHints(row *view.Row) string {
	hints := make([]string, 0, len(row.Controls()))
	for _, c := range row.Controls() {
		switch c {
		case view.ControlToggle:
			hints = append(hints, "✓")
		case view.ControlEdit:
			hints = append(hints, "✎")
		case view.ControlDelete:
			hints = append(hints, "✗")
		}
	}
	return strings.Join(hints, " ")
}

func (m Model) help() string {
	switch {
	case m.editingID != "":
		return editHelp
	case m.focus == focusInput:
		return inputHelp
	default:
		return listHelp
	}
}
