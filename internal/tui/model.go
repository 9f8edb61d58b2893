// Package tui is the interactive terminal front end of the task list.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tasklist/internal/view"
)

type focus int

const (
	focusInput focus = iota
	focusList
)

// removeRowMsg ends the exit transition of a deleted row.
type removeRowMsg struct {
	id string
}

// Model is the bubbletea model wrapping a view.Controller.
type Model struct {
	ctx  context.Context
	ctrl *view.Controller

	input  textinput.Model
	editor textinput.Model

	// editingID is the row whose editor has keyboard focus.
	editingID string

	focus    focus
	cursor   int
	status   string
	quitting bool
}

// New creates a model over ctrl. ctrl should already be loaded.
func New(ctx context.Context, ctrl *view.Controller) Model {
	input := textinput.New()
	input.Placeholder = "What needs doing?"
	input.Prompt = "+ "
	input.CharLimit = 256
	input.Width = 40
	input.SetValue(ctrl.Elements().Input.Value)
	input.Focus()

	editor := textinput.New()
	editor.Prompt = ""
	editor.CharLimit = 256

	return Model{
		ctx:    ctx,
		ctrl:   ctrl,
		input:  input,
		editor: editor,
		focus:  focusInput,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case removeRowMsg:
		m.ctrl.FinishRemoval(msg.id)
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.editingID != "" {
			return m.updateEditing(msg)
		}
		if m.focus == focusInput {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}

	if m.editingID != "" {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.editingID != "" {
		m.commitEdit()
	}
	m.quitting = true
	return m, tea.Quit
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		el := m.ctrl.Elements()
		el.Input.Value = m.input.Value()
		row, err := m.ctrl.Submit(m.ctx)
		m.setStatus(err)
		m.input.SetValue(el.Input.Value)
		if row != nil && !row.Hidden() {
			m.cursor = indexOf(el.List.Visible(), row.ID())
		}
		return m, nil
	case "tab", "esc":
		m.focus = focusList
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case " ", "x":
		if row := m.selected(); row != nil {
			m.setStatus(m.ctrl.Activate(m.ctx, row.ID(), view.ControlToggle))
			m.clampCursor()
		}
	case "e":
		if row := m.selected(); row != nil {
			return m.beginEdit(row)
		}
	case "d":
		if row := m.selected(); row != nil {
			return m.delete(row)
		}
	case "f":
		m.ctrl.ApplyFilter(nextFilter(m.ctrl.Elements().Filter.Value))
		m.clampCursor()
	case "a", "i", "tab":
		m.focus = focusInput
		return m, m.input.Focus()
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.commitEdit()
		return m, nil
	case "esc":
		m.ctrl.CancelEdit(m.editingID)
		m.endEdit()
		return m, nil
	case "tab", "up", "down":
		// Leaving the editor counts as a blur, which commits.
		m.commitEdit()
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	m.ctrl.EditInput(m.editingID, m.editor.Value())
	if row := m.ctrl.Elements().List.Find(m.editingID); row != nil && row.Editor() != nil {
		m.editor.Width = row.Editor().Width
	}
	return m, cmd
}

func (m Model) beginEdit(row *view.Row) (tea.Model, tea.Cmd) {
	if err := m.ctrl.Activate(m.ctx, row.ID(), view.ControlEdit); err != nil {
		m.setStatus(err)
		return m, nil
	}
	ed := row.Editor()
	if ed == nil {
		return m, nil
	}
	m.editingID = row.ID()
	m.editor.SetValue(ed.Value)
	m.editor.Width = ed.Width
	m.editor.CursorEnd()
	return m, m.editor.Focus()
}

func (m *Model) commitEdit() {
	m.setStatus(m.ctrl.CommitEdit(m.ctx, m.editingID))
	m.endEdit()
	m.clampCursor()
}

func (m *Model) endEdit() {
	m.editingID = ""
	m.editor.Blur()
	m.editor.SetValue("")
}

func (m Model) delete(row *view.Row) (tea.Model, tea.Cmd) {
	id := row.ID()
	if err := m.ctrl.Activate(m.ctx, id, view.ControlDelete); err != nil {
		m.setStatus(err)
		return m, nil
	}
	m.status = ""
	if m.ctrl.Elements().List.Find(id) == nil {
		m.clampCursor()
		return m, nil
	}
	return m, tea.Tick(m.ctrl.ExitDelay(), func(time.Time) tea.Msg {
		return removeRowMsg{id: id}
	})
}

// selected returns the row under the cursor. Leaving rows can be selected
// but ignore activations.
func (m Model) selected() *view.Row {
	rows := m.ctrl.Elements().List.Visible()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return nil
	}
	return rows[m.cursor]
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.ctrl.Elements().List.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setStatus(err error) {
	if err != nil {
		m.status = "error: " + err.Error()
		return
	}
	m.status = ""
}

func nextFilter(current view.Filter) view.Filter {
	filters := view.Filters()
	for i, f := range filters {
		if f == current {
			return filters[(i+1)%len(filters)]
		}
	}
	return view.FilterAll
}

func indexOf(rows []*view.Row, id string) int {
	for i, r := range rows {
		if r.ID() == id {
			return i
		}
	}
	return 0
}

// Run starts the interactive program and blocks until the user quits.
func Run(ctx context.Context, ctrl *view.Controller, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(ctx, ctrl), opts...).Run()
	return err
}
