package view

import (
	"errors"
	"fmt"
	"strings"

	"tasklist/internal/store"
)

// Filter selects which rows are visible.
type Filter string

const (
	FilterAll        Filter = "all"
	FilterCompleted  Filter = "completed"
	FilterIncomplete Filter = "incomplete"
)

// ErrUnknownFilter is returned by ParseFilter for unsupported values.
var ErrUnknownFilter = errors.New("unknown filter")

// Filters returns the supported filters in selector order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterCompleted, FilterIncomplete}
}

// ParseFilter parses a filter name, case-insensitively. Empty means all.
func ParseFilter(s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FilterAll, nil
	}
	for _, f := range Filters() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFilter, s)
}

// Shows reports whether a row with the given completed marker is visible
// under f. Unknown filters show everything.
func (f Filter) Shows(completed bool) bool {
	switch f {
	case FilterCompleted:
		return completed
	case FilterIncomplete:
		return !completed
	default:
		return true
	}
}

// Control is one of the three action controls of a row.
type Control int

const (
	ControlToggle Control = iota
	ControlEdit
	ControlDelete
)

func (c Control) String() string {
	switch c {
	case ControlToggle:
		return "toggle"
	case ControlEdit:
		return "edit"
	case ControlDelete:
		return "delete"
	default:
		return fmt.Sprintf("Control(%d)", int(c))
	}
}

// Editor is the text input that replaces a row's text while it is edited.
type Editor struct {
	Value    string
	Original string

	// Width follows the display width of Value.
	Width int
}

// Row is the rendered form of one task.
type Row struct {
	id        string
	text      string
	completed bool
	hidden    bool
	leaving   bool
	editor    *Editor
}

// RenderRow builds the row for task.
func RenderRow(task store.Task) *Row {
	return &Row{
		id:        task.ID,
		text:      task.Text,
		completed: task.Completed,
	}
}

func (r *Row) ID() string      { return r.id }
func (r *Row) Text() string    { return r.text }
func (r *Row) Completed() bool { return r.completed }
func (r *Row) Hidden() bool    { return r.hidden }

// Leaving reports whether the row was deleted and is waiting for its exit
// transition to end.
func (r *Row) Leaving() bool { return r.leaving }

// Editing reports whether the text element is replaced by an editor.
func (r *Row) Editing() bool { return r.editor != nil }

// Editor returns the active editor, or nil.
func (r *Row) Editor() *Editor { return r.editor }

// Controls returns the row's action controls in display order.
func (r *Row) Controls() []Control {
	return []Control{ControlToggle, ControlEdit, ControlDelete}
}

// Container holds the rows in display order.
type Container struct {
	rows []*Row
}

// NewContainer returns an empty container.
func NewContainer() *Container {
	return &Container{}
}

// Append adds r at the end.
func (c *Container) Append(r *Row) {
	c.rows = append(c.rows, r)
}

// Remove drops the row with id. It reports whether a row was removed.
func (c *Container) Remove(id string) bool {
	for i, r := range c.rows {
		if r.id == id {
			c.rows = append(c.rows[:i], c.rows[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns the row with id, or nil.
func (c *Container) Find(id string) *Row {
	for _, r := range c.rows {
		if r.id == id {
			return r
		}
	}
	return nil
}

// Rows returns all rows, hidden ones included.
func (c *Container) Rows() []*Row {
	out := make([]*Row, len(c.rows))
	copy(out, c.rows)
	return out
}

// Visible returns the rows not hidden by the filter.
func (c *Container) Visible() []*Row {
	var out []*Row
	for _, r := range c.rows {
		if !r.hidden {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of rows.
func (c *Container) Len() int {
	return len(c.rows)
}

func (c *Container) clear() {
	c.rows = nil
}

// InputField is the add-task text input.
type InputField struct {
	Value string
}

// FilterSelector holds the selected filter.
type FilterSelector struct {
	Value Filter
}

// Elements is the set of view elements the controller drives.
type Elements struct {
	Input  *InputField
	List   *Container
	Filter *FilterSelector
}

// NewElements returns empty elements with the given initial filter.
func NewElements(filter Filter) *Elements {
	return &Elements{
		Input:  &InputField{},
		List:   NewContainer(),
		Filter: &FilterSelector{Value: filter},
	}
}
