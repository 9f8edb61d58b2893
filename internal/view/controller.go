// Package view reflects the task store in a list of rows and turns row
// interactions into store calls.
//
// The controller never re-renders the whole list after a mutation; it only
// updates the rows an action touched. It is driven from a single event loop
// and is not safe for concurrent use.
package view

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"tasklist/internal/store"
)

// editPadding is added to the text width when sizing an editor.
const editPadding = 2

// TaskStore is the subset of the store the controller needs.
type TaskStore interface {
	LoadAll(ctx context.Context) []store.Task
	Create(ctx context.Context, text string) (store.Task, bool, error)
	Remove(ctx context.Context, id string) error
	UpdateText(ctx context.Context, id, newText string) error
	SetCompleted(ctx context.Context, id string, completed bool) error
}

// Controller keeps Elements in step with a TaskStore.
type Controller struct {
	store     TaskStore
	el        *Elements
	log       *zap.Logger
	exitDelay time.Duration
}

// Option configures a Controller.
type Option func(*Controller)

// WithExitDelay sets how long a deleted row stays in the list before the
// caller is expected to call FinishRemoval. Zero removes rows immediately.
func WithExitDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.exitDelay = d
	}
}

// NewController creates a controller over st rendering into el.
func NewController(st TaskStore, el *Elements, log *zap.Logger, opts ...Option) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	if el.Input == nil {
		el.Input = &InputField{}
	}
	if el.List == nil {
		el.List = NewContainer()
	}
	if el.Filter == nil {
		el.Filter = &FilterSelector{Value: FilterAll}
	}
	c := &Controller{
		store: st,
		el:    el,
		log:   log.Named("view"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Elements returns the elements the controller renders into.
func (c *Controller) Elements() *Elements {
	return c.el
}

// ExitDelay returns the configured exit transition length.
func (c *Controller) ExitDelay() time.Duration {
	return c.exitDelay
}

// Load replaces the list with one row per stored task.
func (c *Controller) Load(ctx context.Context) {
	c.el.List.clear()
	tasks := c.store.LoadAll(ctx)
	for _, task := range tasks {
		row := RenderRow(task)
		c.applyFilter(row)
		c.el.List.Append(row)
	}
	c.log.Debug("rendered tasks", zap.Int("rows", len(tasks)))
}

// Submit creates a task from the add input. It returns nil without touching
// the store when the trimmed input is empty. On success the new row is
// appended and the input is cleared.
func (c *Controller) Submit(ctx context.Context) (*Row, error) {
	text := strings.TrimSpace(c.el.Input.Value)
	if text == "" {
		return nil, nil
	}

	task, ok, err := c.store.Create(ctx, text)
	if err != nil {
		c.log.Error("failed to create task", zap.Error(err))
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	row := RenderRow(task)
	c.applyFilter(row)
	c.el.List.Append(row)
	c.el.Input.Value = ""
	return row, nil
}

// Activate dispatches a control activation on row id. Activations on
// unknown or leaving rows are ignored.
func (c *Controller) Activate(ctx context.Context, id string, ctl Control) error {
	switch ctl {
	case ControlToggle:
		return c.Toggle(ctx, id)
	case ControlEdit:
		c.BeginEdit(id)
		return nil
	case ControlDelete:
		return c.Delete(ctx, id)
	default:
		return nil
	}
}

// Delete removes task id from the store and marks its row as leaving. The
// row itself goes away in FinishRemoval, or right away when the exit delay
// is zero.
func (c *Controller) Delete(ctx context.Context, id string) error {
	row := c.activeRow(id)
	if row == nil {
		return nil
	}

	if err := c.store.Remove(ctx, id); err != nil {
		c.log.Error("failed to delete task", zap.String("id", id), zap.Error(err))
		return err
	}

	row.editor = nil
	row.leaving = true
	if c.exitDelay <= 0 {
		c.FinishRemoval(id)
	}
	return nil
}

// FinishRemoval removes a leaving row once its exit transition has ended.
// It is safe to call more than once.
func (c *Controller) FinishRemoval(id string) {
	row := c.el.List.Find(id)
	if row == nil || !row.leaving {
		return
	}
	c.el.List.Remove(id)
}

// Toggle flips the completed marker of row id and persists it. If the store
// write fails the marker is flipped back so that both agree.
func (c *Controller) Toggle(ctx context.Context, id string) error {
	row := c.activeRow(id)
	if row == nil {
		return nil
	}

	row.completed = !row.completed
	if err := c.store.SetCompleted(ctx, id, row.completed); err != nil {
		row.completed = !row.completed
		c.log.Error("failed to toggle task", zap.String("id", id), zap.Error(err))
		return err
	}
	c.applyFilter(row)
	return nil
}

// BeginEdit swaps the text of row id for an editor holding the current text.
// It reports false if the row is missing, leaving or already being edited.
func (c *Controller) BeginEdit(id string) bool {
	row := c.activeRow(id)
	if row == nil || row.editor != nil {
		return false
	}
	row.editor = &Editor{
		Value:    row.text,
		Original: row.text,
		Width:    editorWidth(row.text),
	}
	return true
}

// EditInput records typed input in the editor of row id.
func (c *Controller) EditInput(id, value string) {
	row := c.el.List.Find(id)
	if row == nil || row.editor == nil {
		return
	}
	row.editor.Value = value
	row.editor.Width = editorWidth(value)
}

// CommitEdit ends editing of row id. A non-empty trimmed value is stored and
// displayed; an empty one restores the original text without a store call.
func (c *Controller) CommitEdit(ctx context.Context, id string) error {
	row := c.el.List.Find(id)
	if row == nil || row.editor == nil {
		return nil
	}

	ed := row.editor
	row.editor = nil

	value := strings.TrimSpace(ed.Value)
	if value == "" {
		row.text = ed.Original
		return nil
	}

	if err := c.store.UpdateText(ctx, id, value); err != nil {
		row.text = ed.Original
		c.log.Error("failed to update task", zap.String("id", id), zap.Error(err))
		return err
	}
	row.text = value
	return nil
}

// CancelEdit ends editing of row id and restores the original text.
func (c *Controller) CancelEdit(id string) {
	row := c.el.List.Find(id)
	if row == nil || row.editor == nil {
		return
	}
	row.text = row.editor.Original
	row.editor = nil
}

// ApplyFilter selects f and updates the visibility of every row. It does
// not touch the store.
func (c *Controller) ApplyFilter(f Filter) {
	c.el.Filter.Value = f
	for _, row := range c.el.List.rows {
		c.applyFilter(row)
	}
}

func (c *Controller) applyFilter(row *Row) {
	row.hidden = !c.el.Filter.Value.Shows(row.completed)
}

// activeRow returns row id unless it is missing or leaving.
func (c *Controller) activeRow(id string) *Row {
	row := c.el.List.Find(id)
	if row == nil || row.leaving {
		return nil
	}
	return row
}

func editorWidth(s string) int {
	return lipgloss.Width(s) + editPadding
}
