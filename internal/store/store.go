// Package store persists the task list into the local key-value storage.
//
// The list is kept under a single key as a JSON array of task records.
// Older versions stored a plain array of strings; those entries are upgraded
// to records the first time the list is loaded and the upgraded list is
// written back.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tasklist/internal/storage"
)

// StorageKey is the key the task list is stored under.
const StorageKey = "todos"

// Task is one persisted to-do item.
type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Store owns the ordered task sequence. Every mutation reads the current
// list, applies the change and writes the list back before returning.
// A Store is meant for a single writer.
type Store struct {
	storage storage.Storage
	log     *zap.Logger
	newID   func() string
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the UUID generator. Generated ids that collide
// with an existing record are discarded and drawn again.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

// New creates a Store over st. A nil logger discards logs.
func New(st storage.Storage, log *zap.Logger, opts ...Option) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		storage: st,
		log:     log.Named("store"),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadAll returns every task in display order. Missing or unreadable data
// yields an empty list; it never fails. Legacy entries are upgraded and the
// upgraded list is persisted before it is returned.
func (s *Store) LoadAll(ctx context.Context) []Task {
	return s.load(ctx)
}

// Create appends a task with the trimmed text. ok is false, and nothing is
// written, when the text is empty after trimming.
func (s *Store) Create(ctx context.Context, text string) (task Task, ok bool, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, false, nil
	}

	tasks := s.load(ctx)
	task = Task{
		ID:   s.uniqueID(tasks),
		Text: text,
	}
	tasks = append(tasks, task)

	if err := s.save(ctx, tasks); err != nil {
		return Task{}, false, fmt.Errorf("failed to create task: %w", err)
	}
	s.log.Debug("created task", zap.String("id", task.ID))
	return task, true, nil
}

// Remove deletes the task with id. Removing an unknown id is not an error.
func (s *Store) Remove(ctx context.Context, id string) error {
	tasks := s.load(ctx)

	kept := tasks[:0]
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}

	if err := s.save(ctx, kept); err != nil {
		return fmt.Errorf("failed to remove task %s: %w", id, err)
	}
	return nil
}

// UpdateText replaces the text of task id with the trimmed newText. An empty
// newText or an unknown id leaves the list untouched.
func (s *Store) UpdateText(ctx context.Context, id, newText string) error {
	newText = strings.TrimSpace(newText)
	if newText == "" {
		return nil
	}
	return s.update(ctx, id, func(t *Task) {
		t.Text = newText
	})
}

// SetCompleted sets the completed flag of task id. An unknown id leaves the
// list untouched.
func (s *Store) SetCompleted(ctx context.Context, id string, completed bool) error {
	return s.update(ctx, id, func(t *Task) {
		t.Completed = completed
	})
}

func (s *Store) update(ctx context.Context, id string, fn func(*Task)) error {
	tasks := s.load(ctx)
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		fn(&tasks[i])
		if err := s.save(ctx, tasks); err != nil {
			return fmt.Errorf("failed to update task %s: %w", id, err)
		}
		return nil
	}
	s.log.Debug("task not found", zap.String("id", id))
	return nil
}

func (s *Store) load(ctx context.Context) []Task {
	raw, ok, err := s.storage.GetItem(ctx, StorageKey)
	if err != nil {
		s.log.Warn("failed to read task list, starting empty", zap.Error(err))
		return []Task{}
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []Task{}
	}

	tasks, upgraded, err := decode(raw, s.newID)
	if err != nil {
		s.log.Warn("failed to parse task list, starting empty", zap.Error(err))
		return []Task{}
	}

	if upgraded {
		s.log.Info("upgraded stored task list", zap.Int("tasks", len(tasks)))
		if err := s.save(ctx, tasks); err != nil {
			s.log.Error("failed to persist upgraded task list", zap.Error(err))
		}
	}
	return tasks
}

func (s *Store) save(ctx context.Context, tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	return s.storage.SetItem(ctx, StorageKey, string(data))
}

func (s *Store) uniqueID(tasks []Task) string {
	for {
		id := s.newID()
		if id == "" {
			continue
		}
		taken := false
		for _, t := range tasks {
			if t.ID == id {
				taken = true
				break
			}
		}
		if !taken {
			return id
		}
	}
}
