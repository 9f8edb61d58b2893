// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"tasklist/internal/store"
)

// FakeStorage is an in-memory implementation of storage.Storage for testing.
type FakeStorage struct {
	mu    sync.RWMutex
	items map[string]string

	// Writes counts successful SetItem and RemoveItem calls.
	Writes int

	// Error injection for testing
	GetItemErr    error
	SetItemErr    error
	RemoveItemErr error
}

// NewFakeStorage creates an empty FakeStorage.
func NewFakeStorage() *FakeStorage {
	return &FakeStorage{
		items: make(map[string]string),
	}
}

// Put seeds a raw value without counting a write.
func (f *FakeStorage) Put(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[key] = value
}

// Raw returns the raw stored value for key.
func (f *FakeStorage) Raw(key string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.items[key]
	return v, ok
}

// GetItem implements storage.Storage.
func (f *FakeStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	if f.GetItemErr != nil {
		return "", false, f.GetItemErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.items[key]
	return v, ok, nil
}

// SetItem implements storage.Storage.
func (f *FakeStorage) SetItem(ctx context.Context, key, value string) error {
	if f.SetItemErr != nil {
		return f.SetItemErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[key] = value
	f.Writes++
	return nil
}

// RemoveItem implements storage.Storage.
func (f *FakeStorage) RemoveItem(ctx context.Context, key string) error {
	if f.RemoveItemErr != nil {
		return f.RemoveItemErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, key)
	f.Writes++
	return nil
}

// NewStore returns a Store over a fresh FakeStorage.
func NewStore() (*store.Store, *FakeStorage) {
	fs := NewFakeStorage()
	return store.New(fs, zap.NewNop()), fs
}

// SeedTasks creates one task per text and returns them in order.
// Completed tasks are those whose index is listed in done.
func SeedTasks(ctx context.Context, st *store.Store, texts []string, done ...int) []store.Task {
	isDone := make(map[int]bool, len(done))
	for _, i := range done {
		isDone[i] = true
	}
	tasks := make([]store.Task, 0, len(texts))
	for i, text := range texts {
		task, ok, err := st.Create(ctx, text)
		if err != nil || !ok {
			panic("testutil: failed to seed task " + text)
		}
		if isDone[i] {
			if err := st.SetCompleted(ctx, task.ID, true); err != nil {
				panic(err)
			}
			task.Completed = true
		}
		tasks = append(tasks, task)
	}
	return tasks
}
