// Package filestore implements storage.Storage on a single JSON file.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileMode is the permission of the storage file.
const FileMode = 0600

// Client implements storage.Storage on a JSON object file mapping keys to
// string values. The file is rewritten atomically on every write.
type Client struct {
	path string
}

// New creates a client for the file at path. The file is created on the
// first write.
func New(path string) *Client {
	return &Client{path: path}
}

// Path returns the backing file path.
func (c *Client) Path() string {
	return c.path
}

// GetItem implements storage.Storage.
func (c *Client) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	items, err := c.read()
	if err != nil {
		return "", false, err
	}
	value, ok := items[key]
	return value, ok, nil
}

// SetItem implements storage.Storage.
func (c *Client) SetItem(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	items, err := c.read()
	if err != nil {
		return err
	}
	items[key] = value
	return c.write(items)
}

// RemoveItem implements storage.Storage.
func (c *Client) RemoveItem(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	items, err := c.read()
	if err != nil {
		return err
	}
	if _, ok := items[key]; !ok {
		return nil
	}
	delete(items, key)
	return c.write(items)
}

// read returns an empty map when the file does not exist yet.
func (c *Client) read() (map[string]string, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", c.path, err)
	}
	if len(data) == 0 {
		return make(map[string]string), nil
	}

	items := make(map[string]string)
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("invalid storage file %s: %w", c.path, err)
	}
	return items, nil
}

func (c *Client) write(items map[string]string) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage: %w", err)
	}
	data = append(data, '\n')
	if err := writeFileAtomic(c.path, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.path, err)
	}
	return nil
}

// writeFileAtomic writes to a temp file in the same directory, syncs it and
// renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(FileMode); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}
