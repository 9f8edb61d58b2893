package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var errNotArray = errors.New("stored task list is not an array")

// storedRecord accepts loosely typed record fields so that hand-edited or
// older data can be repaired instead of discarded.
type storedRecord struct {
	ID        any `json:"id"`
	Text      any `json:"text"`
	Completed any `json:"completed"`
}

// decode parses the stored list. upgraded reports whether any entry had to
// be converted or repaired, in which case the caller rewrites the list.
//
// Bare strings become incomplete tasks with a fresh id. Records with a
// missing or duplicate id get a fresh one. Entries that are neither strings
// nor objects, and entries whose text is empty, are dropped.
func decode(raw string, newID func() string) (tasks []Task, upgraded bool, err error) {
	data := bytes.TrimSpace([]byte(raw))
	if bytes.Equal(data, []byte("null")) {
		return []Task{}, false, nil
	}
	if len(data) == 0 || data[0] != '[' {
		return nil, false, errNotArray
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false, err
	}

	tasks = make([]Task, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	freshID := func() string {
		for {
			id := newID()
			if id != "" && !seen[id] {
				return id
			}
		}
	}

	for _, entry := range entries {
		entry = bytes.TrimSpace(entry)
		if len(entry) == 0 {
			upgraded = true
			continue
		}

		switch entry[0] {
		case '"':
			var text string
			if err := json.Unmarshal(entry, &text); err != nil {
				return nil, false, err
			}
			upgraded = true
			if strings.TrimSpace(text) == "" {
				continue
			}
			t := Task{ID: freshID(), Text: text}
			seen[t.ID] = true
			tasks = append(tasks, t)

		case '{':
			var rec storedRecord
			if err := json.Unmarshal(entry, &rec); err != nil {
				return nil, false, err
			}
			t, repaired := normalize(rec)
			if repaired {
				upgraded = true
			}
			if strings.TrimSpace(t.Text) == "" {
				upgraded = true
				continue
			}
			if t.ID == "" || seen[t.ID] {
				t.ID = freshID()
				upgraded = true
			}
			seen[t.ID] = true
			tasks = append(tasks, t)

		default:
			upgraded = true
		}
	}

	return tasks, upgraded, nil
}

// normalize converts loosely typed fields. repaired is true if any field was
// not already of its canonical JSON type.
func normalize(rec storedRecord) (Task, bool) {
	id, idOK := stringField(rec.ID)
	text, textOK := stringField(rec.Text)
	completed, completedOK := rec.Completed.(bool)
	if !completedOK {
		completed = truthy(rec.Completed)
	}
	return Task{ID: id, Text: text, Completed: completed}, !idOK || !textOK || !completedOK
}

// stringField reports ok only for a JSON string.
func stringField(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), false
	case bool:
		return strconv.FormatBool(x), false
	default:
		return "", false
	}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}
