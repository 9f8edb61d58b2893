package store_test

import (
	"context"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"tasklist/internal/store"
	"tasklist/internal/testutil"
)

func textGenerator() *rapid.Generator[string] {
	return rapid.OneOf(
		rapid.Just(""),
		rapid.Just("   "),
		rapid.StringMatching(`[A-Za-z0-9 ]{1,30}`),
	)
}

// testReload_Properties applies a random sequence of mutations to a Store
// and to a plain slice model, then checks that a fresh Store over the same
// storage loads exactly the model.
func testReload_Properties(t *rapid.T) {
	ctx := context.Background()
	fs := testutil.NewFakeStorage()
	st := store.New(fs, nil)

	var model []store.Task
	indexOf := func(id string) int {
		for i, task := range model {
			if task.ID == id {
				return i
			}
		}
		return -1
	}
	pickID := func(t *rapid.T) string {
		if len(model) == 0 || rapid.Bool().Draw(t, "unknownID") {
			return "missing"
		}
		return model[rapid.IntRange(0, len(model)-1).Draw(t, "index")].ID
	}

	t.Repeat(map[string]func(*rapid.T){
		"create": func(t *rapid.T) {
			text := textGenerator().Draw(t, "text")
			task, ok, err := st.Create(ctx, text)
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			trimmed := strings.TrimSpace(text)
			if ok != (trimmed != "") {
				t.Fatalf("create(%q) ok=%v", text, ok)
			}
			if ok {
				if task.Text != trimmed || task.Completed {
					t.Fatalf("create(%q) returned %+v", text, task)
				}
				model = append(model, task)
			}
		},
		"remove": func(t *rapid.T) {
			id := pickID(t)
			if err := st.Remove(ctx, id); err != nil {
				t.Fatalf("remove: %v", err)
			}
			if i := indexOf(id); i >= 0 {
				model = append(model[:i], model[i+1:]...)
			}
		},
		"updateText": func(t *rapid.T) {
			id := pickID(t)
			text := textGenerator().Draw(t, "text")
			if err := st.UpdateText(ctx, id, text); err != nil {
				t.Fatalf("updateText: %v", err)
			}
			if i := indexOf(id); i >= 0 && strings.TrimSpace(text) != "" {
				model[i].Text = strings.TrimSpace(text)
			}
		},
		"setCompleted": func(t *rapid.T) {
			id := pickID(t)
			completed := rapid.Bool().Draw(t, "completed")
			if err := st.SetCompleted(ctx, id, completed); err != nil {
				t.Fatalf("setCompleted: %v", err)
			}
			if i := indexOf(id); i >= 0 {
				model[i].Completed = completed
			}
		},
		"": func(t *rapid.T) {
			got := store.New(fs, nil).LoadAll(ctx)
			if len(got) != len(model) {
				t.Fatalf("reload has %d tasks, want %d", len(got), len(model))
			}
			seen := make(map[string]bool, len(got))
			for i := range got {
				if got[i] != model[i] {
					t.Fatalf("task %d = %+v, want %+v", i, got[i], model[i])
				}
				if seen[got[i].ID] {
					t.Fatalf("duplicate id %q", got[i].ID)
				}
				seen[got[i].ID] = true
			}
		},
	})
}

func TestStore_ReloadReflectsOperations(t *testing.T) {
	rapid.Check(t, testReload_Properties)
}

func FuzzStore_ReloadReflectsOperations(f *testing.F) {
	f.Fuzz(rapid.MakeFuzz(testReload_Properties))
}
