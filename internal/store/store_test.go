package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"tasklist/internal/store"
	"tasklist/internal/testutil"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func storedTasks(t *testing.T, fs *testutil.FakeStorage) []store.Task {
	t.Helper()
	raw, ok := fs.Raw(store.StorageKey)
	require.True(t, ok, "expected %q to be stored", store.StorageKey)
	var tasks []store.Task
	require.NoError(t, json.Unmarshal([]byte(raw), &tasks))
	return tasks
}

func TestLoadAll_Empty(t *testing.T) {
	st, fs := testutil.NewStore()

	tasks := st.LoadAll(context.Background())

	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
	assert.Equal(t, 0, fs.Writes)
}

func TestLoadAll_MalformedJSON(t *testing.T) {
	fs := testutil.NewFakeStorage()
	fs.Put(store.StorageKey, "{not json")
	core, logs := observer.New(zapcore.DebugLevel)
	st := store.New(fs, zap.New(core))

	tasks := st.LoadAll(context.Background())

	assert.Empty(t, tasks)
	assert.Equal(t, 1, logs.FilterMessage("failed to parse task list, starting empty").Len())
	assert.Equal(t, 0, fs.Writes, "malformed data must not be rewritten on load")
}

func TestLoadAll_NotAnArray(t *testing.T) {
	for _, raw := range []string{`{"id":"a"}`, `"buy milk"`, `42`} {
		fs := testutil.NewFakeStorage()
		fs.Put(store.StorageKey, raw)
		st := store.New(fs, nil)

		assert.Empty(t, st.LoadAll(context.Background()), raw)
	}
}

func TestLoadAll_ReadError(t *testing.T) {
	fs := testutil.NewFakeStorage()
	fs.GetItemErr = errors.New("disk gone")
	core, logs := observer.New(zapcore.DebugLevel)
	st := store.New(fs, zap.New(core))

	assert.Empty(t, st.LoadAll(context.Background()))
	assert.Equal(t, 1, logs.FilterMessage("failed to read task list, starting empty").Len())
}

func TestLoadAll_LegacyStrings(t *testing.T) {
	fs := testutil.NewFakeStorage()
	fs.Put(store.StorageKey, `["buy milk"]`)
	st := store.New(fs, nil)

	tasks := st.LoadAll(context.Background())

	require.Len(t, tasks, 1)
	assert.Equal(t, "buy milk", tasks[0].Text)
	assert.False(t, tasks[0].Completed)
	assert.NotEmpty(t, tasks[0].ID)

	// Storage is rewritten in object form.
	assert.Equal(t, tasks, storedTasks(t, fs))
	raw, _ := fs.Raw(store.StorageKey)
	assert.Contains(t, raw, `"id"`)

	// A second load keeps the same id and does not rewrite.
	writes := fs.Writes
	again := st.LoadAll(context.Background())
	assert.Equal(t, tasks, again)
	assert.Equal(t, writes, fs.Writes)
}

func TestLoadAll_MixedAndRepaired(t *testing.T) {
	fs := testutil.NewFakeStorage()
	fs.Put(store.StorageKey, `[
		"legacy",
		{"id":"a","text":"kept","completed":true},
		{"id":"a","text":"duplicate id"},
		{"text":"no id","completed":1},
		{"id":7,"text":"numeric id"},
		{"id":"b","text":"   "},
		null,
		3
	]`)
	st := store.New(fs, nil, store.WithIDGenerator(sequentialIDs()))

	tasks := st.LoadAll(context.Background())

	require.Len(t, tasks, 5)
	assert.Equal(t, store.Task{ID: "id-1", Text: "legacy"}, tasks[0])
	assert.Equal(t, store.Task{ID: "a", Text: "kept", Completed: true}, tasks[1])
	assert.Equal(t, "duplicate id", tasks[2].Text)
	assert.NotEqual(t, "a", tasks[2].ID)
	assert.Equal(t, "no id", tasks[3].Text)
	assert.True(t, tasks[3].Completed)
	assert.NotEmpty(t, tasks[3].ID)
	assert.Equal(t, store.Task{ID: "7", Text: "numeric id"}, tasks[4])

	assert.Equal(t, tasks, storedTasks(t, fs))
}

func TestLoadAll_CurrentFormatNotRewritten(t *testing.T) {
	fs := testutil.NewFakeStorage()
	fs.Put(store.StorageKey, `[{"id":"a","text":"one","completed":false}]`)
	st := store.New(fs, nil)

	tasks := st.LoadAll(context.Background())

	assert.Equal(t, []store.Task{{ID: "a", Text: "one"}}, tasks)
	assert.Equal(t, 0, fs.Writes)
}

func TestCreate_RejectsBlank(t *testing.T) {
	st, fs := testutil.NewStore()
	ctx := context.Background()

	for _, text := range []string{"", "   ", "\t\n"} {
		task, ok, err := st.Create(ctx, text)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, store.Task{}, task)
	}

	assert.Empty(t, st.LoadAll(ctx))
	assert.Equal(t, 0, fs.Writes)
}

func TestCreate_TrimsAndAppends(t *testing.T) {
	st, fs := testutil.NewStore()
	ctx := context.Background()

	a, ok, err := st.Create(ctx, "  A  ")
	require.NoError(t, err)
	require.True(t, ok)
	b, _, err := st.Create(ctx, "B")
	require.NoError(t, err)

	assert.Equal(t, "A", a.Text)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, []store.Task{a, b}, storedTasks(t, fs))
}

func TestCreate_RegeneratesCollidingID(t *testing.T) {
	ids := []string{"x", "x", "y"}
	gen := func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	st := store.New(testutil.NewFakeStorage(), nil, store.WithIDGenerator(gen))
	ctx := context.Background()

	first, _, err := st.Create(ctx, "first")
	require.NoError(t, err)
	second, _, err := st.Create(ctx, "second")
	require.NoError(t, err)

	assert.Equal(t, "x", first.ID)
	assert.Equal(t, "y", second.ID)
}

func TestCreate_WriteError(t *testing.T) {
	st, fs := testutil.NewStore()
	fs.SetItemErr = errors.New("read-only")

	_, ok, err := st.Create(context.Background(), "A")

	assert.False(t, ok)
	assert.ErrorIs(t, err, fs.SetItemErr)
}

func TestScenario_CompleteFirstOfTwo(t *testing.T) {
	st, fs := testutil.NewStore()
	ctx := context.Background()

	a, _, err := st.Create(ctx, "A")
	require.NoError(t, err)
	_, _, err = st.Create(ctx, "B")
	require.NoError(t, err)
	require.NoError(t, st.SetCompleted(ctx, a.ID, true))

	reloaded := store.New(fs, nil).LoadAll(ctx)
	require.Len(t, reloaded, 2)
	assert.Equal(t, "A", reloaded[0].Text)
	assert.True(t, reloaded[0].Completed)
	assert.Equal(t, "B", reloaded[1].Text)
	assert.False(t, reloaded[1].Completed)
}

func TestScenario_CreateThenRemove(t *testing.T) {
	st, fs := testutil.NewStore()
	ctx := context.Background()

	x, _, err := st.Create(ctx, "X")
	require.NoError(t, err)
	require.NoError(t, st.Remove(ctx, x.ID))

	assert.Empty(t, store.New(fs, nil).LoadAll(ctx))
}

func TestRemove_UnknownID(t *testing.T) {
	st, _ := testutil.NewStore()
	ctx := context.Background()
	tasks := testutil.SeedTasks(ctx, st, []string{"A"})

	require.NoError(t, st.Remove(ctx, "missing"))
	require.NoError(t, st.Remove(ctx, tasks[0].ID))
	require.NoError(t, st.Remove(ctx, tasks[0].ID))

	assert.Empty(t, st.LoadAll(ctx))
}

func TestUpdateText(t *testing.T) {
	st, fs := testutil.NewStore()
	ctx := context.Background()
	tasks := testutil.SeedTasks(ctx, st, []string{"old"})
	id := tasks[0].ID

	require.NoError(t, st.UpdateText(ctx, id, ""))
	require.NoError(t, st.UpdateText(ctx, id, "   "))
	assert.Equal(t, "old", st.LoadAll(ctx)[0].Text)

	writes := fs.Writes
	require.NoError(t, st.UpdateText(ctx, "missing", "new"))
	assert.Equal(t, writes, fs.Writes)

	require.NoError(t, st.UpdateText(ctx, id, "  new  "))
	assert.Equal(t, "new", st.LoadAll(ctx)[0].Text)
}

func TestSetCompleted_WriteError(t *testing.T) {
	st, fs := testutil.NewStore()
	ctx := context.Background()
	tasks := testutil.SeedTasks(ctx, st, []string{"A"})

	fs.SetItemErr = errors.New("read-only")
	err := st.SetCompleted(ctx, tasks[0].ID, true)

	assert.ErrorIs(t, err, fs.SetItemErr)
	fs.SetItemErr = nil
	assert.False(t, st.LoadAll(ctx)[0].Completed)
}
