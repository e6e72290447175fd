package cli

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camrohlof/todolist/internal/model"
	"github.com/camrohlof/todolist/internal/store"
	"github.com/camrohlof/todolist/internal/ui"
)

type result struct {
	out  string
	err  string
	code int
}

func (r result) lines() []string {
	trimmed := strings.TrimRight(r.out, "\n")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

// newDB isolates config lookups and returns a fresh database path.
func newDB(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, k := range []string{"TODOLIST_CONFIG", "TODOLIST_DB", "TODOLIST_LOG_LEVEL", "TODOLIST_THEME"} {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
	t.Cleanup(func() { _ = ui.SetTheme("classic") })
	return filepath.Join(t.TempDir(), "todos.db")
}

func run(t *testing.T, db, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	args = append(args, "--db", db, "--theme", "mono")
	err := Execute(args, Streams{In: strings.NewReader(stdin), Out: &out, Err: &errOut})
	if err != nil {
		ui.Fail(&errOut, err.Error())
	}
	return result{out: out.String(), err: errOut.String(), code: ExitCode(err)}
}

func getItem(t *testing.T, db, name string) (model.Item, error) {
	t.Helper()
	s, err := store.Open(context.Background(), db, log.New(io.Discard))
	require.NoError(t, err)
	defer s.Close()
	return s.Get(context.Background(), name)
}

func TestAddThenList(t *testing.T) {
	db := newDB(t)

	r := run(t, db, "", "add", "buy milk")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "Created todo named: buy milk")

	r = run(t, db, "")
	require.Equal(t, 0, r.code, r.err)
	assert.Equal(t, []string{"buy milk: No details provided. | Finished[false]"}, r.lines())
}

func TestAddWithDetailsAndTrimmedName(t *testing.T) {
	db := newDB(t)
	r := run(t, db, "", "add", "  walk dog  ", "around the block")
	require.Equal(t, 0, r.code, r.err)

	r = run(t, db, "")
	assert.Equal(t, []string{"walk dog: around the block | Finished[false]"}, r.lines())
}

func TestLookupsTrimNameLikeAdd(t *testing.T) {
	db := newDB(t)
	require.Equal(t, 0, run(t, db, "", "add", " x ", "first").code)

	r := run(t, db, "y\n", "describe", " x ", "second")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "Change the details of: [x]?")

	r = run(t, db, "", "finish", " x ")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "Finished: x")

	it, err := getItem(t, db, "x")
	require.NoError(t, err)
	assert.True(t, it.Completed)
	assert.Equal(t, "second", it.Details)

	r = run(t, db, "y\n", "remove", "  x")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "Removed: x")
	_, err = getItem(t, db, "x")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAddEmptyName(t *testing.T) {
	db := newDB(t)
	r := run(t, db, "", "add", "   ")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.err, "add: empty name")

	assert.Empty(t, run(t, db, "").lines())
}

func TestAddDuplicate(t *testing.T) {
	db := newDB(t)
	require.Equal(t, 0, run(t, db, "", "add", "buy milk").code)

	r := run(t, db, "", "add", "buy milk", "again")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.err, "already exists")

	lines := run(t, db, "").lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], model.DefaultDetails)
}

func TestFinish(t *testing.T) {
	db := newDB(t)
	require.Equal(t, 0, run(t, db, "", "add", "buy milk").code)
	require.Equal(t, 0, run(t, db, "", "add", "pay rent").code)

	r := run(t, db, "", "finish", "buy milk")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "Finished: buy milk")

	it, err := getItem(t, db, "buy milk")
	require.NoError(t, err)
	assert.True(t, it.Completed)

	assert.Equal(t, []string{"pay rent: No details provided. | Finished[false]"}, run(t, db, "").lines())

	again := run(t, db, "", "finish", "buy milk")
	assert.Equal(t, 0, again.code, "finishing twice is fine")
}

func TestFinishUnknownIsNoop(t *testing.T) {
	db := newDB(t)
	r := run(t, db, "", "finish", "nothing here")
	assert.Equal(t, 0, r.code)
	assert.Empty(t, r.out)
	assert.Empty(t, r.err)
}

func TestRemoveDeclined(t *testing.T) {
	for _, answer := range []string{"n\n", "No\n", "N"} {
		t.Run(strings.TrimSpace(answer), func(t *testing.T) {
			db := newDB(t)
			require.Equal(t, 0, run(t, db, "", "add", "buy milk").code)

			r := run(t, db, answer, "remove", "buy milk")
			assert.Equal(t, 1, r.code)
			assert.Contains(t, r.out, "Are you sure you would like to remove: [buy milk]? (Y,n)")
			assert.Contains(t, r.err, "Exiting.")

			_, err := getItem(t, db, "buy milk")
			assert.NoError(t, err)
		})
	}
}

func TestRemoveConfirmed(t *testing.T) {
	for _, answer := range []string{"y\n", "yes\n", "\n", "", "whatever\n"} {
		t.Run(strings.TrimSpace(answer), func(t *testing.T) {
			db := newDB(t)
			require.Equal(t, 0, run(t, db, "", "add", "buy milk").code)
			require.Equal(t, 0, run(t, db, "", "add", "pay rent").code)

			r := run(t, db, answer, "remove", "buy milk")
			require.Equal(t, 0, r.code, r.err)
			assert.Contains(t, r.out, "Removed: buy milk")

			_, err := getItem(t, db, "buy milk")
			assert.ErrorIs(t, err, store.ErrNotFound)
			_, err = getItem(t, db, "pay rent")
			assert.NoError(t, err)
		})
	}
}

func TestRemoveUnknown(t *testing.T) {
	db := newDB(t)
	r := run(t, db, "y\n", "remove", "ghost")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.err, "no such item")
	assert.NotContains(t, r.out, "Are you sure")
}

func TestDescribe(t *testing.T) {
	db := newDB(t)
	require.Equal(t, 0, run(t, db, "", "add", "walk dog", "around the block").code)
	before, err := getItem(t, db, "walk dog")
	require.NoError(t, err)

	r := run(t, db, "y\n", "describe", "walk dog", "to the park")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "Change the details of: [walk dog]? (Y,n)")

	after, err := getItem(t, db, "walk dog")
	require.NoError(t, err)
	assert.Equal(t, "to the park", after.Details)
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, before.Name, after.Name)
	assert.Equal(t, before.Completed, after.Completed)
}

func TestDescribeDeclined(t *testing.T) {
	db := newDB(t)
	require.Equal(t, 0, run(t, db, "", "add", "walk dog", "around the block").code)

	r := run(t, db, "no\n", "describe", "walk dog", "to the park")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.err, "Exiting.")

	it, err := getItem(t, db, "walk dog")
	require.NoError(t, err)
	assert.Equal(t, "around the block", it.Details)
}

func TestDescribeUnknown(t *testing.T) {
	db := newDB(t)
	r := run(t, db, "y\n", "describe", "ghost", "boo")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.err, "no such item")
}

func TestListEmpty(t *testing.T) {
	db := newDB(t)
	r := run(t, db, "")
	assert.Equal(t, 0, r.code)
	assert.Empty(t, r.out)
}

func TestListSeveralIgnoresOrder(t *testing.T) {
	db := newDB(t)
	for _, name := range []string{"a", "b", "c"} {
		require.Equal(t, 0, run(t, db, "", "add", name).code)
	}
	require.Equal(t, 0, run(t, db, "", "finish", "b").code)

	assert.ElementsMatch(t, []string{
		"a: No details provided. | Finished[false]",
		"c: No details provided. | Finished[false]",
	}, run(t, db, "").lines())
}

func TestUsageErrors(t *testing.T) {
	db := newDB(t)
	tests := []struct {
		name string
		args []string
	}{
		{"add without name", []string{"add"}},
		{"add too many", []string{"add", "a", "b", "c"}},
		{"remove without name", []string{"remove"}},
		{"remove two names", []string{"remove", "a", "b"}},
		{"describe without details", []string{"describe", "a"}},
		{"finish without name", []string{"finish"}},
		{"unknown command", []string{"list"}},
		{"unknown flag", []string{"--nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := run(t, db, "", tt.args...)
			assert.Equal(t, 2, r.code, r.err)
			assert.NotEmpty(t, r.err)
		})
	}
}

func TestBadThemeIsConfigError(t *testing.T) {
	db := newDB(t)
	var out, errOut bytes.Buffer
	err := Execute([]string{"--db", db, "--theme", "sparkly"}, Streams{In: strings.NewReader(""), Out: &out, Err: &errOut})
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
	assert.Contains(t, err.Error(), "unknown theme")
}

func TestVersionAndHelp(t *testing.T) {
	db := newDB(t)

	r := run(t, db, "", "--version")
	assert.Equal(t, 0, r.code)
	assert.Contains(t, r.out, "todo version "+Version)

	r = run(t, db, "", "--help")
	assert.Equal(t, 0, r.code)
	for _, want := range []string{"add", "remove", "describe", "finish", "--interactive"} {
		assert.Contains(t, r.out, want)
	}
	assert.NotContains(t, r.out, "completion")

	r = run(t, db, "", "add", "--help")
	assert.Equal(t, 0, r.code)
	assert.Contains(t, r.out, "todo add NAME [DETAILS]")
}

func TestBrowseAppliesChanges(t *testing.T) {
	db := newDB(t)
	require.Equal(t, 0, run(t, db, "", "add", "buy milk").code)
	require.Equal(t, 0, run(t, db, "", "add", "walk dog", "around the block").code)

	var seen []model.Item
	var out bytes.Buffer
	r := &runner{
		streams: Streams{In: strings.NewReader(""), Out: &out, Err: io.Discard},
		newApp: func(s *store.Store, streams Streams) *App {
			a := NewApp(s, streams, log.New(io.Discard))
			a.runList = func(items []model.Item) (ui.Changes, error) {
				seen = items
				return ui.Changes{
					Finished:  []string{"buy milk"},
					Described: map[string]string{"walk dog": "to the park"},
				}, nil
			}
			return a
		},
	}
	cmd := r.rootCmd()
	cmd.SetArgs([]string{"-i", "--db", db})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	r.close()

	assert.Len(t, seen, 2)
	assert.Contains(t, out.String(), "saved (1 finished, 1 described)")

	milk, err := getItem(t, db, "buy milk")
	require.NoError(t, err)
	assert.True(t, milk.Completed)
	dog, err := getItem(t, db, "walk dog")
	require.NoError(t, err)
	assert.Equal(t, "to the park", dog.Details)
	assert.False(t, dog.Completed)
}

func TestBrowseNoChangesAndFailure(t *testing.T) {
	db := newDB(t)
	require.Equal(t, 0, run(t, db, "", "add", "buy milk").code)

	s, err := store.Open(context.Background(), db, log.New(io.Discard))
	require.NoError(t, err)
	defer s.Close()

	var out bytes.Buffer
	a := NewApp(s, Streams{In: strings.NewReader(""), Out: &out, Err: io.Discard}, log.New(io.Discard))
	a.runList = func([]model.Item) (ui.Changes, error) { return ui.Changes{}, nil }
	require.NoError(t, a.Browse(context.Background()))
	assert.Empty(t, out.String())

	a.runList = func([]model.Item) (ui.Changes, error) { return ui.Changes{}, errors.New("no tty") }
	err = a.Browse(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tui: no tty")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
	assert.Equal(t, 1, ExitCode(ErrDeclined))
	assert.Equal(t, 1, ExitCode(store.ErrDuplicate))
	assert.Equal(t, 2, ExitCode(usagef("bad")))
	assert.True(t, IsUsage(usagef("bad")))
	assert.False(t, IsUsage(ErrDeclined))
}

func TestListReportsUndecodableRowsAndContinues(t *testing.T) {
	db := newDB(t)
	require.Equal(t, 0, run(t, db, "", "add", "buy milk").code)

	raw, err := sql.Open("sqlite", db)
	require.NoError(t, err)
	_, err = raw.Exec("INSERT INTO todo (name, details, completed) VALUES ('broken', 'x', 'maybe')")
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	r := run(t, db, "")
	assert.Equal(t, 0, r.code)
	assert.Equal(t, []string{"buy milk: No details provided. | Finished[false]"}, r.lines())
	assert.Contains(t, r.err, "list: decode row")
}
