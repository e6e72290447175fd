package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/camrohlof/todolist/internal/model"
	"github.com/camrohlof/todolist/internal/prompt"
	"github.com/camrohlof/todolist/internal/store"
	"github.com/camrohlof/todolist/internal/ui"
)

// App runs the todo operations against one open store.
type App struct {
	store  *store.Store
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
	log    *log.Logger

	// runList shows the interactive list; swapped out in tests.
	runList func([]model.Item) (ui.Changes, error)
}

// NewApp wires an App to an open store and the given streams.
func NewApp(s *store.Store, streams Streams, logger *log.Logger) *App {
	return &App{
		store:   s,
		in:      bufio.NewReader(streams.In),
		out:     streams.Out,
		errOut:  streams.Err,
		log:     logger,
		runList: func(items []model.Item) (ui.Changes, error) { return ui.RunList(items) },
	}
}

// Add stores a new item. The name is trimmed and must not be empty; the
// other operations trim the name they look up the same way.
func (a *App) Add(ctx context.Context, name, details string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if err := a.store.Add(ctx, name, details); err != nil {
		return err
	}
	ui.OK(a.out, "Created todo named: "+name)
	return nil
}

// Remove deletes the named item once the user confirms.
func (a *App) Remove(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	it, err := a.store.Get(ctx, name)
	if err != nil {
		return err
	}
	if err := a.confirm(fmt.Sprintf("Are you sure you would like to remove: [%s]?", it.Name)); err != nil {
		return err
	}
	if _, err := a.store.Remove(ctx, it.Name); err != nil {
		return err
	}
	ui.OK(a.out, "Removed: "+it.Name)
	return nil
}

// Describe replaces the details of the named item once the user confirms.
func (a *App) Describe(ctx context.Context, name, details string) error {
	name = strings.TrimSpace(name)
	it, err := a.store.Get(ctx, name)
	if err != nil {
		return err
	}
	if err := a.confirm(fmt.Sprintf("Change the details of: [%s]?", it.Name)); err != nil {
		return err
	}
	if _, err := a.store.Describe(ctx, it.Name, details); err != nil {
		return err
	}
	ui.OK(a.out, "Updated details of: "+it.Name)
	return nil
}

// Finish marks the named item completed. Unknown names are a silent no-op.
func (a *App) Finish(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	n, err := a.store.Finish(ctx, name)
	if err != nil {
		return err
	}
	if n == 0 {
		a.log.Debug("finish matched nothing", "name", name)
		return nil
	}
	ui.OK(a.out, "Finished: "+name)
	return nil
}

// List prints every unfinished item, one per line, in storage order. Rows
// that cannot be decoded are reported on stderr and skipped.
func (a *App) List(ctx context.Context) error {
	items, err := a.store.Incomplete(ctx, func(err error) {
		ui.Fail(a.errOut, "list: "+err.Error())
	})
	for _, it := range items {
		fmt.Fprintln(a.out, it.String())
	}
	return err
}

// Browse opens the interactive list of unfinished items and writes back
// whatever the user finished or re-described before quitting.
func (a *App) Browse(ctx context.Context) error {
	items, err := a.store.Incomplete(ctx, func(err error) {
		a.log.Warn("skipping row", "err", err)
	})
	if err != nil {
		return err
	}
	changes, err := a.runList(items)
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	if changes.Empty() {
		return nil
	}

	names := make([]string, 0, len(changes.Described))
	for name := range changes.Described {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := a.store.Describe(ctx, name, changes.Described[name]); err != nil {
			return err
		}
	}
	for _, name := range changes.Finished {
		if _, err := a.store.Finish(ctx, name); err != nil {
			return err
		}
	}
	ui.OK(a.out, fmt.Sprintf("saved (%d finished, %d described)", len(changes.Finished), len(changes.Described)))
	return nil
}

func (a *App) confirm(question string) error {
	ok, err := prompt.Confirm(a.in, a.out, question)
	if err != nil {
		return err
	}
	if !ok {
		return ErrDeclined
	}
	return nil
}
