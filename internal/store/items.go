package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/camrohlof/todolist/internal/model"
)

// Add inserts a new, not yet completed item.
func (s *Store) Add(ctx context.Context, name, details string) error {
	s.log.Debug("insert", "name", name)
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO todo (name, details, completed) VALUES (?, ?, false)", name, details)
	if err != nil {
		if isConstraint(err) {
			return fmt.Errorf("%w: %s", ErrDuplicate, name)
		}
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

// Get fetches the item with the given name.
func (s *Store) Get(ctx context.Context, name string) (model.Item, error) {
	s.log.Debug("lookup", "name", name)
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, details, completed FROM todo WHERE name = ?", name)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Item{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return model.Item{}, fmt.Errorf("lookup: %w", err)
	}
	return it, nil
}

// Remove deletes the item with the given name and reports how many rows went.
func (s *Store) Remove(ctx context.Context, name string) (int64, error) {
	s.log.Debug("delete", "name", name)
	res, err := s.db.ExecContext(ctx, "DELETE FROM todo WHERE name = ?", name)
	if err != nil {
		return 0, fmt.Errorf("delete: %w", err)
	}
	return rowsAffected(res)
}

// Describe overwrites the details of the named item. Name and completion
// state are untouched.
func (s *Store) Describe(ctx context.Context, name, details string) (int64, error) {
	s.log.Debug("update details", "name", name)
	res, err := s.db.ExecContext(ctx, "UPDATE todo SET details = ? WHERE name = ?", details, name)
	if err != nil {
		return 0, fmt.Errorf("update details: %w", err)
	}
	return rowsAffected(res)
}

// Finish marks the named item completed. An unknown name affects zero rows
// and is not an error.
func (s *Store) Finish(ctx context.Context, name string) (int64, error) {
	s.log.Debug("finish", "name", name)
	res, err := s.db.ExecContext(ctx, "UPDATE todo SET completed = true WHERE name = ?", name)
	if err != nil {
		return 0, fmt.Errorf("finish: %w", err)
	}
	return rowsAffected(res)
}

// Incomplete returns every item not yet finished, in whatever order SQLite
// scans them. Rows that fail to decode are passed to onRowErr (when set) and
// skipped.
func (s *Store) Incomplete(ctx context.Context, onRowErr func(error)) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, details, completed FROM todo WHERE NOT completed")
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			s.log.Debug("skipping row", "err", err)
			if onRowErr != nil {
				onRowErr(fmt.Errorf("decode row: %w", err))
			}
			continue
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return items, fmt.Errorf("iterate: %w", err)
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(sc scanner) (model.Item, error) {
	var (
		it      model.Item
		details sql.NullString
	)
	if err := sc.Scan(&it.ID, &it.Name, &details, &it.Completed); err != nil {
		return model.Item{}, err
	}
	it.Details = details.String
	return it, nil
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
