package progressstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"beacon/internal/progress"
)

// Record stores the new state of action and appends it to the journal.
// errMsg is only kept for failed states.
func (s *Store) Record(ctx context.Context, action string, state progress.State, errMsg string) (Event, error) {
	ctx = ensureContext(ctx)
	action = strings.TrimSpace(action)
	if action == "" {
		return Event{}, errors.New("record progress: action name is required")
	}
	if !state.Valid() {
		return Event{}, fmt.Errorf("record progress: %w: %q", progress.ErrUnknownState, state)
	}
	if state != progress.Failed {
		errMsg = ""
	}
	now := time.Now().UTC()
	stamp := now.Format(time.RFC3339Nano)

	var event Event
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO actions (name, progress, error_message, revision, updated_at)
             VALUES (?, ?, ?, 1, ?)
             ON CONFLICT(name) DO UPDATE SET
                 progress = excluded.progress,
                 error_message = excluded.error_message,
                 revision = actions.revision + 1,
                 updated_at = excluded.updated_at`,
			action, string(state), nullableString(errMsg), stamp,
		); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO action_events (action, progress, error_message, created_at) VALUES (?, ?, ?, ?)`,
			action, string(state), nullableString(errMsg), stamp,
		)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		event = Event{ID: id, Action: action, Progress: state, ErrorMessage: errMsg, CreatedAt: now}
		return nil
	})
	if err != nil {
		return Event{}, fmt.Errorf("record progress for %s: %w", action, err)
	}
	return event, nil
}

// Get returns the action or nil when it has never been recorded.
func (s *Store) Get(ctx context.Context, action string) (*Action, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT name, progress, error_message, revision, updated_at FROM actions WHERE name = ?`, action)
	a, err := scanAction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get action %s: %w", action, err)
	}
	return a, nil
}

// List returns all actions ordered by name.
func (s *Store) List(ctx context.Context) ([]*Action, error) {
	return listActions(ensureContext(ctx), s.db)
}

// ListWithCursor returns all actions together with the latest journal ID,
// both read from the same database snapshot. Replaying events after the
// cursor on top of the returned actions never repeats a transition.
func (s *Store) ListWithCursor(ctx context.Context) ([]*Action, int64, error) {
	ctx = ensureContext(ctx)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("begin read: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	actions, err := listActions(ctx, tx)
	if err != nil {
		return nil, 0, err
	}
	cursor, err := latestEventID(ctx, tx)
	if err != nil {
		return nil, 0, err
	}
	return actions, cursor, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func listActions(ctx context.Context, q queryer) ([]*Action, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT name, progress, error_message, revision, updated_at FROM actions ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	var out []*Action
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actions: %w", err)
	}
	return out, nil
}

// EventsAfter returns up to limit journal events with ID greater than cursor,
// oldest first.
func (s *Store) EventsAfter(ctx context.Context, cursor int64, limit int) ([]Event, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, action, progress, error_message, created_at FROM action_events
         WHERE id > ? ORDER BY id LIMIT ?`, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			e        Event
			state    string
			errMsg   sql.NullString
			creation string
		)
		if err := rows.Scan(&e.ID, &e.Action, &state, &errMsg, &creation); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Progress = progress.State(state)
		e.ErrorMessage = errMsg.String
		e.CreatedAt = parseTime(creation)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}

// LatestEventID returns the highest journal ID, or 0 for an empty journal.
func (s *Store) LatestEventID(ctx context.Context) (int64, error) {
	return latestEventID(ensureContext(ctx), s.db)
}

func latestEventID(ctx context.Context, q queryer) (int64, error) {
	var id sql.NullInt64
	if err := q.QueryRowContext(ctx, `SELECT MAX(id) FROM action_events`).Scan(&id); err != nil {
		return 0, fmt.Errorf("latest event id: %w", err)
	}
	return id.Int64, nil
}

// Delete forgets action. Its history is replaced by a single idle event so
// journal readers see the action return to idle.
func (s *Store) Delete(ctx context.Context, action string) (bool, error) {
	removed, err := s.forget(ctx, func(tx *sql.Tx) ([]string, error) {
		var name string
		err := tx.QueryRowContext(ctx, `SELECT name FROM actions WHERE name = ?`, action).Scan(&name)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return []string{name}, nil
	})
	if err != nil {
		return false, fmt.Errorf("delete action %s: %w", action, err)
	}
	return removed > 0, nil
}

// Clear forgets every action, leaving one idle event per removed action.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	removed, err := s.forget(ctx, func(tx *sql.Tx) ([]string, error) {
		rows, err := tx.QueryContext(ctx, `SELECT name FROM actions ORDER BY name`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		var names []string
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return nil, err
			}
			names = append(names, name)
		}
		return names, rows.Err()
	})
	if err != nil {
		return 0, fmt.Errorf("clear actions: %w", err)
	}
	return removed, nil
}

func (s *Store) forget(ctx context.Context, selectNames func(*sql.Tx) ([]string, error)) (int64, error) {
	ctx = ensureContext(ctx)
	var removed int64
	err := retryOnBusy(ctx, func() error {
		removed = 0
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		names, err := selectNames(tx)
		if err != nil {
			return err
		}
		stamp := time.Now().UTC().Format(time.RFC3339Nano)
		for _, name := range names {
			if _, err := tx.ExecContext(ctx, `DELETE FROM actions WHERE name = ?`, name); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM action_events WHERE action = ?`, name); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO action_events (action, progress, error_message, created_at) VALUES (?, ?, NULL, ?)`,
				name, string(progress.Idle), stamp,
			); err != nil {
				return err
			}
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		removed = int64(len(names))
		return nil
	})
	return removed, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAction(row scanner) (*Action, error) {
	var (
		a       Action
		state   string
		errMsg  sql.NullString
		updated string
	)
	if err := row.Scan(&a.Name, &state, &errMsg, &a.Revision, &updated); err != nil {
		return nil, err
	}
	a.Progress = progress.State(state)
	a.ErrorMessage = errMsg.String
	a.UpdatedAt = parseTime(updated)
	return &a, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
