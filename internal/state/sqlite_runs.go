package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/hdlmacro/pkg/core"
	"github.com/leapstack-labs/hdlmacro/pkg/schema"
)

// SaveRun records a validated collection as a new run.
func (s *SQLiteStore) SaveRun(ctx context.Context, source string, c core.MacroCollection) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("refusing to record invalid collection: %w", err)
	}

	run := &Run{
		ID:         generateID(),
		Source:     source,
		MacroCount: len(c.Macros),
		CreatedAt:  time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, source, macro_count, created_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Source, run.MacroCount, toUnix(run.CreatedAt),
	); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	for i, m := range c.Macros {
		doc, err := schema.SerializeMacro(m)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize macro %s: %w", m.Name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_macros (run_id, position, name, document) VALUES (?, ?, ?, ?)`,
			run.ID, i, m.Name, string(doc),
		); err != nil {
			return nil, fmt.Errorf("failed to insert macro %s: %w", m.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit run: %w", err)
	}

	s.logger.Debug("recorded run",
		slog.String("id", run.ID),
		slog.String("source", source),
		slog.Int("macros", run.MacroCount))
	return run, nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, macro_count, created_at FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns retrieves the most recent runs, newest first. A limit of zero or
// less returns every run.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, macro_count, created_at FROM runs
		 ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// DeleteRun removes a run and the macros it recorded.
func (s *SQLiteStore) DeleteRun(ctx context.Context, id string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_macros WHERE run_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete run macros: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	run := &Run{}
	var createdAt int64
	if err := row.Scan(&run.ID, &run.Source, &run.MacroCount, &createdAt); err != nil {
		return nil, err
	}
	run.CreatedAt = fromUnix(createdAt)
	return run, nil
}
