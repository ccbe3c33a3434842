package state

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/hdlmacro/pkg/core"
	"github.com/leapstack-labs/hdlmacro/pkg/schema"
)

// LoadRun returns the collection recorded by a run, in its original order.
func (s *SQLiteStore) LoadRun(ctx context.Context, id string) (core.MacroCollection, error) {
	if _, err := s.GetRun(ctx, id); err != nil {
		return core.MacroCollection{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT document FROM run_macros WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return core.MacroCollection{}, fmt.Errorf("failed to load run: %w", err)
	}
	defer func() { _ = rows.Close() }()

	c := core.MacroCollection{Macros: []core.Macro{}}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return core.MacroCollection{}, fmt.Errorf("failed to scan macro: %w", err)
		}
		m, err := schema.ParseMacro([]byte(doc))
		if err != nil {
			return core.MacroCollection{}, fmt.Errorf("run %s holds an unreadable macro: %w", id, err)
		}
		c.Macros = append(c.Macros, m)
	}
	if err := rows.Err(); err != nil {
		return core.MacroCollection{}, fmt.Errorf("failed to load run: %w", err)
	}
	return c, nil
}

// LatestMacros returns the newest recorded definition of every macro name,
// sorted by name. Within one run a later duplicate beats an earlier one.
func (s *SQLiteStore) LatestMacros(ctx context.Context) ([]CatalogMacro, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT m.run_id, m.name, m.document
		 FROM run_macros m JOIN runs r ON r.id = m.run_id
		 ORDER BY m.name, r.created_at DESC, r.rowid DESC, m.position DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query macros: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var (
		out  []CatalogMacro
		last string
	)
	for rows.Next() {
		var runID, name, doc string
		if err := rows.Scan(&runID, &name, &doc); err != nil {
			return nil, fmt.Errorf("failed to scan macro: %w", err)
		}
		if len(out) > 0 && name == last {
			continue
		}
		m, err := schema.ParseMacro([]byte(doc))
		if err != nil {
			return nil, fmt.Errorf("run %s holds an unreadable macro %s: %w", runID, name, err)
		}
		out = append(out, CatalogMacro{RunID: runID, Macro: m})
		last = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query macros: %w", err)
	}
	return out, nil
}
