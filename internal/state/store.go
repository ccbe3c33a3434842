// Package state provides the run catalog backed by SQLite.
// Every imported extraction document becomes one run; its macros are kept in
// document order so a run can be loaded back exactly as it was recorded.
package state

import (
	"context"
	"errors"
	"time"

	"github.com/leapstack-labs/hdlmacro/pkg/core"
)

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded extraction document.
type Run struct {
	ID         string
	Source     string
	MacroCount int
	CreatedAt  time.Time
}

// CatalogMacro is a macro definition together with the run that recorded it.
type CatalogMacro struct {
	RunID string
	Macro core.Macro
}

// Catalog is the set of run operations the CLI depends on.
type Catalog interface {
	SaveRun(ctx context.Context, source string, c core.MacroCollection) (*Run, error)
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	LoadRun(ctx context.Context, id string) (core.MacroCollection, error)
	DeleteRun(ctx context.Context, id string) error
	LatestMacros(ctx context.Context) ([]CatalogMacro, error)
	Close() error
}

var _ Catalog = (*SQLiteStore)(nil)
