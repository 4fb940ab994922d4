package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nickyhof/LiteShell/core"
)

var (
	ErrEngineUnavailable  = errors.New("engine not available in this build")
	ErrClosed             = errors.New("engine is closed")
	ErrMultipleStatements = errors.New("only one statement per line is supported")
)

// backend is one open database of a given engine kind
type backend interface {
	// query prepares and starts exactly one statement
	query(statement string) (cursor, error)
	close() error
}

// cursor walks the rows produced by a single statement
type cursor interface {
	columns() []string
	next() bool
	// values decodes the current row; an error skips the row
	values() ([]any, error)
	err() error
	close() error
}

// opener opens a local path, in memory when path is empty
type opener func(path string) (backend, error)

// drivers is filled by the driver_*.go files of the current build
var drivers = map[core.EngineKind]opener{}

func registerDriver(kind core.EngineKind, open opener) {
	drivers[kind] = open
}

// Available reports whether the engine kind was compiled into this build
func Available(kind core.EngineKind) bool {
	_, ok := drivers[kind]
	return ok
}

type Engine struct {
	Kind core.EngineKind
	Path string // local file, empty for in-memory

	backend backend
}

// Open opens (or creates) the database at path, in memory when path is empty.
// The database is read once so a bad path fails here rather than on the
// first query.
func Open(kind core.EngineKind, path string) (*Engine, error) {
	open, ok := drivers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEngineUnavailable, kind)
	}

	b, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", kind, err)
	}

	return &Engine{
		Kind:    kind,
		Path:    path,
		backend: b,
	}, nil
}

// Execute runs a single statement and collects its stringified rows
func (engine *Engine) Execute(query string) (QueryResult, error) {
	if engine.backend == nil {
		return QueryResult{}, ErrClosed
	}

	startTime := time.Now()

	if strings.TrimSpace(query) == "" {
		return QueryResult{}, nil
	}

	rows, err := engine.backend.query(query)
	if err != nil {
		return QueryResult{}, err
	}
	defer rows.close()

	result := QueryResult{
		Columns: rows.columns(),
		Data:    make([][]string, 0),
	}

	for rows.next() {
		result.RecordsRead++
		values, err := rows.values()
		if err != nil {
			result.RowsSkipped++
			continue
		}
		result.Data = append(result.Data, formatRow(values))
	}

	if err := rows.err(); err != nil {
		return QueryResult{}, err
	}

	result.ExecutionTimeSec = time.Since(startTime).Seconds()
	return result, nil
}

// Close releases the database. Closing twice is a no-op.
func (engine *Engine) Close() error {
	if engine.backend == nil {
		return nil
	}
	err := engine.backend.close()
	engine.backend = nil
	return err
}

// emptyCursor stands in for input holding no statement, only comments
type emptyCursor struct{}

func (emptyCursor) columns() []string { return nil }
func (emptyCursor) next() bool { return false }
func (emptyCursor) values() ([]any, error) { return nil, nil }
func (emptyCursor) err() error { return nil }
func (emptyCursor) close() error { return nil }
