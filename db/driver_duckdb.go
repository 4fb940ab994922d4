//go:build cgo

package db

import (
	"github.com/nickyhof/LiteShell/core"

	_ "github.com/duckdb/duckdb-go/v2"
)

// DuckDB needs the cgo bindings; without cgo this file is skipped and Open
// reports ErrEngineUnavailable. An empty path opens an in-memory database.
func init() {
	registerDriver(core.DuckDBEngine, func(path string) (backend, error) {
		return openSQL("duckdb", path)
	})
}
