package core

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownEngine = errors.New("unknown engine")

type EngineKind int

const (
	SQLiteEngine EngineKind = iota
	DuckDBEngine
)

func (kind EngineKind) String() string {
	switch kind {
	case SQLiteEngine:
		return "sqlite"
	case DuckDBEngine:
		return "duckdb"
	default:
		return fmt.Sprintf("EngineKind(%d)", int(kind))
	}
}

// MemoryPath is the path shown to the user when no database file was given
const MemoryPath = ":memory:"

// ParseEngineKind maps a flag value to an engine kind, ignoring case
func ParseEngineKind(name string) (EngineKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sqlite", "sqlite3":
		return SQLiteEngine, nil
	case "duckdb":
		return DuckDBEngine, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
}
