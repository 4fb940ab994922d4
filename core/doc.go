// Package core provides core types used throughout LiteShell.
//
// # Identity
//
// Identity identifies the author of journal entries (Git commit author):
//
//	identity := core.Identity{
//	    Name:  "John Doe",
//	    Email: "john@example.com",
//	}
//
// # Engine Kinds
//
// Supported embedded engines:
//   - SQLiteEngine: modernc.org/sqlite, always available
//   - DuckDBEngine: duckdb-go, available in cgo builds
//
// Parse the kind from user input with ParseEngineKind:
//
//	kind, err := core.ParseEngineKind("duckdb")
package core
