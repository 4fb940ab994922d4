// Package db runs SQL statements against an embedded engine and renders
// their results.
//
// # Engine Usage
//
//	engine, err := db.Open(core.SQLiteEngine, "shop.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Close()
//
//	result, err := engine.Execute("SELECT * FROM users")
//	if err != nil {
//	    fmt.Println("ERROR:", err)
//	}
//	result.Display(os.Stdout)
//
// An empty path opens an in-memory database. The engine holds exactly one
// connection, so an in-memory database survives between statements.
// Execute runs exactly one statement; a line holding more returns
// ErrMultipleStatements without running any of it.
//
// # Results
//
// QueryResult holds the column names and rows of one statement with every
// cell already converted to text by FormatCell. Display renders a bordered
// table, or "No Data" when there are no rows.
//
// # Remote Locations
//
// ResolveLocation maps s3:// and http(s):// paths to a local temporary copy
// that the engine can open. S3 copies are uploaded back by Location.Sync.
package db
