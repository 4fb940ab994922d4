// Package LiteShell provides an interactive shell over an embedded SQL engine.
//
// LiteShell reads one SQL statement per line, runs it against SQLite (or
// DuckDB in cgo builds) and prints the rows as a bordered table. The
// database can be a local file, an in-memory instance, an HTTP download or
// an S3 object, and every successful statement can be journaled to git.
//
// # Quick Start
//
// Open an in-memory database:
//
//	instance, _ := LiteShell.Open(LiteShell.Options{Engine: core.SQLiteEngine})
//	defer instance.Close()
//
//	instance.Execute("CREATE TABLE t(a INT, b TEXT)")
//	instance.Execute("INSERT INTO t VALUES (1, 'x')")
//
//	result, _ := instance.Execute("SELECT * FROM t")
//	result.Display(os.Stdout)
//
// # Cell Rendering
//
// Cells are rendered as text before display:
//   - NULL for null values
//   - BINARY DATA for blobs, raw bytes are never printed
//   - decimal text for integers and floats
//   - text values unchanged
//
// # Journal
//
// Pass a journal.Journal in Options to commit every successful statement:
//
//	j, _ := journal.NewFileJournal("/path/to/journal")
//	instance, _ := LiteShell.Open(LiteShell.Options{Journal: j, Identity: identity})
package LiteShell
