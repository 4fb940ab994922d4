// Package journal keeps a git history of the statements a session ran.
//
// Every recorded statement is appended to session.sql and committed,
// authored by the session's identity, so the journal directory can be
// inspected with plain git tooling:
//
//	j, err := journal.NewFileJournal("/path/to/journal")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	j.Record("CREATE TABLE t(a INT)", identity)
//
// NewMemoryJournal keeps the history in memory only.
package journal
