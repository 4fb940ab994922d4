package db

import (
	"errors"
	"fmt"
	"unsafe"

	"modernc.org/libc"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/nickyhof/LiteShell/core"
)

func init() {
	registerDriver(core.SQLiteEngine, openSQLite)
}

const ptrSize = int(unsafe.Sizeof(uintptr(0)))

// sqliteDB drives SQLite through its C interface. Cells come back with the
// storage class they were stored with, so TEXT stays text whatever type
// the column was declared with.
type sqliteDB struct {
	tls *libc.TLS
	db  uintptr
}

func openSQLite(path string) (backend, error) {
	if path == "" {
		path = core.MemoryPath
	}

	conn := &sqliteDB{tls: libc.NewTLS()}
	if err := conn.open(path); err != nil {
		conn.close()
		return nil, err
	}

	// Reading the schema rejects files that are not databases
	if err := conn.exec("SELECT count(*) FROM sqlite_master"); err != nil {
		conn.close()
		return nil, err
	}

	return conn, nil
}

func (conn *sqliteDB) open(path string) error {
	name, err := libc.CString(path)
	if err != nil {
		return err
	}
	defer libc.Xfree(conn.tls, name)

	p := conn.tls.Alloc(ptrSize)
	defer conn.tls.Free(ptrSize)

	rc := sqlite3.Xsqlite3_open_v2(conn.tls, name, p,
		sqlite3.SQLITE_OPEN_READWRITE|sqlite3.SQLITE_OPEN_CREATE, 0)
	conn.db = *(*uintptr)(unsafe.Pointer(p))
	if rc != sqlite3.SQLITE_OK {
		return conn.lastError(rc)
	}
	return nil
}

func (conn *sqliteDB) exec(statement string) error {
	rows, err := conn.query(statement)
	if err != nil {
		return err
	}
	defer rows.close()

	for rows.next() {
	}
	return rows.err()
}

// query compiles the first statement of the input and runs it up to its
// first row. Anything but whitespace and comments after that statement is
// rejected before it runs.
func (conn *sqliteDB) query(statement string) (cursor, error) {
	zSQL, err := libc.CString(statement)
	if err != nil {
		return nil, err
	}
	defer libc.Xfree(conn.tls, zSQL)

	stmt, tail, err := conn.prepareNext(zSQL)
	if err != nil {
		return nil, err
	}
	if stmt == 0 {
		return emptyCursor{}, nil
	}

	next, _, err := conn.prepareNext(tail)
	if next != 0 {
		sqlite3.Xsqlite3_finalize(conn.tls, next)
	}
	if next != 0 || err != nil {
		sqlite3.Xsqlite3_finalize(conn.tls, stmt)
		return nil, ErrMultipleStatements
	}

	rc, err := conn.step(stmt)
	if err != nil {
		sqlite3.Xsqlite3_finalize(conn.tls, stmt)
		return nil, err
	}

	count := int(sqlite3.Xsqlite3_column_count(conn.tls, stmt))
	names := make([]string, count)
	for i := range names {
		names[i] = libc.GoString(sqlite3.Xsqlite3_column_name(conn.tls, stmt, int32(i)))
	}

	return &sqliteRows{
		conn:  conn,
		stmt:  stmt,
		names: names,
		rc:    rc,
		fresh: true,
	}, nil
}

// prepare compiles the statement starting at zSQL. stmt is zero when the
// input holds only whitespace or comments.
func (conn *sqliteDB) prepare(zSQL uintptr) (stmt, tail uintptr, err error) {
	p := conn.tls.Alloc(2 * ptrSize)
	defer conn.tls.Free(2 * ptrSize)

	pTail := p + uintptr(ptrSize)
	if rc := sqlite3.Xsqlite3_prepare_v2(conn.tls, conn.db, zSQL, -1, p, pTail); rc != sqlite3.SQLITE_OK {
		return 0, 0, conn.lastError(rc)
	}
	return *(*uintptr)(unsafe.Pointer(p)), *(*uintptr)(unsafe.Pointer(pTail)), nil
}

// prepareNext is prepare skipping empty statements such as a lone ";".
// stmt is zero once only whitespace and comments are left.
func (conn *sqliteDB) prepareNext(zSQL uintptr) (stmt, tail uintptr, err error) {
	for {
		stmt, tail, err = conn.prepare(zSQL)
		if err != nil || stmt != 0 || tail == zSQL || *(*byte)(unsafe.Pointer(tail)) == 0 {
			return stmt, tail, err
		}
		zSQL = tail
	}
}

func (conn *sqliteDB) step(stmt uintptr) (int32, error) {
	switch rc := sqlite3.Xsqlite3_step(conn.tls, stmt); rc {
	case sqlite3.SQLITE_ROW, sqlite3.SQLITE_DONE:
		return rc, nil
	default:
		return rc, conn.lastError(rc)
	}
}

// column reads one cell of the current row
func (conn *sqliteDB) column(stmt uintptr, i int32) any {
	switch sqlite3.Xsqlite3_column_type(conn.tls, stmt, i) {
	case sqlite3.SQLITE_INTEGER:
		return int64(sqlite3.Xsqlite3_column_int64(conn.tls, stmt, i))
	case sqlite3.SQLITE_FLOAT:
		return sqlite3.Xsqlite3_column_double(conn.tls, stmt, i)
	case sqlite3.SQLITE_TEXT:
		p := sqlite3.Xsqlite3_column_text(conn.tls, stmt, i)
		return string(conn.columnBytes(p, stmt, i))
	case sqlite3.SQLITE_BLOB:
		p := sqlite3.Xsqlite3_column_blob(conn.tls, stmt, i)
		if b := conn.columnBytes(p, stmt, i); b != nil {
			return b
		}
		return []byte{}
	default:
		return nil
	}
}

// columnBytes copies the text or blob at p out of SQLite's memory
func (conn *sqliteDB) columnBytes(p, stmt uintptr, i int32) []byte {
	n := int(sqlite3.Xsqlite3_column_bytes(conn.tls, stmt, i))
	if p == 0 || n == 0 {
		return nil
	}

	b := make([]byte, n)
	copy(b, (*libc.RawMem)(unsafe.Pointer(p))[:n:n])
	return b
}

func (conn *sqliteDB) lastError(rc int32) error {
	str := libc.GoString(sqlite3.Xsqlite3_errstr(conn.tls, rc))
	msg := libc.GoString(sqlite3.Xsqlite3_errmsg(conn.tls, conn.db))
	if msg == "" || msg == str {
		return errors.New(str)
	}
	return fmt.Errorf("%s: %s", str, msg)
}

func (conn *sqliteDB) close() error {
	var err error
	if conn.db != 0 {
		if rc := sqlite3.Xsqlite3_close_v2(conn.tls, conn.db); rc != sqlite3.SQLITE_OK {
			err = conn.lastError(rc)
		}
		conn.db = 0
	}
	if conn.tls != nil {
		conn.tls.Close()
		conn.tls = nil
	}
	return err
}

type sqliteRows struct {
	conn  *sqliteDB
	stmt  uintptr
	names []string
	rc    int32 // result of the latest step
	fresh bool  // the latest step has not been handed out by next yet
	fail  error
}

func (rows *sqliteRows) columns() []string {
	return rows.names
}

func (rows *sqliteRows) next() bool {
	if rows.fresh {
		rows.fresh = false
		return rows.rc == sqlite3.SQLITE_ROW
	}
	if rows.rc != sqlite3.SQLITE_ROW {
		return false
	}

	rc, err := rows.conn.step(rows.stmt)
	if err != nil {
		rows.fail = err
		rows.rc = sqlite3.SQLITE_DONE
		return false
	}
	rows.rc = rc
	return rc == sqlite3.SQLITE_ROW
}

func (rows *sqliteRows) values() ([]any, error) {
	values := make([]any, len(rows.names))
	for i := range values {
		values[i] = rows.conn.column(rows.stmt, int32(i))
	}
	return values, nil
}

func (rows *sqliteRows) err() error {
	return rows.fail
}

func (rows *sqliteRows) close() error {
	if rows.stmt == 0 {
		return nil
	}
	sqlite3.Xsqlite3_finalize(rows.conn.tls, rows.stmt)
	rows.stmt = 0
	return nil
}
