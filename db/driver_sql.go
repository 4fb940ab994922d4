package db

import (
	"context"
	"database/sql"
)

// sqlDB runs statements through a database/sql driver
type sqlDB struct {
	conn *sql.DB
}

// openSQL opens a database/sql driver and verifies the connection
func openSQL(driverName, dsn string) (backend, error) {
	conn, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	// One connection: an in-memory database lives and dies with it
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)
	conn.SetConnMaxIdleTime(0)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	return &sqlDB{conn: conn}, nil
}

// query refuses input holding more than one statement; database/sql
// drivers would otherwise run them all.
func (s *sqlDB) query(statement string) (cursor, error) {
	switch countStatements(statement) {
	case 0:
		return emptyCursor{}, nil
	case 1:
	default:
		return nil, ErrMultipleStatements
	}

	rows, err := s.conn.QueryContext(context.Background(), statement)
	if err != nil {
		return nil, err
	}

	names, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, err
	}

	values := make([]any, len(names))
	pointers := make([]any, len(names))
	for i := range values {
		pointers[i] = &values[i]
	}

	return &sqlRows{
		rows:     rows,
		names:    names,
		scanned:  values,
		pointers: pointers,
	}, nil
}

func (s *sqlDB) close() error {
	return s.conn.Close()
}

type sqlRows struct {
	rows     *sql.Rows
	names    []string
	scanned  []any
	pointers []any
}

func (r *sqlRows) columns() []string {
	return r.names
}

func (r *sqlRows) next() bool {
	return r.rows.Next()
}

func (r *sqlRows) values() ([]any, error) {
	if err := r.rows.Scan(r.pointers...); err != nil {
		return nil, err
	}
	return r.scanned, nil
}

func (r *sqlRows) err() error {
	return r.rows.Err()
}

func (r *sqlRows) close() error {
	return r.rows.Close()
}
