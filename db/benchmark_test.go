package db

import (
	"io"
	"strconv"
	"testing"

	"github.com/nickyhof/LiteShell/core"
)

// setupBenchEngine opens an in-memory engine with 1000 users
func setupBenchEngine(b *testing.B, kind core.EngineKind) *Engine {
	if !Available(kind) {
		b.Skipf("%s not available in this build", kind)
	}

	engine, err := Open(kind, "")
	if err != nil {
		b.Fatalf("Failed to open %s: %v", kind, err)
	}
	b.Cleanup(func() { engine.Close() })

	if _, err := engine.Execute("CREATE TABLE users (id INTEGER PRIMARY KEY, name VARCHAR, age INTEGER, city VARCHAR)"); err != nil {
		b.Fatalf("Failed to create table: %v", err)
	}

	for i := 1; i <= 1000; i++ {
		_, err := engine.Execute("INSERT INTO users VALUES (" +
			strconv.Itoa(i) + ", 'User" + strconv.Itoa(i) + "', " + strconv.Itoa(20+i%50) + ", 'City" + strconv.Itoa(i%10) + "')")
		if err != nil {
			b.Fatalf("Failed to insert: %v", err)
		}
	}

	return engine
}

func benchmarkQuery(b *testing.B, kind core.EngineKind, query string) {
	engine := setupBenchEngine(b, kind)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := engine.Execute(query); err != nil {
			b.Fatalf("Execute error: %v", err)
		}
	}
}

func BenchmarkSQLite_SelectAll(b *testing.B) {
	benchmarkQuery(b, core.SQLiteEngine, "SELECT * FROM users")
}

func BenchmarkDuckDB_SelectAll(b *testing.B) {
	benchmarkQuery(b, core.DuckDBEngine, "SELECT * FROM users")
}

func BenchmarkSQLite_SelectWhere(b *testing.B) {
	benchmarkQuery(b, core.SQLiteEngine, "SELECT * FROM users WHERE age > 40")
}

func BenchmarkDuckDB_SelectWhere(b *testing.B) {
	benchmarkQuery(b, core.DuckDBEngine, "SELECT * FROM users WHERE age > 40")
}

func BenchmarkSQLite_GroupBy(b *testing.B) {
	benchmarkQuery(b, core.SQLiteEngine, "SELECT city, COUNT(*), AVG(age) FROM users GROUP BY city")
}

func BenchmarkDuckDB_GroupBy(b *testing.B) {
	benchmarkQuery(b, core.DuckDBEngine, "SELECT city, COUNT(*), AVG(age) FROM users GROUP BY city")
}

func BenchmarkDisplay(b *testing.B) {
	engine := setupBenchEngine(b, core.SQLiteEngine)
	result, err := engine.Execute("SELECT * FROM users")
	if err != nil {
		b.Fatalf("Execute error: %v", err)
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		result.Display(io.Discard)
	}
}
