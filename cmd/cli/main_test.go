package main

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/nickyhof/LiteShell"
	"github.com/nickyhof/LiteShell/core"
	"github.com/nickyhof/LiteShell/journal"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func setupTestCLI(input string) (*CLI, *bytes.Buffer) {
	var out bytes.Buffer
	prompt := NewLinePrompt(strings.NewReader(input), &out)
	cli := NewCLI(prompt, &out, LiteShell.Options{
		Engine:   core.SQLiteEngine,
		Identity: core.Identity{Name: "test", Email: "test@test.com"},
	})
	return cli, &out
}

func TestEndToEndSession(t *testing.T) {
	cli, out := setupTestCLI("\n" +
		"CREATE TABLE t(a INT, b TEXT)\n" +
		"INSERT INTO t VALUES (1, 'x')\n" +
		"SELECT * FROM t\n")

	if err := cli.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	expected := "DB file (leave blank to keep db alive only in memory):\n" +
		"> Opened DB \":memory:\"\n" +
		"\n" +
		"> No Data\n" +
		"> No Data\n" +
		"> ┌───┬───┐\n" +
		"│ a │ b │\n" +
		"├───┼───┤\n" +
		"│ 1 │ x │\n" +
		"└───┴───┘\n" +
		"> \n"

	if out.String() != expected {
		t.Errorf("Unexpected session output:\n%s\nexpected:\n%s", out.String(), expected)
	}
	if strings.Contains(out.String(), "ERROR:") {
		t.Error("Expected no ERROR lines")
	}
}

func TestInvalidSQLContinuesSession(t *testing.T) {
	cli, out := setupTestCLI("\n" +
		"SELEC * FROM nowhere\n" +
		"SELECT 1 AS one\n")

	if err := cli.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	lines := strings.Split(out.String(), "\n")
	var errorLine string
	for _, line := range lines {
		if strings.HasPrefix(line, "> ERROR: ") {
			errorLine = line
		}
	}
	if errorLine == "" {
		t.Fatalf("Expected an ERROR line, got:\n%s", out.String())
	}

	// The next prompt comes after the error and the following query still runs
	index := strings.Index(out.String(), "ERROR: ")
	rest := out.String()[index:]
	if !strings.Contains(rest, "\n> ┌─────┐") {
		t.Errorf("Expected next query to run after the error, got:\n%s", rest)
	}
	if !strings.Contains(rest, "│ one │") {
		t.Errorf("Expected result table after the error, got:\n%s", rest)
	}
}

func TestEmptyResultPrintsNoData(t *testing.T) {
	cli, out := setupTestCLI("\n" +
		"CREATE TABLE t(a INT)\n" +
		"SELECT * FROM t\n")

	if err := cli.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if strings.Count(out.String(), "> No Data\n") != 2 {
		t.Errorf("Expected two 'No Data' lines, got:\n%s", out.String())
	}
	if strings.Contains(out.String(), "┌") {
		t.Error("Expected no table for empty results")
	}
}

func TestMissingPathIsFatal(t *testing.T) {
	cli, out := setupTestCLI("")

	err := cli.Run()
	if !errors.Is(err, ErrNoInput) {
		t.Fatalf("Expected ErrNoInput, got %v", err)
	}

	expected := "DB file (leave blank to keep db alive only in memory):\n> "
	if out.String() != expected {
		t.Errorf("Expected only the question and a prompt, got %q", out.String())
	}
}

func TestOpenFailureIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "test.db")
	cli, out := setupTestCLI(path + "\nSELECT 1\n")

	if err := cli.Run(); err == nil {
		t.Fatal("Expected open failure")
	}
	if strings.Contains(out.String(), "Opened DB") {
		t.Errorf("Expected no confirmation line, got:\n%s", out.String())
	}
}

func TestFileDatabaseRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shell.db")

	cli, out := setupTestCLI(path + "\n" +
		"CREATE TABLE t(i INTEGER, f REAL, s TEXT, b BLOB, n TEXT)\n" +
		"INSERT INTO t VALUES (42, 1.5, 'hello', x'DEADBEEF', NULL)\n")
	if err := cli.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "Opened DB \""+path+"\"") {
		t.Errorf("Expected confirmation with the path, got:\n%s", out.String())
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Expected database file to be created: %v", err)
	}

	// A second session sees the data
	cli, out = setupTestCLI(path + "\nSELECT * FROM t\n")
	if err := cli.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "│ 42 │ 1.5 │ hello │ BINARY DATA │ NULL │") {
		t.Errorf("Expected inserted values to round-trip, got:\n%s", out.String())
	}
}

func TestCLIJournal(t *testing.T) {
	j, err := journal.NewMemoryJournal()
	if err != nil {
		t.Fatalf("Failed to create journal: %v", err)
	}

	var out bytes.Buffer
	prompt := NewLinePrompt(strings.NewReader("\nCREATE TABLE t(a INT)\nBROKEN\n"), &out)
	cli := NewCLI(prompt, &out, LiteShell.Options{
		Engine:   core.SQLiteEngine,
		Identity: core.Identity{Name: "test", Email: "test@test.com"},
		Journal:  j,
	})
	if err := cli.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	entries, err := j.Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Statement != "CREATE TABLE t(a INT)" {
		t.Errorf("Expected only the successful statement to be journaled, got %v", entries)
	}
}

func TestLinePrompt(t *testing.T) {
	var out bytes.Buffer
	prompt := NewLinePrompt(strings.NewReader("first\r\nsecond\nlast"), &out)

	expected := []string{"first", "second", "last"}
	for _, want := range expected {
		line, err := prompt.Next()
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if line != want {
			t.Errorf("Expected %q, got %q", want, line)
		}
	}

	if _, err := prompt.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Expected io.EOF, got %v", err)
	}

	if out.String() != "> > > > " {
		t.Errorf("Expected a prompt before every read, got %q", out.String())
	}
}

func TestLinePromptFlushes(t *testing.T) {
	var out bytes.Buffer
	buffered := bufio.NewWriter(&out)
	prompt := NewLinePrompt(strings.NewReader("x\n"), buffered)

	if _, err := prompt.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if out.String() != "> " {
		t.Errorf("Expected prompt to be flushed before reading, got %q", out.String())
	}
}

func TestGetAtEndOfInput(t *testing.T) {
	prompt := NewLinePrompt(strings.NewReader(""), io.Discard)

	if _, err := Get(prompt); !errors.Is(err, ErrNoInput) {
		t.Errorf("Expected ErrNoInput, got %v", err)
	}
}

func TestGetEmptyLine(t *testing.T) {
	prompt := NewLinePrompt(strings.NewReader("\n"), io.Discard)

	line, err := Get(prompt)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if line != "" {
		t.Errorf("Expected empty line, got %q", line)
	}
}

func TestVersionVariable(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
}

func TestGetHistoryPath(t *testing.T) {
	path := getHistoryPath()
	if path != "" && filepath.Base(path) != ".liteshell_history" {
		t.Errorf("Unexpected history path %q", path)
	}
}

func TestTimingLine(t *testing.T) {
	cli, out := setupTestCLI("\nSELECT 1 AS one\nCREATE TABLE t(a INT)\n")
	cli.Timing = true

	if err := cli.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !strings.Contains(out.String(), "└─────┘\n1 rows (") {
		t.Errorf("Expected a stats line after the table, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "No Data\n0 rows (") {
		t.Errorf("Expected a stats line after 'No Data', got:\n%s", out.String())
	}
}

func TestTimingOffByDefault(t *testing.T) {
	cli, out := setupTestCLI("\nSELECT 1 AS one\n")

	if err := cli.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if strings.Contains(out.String(), " rows (") {
		t.Errorf("Expected no stats line by default, got:\n%s", out.String())
	}
}

func TestOneStatementPerLine(t *testing.T) {
	cli, out := setupTestCLI("\n" +
		"CREATE TABLE u(x); INSERT INTO u VALUES (7)\n" +
		"SELECT * FROM u\n")

	if err := cli.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if strings.Count(out.String(), "ERROR: ") != 2 {
		t.Errorf("Expected the two-statement line and the lookup of u to fail, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "ERROR: only one statement per line is supported\n") {
		t.Errorf("Expected the multiple statement error, got:\n%s", out.String())
	}
}

func TestDateTextRoundTrip(t *testing.T) {
	cli, out := setupTestCLI("\n" +
		"CREATE TABLE e(d DATE, ts DATETIME)\n" +
		"INSERT INTO e VALUES ('2024-01-02', '2024-01-02 03:04:05')\n" +
		"SELECT * FROM e\n")

	if err := cli.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "│ 2024-01-02 │ 2024-01-02 03:04:05 │") {
		t.Errorf("Expected dates as inserted, got:\n%s", out.String())
	}
}

// historyPrompt records which lines were read for the history
type historyPrompt struct {
	lines   []string
	history []string
}

func (p *historyPrompt) read() (string, error) {
	if len(p.lines) == 0 {
		return "", io.EOF
	}
	line := p.lines[0]
	p.lines = p.lines[1:]
	return line, nil
}

func (p *historyPrompt) Next() (string, error) {
	line, err := p.read()
	if err == nil {
		p.history = append(p.history, line)
	}
	return line, err
}

func (p *historyPrompt) nextUnrecorded() (string, error) {
	return p.read()
}

func (p *historyPrompt) Close() error {
	return nil
}

func TestPathStaysOutOfHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	prompt := &historyPrompt{lines: []string{path, "SELECT 1"}}

	var out bytes.Buffer
	cli := NewCLI(prompt, &out, LiteShell.Options{Engine: core.SQLiteEngine})
	if err := cli.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(prompt.history) != 1 || prompt.history[0] != "SELECT 1" {
		t.Errorf("Expected only the statement in the history, got %v", prompt.history)
	}
}
