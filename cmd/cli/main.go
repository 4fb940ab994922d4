package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"

	"github.com/nickyhof/LiteShell"
	"github.com/nickyhof/LiteShell/core"
	"github.com/nickyhof/LiteShell/db"
	"github.com/nickyhof/LiteShell/journal"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	engineName := flag.String("engine", "sqlite", "Embedded engine: sqlite or duckdb")
	journalDir := flag.String("journal", "", "Directory of a git journal recording executed statements")
	userName := flag.String("name", "LiteShell", "User name for journal commits")
	userEmail := flag.String("email", "cli@liteshell.local", "User email for journal commits")
	historyFile := flag.String("history", getHistoryPath(), "History file for interactive sessions")
	plain := flag.Bool("plain", false, "Read plain lines even on a terminal")
	timing := flag.Bool("timing", false, "Print row count and execution time after each statement")
	s3Region := flag.String("s3Region", "", "AWS region for s3:// databases")
	s3Endpoint := flag.String("s3Endpoint", "", "Custom S3-compatible endpoint")
	s3AccessKey := flag.String("s3AccessKey", "", "S3 access key (default credential chain if empty)")
	s3SecretKey := flag.String("s3SecretKey", "", "S3 secret key")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("LiteShell v%s\n", Version)
		return 0
	}

	log.SetFlags(0)
	log.SetPrefix("liteshell: ")

	kind, err := core.ParseEngineKind(*engineName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	options := LiteShell.Options{
		Engine: kind,
		S3: &db.S3Config{
			AccessKey: *s3AccessKey,
			SecretKey: *s3SecretKey,
			Region:    *s3Region,
			Endpoint:  *s3Endpoint,
		},
		Identity: core.Identity{
			Name:  *userName,
			Email: *userEmail,
		},
	}

	if *journalDir != "" {
		j, err := journal.NewFileJournal(*journalDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening journal: %v\n", err)
			return 1
		}
		options.Journal = j
	}

	prompt, err := newPrompt(*plain, *historyFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer prompt.Close()

	cli := NewCLI(prompt, os.Stdout, options)
	cli.Timing = *timing
	if err := cli.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// newPrompt uses readline on a terminal and plain line reads otherwise
func newPrompt(plain bool, historyFile string) (Prompt, error) {
	if plain || !readline.DefaultIsTerminal() {
		return NewLinePrompt(os.Stdin, os.Stdout), nil
	}
	return NewReadlinePrompt(historyFile)
}

func getHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".liteshell_history")
}
