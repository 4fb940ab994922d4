package LiteShell

import (
	"errors"
	"log"

	"github.com/nickyhof/LiteShell/core"
	"github.com/nickyhof/LiteShell/db"
	"github.com/nickyhof/LiteShell/journal"
)

// Options configures an Instance
type Options struct {
	Engine core.EngineKind
	// Path is a file path, file://, http(s):// or s3:// URL; empty for in-memory
	Path     string
	S3       *db.S3Config
	Identity core.Identity
	// Journal records successful statements when set
	Journal *journal.Journal
}

type Instance struct {
	Engine   *db.Engine
	Location *db.Location
	Journal  *journal.Journal
	identity core.Identity
}

// Open resolves the database location and opens the engine on it
func Open(options Options) (*Instance, error) {
	location, err := db.ResolveLocation(options.Path, options.S3)
	if err != nil {
		return nil, err
	}

	engine, err := db.Open(options.Engine, location.LocalPath)
	if err != nil {
		location.Close()
		return nil, err
	}

	return &Instance{
		Engine:   engine,
		Location: location,
		Journal:  options.Journal,
		identity: options.Identity,
	}, nil
}

// DisplayPath is the path reported to the user after opening
func (instance *Instance) DisplayPath() string {
	if instance.Location.IsMemory() {
		return core.MemoryPath
	}
	return instance.Location.Source
}

// Execute runs one statement and journals it when it succeeds.
// Journal failures are logged and never fail the statement.
func (instance *Instance) Execute(query string) (db.QueryResult, error) {
	result, err := instance.Engine.Execute(query)
	if err != nil {
		return result, err
	}

	if instance.Journal != nil {
		_, jerr := instance.Journal.Record(query, instance.identity)
		if jerr != nil && !errors.Is(jerr, journal.ErrEmptyStatement) {
			log.Printf("journal: %v", jerr)
		}
	}

	return result, nil
}

// Close closes the engine, uploads remote databases and removes temporary copies
func (instance *Instance) Close() error {
	err := instance.Engine.Close()
	if instance.Location.IsRemote() {
		if syncErr := instance.Location.Sync(); err == nil {
			err = syncErr
		}
	}
	if closeErr := instance.Location.Close(); err == nil {
		err = closeErr
	}
	return err
}
