package journal

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-billy/v6/memfs"
	"github.com/go-git/go-billy/v6/osfs"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/cache"
	"github.com/go-git/go-git/v6/plumbing/filemode"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/go-git/go-git/v6/storage/filesystem"
	"github.com/go-git/go-git/v6/storage/memory"

	"github.com/nickyhof/LiteShell/core"
)

// FileName is the file in the journal tree that accumulates statements
const FileName = "session.sql"

var (
	ErrNotInitialized = errors.New("journal not initialized")
	ErrEmptyStatement = errors.New("empty statement")
)

type Journal struct {
	repo *git.Repository
	mu   sync.Mutex
}

// Entry is one journaled statement
type Entry struct {
	Id        string
	When      time.Time
	Author    string // "Name <email>" format
	Statement string
}

func (entry Entry) String() string {
	return fmt.Sprintf("Entry{Id: %s, When: %s, Author: %s, Statement: %s}", entry.Id, entry.When, entry.Author, entry.Statement)
}

// IsInitialized returns true if the journal has a valid repository
func (j *Journal) IsInitialized() bool {
	return j != nil && j.repo != nil
}

func (j *Journal) ensureInitialized() error {
	if !j.IsInitialized() {
		return ErrNotInitialized
	}
	return nil
}

func NewMemoryJournal() (*Journal, error) {
	wt := memfs.New()
	storer := memory.NewStorage()

	repo, err := git.Init(storer, git.WithWorkTree(wt))
	if err != nil {
		return nil, err
	}

	return &Journal{repo: repo}, nil
}

// NewFileJournal opens the journal repository in baseDir, creating it if needed
func NewFileJournal(baseDir string) (*Journal, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	wt := osfs.New(baseDir)
	fs, err := wt.Chroot(".git")
	if err != nil {
		return nil, err
	}

	storer := filesystem.NewStorageWithOptions(
		fs,
		cache.NewObjectLRUDefault(),
		filesystem.Options{ExclusiveAccess: true})

	var repo *git.Repository
	if _, statErr := os.Stat(fs.Root()); statErr != nil {
		repo, err = git.Init(storer, git.WithWorkTree(wt))
	} else {
		repo, err = git.Open(storer, wt)
	}
	if err != nil {
		return nil, err
	}

	return &Journal{repo: repo}, nil
}

// Record appends statement to the journal file and commits it
func (j *Journal) Record(statement string, identity core.Identity) (Entry, error) {
	if err := j.ensureInitialized(); err != nil {
		return Entry{}, err
	}

	statement = strings.TrimSpace(statement)
	if statement == "" {
		return Entry{}, ErrEmptyStatement
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	contents, err := j.contents()
	if err != nil {
		return Entry{}, err
	}

	line := statement
	if !strings.HasSuffix(line, ";") {
		line += ";"
	}
	contents += line + "\n"

	blobHash, err := j.createBlob([]byte(contents))
	if err != nil {
		return Entry{}, err
	}

	treeHash, err := j.buildTree(blobHash)
	if err != nil {
		return Entry{}, err
	}

	entry, err := j.createCommit(treeHash, identity, statement)
	if err != nil {
		return Entry{}, err
	}
	entry.Statement = statement
	return entry, nil
}

// Entries returns every journaled statement, newest first
func (j *Journal) Entries() ([]Entry, error) {
	if err := j.ensureInitialized(); err != nil {
		return nil, err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	headRef, err := j.repo.Head()
	if err != nil {
		// No commits yet
		return []Entry{}, nil
	}

	cIter, err := j.repo.Log(&git.LogOptions{From: headRef.Hash()})
	if err != nil {
		return nil, fmt.Errorf("failed to read journal log: %w", err)
	}

	var entries []Entry
	err = cIter.ForEach(func(c *object.Commit) error {
		entries = append(entries, Entry{
			Id:        c.Hash.String(),
			When:      c.Committer.When,
			Author:    fmt.Sprintf("%s <%s>", c.Author.Name, c.Author.Email),
			Statement: strings.TrimSpace(c.Message),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Contents returns the journal file as of the latest entry
func (j *Journal) Contents() (string, error) {
	if err := j.ensureInitialized(); err != nil {
		return "", err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	return j.contents()
}

func (j *Journal) contents() (string, error) {
	headRef, err := j.repo.Head()
	if err != nil {
		return "", nil
	}

	commit, err := j.repo.CommitObject(headRef.Hash())
	if err != nil {
		return "", fmt.Errorf("failed to get head commit: %w", err)
	}

	file, err := commit.File(FileName)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	return file.Contents()
}

// createBlob creates a blob object directly in the object store without filesystem I/O
func (j *Journal) createBlob(data []byte) (plumbing.Hash, error) {
	obj := j.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(data)))

	writer, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to create blob writer: %w", err)
	}

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return plumbing.ZeroHash, fmt.Errorf("failed to write blob data: %w", err)
	}
	writer.Close()

	hash, err := j.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to store blob: %w", err)
	}

	return hash, nil
}

// buildTree creates the single-file tree holding the journal
func (j *Journal) buildTree(blobHash plumbing.Hash) (plumbing.Hash, error) {
	tree := &object.Tree{Entries: []object.TreeEntry{{
		Name: FileName,
		Mode: filemode.Regular,
		Hash: blobHash,
	}}}

	obj := j.repo.Storer.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to encode tree: %w", err)
	}

	hash, err := j.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to store tree: %w", err)
	}

	return hash, nil
}

// createCommit creates a commit object directly without using worktree
func (j *Journal) createCommit(treeHash plumbing.Hash, identity core.Identity, message string) (Entry, error) {
	var parentHashes []plumbing.Hash
	headRef, err := j.repo.Head()
	if err == nil {
		parentHashes = []plumbing.Hash{headRef.Hash()}
	}

	sig := object.Signature{
		Name:  identity.Name,
		Email: identity.Email,
		When:  time.Now(),
	}

	commit := &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      message,
		TreeHash:     treeHash,
		ParentHashes: parentHashes,
	}

	obj := j.repo.Storer.NewEncodedObject()
	if err := commit.Encode(obj); err != nil {
		return Entry{}, fmt.Errorf("failed to encode commit: %w", err)
	}

	commitHash, err := j.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to store commit: %w", err)
	}

	branchName, err := j.headBranch()
	if err != nil {
		return Entry{}, err
	}

	ref := plumbing.NewHashReference(branchName, commitHash)
	if err := j.repo.Storer.SetReference(ref); err != nil {
		return Entry{}, fmt.Errorf("failed to update HEAD: %w", err)
	}

	return Entry{
		Id:     commitHash.String(),
		When:   sig.When,
		Author: identity.String(),
	}, nil
}

// headBranch returns the branch HEAD points at, even before the first commit
func (j *Journal) headBranch() (plumbing.ReferenceName, error) {
	head, err := j.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return plumbing.Master, nil
		}
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}

	if head.Type() == plumbing.SymbolicReference {
		return head.Target(), nil
	}
	return plumbing.Master, nil
}
