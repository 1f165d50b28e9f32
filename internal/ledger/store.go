package ledger

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/cleared-dev/ledgerly/internal/model"
	"github.com/cleared-dev/ledgerly/internal/pathlock"
	"github.com/cleared-dev/ledgerly/internal/record"
)

// Store is the persisted ledger file. Every Persist replaces it wholesale.
type Store struct {
	path   string
	policy record.Policy
}

// NewStore creates a Store for the ledger at path.
func NewStore(path string, policy record.Policy) *Store {
	return &Store{path: path, policy: policy}
}

// Path returns the ledger file path.
func (s *Store) Path() string {
	return s.path
}

// Persist overwrites the ledger file with l.
func (s *Store) Persist(l *model.Ledger) error {
	unlock := pathlock.Lock(s.path)
	defer unlock()

	if err := record.ReplaceFile(s.path, func(w io.Writer) error {
		return Write(w, l)
	}); err != nil {
		return fmt.Errorf("persisting ledger: %w", err)
	}
	return nil
}

// LoadAll reads the persisted postings. A missing ledger is empty.
func (s *Store) LoadAll() ([]model.Posting, []record.SkippedLine, error) {
	unlock := pathlock.Lock(s.path)
	defer unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("opening ledger %s: %w", s.path, err)
	}
	defer f.Close()

	postings, skipped, err := Read(f, s.policy)
	if err != nil {
		return nil, skipped, fmt.Errorf("reading ledger %s: %w", s.path, err)
	}
	return postings, skipped, nil
}
