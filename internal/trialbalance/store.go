package trialbalance

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/cleared-dev/ledgerly/internal/ledger"
	"github.com/cleared-dev/ledgerly/internal/model"
	"github.com/cleared-dev/ledgerly/internal/pathlock"
	"github.com/cleared-dev/ledgerly/internal/record"
)

// Store is the persisted trial balance file.
type Store struct {
	path   string
	policy record.Policy
}

// NewStore creates a Store for the trial balance at path.
func NewStore(path string, policy record.Policy) *Store {
	return &Store{path: path, policy: policy}
}

// Path returns the trial balance file path.
func (s *Store) Path() string {
	return s.path
}

// Persist overwrites the trial balance file with tb.
func (s *Store) Persist(tb model.TrialBalance) error {
	unlock := pathlock.Lock(s.path)
	defer unlock()

	if err := record.ReplaceFile(s.path, func(w io.Writer) error {
		return Write(w, tb)
	}); err != nil {
		return fmt.Errorf("persisting trial balance: %w", err)
	}
	return nil
}

// RebuildFrom regenerates the trial balance from a persisted ledger and
// stores it. Skipped ledger lines are returned.
func (s *Store) RebuildFrom(ls *ledger.Store) (model.TrialBalance, []record.SkippedLine, error) {
	postings, skipped, err := ls.LoadAll()
	if err != nil {
		return nil, skipped, err
	}
	tb := Build(postings)
	if err := s.Persist(tb); err != nil {
		return nil, skipped, err
	}
	return tb, skipped, nil
}

// LoadAll reads the persisted trial balance. A missing file is empty.
func (s *Store) LoadAll() (model.TrialBalance, []record.SkippedLine, error) {
	unlock := pathlock.Lock(s.path)
	defer unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("opening trial balance %s: %w", s.path, err)
	}
	defer f.Close()

	tb, skipped, err := Read(f, s.policy)
	if err != nil {
		return nil, skipped, fmt.Errorf("reading trial balance %s: %w", s.path, err)
	}
	return tb, skipped, nil
}
