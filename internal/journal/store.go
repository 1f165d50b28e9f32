package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/ledgerly/internal/model"
	"github.com/cleared-dev/ledgerly/internal/pathlock"
	"github.com/cleared-dev/ledgerly/internal/record"
)

// ErrInvalidEntry is returned by Append for entries that cannot be stored.
var ErrInvalidEntry = errors.New("invalid journal entry")

// Store is the append-only journal file.
type Store struct {
	path   string
	policy record.Policy
}

// NewStore creates a Store for the journal at path.
func NewStore(path string, policy record.Policy) *Store {
	return &Store{path: path, policy: policy}
}

// Path returns the journal file path.
func (s *Store) Path() string {
	return s.path
}

// Ensure creates the journal with its header if it does not exist yet.
func (s *Store) Ensure() error {
	unlock := pathlock.Lock(s.path)
	defer unlock()

	f, err := s.open()
	if err != nil {
		return err
	}
	return f.Close()
}

// Append adds entries to the end of the journal, creating it with a header
// first if needed. Text fields are trimmed the way they read back, and entries
// are checked before anything is written.
func (s *Store) Append(entries ...model.JournalEntry) error {
	entries = canonical(entries)
	for i, e := range entries {
		if err := checkEntry(e); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}

	unlock := pathlock.Lock(s.path)
	defer unlock()

	f, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := AppendEntries(f, entries); err != nil {
		return fmt.Errorf("appending to journal: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing journal: %w", err)
	}
	return nil
}

// LoadAll reads every entry in file order. A missing journal is empty.
func (s *Store) LoadAll() ([]model.JournalEntry, []record.SkippedLine, error) {
	unlock := pathlock.Lock(s.path)
	defer unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("opening journal %s: %w", s.path, err)
	}
	defer f.Close()

	entries, skipped, err := ReadEntries(f, s.policy)
	if err != nil {
		return nil, skipped, fmt.Errorf("reading journal %s: %w", s.path, err)
	}
	return entries, skipped, nil
}

// open opens the journal for appending, writing the header when it is new
// and terminating a last line that lacks its newline. Caller holds the path
// lock.
func (s *Store) open() (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal dir: %w", err)
	}

	var size int64
	info, err := os.Stat(s.path)
	switch {
	case err == nil:
		size = info.Size()
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("checking journal: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	if size == 0 {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("writing header: %w", err)
		}
		return f, nil
	}

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, size-1); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("reading journal end: %w", err)
	}
	if last[0] != '\n' {
		if _, err := f.Write([]byte{'\n'}); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("terminating last line: %w", err)
		}
	}
	return f, nil
}

// canonical returns copies of entries with surrounding whitespace removed
// from the text fields.
func canonical(entries []model.JournalEntry) []model.JournalEntry {
	out := make([]model.JournalEntry, len(entries))
	for i, e := range entries {
		e.Description = strings.TrimSpace(e.Description)
		e.DebitAccount = strings.TrimSpace(e.DebitAccount)
		e.CreditAccount = strings.TrimSpace(e.CreditAccount)
		out[i] = e
	}
	return out
}

func checkEntry(e model.JournalEntry) error {
	switch {
	case e.Amount.IsNegative():
		return fmt.Errorf("%w: amount %s: %w", ErrInvalidEntry, e.Amount, record.ErrNegativeAmount)
	case e.DebitAccount == "":
		return fmt.Errorf("%w: missing debit account", ErrInvalidEntry)
	case e.CreditAccount == "":
		return fmt.Errorf("%w: missing credit account", ErrInvalidEntry)
	case e.Date.IsZero():
		return fmt.Errorf("%w: missing date", ErrInvalidEntry)
	}
	return nil
}
