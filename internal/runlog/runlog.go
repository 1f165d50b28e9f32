// Package runlog keeps an append-only CSV history of ledger rebuilds.
package runlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerly/internal/pathlock"
)

// Entry is one row in the rebuild log.
type Entry struct {
	Timestamp   time.Time
	RunID       uuid.UUID
	Entries     int
	Postings    int
	Accounts    int
	Skipped     int
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// Foots reports whether the logged totals balance.
func (e Entry) Foots() bool {
	return e.TotalDebit.Equal(e.TotalCredit)
}

// Header is the CSV header for the rebuild log.
const Header = "timestamp,run_id,entries,postings,accounts,skipped,total_debit,total_credit"

const (
	numFields   = 8
	colTime     = 0
	colRunID    = 1
	colEntries  = 2
	colPostings = 3
	colAccounts = 4
	colSkipped  = 5
	colDebit    = 6
	colCredit   = 7
)

// NewEntry stamps a new log entry with the current time and a fresh run id.
func NewEntry() Entry {
	return Entry{Timestamp: time.Now().UTC(), RunID: uuid.New()}
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID.String()
	row[colEntries] = strconv.Itoa(e.Entries)
	row[colPostings] = strconv.Itoa(e.Postings)
	row[colAccounts] = strconv.Itoa(e.Accounts)
	row[colSkipped] = strconv.Itoa(e.Skipped)
	row[colDebit] = e.TotalDebit.StringFixed(2)
	row[colCredit] = e.TotalCredit.StringFixed(2)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}
	runID, err := uuid.Parse(record[colRunID])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing run_id %q: %w", record[colRunID], err)
	}

	var counts [4]int
	for i, col := range []int{colEntries, colPostings, colAccounts, colSkipped} {
		counts[i], err = strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[col], err)
		}
	}

	debit, err := decimal.NewFromString(record[colDebit])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing total_debit %q: %w", record[colDebit], err)
	}
	credit, err := decimal.NewFromString(record[colCredit])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing total_credit %q: %w", record[colCredit], err)
	}

	return Entry{
		Timestamp:   ts,
		RunID:       runID,
		Entries:     counts[0],
		Postings:    counts[1],
		Accounts:    counts[2],
		Skipped:     counts[3],
		TotalDebit:  debit,
		TotalCredit: credit,
	}, nil
}

// Append writes entries to the log at path, creating the file and header if needed.
func Append(path string, entries []Entry) error {
	unlock := pathlock.Lock(path)
	defer unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening rebuild log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from the log at path.
// Returns an empty slice if the file does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening rebuild log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading rebuild log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
