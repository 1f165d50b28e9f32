package journal

import (
	"fmt"
	"io"

	"github.com/cleared-dev/ledgerly/internal/model"
	"github.com/cleared-dev/ledgerly/internal/record"
)

// Header is the first line of journal.txt.
const Header = "Date | Description | DR Account | CR Account | Amount"

const (
	numFields = 5
	colDate   = 0
	colDesc   = 1
	colDebit  = 2
	colCredit = 3
	colAmount = 4
)

// MarshalEntry converts an entry to a journal line (without newline).
func MarshalEntry(e model.JournalEntry) string {
	row := make([]string, numFields)
	row[colDate] = record.FormatDate(e.Date)
	row[colDesc] = e.Description
	row[colDebit] = e.DebitAccount
	row[colCredit] = e.CreditAccount
	row[colAmount] = record.FormatAmount(e.Amount)
	return record.Join(row...)
}

// UnmarshalEntry parses one journal line. The amount is rounded to the cent
// so that every view derived from the journal sums the value the ledger shows.
func UnmarshalEntry(line string) (model.JournalEntry, error) {
	row, err := record.SplitN(line, numFields)
	if err != nil {
		return model.JournalEntry{}, err
	}

	date, err := record.ParseDate(row[colDate])
	if err != nil {
		return model.JournalEntry{}, err
	}

	amount, err := record.ParseAmount(row[colAmount])
	if err != nil {
		return model.JournalEntry{}, err
	}

	return model.JournalEntry{
		Date:          date,
		Description:   row[colDesc],
		DebitAccount:  row[colDebit],
		CreditAccount: row[colCredit],
		Amount:        amount.Round(2),
	}, nil
}

// ReadEntries parses a journal. The header and blank lines are ignored; other
// unparseable lines are handled according to policy.
func ReadEntries(r io.Reader, policy record.Policy) ([]model.JournalEntry, []record.SkippedLine, error) {
	var entries []model.JournalEntry
	sc := record.Scanner{Resource: "journal", Header: Header, Policy: policy}
	skipped, err := sc.Scan(r, func(line string) error {
		e, err := UnmarshalEntry(line)
		if err != nil {
			return err
		}
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, skipped, err
	}
	return entries, skipped, nil
}

// AppendEntries writes entry lines only (no header).
func AppendEntries(w io.Writer, entries []model.JournalEntry) error {
	for i, e := range entries {
		if _, err := fmt.Fprintln(w, MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	return nil
}
