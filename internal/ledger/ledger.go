// Package ledger derives the general ledger from the journal and persists it.
package ledger

import (
	"fmt"
	"io"

	"github.com/cleared-dev/ledgerly/internal/model"
	"github.com/cleared-dev/ledgerly/internal/record"
)

const (
	numFields = 5
	colDate   = 0
	colDesc   = 1
	colAcct   = 2
	colSide   = 3
	colAmount = 4
)

// Build expands every journal entry into a debit posting under its debit
// account and a credit posting under its credit account, in journal order.
func Build(entries []model.JournalEntry) *model.Ledger {
	l := model.NewLedger()
	for _, e := range entries {
		for _, p := range e.Postings() {
			l.Add(p)
		}
	}
	return l
}

// MarshalPosting converts a posting to a ledger line (without newline).
func MarshalPosting(p model.Posting) string {
	row := make([]string, numFields)
	row[colDate] = record.FormatDate(p.Date)
	row[colDesc] = p.Description
	row[colAcct] = p.Account
	row[colSide] = string(p.Side)
	row[colAmount] = record.FormatAmount(p.Amount)
	return record.Join(row...)
}

// UnmarshalPosting parses one ledger line.
func UnmarshalPosting(line string) (model.Posting, error) {
	row, err := record.SplitN(line, numFields)
	if err != nil {
		return model.Posting{}, err
	}

	date, err := record.ParseDate(row[colDate])
	if err != nil {
		return model.Posting{}, err
	}

	side, err := model.ParseSide(row[colSide])
	if err != nil {
		return model.Posting{}, err
	}

	amount, err := record.ParseAmount(row[colAmount])
	if err != nil {
		return model.Posting{}, err
	}

	return model.Posting{
		Date:        date,
		Description: row[colDesc],
		Account:     row[colAcct],
		Side:        side,
		Amount:      amount,
	}, nil
}

// Write serializes l account by account in first-appearance order.
func Write(w io.Writer, l *model.Ledger) error {
	for i, p := range l.All() {
		if _, err := fmt.Fprintln(w, MarshalPosting(p)); err != nil {
			return fmt.Errorf("writing posting %d: %w", i, err)
		}
	}
	return nil
}

// Read parses a ledger file back into postings in file order.
func Read(r io.Reader, policy record.Policy) ([]model.Posting, []record.SkippedLine, error) {
	var postings []model.Posting
	sc := record.Scanner{Resource: "ledger", Policy: policy}
	skipped, err := sc.Scan(r, func(line string) error {
		p, err := UnmarshalPosting(line)
		if err != nil {
			return err
		}
		postings = append(postings, p)
		return nil
	})
	if err != nil {
		return nil, skipped, err
	}
	return postings, skipped, nil
}

// FromPostings regroups flat postings into a ledger.
func FromPostings(postings []model.Posting) *model.Ledger {
	l := model.NewLedger()
	for _, p := range postings {
		l.Add(p)
	}
	return l
}
