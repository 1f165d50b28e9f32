// Package trialbalance aggregates the ledger into per-account debit and
// credit totals.
package trialbalance

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerly/internal/model"
	"github.com/cleared-dev/ledgerly/internal/record"
)

const (
	numFields = 3
	colAcct   = 0
	colDebit  = 1
	colCredit = 2
)

// Build sums postings per account. Rows follow the order in which accounts
// first appear in postings.
func Build(postings []model.Posting) model.TrialBalance {
	var tb model.TrialBalance
	index := make(map[string]int)
	for _, p := range postings {
		i, ok := index[p.Account]
		if !ok {
			i = len(tb)
			index[p.Account] = i
			tb = append(tb, model.TrialBalanceRow{
				Account:     p.Account,
				TotalDebit:  decimal.Zero,
				TotalCredit: decimal.Zero,
			})
		}
		switch p.Side {
		case model.Debit:
			tb[i].TotalDebit = tb[i].TotalDebit.Add(p.Amount)
		case model.Credit:
			tb[i].TotalCredit = tb[i].TotalCredit.Add(p.Amount)
		}
	}
	return tb
}

// FromLedger builds the trial balance of a grouped ledger.
func FromLedger(l *model.Ledger) model.TrialBalance {
	return Build(l.All())
}

// MarshalRow converts a row to a trial balance line (without newline).
func MarshalRow(row model.TrialBalanceRow) string {
	fields := make([]string, numFields)
	fields[colAcct] = row.Account
	fields[colDebit] = record.FormatAmount(row.TotalDebit)
	fields[colCredit] = record.FormatAmount(row.TotalCredit)
	return record.Join(fields...)
}

// UnmarshalRow parses one trial balance line.
func UnmarshalRow(line string) (model.TrialBalanceRow, error) {
	fields, err := record.SplitN(line, numFields)
	if err != nil {
		return model.TrialBalanceRow{}, err
	}
	debit, err := record.ParseAmount(fields[colDebit])
	if err != nil {
		return model.TrialBalanceRow{}, err
	}
	credit, err := record.ParseAmount(fields[colCredit])
	if err != nil {
		return model.TrialBalanceRow{}, err
	}
	return model.TrialBalanceRow{Account: fields[colAcct], TotalDebit: debit, TotalCredit: credit}, nil
}

// Write serializes tb one row per line.
func Write(w io.Writer, tb model.TrialBalance) error {
	for i, row := range tb {
		if _, err := fmt.Fprintln(w, MarshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return nil
}

// Read parses a trial balance file.
func Read(r io.Reader, policy record.Policy) (model.TrialBalance, []record.SkippedLine, error) {
	var tb model.TrialBalance
	sc := record.Scanner{Resource: "trial balance", Policy: policy}
	skipped, err := sc.Scan(r, func(line string) error {
		row, err := UnmarshalRow(line)
		if err != nil {
			return err
		}
		tb = append(tb, row)
		return nil
	})
	if err != nil {
		return nil, skipped, err
	}
	return tb, skipped, nil
}
