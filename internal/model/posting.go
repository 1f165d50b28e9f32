package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Side is the side of a posting.
type Side string

const (
	Debit  Side = "Dr"
	Credit Side = "Cr"
)

// ParseSide accepts the persisted "Dr"/"Cr" markers.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case Debit:
		return Debit, nil
	case Credit:
		return Credit, nil
	default:
		return "", fmt.Errorf("unknown side %q", s)
	}
}

// Posting is one side of a journal entry attributed to one account.
type Posting struct {
	Date        time.Time
	Description string
	Account     string
	Side        Side
	Amount      decimal.Decimal
}

// Ledger maps account names to their postings. Accounts keep the order in
// which they were first seen; postings keep journal order.
type Ledger struct {
	accounts []string
	postings map[string][]Posting
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{postings: make(map[string][]Posting)}
}

// Add appends p to its account, registering the account on first use.
func (l *Ledger) Add(p Posting) {
	if l.postings == nil {
		l.postings = make(map[string][]Posting)
	}
	if _, seen := l.postings[p.Account]; !seen {
		l.accounts = append(l.accounts, p.Account)
	}
	l.postings[p.Account] = append(l.postings[p.Account], p)
}

// Accounts returns account names in first-appearance order.
func (l *Ledger) Accounts() []string {
	return append([]string(nil), l.accounts...)
}

// Postings returns the postings recorded against account.
func (l *Ledger) Postings(account string) []Posting {
	return append([]Posting(nil), l.postings[account]...)
}

// All flattens the ledger account by account.
func (l *Ledger) All() []Posting {
	var all []Posting
	for _, acct := range l.accounts {
		all = append(all, l.postings[acct]...)
	}
	return all
}

// Len returns the total number of postings.
func (l *Ledger) Len() int {
	n := 0
	for _, ps := range l.postings {
		n += len(ps)
	}
	return n
}

// Totals sums the debit and credit sides across every account.
func (l *Ledger) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, ps := range l.postings {
		for _, p := range ps {
			switch p.Side {
			case Debit:
				debit = debit.Add(p.Amount)
			case Credit:
				credit = credit.Add(p.Amount)
			}
		}
	}
	return debit, credit
}
