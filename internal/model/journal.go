package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is one line of the journal: a single transaction naming the
// account to debit and the account to credit.
type JournalEntry struct {
	Date          time.Time
	Description   string
	DebitAccount  string
	CreditAccount string
	Amount        decimal.Decimal // non-negative
}

// Postings expands the entry into its debit and credit postings, in that order.
func (e JournalEntry) Postings() [2]Posting {
	return [2]Posting{
		{Date: e.Date, Description: e.Description, Account: e.DebitAccount, Side: Debit, Amount: e.Amount},
		{Date: e.Date, Description: e.Description, Account: e.CreditAccount, Side: Credit, Amount: e.Amount},
	}
}
