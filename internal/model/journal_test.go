package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalEntryPostings(t *testing.T) {
	e := JournalEntry{
		Date:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Description:   "Office rent payment",
		DebitAccount:  "Rent Expense",
		CreditAccount: "Cash",
		Amount:        decimal.NewFromInt(500),
	}

	ps := e.Postings()
	assert.Equal(t, "Rent Expense", ps[0].Account)
	assert.Equal(t, Debit, ps[0].Side)
	assert.Equal(t, "Cash", ps[1].Account)
	assert.Equal(t, Credit, ps[1].Side)
	for _, p := range ps {
		assert.True(t, p.Date.Equal(e.Date))
		assert.Equal(t, e.Description, p.Description)
		assert.True(t, p.Amount.Equal(e.Amount))
	}
}

func TestParseSide(t *testing.T) {
	tests := []struct {
		in      string
		want    Side
		wantErr bool
	}{
		{"Dr", Debit, false},
		{"Cr", Credit, false},
		{"dr", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSide(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "ParseSide(%q)", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestLedgerOrdering(t *testing.T) {
	l := NewLedger()
	l.Add(Posting{Account: "Cash", Side: Debit, Amount: decimal.NewFromInt(100)})
	l.Add(Posting{Account: "Capital", Side: Credit, Amount: decimal.NewFromInt(100)})
	l.Add(Posting{Account: "Supplies", Side: Debit, Amount: decimal.NewFromInt(40)})
	l.Add(Posting{Account: "Cash", Side: Credit, Amount: decimal.NewFromInt(40)})

	assert.Equal(t, []string{"Cash", "Capital", "Supplies"}, l.Accounts())
	require.Len(t, l.Postings("Cash"), 2)
	assert.Equal(t, Debit, l.Postings("Cash")[0].Side)
	assert.Equal(t, Credit, l.Postings("Cash")[1].Side)
	assert.Equal(t, 4, l.Len())

	all := l.All()
	require.Len(t, all, 4)
	assert.Equal(t, "Cash", all[0].Account)
	assert.Equal(t, "Cash", all[1].Account)
	assert.Equal(t, "Capital", all[2].Account)

	debit, credit := l.Totals()
	assert.True(t, debit.Equal(credit))
}

func TestLedgerZeroValue(t *testing.T) {
	var l Ledger
	l.Add(Posting{Account: "Cash", Side: Debit, Amount: decimal.NewFromInt(1)})
	assert.Equal(t, []string{"Cash"}, l.Accounts())
}

func TestTrialBalanceFoots(t *testing.T) {
	tb := TrialBalance{
		{Account: "Rent Expense", TotalDebit: decimal.NewFromInt(500), TotalCredit: decimal.Zero},
		{Account: "Cash", TotalDebit: decimal.Zero, TotalCredit: decimal.NewFromInt(500)},
	}
	assert.True(t, tb.Foots())

	tb[0].TotalDebit = decimal.NewFromInt(499)
	assert.False(t, tb.Foots())

	assert.True(t, TrialBalance(nil).Foots(), "empty trial balance foots")
}
