package model

import "github.com/shopspring/decimal"

// TrialBalanceRow holds the summed debits and credits of one account.
type TrialBalanceRow struct {
	Account     string
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// TrialBalance is ordered by first appearance of each account in the ledger.
type TrialBalance []TrialBalanceRow

// Totals sums every row.
func (tb TrialBalance) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, row := range tb {
		debit = debit.Add(row.TotalDebit)
		credit = credit.Add(row.TotalCredit)
	}
	return debit, credit
}

// Foots reports whether total debits equal total credits.
func (tb TrialBalance) Foots() bool {
	debit, credit := tb.Totals()
	return debit.Equal(credit)
}
