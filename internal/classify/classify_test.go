package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_DefaultRules(t *testing.T) {
	c := New(DefaultRules())

	tests := []struct {
		desc   string
		debit  string
		credit string
		amount string
		rule   string
	}{
		{"Took a bank loan of 5000", "Loan", "Bank", "5000.00", "loan"},
		{"Earned 1200 from consulting", "Accounts Receivable", "Service Income", "1200.00", "revenue"},
		{"Revenue of $1,250.50 invoiced", "Accounts Receivable", "Service Income", "1250.50", "revenue"},
		{"Startup capital 10000 deposited", "Cash", "Capital", "10000.00", "capital"},
		{"Formed the LLC with 300", "Cash", "Capital", "300.00", "llc"},
		{"Something else 42", "Cash", "Capital", "42.00", "fallback"},
	}
	for _, tt := range tests {
		got, err := c.Classify(tt.desc)
		require.NoError(t, err, tt.desc)
		assert.Equal(t, tt.debit, got.DebitAccount, tt.desc)
		assert.Equal(t, tt.credit, got.CreditAccount, tt.desc)
		assert.Equal(t, tt.amount, got.Amount.StringFixed(2), tt.desc)
		assert.Equal(t, tt.rule, got.Rule, tt.desc)
	}
}

func TestClassify_FirstRuleWins(t *testing.T) {
	got, err := New(DefaultRules()).Classify("Loan revenue 10")
	require.NoError(t, err)
	assert.Equal(t, "loan", got.Rule)
}

func TestClassify_NoAmount(t *testing.T) {
	got, err := New(DefaultRules()).Classify("Took a loan")
	require.ErrorIs(t, err, ErrNoAmount)
	assert.Equal(t, "Loan", got.DebitAccount)
	assert.Equal(t, "Bank", got.CreditAccount)
	assert.True(t, got.Amount.IsZero())
}

func TestExtractAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"paid 500 for rent", "500"},
		{"paid 12.5 then 99", "12.5"},
		{"1,000,000 raised", "1000000"},
	}
	for _, tt := range tests {
		got, err := ExtractAmount(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.String(), tt.in)
	}
}

func TestRulesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, SaveRules(path, DefaultRules()))

	got, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultRules(), got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "debit: Loan")
}

func TestLoadRules_Custom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `rules:
  - name: rent
    keywords: [rent]
    debit: Rent Expense
    credit: Cash
fallback:
  debit: Suspense
  credit: Cash
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)

	c := New(rules)
	got, err := c.Classify("Office RENT payment 500")
	require.NoError(t, err)
	assert.Equal(t, "Rent Expense", got.DebitAccount)
	assert.Equal(t, "Cash", got.CreditAccount)

	got, err = c.Classify("mystery 1")
	require.NoError(t, err)
	assert.Equal(t, "Suspense", got.DebitAccount)
}

func TestLoadRules_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - name: x\n    keywords: [x]\n    debit: A\n"), 0o644))
	_, err := LoadRules(path)
	require.Error(t, err)
}

func TestMatch_WithoutAmount(t *testing.T) {
	accts, rule := New(DefaultRules()).Match("Paid back the LOAN")
	assert.Equal(t, "loan", rule)
	assert.Equal(t, Accounts{Debit: "Loan", Credit: "Bank"}, accts)
}
