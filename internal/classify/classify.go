// Package classify turns a free-text transaction description into the
// account pair and amount of a journal entry.
package classify

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrNoAmount is returned when a description contains no number.
var ErrNoAmount = errors.New("no amount found in description")

// Classification is the structured input the journal needs.
type Classification struct {
	DebitAccount  string
	CreditAccount string
	Amount        decimal.Decimal
	Rule          string // name of the matching rule, "fallback" otherwise
}

// Classifier classifies transaction descriptions. When the description holds
// no amount it returns ErrNoAmount together with the accounts it chose.
type Classifier interface {
	Classify(description string) (Classification, error)
}

// Accounts is a debit/credit pair.
type Accounts struct {
	Debit  string `yaml:"debit"`
	Credit string `yaml:"credit"`
}

// Rule maps descriptions containing any keyword to an account pair.
type Rule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Accounts `yaml:",inline"`
}

// Rules is the content of classification-rules.yaml. Rules are tried in order.
type Rules struct {
	Rules    []Rule   `yaml:"rules"`
	Fallback Accounts `yaml:"fallback"`
}

// DefaultRules returns the built-in keyword rules.
func DefaultRules() Rules {
	return Rules{
		Rules: []Rule{
			{Name: "loan", Keywords: []string{"loan"}, Accounts: Accounts{Debit: "Loan", Credit: "Bank"}},
			{Name: "revenue", Keywords: []string{"revenue", "earned"}, Accounts: Accounts{Debit: "Accounts Receivable", Credit: "Service Income"}},
			{Name: "capital", Keywords: []string{"capital", "startup"}, Accounts: Accounts{Debit: "Cash", Credit: "Capital"}},
			{Name: "llc", Keywords: []string{"llc"}, Accounts: Accounts{Debit: "Cash", Credit: "Capital"}},
		},
		Fallback: Accounts{Debit: "Cash", Credit: "Capital"},
	}
}

// LoadRules reads a rules file.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("reading rules: %w", err)
	}
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parsing rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

// SaveRules writes a rules file.
func SaveRules(path string, rules Rules) error {
	data, err := yaml.Marshal(rules)
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	return nil
}

// Validate requires both accounts on every rule and on the fallback.
func (r Rules) Validate() error {
	for i, rule := range r.Rules {
		if rule.Debit == "" || rule.Credit == "" {
			return fmt.Errorf("rule %d (%s): debit and credit are required", i, rule.Name)
		}
		if len(rule.Keywords) == 0 {
			return fmt.Errorf("rule %d (%s): no keywords", i, rule.Name)
		}
	}
	if r.Fallback.Debit == "" || r.Fallback.Credit == "" {
		return errors.New("fallback: debit and credit are required")
	}
	return nil
}

// RuleClassifier matches keywords case-insensitively, first rule wins.
type RuleClassifier struct {
	rules Rules
}

// New creates a RuleClassifier.
func New(rules Rules) *RuleClassifier {
	return &RuleClassifier{rules: rules}
}

// Classify implements Classifier.
func (c *RuleClassifier) Classify(description string) (Classification, error) {
	accts, rule := c.Match(description)
	cl := Classification{
		DebitAccount:  accts.Debit,
		CreditAccount: accts.Credit,
		Rule:          rule,
	}
	amount, err := ExtractAmount(description)
	if err != nil {
		return cl, err
	}
	cl.Amount = amount
	return cl, nil
}

// Match returns the account pair for description and the name of the rule
// that produced it.
func (c *RuleClassifier) Match(description string) (Accounts, string) {
	lower := strings.ToLower(description)
	for _, rule := range c.rules.Rules {
		for _, kw := range rule.Keywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				return rule.Accounts, rule.Name
			}
		}
	}
	return c.rules.Fallback, "fallback"
}

var amountRe = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// ExtractAmount returns the first number in s. Thousands separators are
// allowed ("1,200.50").
func ExtractAmount(s string) (decimal.Decimal, error) {
	m := amountRe.FindString(s)
	if m == "" {
		return decimal.Decimal{}, ErrNoAmount
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", m, err)
	}
	return d, nil
}
