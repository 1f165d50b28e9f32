// Package record implements the pipe-delimited line format shared by the
// journal, ledger and trial balance files.
//
// Fields are joined with " | ". A literal pipe, backslash, newline or carriage
// return inside a field is escaped with a backslash so that free text can never
// change the field count of a line. Lines written before escaping existed parse
// unchanged as long as they contain no backslashes.
package record

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Separator joins fields on a line.
const Separator = " | "

const dateFormat = "2006-01-02"

var (
	// ErrFieldCount reports a line that does not split into the expected fields.
	ErrFieldCount = errors.New("wrong number of fields")
	// ErrNegativeAmount reports an amount below zero.
	ErrNegativeAmount = errors.New("negative amount")
)

var escaper = strings.NewReplacer(`\`, `\\`, `|`, `\|`, "\n", `\n`, "\r", `\r`)

// Join escapes each field and joins them into one line (without newline).
func Join(fields ...string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = escaper.Replace(f)
	}
	return strings.Join(escaped, Separator)
}

// Split breaks a line on unescaped pipes, trims surrounding spaces from each
// field and unescapes it.
func Split(line string) []string {
	var fields []string
	start := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '|':
			fields = append(fields, unescape(strings.TrimSpace(line[start:i])))
			start = i + 1
		}
	}
	start = min(start, len(line))
	return append(fields, unescape(strings.TrimSpace(line[start:])))
}

// SplitN is Split with a field count check.
func SplitN(line string, n int) ([]string, error) {
	fields := Split(line)
	if len(fields) != n {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrFieldCount, n, len(fields))
	}
	return fields, nil
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateFormat)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// FormatAmount renders an amount with exactly two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// ParseAmount parses a general decimal and rejects negative values.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("amount %q: %w", s, ErrNegativeAmount)
	}
	return d, nil
}
