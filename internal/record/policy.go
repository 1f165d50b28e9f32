package record

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Policy decides what happens to a line that cannot be parsed.
type Policy string

const (
	// Lenient skips malformed lines and reports them as SkippedLine.
	Lenient Policy = "lenient"
	// Strict aborts the read on the first malformed line.
	Strict Policy = "strict"
)

// ParsePolicy validates a policy name. The empty string means Lenient.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case Lenient, "":
		return Lenient, nil
	case Strict:
		return Strict, nil
	default:
		return "", fmt.Errorf("unknown parse policy %q", s)
	}
}

// MalformedRecordError describes a line that could not be parsed.
type MalformedRecordError struct {
	Resource string
	Line     int
	Text     string
	Err      error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s line %d: malformed record %q: %v", e.Resource, e.Line, e.Text, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// SkippedLine is a malformed line dropped under the Lenient policy.
type SkippedLine struct {
	Line   int
	Text   string
	Reason string
}

// maxLineSize bounds a single record line. Longer lines are malformed.
const maxLineSize = 1 << 20

// ErrLineTooLong marks a line longer than the record size limit.
var ErrLineTooLong = errors.New("line too long")

// Scanner reads records line by line, skipping blank lines and any line equal
// to Header, and applies Policy when the parse callback fails.
type Scanner struct {
	Resource string
	Header   string
	Policy   Policy
}

// Scan calls parse for every record line in r. Under Lenient, parse errors and
// over-long lines are collected and returned as skipped lines; under Strict
// the first one is returned as a *MalformedRecordError. Read errors are always
// returned.
func (s Scanner) Scan(r io.Reader, parse func(line string) error) ([]SkippedLine, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	var skipped []SkippedLine
	lineNo := 0
	for {
		raw, tooLong, readErr := readLine(br)
		if readErr != nil && readErr != io.EOF {
			return skipped, fmt.Errorf("reading %s: %w", s.Resource, readErr)
		}
		if readErr == io.EOF && raw == "" && !tooLong {
			return skipped, nil
		}
		lineNo++

		text := strings.TrimSpace(raw)
		var err error
		switch {
		case tooLong:
			err = ErrLineTooLong
		case text == "" || (s.Header != "" && text == s.Header):
		default:
			err = parse(text)
		}
		if err != nil {
			if s.Policy == Strict {
				return skipped, &MalformedRecordError{Resource: s.Resource, Line: lineNo, Text: text, Err: err}
			}
			skipped = append(skipped, SkippedLine{Line: lineNo, Text: text, Reason: err.Error()})
		}

		if readErr == io.EOF {
			return skipped, nil
		}
	}
}

// readLine returns the next line without its terminator. A line over
// maxLineSize is consumed in full, only its first bytes are kept and the
// second result is true.
func readLine(br *bufio.Reader) (string, bool, error) {
	const keep = 80
	var buf []byte
	n := 0
	for {
		chunk, err := br.ReadSlice('\n')
		n += len(chunk)
		if len(buf) < maxLineSize+1 {
			buf = append(buf, chunk...)
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		line := strings.TrimRight(string(buf), "\r\n")
		if n > maxLineSize+2 || len(line) > maxLineSize {
			if len(line) > keep {
				line = line[:keep]
			}
			return line, true, err
		}
		return line, false, err
	}
}
