// Package importer loads batches of journal entries from CSV files dropped
// into the books directory's import/ folder.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/ledgerly/internal/model"
	"github.com/cleared-dev/ledgerly/internal/record"
)

// Header is the expected first row of an import CSV.
const Header = "date,description,debit_account,credit_account,amount"

const (
	numFields = 5
	colDate   = 0
	colDesc   = 1
	colDebit  = 2
	colCredit = 3
	colAmount = 4
)

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// Parse reads journal entries from an import CSV. The header row is optional.
// Unlike the journal reader, any bad row fails the whole file so that a batch
// is imported completely or not at all.
func Parse(r io.Reader) ([]model.JournalEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import CSV: %w", err)
	}

	if len(records) > 0 && strings.EqualFold(strings.TrimSpace(records[0][colDate]), "date") {
		records = records[1:]
	}

	var entries []model.JournalEntry
	for i, rec := range records {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// UnmarshalEntry converts a CSV row to a JournalEntry.
func UnmarshalEntry(rec []string) (model.JournalEntry, error) {
	if len(rec) != numFields {
		return model.JournalEntry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(rec))
	}

	date, err := record.ParseDate(strings.TrimSpace(rec[colDate]))
	if err != nil {
		return model.JournalEntry{}, err
	}
	amount, err := record.ParseAmount(strings.TrimSpace(rec[colAmount]))
	if err != nil {
		return model.JournalEntry{}, err
	}

	e := model.JournalEntry{
		Date:          date,
		Description:   strings.TrimSpace(rec[colDesc]),
		DebitAccount:  strings.TrimSpace(rec[colDebit]),
		CreditAccount: strings.TrimSpace(rec[colCredit]),
		Amount:        amount,
	}
	if e.DebitAccount == "" || e.CreditAccount == "" {
		return model.JournalEntry{}, fmt.Errorf("debit and credit accounts are required")
	}
	return e, nil
}

// ParseFile opens and parses one import file.
func ParseFile(path string) ([]model.JournalEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return entries, nil
}

// importDir is the subdirectory for import CSVs.
const importDir = "import"

// processedDir is the subdirectory for processed CSVs.
const processedDir = "import/processed"

// Scan returns CSV files in <root>/import/, sorted by name.
func Scan(root string) ([]FileInfo, error) {
	dir := filepath.Join(root, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, importDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
