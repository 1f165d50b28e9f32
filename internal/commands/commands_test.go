package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerly/internal/commands"
	"github.com/cleared-dev/ledgerly/internal/runlog"
)

func runLedgerly(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func initBooks(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := runLedgerly(t, "init", dir)
	require.NoError(t, err)
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	out, err := runLedgerly(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized books at")

	for _, f := range []string{"ledgerly.yaml", "journal.txt", "ledger.txt", "trial_balance.txt",
		filepath.Join("rules", "classification-rules.yaml")} {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, "%s should exist", f)
	}
	for _, d := range []string{"logs", "import"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	assert.Equal(t, "Date | Description | DR Account | CR Account | Amount\n",
		readFile(t, filepath.Join(dir, "journal.txt")))
}

func TestInit_RefusesExisting(t *testing.T) {
	dir := initBooks(t)
	_, err := runLedgerly(t, "init", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInit_StrictPolicy(t *testing.T) {
	dir := t.TempDir()
	_, err := runLedgerly(t, "init", dir, "--policy", "strict")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, filepath.Join(dir, "ledgerly.yaml")), "policy: strict")
}

func TestInit_BadPolicy(t *testing.T) {
	_, err := runLedgerly(t, "init", t.TempDir(), "--policy", "sloppy")
	require.Error(t, err)
}

func TestRecord_Explicit(t *testing.T) {
	dir := initBooks(t)
	out, err := runLedgerly(t, "--repo", dir, "record", "Paid rent",
		"--date", "2024-01-05", "--debit", "Rent Expense", "--credit", "Cash", "--amount", "500")
	require.NoError(t, err)
	assert.Contains(t, out, "rule: manual")

	assert.Contains(t, readFile(t, filepath.Join(dir, "journal.txt")),
		"2024-01-05 | Paid rent | Rent Expense | Cash | 500.00\n")
}

func TestRecord_Classified(t *testing.T) {
	dir := initBooks(t)
	out, err := runLedgerly(t, "--repo", dir, "record", "Took a bank loan of 1,000", "--date", "2024-02-01")
	require.NoError(t, err)
	assert.Contains(t, out, "rule: loan")

	assert.Contains(t, readFile(t, filepath.Join(dir, "journal.txt")),
		"2024-02-01 | Took a bank loan of 1,000 | Loan | Bank | 1000.00\n")
}

func TestRecord_NoAmount(t *testing.T) {
	dir := initBooks(t)
	_, err := runLedgerly(t, "--repo", dir, "record", "Bought supplies")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--amount")
}

func TestRecord_EscapesPipe(t *testing.T) {
	dir := initBooks(t)
	_, err := runLedgerly(t, "--repo", dir, "record", "Rent | January",
		"--date", "2024-01-05", "--debit", "Rent Expense", "--credit", "Cash", "--amount", "500")
	require.NoError(t, err)

	out, err := runLedgerly(t, "--repo", dir, "journal")
	require.NoError(t, err)
	assert.Contains(t, out, "Rent | January")
}

func TestRebuild_RentScenario(t *testing.T) {
	dir := initBooks(t)
	_, err := runLedgerly(t, "--repo", dir, "record", "Rent",
		"--date", "2024-01-05", "--debit", "Rent Expense", "--credit", "Cash", "--amount", "500")
	require.NoError(t, err)

	out, err := runLedgerly(t, "--repo", dir, "rebuild")
	require.NoError(t, err)
	assert.Contains(t, out, "2 postings, 2 accounts")
	assert.Contains(t, out, "Trial balance foots: 500.00 = 500.00")

	assert.Equal(t,
		"2024-01-05 | Rent | Rent Expense | Dr | 500.00\n"+
			"2024-01-05 | Rent | Cash | Cr | 500.00\n",
		readFile(t, filepath.Join(dir, "ledger.txt")))
	assert.Equal(t,
		"Rent Expense | 500.00 | 0.00\n"+
			"Cash | 0.00 | 500.00\n",
		readFile(t, filepath.Join(dir, "trial_balance.txt")))

	logs, err := runlog.Read(filepath.Join(dir, "logs", "rebuild-log.csv"))
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 1, logs[0].Entries)
	assert.True(t, logs[0].Foots())
}

func TestRebuild_ReportsSkippedLines(t *testing.T) {
	dir := initBooks(t)
	f, err := os.OpenFile(filepath.Join(dir, "journal.txt"), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("2024-01-01 | Capital | Cash | Capital | 100.00\nnot a record\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	out, err := runLedgerly(t, "--repo", dir, "rebuild")
	require.NoError(t, err)
	assert.Contains(t, out, "Skipped 1 malformed journal line(s)")
	assert.Contains(t, out, "line 3:")
}

func TestRebuild_StrictFails(t *testing.T) {
	dir := t.TempDir()
	_, err := runLedgerly(t, "init", dir, "--policy", "strict")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "journal.txt"),
		[]byte("Date | Description | DR Account | CR Account | Amount\nbroken\n"), 0o644))

	_, err = runLedgerly(t, "--repo", dir, "rebuild")
	require.Error(t, err)
}

func TestTrialBalance_AggregatesAccount(t *testing.T) {
	dir := initBooks(t)
	_, err := runLedgerly(t, "--repo", dir, "record", "Owner investment",
		"--date", "2024-01-01", "--debit", "Cash", "--credit", "Capital", "--amount", "100")
	require.NoError(t, err)
	_, err = runLedgerly(t, "--repo", dir, "record", "Office supplies",
		"--date", "2024-01-02", "--debit", "Supplies", "--credit", "Cash", "--amount", "40")
	require.NoError(t, err)

	out, err := runLedgerly(t, "--repo", dir, "trial-balance")
	require.NoError(t, err)

	var cashRows []string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Cash") {
			cashRows = append(cashRows, line)
		}
	}
	require.Len(t, cashRows, 1)
	assert.Contains(t, cashRows[0], "100.00")
	assert.Contains(t, cashRows[0], "40.00")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "140.00")
}

func TestLedger_AccountFilter(t *testing.T) {
	dir := initBooks(t)
	_, err := runLedgerly(t, "--repo", dir, "record", "Rent",
		"--date", "2024-01-05", "--debit", "Rent Expense", "--credit", "Cash", "--amount", "500")
	require.NoError(t, err)

	out, err := runLedgerly(t, "--repo", dir, "ledger", "--account", "Cash")
	require.NoError(t, err)
	assert.Contains(t, out, "Cr")
	assert.NotContains(t, out, "Rent Expense")
}

func TestImport_Folder(t *testing.T) {
	dir := initBooks(t)
	csv := "date,description,debit_account,credit_account,amount\n" +
		"2024-01-01,Owner investment,Cash,Capital,100.00\n" +
		"2024-01-02,Office supplies,Supplies,Cash,40.00\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "batch.csv"), []byte(csv), 0o644))

	out, err := runLedgerly(t, "--repo", dir, "import")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 entries from batch.csv")

	_, err = os.Stat(filepath.Join(dir, "import", "processed", "batch.csv"))
	assert.NoError(t, err)
	assert.Contains(t, readFile(t, filepath.Join(dir, "journal.txt")),
		"2024-01-02 | Office supplies | Supplies | Cash | 40.00\n")
}

func TestImport_BadFileAppendsNothing(t *testing.T) {
	dir := initBooks(t)
	path := filepath.Join(t.TempDir(), "bad.csv")
	csv := "2024-01-01,Owner investment,Cash,Capital,100.00\n" +
		"2024-01-02,Broken,Supplies,Cash,abc\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	_, err := runLedgerly(t, "--repo", dir, "import", path)
	require.Error(t, err)
	assert.Equal(t, "Date | Description | DR Account | CR Account | Amount\n",
		readFile(t, filepath.Join(dir, "journal.txt")))
}

func TestImport_Empty(t *testing.T) {
	dir := initBooks(t)
	out, err := runLedgerly(t, "--repo", dir, "import")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to import")
}

func TestRecord_AmountFlagWithClassifiedAccounts(t *testing.T) {
	dir := initBooks(t)
	out, err := runLedgerly(t, "--repo", dir, "record", "Took a bank loan",
		"--date", "2024-03-01", "--amount", "250")
	require.NoError(t, err)
	assert.Contains(t, out, "rule: loan")

	assert.Contains(t, readFile(t, filepath.Join(dir, "journal.txt")),
		"2024-03-01 | Took a bank loan | Loan | Bank | 250.00\n")
}

func TestLedger_Saved(t *testing.T) {
	dir := initBooks(t)
	_, err := runLedgerly(t, "--repo", dir, "record", "Rent",
		"--date", "2024-01-05", "--debit", "Rent Expense", "--credit", "Cash", "--amount", "500")
	require.NoError(t, err)

	out, err := runLedgerly(t, "--repo", dir, "ledger", "--saved")
	require.NoError(t, err)
	assert.NotContains(t, out, "Rent Expense", "nothing persisted before a rebuild")

	_, err = runLedgerly(t, "--repo", dir, "rebuild")
	require.NoError(t, err)
	out, err = runLedgerly(t, "--repo", dir, "ledger", "--saved")
	require.NoError(t, err)
	assert.Contains(t, out, "Rent Expense")
	assert.Contains(t, out, "500.00")
}

func TestHistory(t *testing.T) {
	dir := initBooks(t)
	out, err := runLedgerly(t, "--repo", dir, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No rebuilds logged")

	_, err = runLedgerly(t, "--repo", dir, "record", "Rent",
		"--date", "2024-01-05", "--debit", "Rent Expense", "--credit", "Cash", "--amount", "500")
	require.NoError(t, err)
	_, err = runLedgerly(t, "--repo", dir, "rebuild")
	require.NoError(t, err)

	out, err = runLedgerly(t, "--repo", dir, "history")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "500.00")
	assert.Contains(t, lines[1], "yes")
}
