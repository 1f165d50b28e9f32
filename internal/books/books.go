// Package books runs the journal -> ledger -> trial balance pipeline over a
// books directory. Ledger and trial balance are always recomputed in full
// from the journal; nothing is cached between calls.
package books

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/cleared-dev/ledgerly/internal/config"
	"github.com/cleared-dev/ledgerly/internal/journal"
	"github.com/cleared-dev/ledgerly/internal/ledger"
	"github.com/cleared-dev/ledgerly/internal/model"
	"github.com/cleared-dev/ledgerly/internal/pathlock"
	"github.com/cleared-dev/ledgerly/internal/record"
	"github.com/cleared-dev/ledgerly/internal/trialbalance"
)

// Books owns the three text stores of one books directory.
type Books struct {
	journal *journal.Store
	ledger  *ledger.Store
	trial   *trialbalance.Store
	logger  *slog.Logger
}

// Report describes one rebuild.
type Report struct {
	Entries      int
	Ledger       *model.Ledger
	TrialBalance model.TrialBalance
	Skipped      []record.SkippedLine
}

// Foots reports whether the rebuilt trial balance balances.
func (r *Report) Foots() bool {
	return r.TrialBalance.Foots()
}

// New creates Books for the resolved paths.
func New(paths config.Paths, policy record.Policy, logger *slog.Logger) *Books {
	return &Books{
		journal: journal.NewStore(paths.Journal, policy),
		ledger:  ledger.NewStore(paths.Ledger, policy),
		trial:   trialbalance.NewStore(paths.TrialBalance, policy),
		logger:  logger,
	}
}

// Init creates any missing store: the journal with its header, the ledger
// and trial balance empty.
func (b *Books) Init() error {
	if err := b.journal.Ensure(); err != nil {
		return err
	}
	if missing(b.ledger.Path()) {
		if err := b.ledger.Persist(model.NewLedger()); err != nil {
			return err
		}
	}
	if missing(b.trial.Path()) {
		if err := b.trial.Persist(nil); err != nil {
			return err
		}
	}
	return nil
}

// Record appends entries to the journal.
func (b *Books) Record(entries ...model.JournalEntry) error {
	if err := b.journal.Append(entries...); err != nil {
		return err
	}
	for _, e := range entries {
		b.logger.Info("recorded journal entry",
			"date", record.FormatDate(e.Date),
			"debit", e.DebitAccount,
			"credit", e.CreditAccount,
			"amount", record.FormatAmount(e.Amount))
	}
	return nil
}

// Journal returns every journal entry in append order.
func (b *Books) Journal() ([]model.JournalEntry, error) {
	entries, skipped, err := b.journal.LoadAll()
	if err != nil {
		return nil, err
	}
	b.logSkipped(b.journal.Path(), skipped)
	return entries, nil
}

// Rebuild regenerates the ledger from the current journal, then the trial
// balance from that ledger, replacing both files. Concurrent rebuilds of the
// same ledger path are serialized.
func (b *Books) Rebuild() (*Report, error) {
	unlock := pathlock.Lock(b.ledger.Path() + ".rebuild")
	defer unlock()

	entries, skipped, err := b.journal.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("rebuild: %w", err)
	}
	b.logSkipped(b.journal.Path(), skipped)

	l := ledger.Build(entries)
	if err := b.ledger.Persist(l); err != nil {
		return nil, fmt.Errorf("rebuild: %w", err)
	}

	tb := trialbalance.FromLedger(l)
	if err := b.trial.Persist(tb); err != nil {
		return nil, fmt.Errorf("rebuild: %w", err)
	}

	report := &Report{Entries: len(entries), Ledger: l, TrialBalance: tb, Skipped: skipped}
	debit, credit := tb.Totals()
	b.logger.Info("rebuilt ledger and trial balance",
		"entries", report.Entries,
		"postings", l.Len(),
		"accounts", len(tb),
		"skipped", len(skipped),
		"total_debit", record.FormatAmount(debit),
		"total_credit", record.FormatAmount(credit))
	if !report.Foots() {
		b.logger.Error("trial balance does not foot",
			"total_debit", record.FormatAmount(debit),
			"total_credit", record.FormatAmount(credit))
	}
	return report, nil
}

// Ledger rebuilds and returns the ledger.
func (b *Books) Ledger() (*model.Ledger, error) {
	report, err := b.Rebuild()
	if err != nil {
		return nil, err
	}
	return report.Ledger, nil
}

// TrialBalance rebuilds and returns the trial balance.
func (b *Books) TrialBalance() (model.TrialBalance, error) {
	report, err := b.Rebuild()
	if err != nil {
		return nil, err
	}
	return report.TrialBalance, nil
}

// SavedLedger returns the ledger as last persisted, without rebuilding.
func (b *Books) SavedLedger() (*model.Ledger, []record.SkippedLine, error) {
	postings, skipped, err := b.ledger.LoadAll()
	if err != nil {
		return nil, skipped, err
	}
	b.logSkipped(b.ledger.Path(), skipped)
	return ledger.FromPostings(postings), skipped, nil
}

// Paths of the underlying stores, in pipeline order.
func (b *Books) Paths() (journalPath, ledgerPath, trialBalancePath string) {
	return b.journal.Path(), b.ledger.Path(), b.trial.Path()
}

func (b *Books) logSkipped(resource string, skipped []record.SkippedLine) {
	for _, s := range skipped {
		b.logger.Warn("skipped malformed line",
			"resource", resource,
			"line", s.Line,
			"reason", s.Reason)
	}
}

func missing(path string) bool {
	_, err := os.Stat(path)
	return errors.Is(err, fs.ErrNotExist)
}
