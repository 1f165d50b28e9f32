package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerly/internal/books"
	"github.com/cleared-dev/ledgerly/internal/classify"
	"github.com/cleared-dev/ledgerly/internal/config"
	"github.com/cleared-dev/ledgerly/internal/gitops"
	"github.com/cleared-dev/ledgerly/internal/logging"
	"github.com/cleared-dev/ledgerly/internal/runlog"
)

// session is everything a command needs to work on one books directory.
type session struct {
	root   string
	cfg    *config.Config
	paths  config.Paths
	logger *slog.Logger
	books  *books.Books
}

func openSession(cmd *cobra.Command, repoDir string) (*session, error) {
	root, err := filepath.Abs(repoDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.LoadDir(root)
	if err != nil {
		return nil, err
	}

	logger := logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	paths := cfg.Paths(root)

	return &session{
		root:   root,
		cfg:    cfg,
		paths:  paths,
		logger: logger,
		books:  books.New(paths, cfg.Policy(), logger),
	}, nil
}

// classifier loads the configured rules, falling back to the built-in ones.
func (s *session) classifier() (classify.Classifier, error) {
	rules, err := classify.LoadRules(s.paths.Rules)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("no classification rules file, using defaults", "path", s.paths.Rules)
		return classify.New(classify.DefaultRules()), nil
	}
	if err != nil {
		return nil, err
	}
	return classify.New(rules), nil
}

// rebuild regenerates ledger and trial balance and records the run.
func (s *session) rebuild() (*books.Report, error) {
	report, err := s.books.Rebuild()
	if err != nil {
		return nil, err
	}

	entry := runlog.NewEntry()
	entry.Entries = report.Entries
	entry.Postings = report.Ledger.Len()
	entry.Accounts = len(report.TrialBalance)
	entry.Skipped = len(report.Skipped)
	entry.TotalDebit, entry.TotalCredit = report.TrialBalance.Totals()
	if err := runlog.Append(s.paths.RunLog, []runlog.Entry{entry}); err != nil {
		s.logger.Warn("failed to write rebuild log", "error", err)
	}
	return report, nil
}

// commitJournal commits the journal when auto-commit is on.
func (s *session) commitJournal(message string) {
	if !s.cfg.Git.AutoCommit {
		return
	}
	if !gitops.IsRepo(s.root) {
		s.logger.Warn("auto_commit is enabled but the books directory is not a git repository", "dir", s.root)
		return
	}
	author := gitops.Author{Name: s.cfg.Git.AuthorName, Email: s.cfg.Git.AuthorEmail}
	hash, err := gitops.Commit(s.root, message, author, s.paths.Journal)
	if err != nil {
		s.logger.Warn("git commit failed", "error", err)
		return
	}
	if hash != "" {
		s.logger.Info("committed journal", "commit", hash)
	}
}
