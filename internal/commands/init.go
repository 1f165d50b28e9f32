package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerly/internal/books"
	"github.com/cleared-dev/ledgerly/internal/classify"
	"github.com/cleared-dev/ledgerly/internal/config"
	"github.com/cleared-dev/ledgerly/internal/gitops"
	"github.com/cleared-dev/ledgerly/internal/logging"
)

func newInitCommand() *cobra.Command {
	var withGit bool
	var policy string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new books directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, policy, withGit); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized books at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&withGit, "git", false, "initialize a git repository and auto-commit journal changes")
	cmd.Flags().StringVar(&policy, "policy", "lenient", "malformed line policy: lenient or strict")

	return cmd
}

func runInit(dir, policy string, withGit bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	for _, d := range []string{"rules", "logs", "import"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default()
	cfg.Parsing.Policy = policy
	cfg.Git.AutoCommit = withGit
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	paths := cfg.Paths(dir)
	if err := classify.SaveRules(paths.Rules, classify.DefaultRules()); err != nil {
		return fmt.Errorf("writing classification rules: %w", err)
	}

	if err := books.New(paths, cfg.Policy(), logging.Discard()).Init(); err != nil {
		return fmt.Errorf("creating books: %w", err)
	}

	if !withGit {
		return nil
	}

	gitignore := "logs/\nimport/processed/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	if err := gitops.Init(dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	if _, err := gitops.Commit(dir, "init: new books", author); err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}
	return nil
}
