package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerly/internal/buildinfo"
)

type rootOptions struct {
	repoDir string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "ledgerly",
		Short:   "Double-entry journal, ledger and trial balance in plain text",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.repoDir, "repo", ".", "books directory")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newRecordCommand(opts))
	rootCmd.AddCommand(newImportCommand(opts))
	rootCmd.AddCommand(newRebuildCommand(opts))
	rootCmd.AddCommand(newJournalCommand(opts))
	rootCmd.AddCommand(newLedgerCommand(opts))
	rootCmd.AddCommand(newTrialBalanceCommand(opts))
	rootCmd.AddCommand(newHistoryCommand(opts))

	return rootCmd
}
