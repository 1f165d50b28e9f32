package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerly/internal/record"
)

func newRebuildCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Regenerate the ledger and trial balance from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, root.repoDir)
			if err != nil {
				return err
			}
			report, err := s.rebuild()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Rebuilt ledger (%d postings, %d accounts) from %d journal entries\n",
				report.Ledger.Len(), len(report.TrialBalance), report.Entries)
			if n := len(report.Skipped); n > 0 {
				fmt.Fprintf(out, "Skipped %d malformed journal line(s):\n", n)
				for _, sk := range report.Skipped {
					fmt.Fprintf(out, "  line %d: %s\n", sk.Line, sk.Reason)
				}
			}

			debit, credit := report.TrialBalance.Totals()
			if report.Foots() {
				fmt.Fprintf(out, "Trial balance foots: %s = %s\n", record.FormatAmount(debit), record.FormatAmount(credit))
				return nil
			}
			return fmt.Errorf("trial balance does not foot: debit %s, credit %s",
				record.FormatAmount(debit), record.FormatAmount(credit))
		},
	}
}
