package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerly/internal/model"
	"github.com/cleared-dev/ledgerly/internal/record"
)

func newJournalCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "journal",
		Short: "Show journal entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, root.repoDir)
			if err != nil {
				return err
			}
			entries, err := s.books.Journal()
			if err != nil {
				return err
			}
			return printJournal(cmd.OutOrStdout(), entries)
		},
	}
}

func newLedgerCommand(root *rootOptions) *cobra.Command {
	var account string
	var saved bool

	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Rebuild and show the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, root.repoDir)
			if err != nil {
				return err
			}
			if saved {
				l, _, err := s.books.SavedLedger()
				if err != nil {
					return err
				}
				return printLedger(cmd.OutOrStdout(), l, account)
			}
			report, err := s.rebuild()
			if err != nil {
				return err
			}
			return printLedger(cmd.OutOrStdout(), report.Ledger, account)
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "only show this account")
	cmd.Flags().BoolVar(&saved, "saved", false, "show the persisted ledger without rebuilding")
	return cmd
}

func newTrialBalanceCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "trial-balance",
		Aliases: []string{"tb"},
		Short:   "Rebuild and show the trial balance",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, root.repoDir)
			if err != nil {
				return err
			}
			report, err := s.rebuild()
			if err != nil {
				return err
			}
			return printTrialBalance(cmd.OutOrStdout(), report.TrialBalance)
		},
	}
}

func printJournal(w io.Writer, entries []model.JournalEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tDESCRIPTION\tDR ACCOUNT\tCR ACCOUNT\tAMOUNT")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			record.FormatDate(e.Date), e.Description, e.DebitAccount, e.CreditAccount, record.FormatAmount(e.Amount))
	}
	return tw.Flush()
}

func printLedger(w io.Writer, l *model.Ledger, only string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tDESCRIPTION\tACCOUNT\tSIDE\tAMOUNT")
	for _, acct := range l.Accounts() {
		if only != "" && acct != only {
			continue
		}
		for _, p := range l.Postings(acct) {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				record.FormatDate(p.Date), p.Description, p.Account, p.Side, record.FormatAmount(p.Amount))
		}
	}
	return tw.Flush()
}

func printTrialBalance(w io.Writer, tb model.TrialBalance) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "S/N\tACCOUNT\tDEBIT\tCREDIT\t")
	for i, row := range tb {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t\n",
			i+1, row.Account, record.FormatAmount(row.TotalDebit), record.FormatAmount(row.TotalCredit))
	}
	debit, credit := tb.Totals()
	fmt.Fprintf(tw, "\tTOTAL\t%s\t%s\t\n", record.FormatAmount(debit), record.FormatAmount(credit))
	return tw.Flush()
}
