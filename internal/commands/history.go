package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerly/internal/record"
	"github.com/cleared-dev/ledgerly/internal/runlog"
)

func newHistoryCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show past rebuilds from the rebuild log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, root.repoDir)
			if err != nil {
				return err
			}
			runs, err := runlog.Read(s.paths.RunLog)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No rebuilds logged")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tRUN\tENTRIES\tPOSTINGS\tACCOUNTS\tSKIPPED\tDEBIT\tCREDIT\tFOOTS")
			for _, r := range runs {
				foots := "yes"
				if !r.Foots() {
					foots = "NO"
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%s\t%s\t%s\n",
					r.Timestamp.Local().Format(time.DateTime), r.RunID.String()[:8],
					r.Entries, r.Postings, r.Accounts, r.Skipped,
					record.FormatAmount(r.TotalDebit), record.FormatAmount(r.TotalCredit), foots)
			}
			return tw.Flush()
		},
	}
}
