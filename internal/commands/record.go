package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerly/internal/classify"
	"github.com/cleared-dev/ledgerly/internal/journal"
	"github.com/cleared-dev/ledgerly/internal/model"
	"github.com/cleared-dev/ledgerly/internal/record"
)

type recordOptions struct {
	date   string
	debit  string
	credit string
	amount string
}

func newRecordCommand(root *rootOptions) *cobra.Command {
	opts := &recordOptions{}

	cmd := &cobra.Command{
		Use:   "record <description>",
		Short: "Classify a transaction description and append it to the journal",
		Long: "Record appends one journal entry. Accounts and amount come from the classification\n" +
			"rules unless given explicitly with --debit, --credit and --amount.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, root.repoDir)
			if err != nil {
				return err
			}
			e, rule, err := opts.entry(s, strings.Join(args, " "))
			if err != nil {
				return err
			}
			if err := s.books.Record(e); err != nil {
				return err
			}
			s.commitJournal("journal: " + e.Description)

			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s (rule: %s)\n", journal.MarshalEntry(e), rule)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.date, "date", "", "transaction date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&opts.debit, "debit", "", "account to debit")
	cmd.Flags().StringVar(&opts.credit, "credit", "", "account to credit")
	cmd.Flags().StringVar(&opts.amount, "amount", "", "amount")

	return cmd
}

// entry builds the journal entry, filling anything not given on the command
// line from the classifier.
func (o *recordOptions) entry(s *session, description string) (model.JournalEntry, string, error) {
	e := model.JournalEntry{
		Description:   strings.TrimSpace(description),
		DebitAccount:  strings.TrimSpace(o.debit),
		CreditAccount: strings.TrimSpace(o.credit),
	}

	if o.date == "" {
		now := time.Now()
		e.Date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	} else {
		d, err := record.ParseDate(o.date)
		if err != nil {
			return model.JournalEntry{}, "", err
		}
		e.Date = d
	}

	rule := "manual"
	if e.DebitAccount == "" || e.CreditAccount == "" || o.amount == "" {
		c, err := s.classifier()
		if err != nil {
			return model.JournalEntry{}, "", err
		}
		cl, err := c.Classify(e.Description)
		switch {
		case errors.Is(err, classify.ErrNoAmount) && o.amount == "":
			return model.JournalEntry{}, "", fmt.Errorf("%w; pass --amount", err)
		case err != nil && !errors.Is(err, classify.ErrNoAmount):
			return model.JournalEntry{}, "", err
		}
		if e.DebitAccount == "" || e.CreditAccount == "" {
			rule = cl.Rule
		}
		if e.DebitAccount == "" {
			e.DebitAccount = cl.DebitAccount
		}
		if e.CreditAccount == "" {
			e.CreditAccount = cl.CreditAccount
		}
		e.Amount = cl.Amount
	}

	if o.amount != "" {
		amount, err := record.ParseAmount(o.amount)
		if err != nil {
			return model.JournalEntry{}, "", err
		}
		e.Amount = amount
	}

	return e, rule, nil
}
