package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerly/internal/importer"
)

func newImportCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file.csv...]",
		Short: "Append journal entries from CSV files",
		Long: "Import appends every row of the given CSV files to the journal. Without arguments it\n" +
			"imports each CSV in the import/ folder and moves it to import/processed/.\n" +
			"Columns: " + importer.Header,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, root.repoDir)
			if err != nil {
				return err
			}

			fromFolder := len(args) == 0
			files := args
			if fromFolder {
				found, err := importer.Scan(s.root)
				if err != nil {
					return err
				}
				for _, f := range found {
					s.logger.Debug("found import file", "file", f.Name, "bytes", f.Size)
					files = append(files, f.Path)
				}
			}

			total := 0
			for _, path := range files {
				entries, err := importer.ParseFile(path)
				if err != nil {
					return err
				}
				if err := s.books.Record(entries...); err != nil {
					return fmt.Errorf("importing %s: %w", filepath.Base(path), err)
				}
				if fromFolder {
					if err := importer.MarkProcessed(s.root, filepath.Base(path)); err != nil {
						return err
					}
				}
				total += len(entries)
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries from %s\n", len(entries), filepath.Base(path))
			}

			if total > 0 {
				s.commitJournal(fmt.Sprintf("journal: import %d entries", total))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to import")
			}
			return nil
		},
	}
}
