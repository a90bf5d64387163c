package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ledgerbook/ledgerbook/internal/flatfile"
)

var importFlags struct {
	label   string
	keepAll bool
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a flat CSV file into the active database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening import file: %w", err)
		}
		defer f.Close()

		records, err := flatfile.ParseFlat(f)
		if err != nil {
			return err
		}

		inserted, err := eng.store.ImportRecords(records, importFlags.label, !importFlags.keepAll)
		if err != nil {
			return fmt.Errorf("imported %d of %d records: %w", inserted, len(records), err)
		}
		fmt.Printf("imported %d of %d records\n", inserted, len(records))
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFlags.label, "label", "", "report name tagged onto imported records")
	importCmd.Flags().BoolVar(&importFlags.keepAll, "keep-all", false, "insert duplicates instead of skipping them")
}
