package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ledgerbook/ledgerbook/internal/flatfile"
	"github.com/ledgerbook/ledgerbook/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the active database as a flat CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := eng.store.List(types.Filter{})
		if err != nil {
			return err
		}
		data, err := flatfile.ExportFlat(records)
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[0], data, 0o644); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}
		fmt.Printf("exported %d records to %s\n", len(records), args[0])
		return nil
	},
}
