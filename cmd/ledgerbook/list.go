package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ledgerbook/ledgerbook/pkg/types"
)

var listFlags struct {
	search   string
	year     string
	month    string
	category string
	merchant string
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List records in the active database",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := eng.store.List(types.Filter{
			Search:   listFlags.search,
			Year:     listFlags.year,
			Month:    listFlags.month,
			Category: listFlags.category,
			Merchant: listFlags.merchant,
		})
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(records)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDATE\tDESCRIPTION\tCATEGORY\tMERCHANT\tINCOME\tEXPENSE\tBALANCE")
		for _, r := range records {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%.2f\t%.2f\t%.2f\n",
				r.ID, r.Date, r.Description, r.Category, r.Merchant,
				r.Income, r.Expense, r.Balance())
		}
		return w.Flush()
	},
}

func init() {
	listCmd.Flags().StringVar(&listFlags.search, "search", "", "substring match on description")
	listCmd.Flags().StringVar(&listFlags.year, "year", "", "calendar year filter")
	listCmd.Flags().StringVar(&listFlags.month, "month", "", "calendar month filter")
	listCmd.Flags().StringVar(&listFlags.category, "category", "", "category filter")
	listCmd.Flags().StringVar(&listFlags.merchant, "merchant", "", "merchant filter")
}

// printJSON renders any value as indented JSON on stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
