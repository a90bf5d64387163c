package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ledgerbook/ledgerbook/pkg/types"
)

var totalsFlags struct {
	year  string
	month string
	kind  string
}

var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Sum amounts per category for a period",
	RunE: func(cmd *cobra.Command, args []string) error {
		totals, err := eng.store.CategoryTotals(totalsFlags.year, totalsFlags.month, types.AmountKind(totalsFlags.kind))
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(totals)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CATEGORY\tTOTAL")
		for _, t := range totals {
			fmt.Fprintf(w, "%s\t%.2f\n", t.Category, t.Total)
		}
		return w.Flush()
	},
}

func init() {
	totalsCmd.Flags().StringVar(&totalsFlags.year, "year", "", "calendar year filter")
	totalsCmd.Flags().StringVar(&totalsFlags.month, "month", "", "calendar month filter")
	totalsCmd.Flags().StringVar(&totalsFlags.kind, "kind", string(types.KindExpense), "amount column to sum (income or expense)")
}
