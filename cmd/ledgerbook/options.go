package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Show the distinct years, categories, and merchants in the ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := eng.store.FilterOptions()
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(opts)
		}

		fmt.Println("Years:")
		for _, y := range opts.Years {
			fmt.Println("  " + y)
		}
		fmt.Println("Categories:")
		for _, c := range opts.Categories {
			fmt.Println("  " + c)
		}
		fmt.Println("Merchants:")
		for _, m := range opts.Merchants {
			fmt.Println("  " + m)
		}
		return nil
	},
}
