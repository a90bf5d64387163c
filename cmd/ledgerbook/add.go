package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerbook/ledgerbook/pkg/types"
)

var addFlags struct {
	date        string
	description string
	category    string
	merchant    string
	paidThrough string
	income      float64
	expense     float64
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a record to the active database",
	RunE: func(cmd *cobra.Command, args []string) error {
		record := types.ExpenseRecord{
			Date:        addFlags.date,
			Description: addFlags.description,
			Category:    addFlags.category,
			Merchant:    addFlags.merchant,
			PaidThrough: addFlags.paidThrough,
			Income:      addFlags.income,
			Expense:     addFlags.expense,
		}
		id, err := eng.store.Insert(record)
		if err != nil {
			return err
		}
		fmt.Printf("added record %d\n", id)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addFlags.date, "date", "", "calendar date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&addFlags.description, "desc", "", "description")
	addCmd.Flags().StringVar(&addFlags.category, "category", "", "category")
	addCmd.Flags().StringVar(&addFlags.merchant, "merchant", "", "merchant name")
	addCmd.Flags().StringVar(&addFlags.paidThrough, "paid-through", "", "payment method label")
	addCmd.Flags().Float64Var(&addFlags.income, "income", 0, "income amount")
	addCmd.Flags().Float64Var(&addFlags.expense, "expense", 0, "expense amount")
	addCmd.MarkFlagRequired("date")
	addCmd.MarkFlagRequired("desc")
}
