package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerbook/ledgerbook/pkg/types"
)

var restoreFlags struct {
	target   string
	strategy string
}

var restoreCmd = &cobra.Command{
	Use:   "restore <backup-id>",
	Short: "Restore a backup into a database",
	Long: `Restore imports the records of a logged backup into the target database.
With --strategy skipDuplicates, records already present in the target are
left alone; with keepAll every record is appended.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := restoreFlags.target
		if target == "" {
			target = eng.store.CurrentFileID()
		}
		inserted, err := eng.orch.Restore(args[0], target, types.MergeStrategy(restoreFlags.strategy))
		if err != nil {
			return err
		}
		fmt.Printf("restored %d records into %s\n", inserted, target)
		return nil
	},
}

func init() {
	restoreCmd.Flags().StringVar(&restoreFlags.target, "target", "", "target database file (defaults to the active database)")
	restoreCmd.Flags().StringVar(&restoreFlags.strategy, "strategy", string(types.MergeSkipDuplicates),
		"duplicate handling: keepAll or skipDuplicates")
}
