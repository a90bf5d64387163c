package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create, list, and delete backups",
}

var backupRunFlags struct {
	label string
}

var backupRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Back up every known database",
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := eng.orch.RunSweep(backupRunFlags.label)
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(summary)
		}

		for _, r := range summary.Results {
			if r.Err != nil {
				fmt.Printf("FAILED  %s: %v\n", r.Database.FileID, r.Err)
				continue
			}
			fmt.Printf("backed up %s (%d records) -> %s\n",
				r.Database.FileID, r.Backup.RecordCount, r.Backup.FilePath)
		}
		fmt.Printf("%d created, %d failed\n", summary.Created, summary.Failed)
		if summary.Failed > 0 {
			return fmt.Errorf("%d database(s) failed to back up", summary.Failed)
		}
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := eng.log.List()
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(entries)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSOURCE\tCREATED\tRECORDS")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
				e.ID, e.Name, e.SourceDB, e.CreatedAt.Format("2006-01-02 15:04"), e.RecordCount)
		}
		return w.Flush()
	},
}

var backupDeleteCmd = &cobra.Command{
	Use:   "delete <backup-id>",
	Short: "Delete a backup and its snapshot file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return eng.log.Remove(args[0])
	},
}

func init() {
	backupRunCmd.Flags().StringVar(&backupRunFlags.label, "label", "Manual", "label prefix for the backup names")

	backupCmd.AddCommand(backupRunCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupDeleteCmd)
}
