package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ledgerbook/ledgerbook/pkg/types"
)

var dbCmd = &cobra.Command{
	Use:     "databases",
	Aliases: []string{"db"},
	Short:   "Manage the known databases",
}

var dbListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known databases, most recently used first",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := eng.registry.List()
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(entries)
		}

		active := eng.store.CurrentFileID()
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tFILE\tLAST USED\t")
		mark := ""
		if active == types.DefaultDatabaseFile {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", types.DefaultDatabaseName, types.DefaultDatabaseFile, "-", mark)
		for _, e := range entries {
			if e.FileID == types.DefaultDatabaseFile {
				continue
			}
			mark = ""
			if e.FileID == active {
				mark = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, e.FileID, e.EnteredAt.Format(types.DateLayout), mark)
		}
		return w.Flush()
	},
}

var dbSwitchCmd = &cobra.Command{
	Use:   "switch <file>",
	Short: "Switch the active database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := eng.store.Switch(args[0]); err != nil {
			return err
		}
		// A switched-to database is a known database from then on.
		if err := eng.registry.Touch(args[0]); err != nil {
			return err
		}
		fmt.Printf("active database is now %s\n", args[0])
		return nil
	},
}

var dbRegisterFlags struct {
	name string
}

var dbRegisterCmd = &cobra.Command{
	Use:   "register <file>",
	Short: "Add a database to the registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := dbRegisterFlags.name
		if name == "" {
			name = args[0]
		}
		return eng.registry.Register(name, args[0])
	},
}

var dbRemoveCmd = &cobra.Command{
	Use:   "remove <file>",
	Short: "Remove a database from the registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return eng.registry.Remove(args[0])
	},
}

var dbPrimaryCmd = &cobra.Command{
	Use:   "primary <file>",
	Short: "Set the database opened at startup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := eng.settings.Settings()
		s.PrimaryDatabase = args[0]
		return eng.settings.Save(s)
	},
}

func init() {
	dbRegisterCmd.Flags().StringVar(&dbRegisterFlags.name, "name", "", "display name (defaults to the file name)")

	dbCmd.AddCommand(dbListCmd)
	dbCmd.AddCommand(dbSwitchCmd)
	dbCmd.AddCommand(dbRegisterCmd)
	dbCmd.AddCommand(dbRemoveCmd)
	dbCmd.AddCommand(dbPrimaryCmd)
}
