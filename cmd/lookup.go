package cmd

import (
	"fmt"
	"strings"

	"github.com/Ashfaaq98/docket-console/internal/lookup"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Manage reference lists (courts, companies, case types, police stations)",
	Long: `Manage the reference lists offered in case forms.

Kinds: court, company, case-type, police-station.

Examples:
  docket lookup list court
  docket lookup add company "Acme Ltd"
  docket lookup rename court 64f0c2 "District Court, Dhaka"
  docket lookup delete police-station 64f0c9`,
}

var lookupListCmd = &cobra.Command{
	Use:   "list <kind>",
	Short: "List the entries of a reference list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := lookup.ParseKind(args[0])
		if err != nil {
			return err
		}
		rt, err := newRuntime(runtimeOptions{noState: true})
		if err != nil {
			return err
		}
		defer rt.Close()

		items, err := rt.lookups.List(cmd.Context(), k)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		color.New(color.Bold).Fprintf(out, "%s (%d)\n", k.Title, len(items))
		for _, it := range items {
			fmt.Fprintf(out, "  %-26s %s\n", color.New(color.Faint).Sprint(it.ID), it.Name)
		}
		return nil
	},
}

var lookupAddCmd = &cobra.Command{
	Use:   "add <kind> <name>",
	Short: "Add an entry",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := lookup.ParseKind(args[0])
		if err != nil {
			return err
		}
		rt, err := newRuntime(runtimeOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		name := strings.Join(args[1:], " ")
		res, err := rt.lookups.Add(cmd.Context(), k, name)
		rt.record(cmd.Context(), k.Name, "create", res.InsertedID, err)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s added %s\n", color.GreenString("✓"), res.InsertedID)
		return nil
	},
}

var lookupRenameCmd = &cobra.Command{
	Use:   "rename <kind> <id> <name>",
	Short: "Rename an entry",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := lookup.ParseKind(args[0])
		if err != nil {
			return err
		}
		rt, err := newRuntime(runtimeOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		id := args[1]
		_, err = rt.lookups.Rename(cmd.Context(), k, id, strings.Join(args[2:], " "))
		rt.record(cmd.Context(), k.Name, "update", id, err)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s renamed %s\n", color.GreenString("✓"), id)
		return nil
	},
}

var lookupDeleteCmd = &cobra.Command{
	Use:   "delete <kind> <id>",
	Short: "Delete an entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := lookup.ParseKind(args[0])
		if err != nil {
			return err
		}
		rt, err := newRuntime(runtimeOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		id := args[1]
		_, err = rt.lookups.Delete(cmd.Context(), k, id)
		rt.record(cmd.Context(), k.Name, "delete", id, err)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s deleted %s\n", color.GreenString("✓"), id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.AddCommand(lookupListCmd, lookupAddCmd, lookupRenameCmd, lookupDeleteCmd)
}
