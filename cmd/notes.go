package cmd

import (
	"fmt"
	"strings"

	"github.com/Ashfaaq98/docket-console/internal/model"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var notesToday bool

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Read and write daily notes",
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(runtimeOptions{noState: true})
		if err != nil {
			return err
		}
		defer rt.Close()

		var notes []model.Note
		if notesToday {
			notes, err = rt.notes.Today(cmd.Context())
		} else {
			notes, err = rt.notes.List(cmd.Context())
		}
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(notes) == 0 {
			fmt.Fprintln(out, "No notes found.")
			return nil
		}
		for _, n := range notes {
			fmt.Fprintf(out, "%s  %s  %s\n",
				color.New(color.Faint).Sprint(n.ID),
				color.CyanString("%-11s", model.DisplayDate(n.Date)),
				strings.ReplaceAll(n.Note, "\n", " / "))
		}
		return nil
	},
}

var notesAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a note dated now",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(runtimeOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		res, err := rt.notes.Add(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			rt.record(cmd.Context(), "note", "create", "", err)
			return err
		}
		rt.record(cmd.Context(), "note", "create", res.InsertedID, nil)
		fmt.Fprintf(cmd.OutOrStdout(), "%s note added %s\n", color.GreenString("✓"), res.InsertedID)
		return nil
	},
}

var notesEditCmd = &cobra.Command{
	Use:   "edit <id> <text>",
	Short: "Replace the text of a note",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(runtimeOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		id := args[0]
		_, err = rt.notes.Edit(cmd.Context(), id, strings.Join(args[1:], " "))
		rt.record(cmd.Context(), "note", "update", id, err)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s note updated\n", color.GreenString("✓"))
		return nil
	},
}

var notesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(runtimeOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		id := args[0]
		err = rt.notes.Delete(cmd.Context(), id)
		rt.record(cmd.Context(), "note", "delete", id, err)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s note deleted\n", color.GreenString("✓"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(notesCmd)
	notesCmd.AddCommand(notesListCmd, notesAddCmd, notesEditCmd, notesDeleteCmd)
	notesListCmd.Flags().BoolVar(&notesToday, "today", false, "Only notes dated today")
}
