package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Ashfaaq98/docket-console/internal/store"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	historyEntity string
	historyLimit  int
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show changes made from this machine",
	Long: `Show the local journal of changes sent to the backend from this machine,
newest first, including failed attempts.

Examples:
  docket history
  docket history --entity case --limit 20`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(runtimeOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		entries, err := rt.store.ListAuditEntries(cmd.Context(), historyEntity, historyLimit)
		if err != nil {
			return err
		}
		printHistory(cmd.OutOrStdout(), entries)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historyEntity, "entity", "", "Only entries for this entity (case, note, court, ...)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 50, "Maximum number of entries")
}

func printHistory(w io.Writer, entries []store.AuditEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No changes recorded.")
		return
	}
	for _, e := range entries {
		outcome := color.GreenString("ok")
		if e.Outcome == store.OutcomeFailure {
			outcome = color.RedString("failed")
		}
		line := fmt.Sprintf("%s  %-8s %-14s %-10s %-6s",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			e.Actor, e.Entity, e.Action, outcome)
		if e.RecordID != "" {
			line += "  " + e.RecordID
		}
		if d := formatDetails(e.Details); d != "" {
			line += "  " + color.New(color.Faint).Sprint(d)
		}
		fmt.Fprintln(w, line)
	}
}

func formatDetails(d map[string]string) string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + d[k]
	}
	return strings.Join(parts, " ")
}
