package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Ashfaaq98/docket-console/internal/dashboard"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var dashboardTimeout time.Duration

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print the dashboard counters once",
	Long: `Fetch every dashboard counter once, concurrently, and print them.
A counter that cannot be read is shown as "..." with its error.`,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().DurationVar(&dashboardTimeout, "timeout", 20*time.Second, "Overall time limit")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(runtimeOptions{noState: true})
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), dashboardTimeout)
	defer cancel()

	readings := dashboard.Snapshot(ctx, rt.client, dashboard.DefaultCards())
	if failed := printReadings(os.Stdout, readings); failed == len(readings) {
		return fmt.Errorf("no counter could be read from %s", rt.client.BaseURL())
	}
	return nil
}

// printReadings writes one line per card and returns the number of failures.
func printReadings(w io.Writer, readings []dashboard.Reading) int {
	value := color.New(color.Bold, color.FgCyan)
	failed := 0
	for _, r := range readings {
		if r.Err != nil {
			failed++
			fmt.Fprintf(w, "%-20s %s  %s\n", r.Card.Title, dashboard.Placeholder, color.RedString(r.Err.Error()))
			continue
		}
		fmt.Fprintf(w, "%-20s %s\n", r.Card.Title, value.Sprint(r.Count))
	}
	return failed
}
