package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	confirmReset bool
	resetCache   bool
	resetState   bool
)

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the lookup cache and/or local state",
	Long: `Reset clears the reference-list cache and/or the local state database
(remembered list locations and the change journal). Case data on the backend
is never touched.

By default both are cleared. Use --cache-only or --state-only to pick one.

Examples:
  # Clear both (asks for confirmation)
  docket reset

  # Clear both without asking
  docket reset --yes

  # Only drop cached courts, companies, case types and police stations
  docket reset --cache-only`,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().BoolVarP(&confirmReset, "yes", "y", false, "Automatically confirm reset operation")
	resetCmd.Flags().BoolVar(&resetCache, "cache-only", false, "Reset only the lookup cache")
	resetCmd.Flags().BoolVar(&resetState, "state-only", false, "Reset only the local state database")
}

func runReset(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if !resetCache && !resetState {
		resetCache = true
		resetState = true
	}

	var targets []string
	if resetCache {
		targets = append(targets, "lookup cache")
	}
	if resetState {
		targets = append(targets, "local state")
	}
	fmt.Printf("This will permanently clear: %s\n", strings.Join(targets, " and "))

	if !confirmReset && !confirm("Are you sure you want to continue? (y/N): ") {
		fmt.Println("Reset operation cancelled.")
		return nil
	}

	rt, err := newRuntime(runtimeOptions{noState: !resetState})
	if err != nil {
		return err
	}
	defer rt.Close()

	if resetCache {
		if err := rt.cache.Clear(ctx); err != nil {
			if !resetState {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			fmt.Printf("Warning: failed to clear cache: %v\n", err)
		} else {
			fmt.Printf("%s Lookup cache cleared\n", color.GreenString("✓"))
		}
	}

	if resetState {
		if err := rt.store.Reset(ctx); err != nil {
			return fmt.Errorf("failed to reset local state: %w", err)
		}
		fmt.Printf("%s Local state cleared\n", color.GreenString("✓"))
	}

	fmt.Println("Reset operation completed successfully!")
	return nil
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
