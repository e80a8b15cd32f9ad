package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Ashfaaq98/docket-console/internal/export"
	"github.com/Ashfaaq98/docket-console/internal/listview"
	"github.com/Ashfaaq98/docket-console/internal/model"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list [variant]",
	Short: "Print one page of a case list",
	Long: `Print one page of a case list in plain text. This works in any terminal
and in scripts, where the full-screen console is not available.

Variants: all, running, today, tomorrow, completed, pending.

Examples:
  # First page of all cases
  docket list

  # Second page of running cases matching "khan"
  docket list running --page 2 --search khan

  # Cases dated in April for one company
  docket list --start 2024-04-01 --end 2024-04-30 --company "Acme Ltd"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

var (
	listVariant string
	listPage    int
	listLimit   int
	listSearch  string
	listStart   string
	listEnd     string
	listCompany string
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listVariant, "variant", "all", "Case list to print")
	listCmd.Flags().IntVar(&listPage, "page", 1, "Page number")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Cases per page (default ui.page_size)")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Free-text search")
	listCmd.Flags().StringVar(&listStart, "start", "", "Only cases dated on or after (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listEnd, "end", "", "Only cases dated on or before (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listCompany, "company", "", "Only cases of this company")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	name := listVariant
	if len(args) > 0 {
		name = args[0]
	}
	v, ok := listview.VariantByName(strings.ToLower(name))
	if !ok {
		return fmt.Errorf("unknown case list %q (use all, running, today, tomorrow, completed or pending)", name)
	}

	rt, err := newRuntime(runtimeOptions{noState: true})
	if err != nil {
		return err
	}
	defer rt.Close()

	q := listview.Query{
		Page:     listPage,
		PageSize: listLimit,
		Search:   strings.TrimSpace(listSearch),
		Filters:  listview.Filters{StartDate: listStart, EndDate: listEnd, Company: listCompany},
	}
	if q.PageSize <= 0 {
		q.PageSize = rt.cfg.UI.PageSize
	}
	if q.Page < 1 {
		q.Page = 1
	}

	res, err := listview.CaseFetcher(rt.client, v, time.Now)(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to list cases: %w", err)
	}
	printCases(os.Stdout, v.Title, q.Page, res)
	return nil
}

func printCases(w io.Writer, title string, page int, res listview.Result[model.Case]) {
	bold := color.New(color.Bold)
	muted := color.New(color.Faint)

	bold.Fprintf(w, "%s\n\n", title)
	if len(res.Items) == 0 {
		fmt.Fprintln(w, "No cases found.")
		return
	}

	for i, c := range res.Items {
		fmt.Fprintf(w, "%d. %s  %s\n", i+1, bold.Sprint(orDash(c.CaseNo)), statusColor(c.Status).Sprint(orDash(string(c.Status))))
		row := export.Row(c)
		for col, column := range export.Columns {
			if column.Header == "Case No" || column.Header == "Status" {
				continue
			}
			fmt.Fprintf(w, "   %s %s\n", muted.Sprintf("%-15s", column.Header+":"), row[col])
		}
		fmt.Fprintf(w, "   %s %s\n\n", muted.Sprintf("%-15s", "ID:"), c.ID)
	}

	fmt.Fprintln(w, pageWindowText(page, res.TotalPages, res.Total))
}

// pageWindowText renders the pagination bar, e.g. "Page 2 of 10: 1 [2] 3 ... 10".
func pageWindowText(page, totalPages, total int) string {
	if totalPages <= 0 {
		return ""
	}
	s := fmt.Sprintf("Page %d of %d: %s", page, totalPages, listview.Render(page, totalPages))
	if total > 0 {
		s += fmt.Sprintf(" (%d cases)", total)
	}
	return s
}

func statusColor(s model.Status) *color.Color {
	switch s {
	case model.StatusCompleted:
		return color.New(color.FgGreen)
	case model.StatusRunning:
		return color.New(color.FgCyan)
	case model.StatusPending:
		return color.New(color.FgYellow)
	default:
		return color.New(color.Reset)
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
