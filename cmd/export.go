package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Ashfaaq98/docket-console/internal/export"
	"github.com/Ashfaaq98/docket-console/internal/listview"
	"github.com/Ashfaaq98/docket-console/internal/model"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// maxExportPages bounds a single export run.
const maxExportPages = 500

var (
	exportVariant string
	exportSearch  string
	exportStart   string
	exportEnd     string
	exportCompany string
	exportFormat  string
	exportOut     string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [variant]",
	Short: "Write a case list to an HTML or PDF file",
	Long: `Fetch every page of a case list and write it as a printable HTML page
or a PDF table.

Examples:
  # Today's cases as HTML
  docket export today

  # Running cases of one company as PDF
  docket export running --company "Acme Ltd" --format pdf --out running.pdf`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportVariant, "variant", "all", "Case list to export")
	exportCmd.Flags().StringVar(&exportSearch, "search", "", "Free-text search")
	exportCmd.Flags().StringVar(&exportStart, "start", "", "Only cases dated on or after (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportEnd, "end", "", "Only cases dated on or before (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportCompany, "company", "", "Only cases of this company")
	exportCmd.Flags().StringVar(&exportFormat, "format", "html", "Output format: html or pdf")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default exports/<variant>-<time>.<format>)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	name := exportVariant
	if len(args) > 0 {
		name = args[0]
	}
	v, ok := listview.VariantByName(strings.ToLower(name))
	if !ok {
		return fmt.Errorf("unknown case list %q", name)
	}
	format := strings.ToLower(exportFormat)
	if format != "html" && format != "pdf" {
		return fmt.Errorf("unsupported format %q (use html or pdf)", exportFormat)
	}

	rt, err := newRuntime(runtimeOptions{noState: true})
	if err != nil {
		return err
	}
	defer rt.Close()

	now := time.Now()
	q := listview.Query{
		Page:     1,
		PageSize: 50,
		Search:   strings.TrimSpace(exportSearch),
		Filters:  listview.Filters{StartDate: exportStart, EndDate: exportEnd, Company: exportCompany},
	}
	fetch := listview.CaseFetcher(rt.client, v, func() time.Time { return now })

	var cases []model.Case
	for q.Page <= maxExportPages {
		res, err := fetch(ctx, q)
		if err != nil {
			return fmt.Errorf("failed to fetch page %d: %w", q.Page, err)
		}
		cases = append(cases, res.Items...)
		if len(res.Items) == 0 || q.Page >= res.TotalPages {
			break
		}
		q.Page++
	}

	report := export.Report{
		Title:       v.Title,
		Subtitle:    exportSubtitle(q),
		GeneratedAt: now,
		Cases:       cases,
	}

	path := exportOut
	if path == "" {
		path = filepath.Join(resolvePathRelativeToBase(getWorkingDir(), "exports"),
			fmt.Sprintf("%s-%s.%s", v.Name, now.Format("20060102-150405"), format))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if format == "pdf" {
		err = export.WritePDF(path, report)
	} else {
		var f *os.File
		if f, err = os.Create(path); err == nil {
			err = export.WriteHTML(f, report)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s exported %d cases to %s\n", color.GreenString("✓"), len(cases), path)
	return nil
}

func exportSubtitle(q listview.Query) string {
	var parts []string
	if q.Search != "" {
		parts = append(parts, "search: "+q.Search)
	}
	f := q.Filters
	if f.StartDate != "" {
		parts = append(parts, "from "+model.DisplayDate(f.StartDate))
	}
	if f.EndDate != "" {
		parts = append(parts, "to "+model.DisplayDate(f.EndDate))
	}
	if f.Company != "" {
		parts = append(parts, "company: "+f.Company)
	}
	return strings.Join(parts, "  ")
}
