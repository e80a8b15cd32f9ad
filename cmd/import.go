package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Ashfaaq98/docket-console/internal/ingest"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	importDir      string
	importWatch    bool
	importPatterns string
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import [file|-]",
	Short: "Create cases from JSON or JSONL files",
	Long: `Create cases from JSON files (one object or an array of objects) or
JSONL files (one object per line). Records missing a required field are
reported and skipped; the rest are created.

Examples:
  # Import one file
  docket import cases.json

  # Import from stdin
  cat cases.json | docket import -

  # Import every matching file in a folder, once
  docket import --dir ./incoming

  # Keep watching the folder, tailing JSONL appends
  docket import --dir ./incoming --watch --pattern "*.jsonl"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importDir, "dir", "", "Directory to import from (default import.dir)")
	importCmd.Flags().BoolVar(&importWatch, "watch", false, "Watch the directory for changes and tail JSONL files")
	importCmd.Flags().StringVar(&importPatterns, "pattern", "", "Comma-separated glob patterns (default import.patterns)")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := newRuntime(runtimeOptions{})
	if err != nil {
		return err
	}
	defer rt.Close()

	importer := ingest.NewImporter(rt.client, rt.store, rt.bus, rt.logger.Named("import"))

	var rep ingest.Report
	if len(args) == 1 {
		rep, err = importFile(ctx, importer, args[0])
	} else {
		rep, err = importFolder(ctx, rt, importer)
	}
	printImportReport(cmd.OutOrStdout(), rep)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if rep.Imported == 0 && rep.Failed > 0 {
		return fmt.Errorf("no case imported")
	}
	return nil
}

func importFile(ctx context.Context, importer *ingest.Importer, name string) (ingest.Report, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(os.Stdin)
		name = "stdin"
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return ingest.Report{}, fmt.Errorf("failed to read %s: %w", name, err)
	}

	if strings.HasSuffix(strings.ToLower(name), ".jsonl") {
		var rep ingest.Report
		for i, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			r := importer.ImportRecord(ctx, fmt.Sprintf("%s:%d", name, i+1), []byte(line))
			rep.Imported += r.Imported
			rep.Failed += r.Failed
			rep.Errors = append(rep.Errors, r.Errors...)
		}
		return rep, nil
	}
	return importer.ImportJSON(ctx, name, data)
}

func importFolder(ctx context.Context, rt *runtime, importer *ingest.Importer) (ingest.Report, error) {
	dir := importDir
	if dir == "" {
		dir = rt.cfg.Import.Dir
	}
	dir = resolvePathRelativeToBase(getWorkingDir(), dir)

	patterns := rt.cfg.Import.Patterns
	if importPatterns != "" {
		patterns = nil
		for _, p := range strings.Split(importPatterns, ",") {
			if s := strings.TrimSpace(p); s != "" {
				patterns = append(patterns, s)
			}
		}
	}

	rt.logger.Infow("starting folder import", "dir", dir, "watch", importWatch, "patterns", patterns)
	folder := ingest.NewFolderImporter(importer, ingest.FolderOptions{
		Dir:      dir,
		Watch:    importWatch,
		Patterns: patterns,
		Logger:   rt.logger.Named("import"),
	})
	return folder.Run(ctx)
}

func printImportReport(w io.Writer, rep ingest.Report) {
	fmt.Fprintf(w, "%s imported %d\n", color.GreenString("✓"), rep.Imported)
	if rep.Failed == 0 {
		return
	}
	fmt.Fprintf(w, "%s failed %d\n", color.RedString("✗"), rep.Failed)
	for _, e := range rep.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}
