// ABOUTME: Report command extracts schema fields from a document and renders a PDF
// ABOUTME: Supports retrieval mode, both layouts, dry runs and copying the PDF out
package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harper/finreport/internal/core"
	"github.com/harper/finreport/internal/models"
	"github.com/harper/finreport/internal/render"
	"github.com/spf13/cobra"
)

var (
	reportMode   string
	reportLayout string
	reportOutput string
	reportDryRun bool
)

// NewReportCmd creates the report command
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Generate a PDF report from a financial document",
		Long: `Generate a PDF report from a financial document.

Reads a .txt, .md, .csv, .pdf, .docx or .xlsx file, answers every
schema question against it and renders the answers as a paginated PDF
stored under the data directory as <name>_report.pdf.

In retrieval mode only the chunks nearest to the schema questions are
used as context. --dry-run prints the page placements instead of
writing a PDF.`,
		Example: `  finreport report q4_letter.txt
  finreport report q4_letter.pdf --mode retrieval --layout stacked
  finreport report q4_letter.docx --output ./q4.pdf
  finreport report q4_letter.txt --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: runReport,
	}

	cmd.Flags().StringVar(&reportMode, "mode", "", "Context mode: direct or retrieval (default: FINREPORT_MODE)")
	cmd.Flags().StringVar(&reportLayout, "layout", "", "Page layout: flat or stacked (default: FINREPORT_LAYOUT)")
	cmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Also write the PDF to this path")
	cmd.Flags().BoolVar(&reportDryRun, "dry-run", false, "Print placements without storing a report")

	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := newApp(overrides{mode: reportMode, layout: reportLayout}, !reportDryRun)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	if reportDryRun {
		return runReportDry(ctx, cmd, a, args[0])
	}

	name, text, err := a.svc.LoadFile(args[0])
	if err != nil {
		return err
	}

	res, err := a.svc.GenerateReport(ctx, name, text)
	if err != nil {
		return err
	}

	if reportOutput != "" {
		if err := os.WriteFile(reportOutput, res.Data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", reportOutput, err)
		}
	}

	out := cmd.OutOrStdout()
	if outputFormat == formatJSON {
		return printJSON(out, res)
	}

	printFields(cmd, res.Extraction.Results)
	if !quiet {
		fmt.Fprintf(out, "\nReport: %s (%d page(s), run %s)\n", res.Artifact.Name, res.Pages, res.RunID)
		if reportOutput != "" {
			fmt.Fprintf(out, "Written to %s\n", reportOutput)
		}
	}
	return nil
}

// runReportDry renders onto a recording surface; the source file is read
// but nothing is stored
func runReportDry(ctx context.Context, cmd *cobra.Command, a *app, path string) error {
	name, text, err := a.svc.LoadFile(path)
	if err != nil {
		return err
	}

	surface := render.NewRecordingSurface()
	listing, extraction, stats, err := a.svc.Preview(ctx, text, surface)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat == formatJSON {
		return printJSON(out, struct {
			Source     string           `json:"source"`
			Extraction *core.Extraction `json:"extraction"`
			Stats      *render.Stats    `json:"stats"`
		}{name, extraction, stats})
	}

	fmt.Fprintf(out, "%s", listing)
	if !quiet {
		fmt.Fprintf(out, "\n%d entries on %d page(s), nothing stored\n", stats.Entries, stats.Pages)
	}
	return nil
}

// printFields writes extraction results as a table
func printFields(cmd *cobra.Command, results []models.ExtractionResult) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "FIELD\tVALUE\tCONFIDENCE\n")
	fmt.Fprintf(w, "-----\t-----\t----------\n")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%.2f\n", r.Field, truncate(r.Value, 50), r.Confidence)
	}
	w.Flush()
}
