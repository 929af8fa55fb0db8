// ABOUTME: Summarize command condenses a financial document
// ABOUTME: Stores the summary as a text or PDF artifact and prints it
package commands

import (
	"fmt"

	"github.com/harper/finreport/internal/report"
	"github.com/spf13/cobra"
)

var summarizePDF bool

// NewSummarizeCmd creates the summarize command
func NewSummarizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize <file>",
		Short: "Summarize a financial document",
		Long: `Summarize a financial document.

The document is cut to the configured input word limit, summarized
within the configured length bounds and stored as <name>_summary.txt
(or <name>_summary.pdf with --pdf).`,
		Example: `  finreport summarize q4_letter.txt
  finreport summarize q4_letter.pdf --pdf`,
		Args: cobra.ExactArgs(1),
		RunE: runSummarize,
	}

	cmd.Flags().BoolVar(&summarizePDF, "pdf", false, "Store the summary as a PDF")

	return cmd
}

func runSummarize(cmd *cobra.Command, args []string) error {
	a, err := newApp(overrides{}, true)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	name, text, err := a.svc.LoadFile(args[0])
	if err != nil {
		return err
	}

	format := report.FormatText
	if summarizePDF {
		format = report.FormatPDF
	}
	res, err := a.svc.Summarize(ctx, name, text, format)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat == formatJSON {
		return printJSON(out, res)
	}
	fmt.Fprintln(out, res.Text)
	if !quiet {
		fmt.Fprintf(out, "\nStored as %s\n", res.Artifact.Name)
	}
	return nil
}
