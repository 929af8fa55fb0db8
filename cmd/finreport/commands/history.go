// ABOUTME: History command shows the run ledger and exports it
// ABOUTME: Export writes YAML, Markdown or JSON to a file or stdout
package commands

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/harper/finreport/internal/models"
	"github.com/spf13/cobra"
)

var (
	historyKind  string
	historyLimit int
)

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent pipeline runs",
		Long: `Show recent pipeline runs.

Every report, summary and digest run is recorded, including failed
ones, with the field values it extracted.`,
		Example: `  finreport history
  finreport history --kind report --limit 5
  finreport history export ledger.yaml
  finreport history export --format markdown`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().StringVar(&historyKind, "kind", "", "Only show runs of this kind: report, summary or digest")
	cmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs to show")

	exportCmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export runs and artifacts",
		Long: `Export runs and artifacts.

With a file argument the format follows its extension (.yaml, .yml,
.md). Without one the export goes to stdout as YAML, or as Markdown or
JSON when --format says so.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryExport,
	}

	cmd.AddCommand(exportCmd)
	return cmd
}

func parseKind(s string) (models.ArtifactKind, error) {
	switch models.ArtifactKind(s) {
	case "", models.KindReport, models.KindSummary, models.KindDigest:
		return models.ArtifactKind(s), nil
	}
	return "", fmt.Errorf("--kind must be report, summary or digest, got %q", s)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(historyLimit, "--limit"); err != nil {
		return err
	}
	kind, err := parseKind(historyKind)
	if err != nil {
		return err
	}

	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.ListRuns(kind, historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat == formatJSON {
		return printJSON(out, runs)
	}

	if len(runs) == 0 {
		if !quiet {
			fmt.Fprintln(out, "No runs recorded yet.")
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "RUN\tKIND\tSOURCE\tSTATUS\tWHEN\n")
	fmt.Fprintf(w, "---\t----\t------\t------\t----\n")
	for _, r := range runs {
		status := string(r.Status)
		if r.Error != "" {
			status += ": " + truncate(r.Error, 40)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", truncate(r.RunID, 8), r.Kind, truncate(r.Source, 30), status, formatTime(r.CreatedAt))
	}
	return w.Flush()
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ledger := store.Ledger()

	if len(args) == 1 {
		format := strings.TrimPrefix(strings.ToLower(filepath.Ext(args[0])), ".")
		if err := ledger.ExportToFile(args[0], format); err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", args[0])
		}
		return nil
	}

	out := cmd.OutOrStdout()
	switch outputFormat {
	case formatMarkdown:
		return ledger.WriteMarkdown(out)
	case formatJSON:
		data, err := ledger.Export()
		if err != nil {
			return err
		}
		return printJSON(out, data)
	default:
		return ledger.WriteYAML(out)
	}
}
