// ABOUTME: Root command, global flags and logging setup for the finreport CLI
// ABOUTME: Registers every subcommand and enforces --verbose/--quiet exclusivity
package commands

import (
	"fmt"

	"github.com/harper/finreport/internal/logging"
	"github.com/spf13/cobra"
)

const banner = `
 ███████ ██ ███    ██ ██████  ███████ ██████   ██████  ██████  ████████
 ██      ██ ████   ██ ██   ██ ██      ██   ██ ██    ██ ██   ██    ██
 █████   ██ ██ ██  ██ ██████  █████   ██████  ██    ██ ██████     ██
 ██      ██ ██  ██ ██ ██   ██ ██      ██      ██    ██ ██   ██    ██
 ██      ██ ██   ████ ██   ██ ███████ ██       ██████  ██   ██    ██
`

var (
	verbose      bool
	quiet        bool
	outputFormat string
	schemaPath   string
	dataDir      string
)

// Output formats accepted by --format
const (
	formatAuto     = "auto"
	formatTable    = "table"
	formatJSON     = "json"
	formatYAML     = "yaml"
	formatMarkdown = "markdown"
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finreport",
		Short: "Turn financial narratives into structured PDF reports",
		Long: banner + `
Extract a fixed set of financial line items from free-form documents
and render them into paginated PDF reports.

Documents are split into overlapping chunks, optionally narrowed by
nearest-neighbor retrieval, and every schema field is answered by a
question-answering model. Answers below the confidence threshold are
reported as N/A rather than guessed.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			switch outputFormat {
			case formatAuto, formatTable, formatJSON, formatYAML, formatMarkdown:
			default:
				return fmt.Errorf("--format must be one of auto, table, json, yaml, markdown, got %q", outputFormat)
			}
			logging.Setup(logging.Options{
				Level:   logging.LevelFor(verbose, quiet),
				Console: true,
				Writer:  cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log warnings and errors")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", formatAuto, "Output format: auto, table, json, yaml, markdown")
	cmd.PersistentFlags().StringVar(&schemaPath, "schema", "", "Report schema YAML file (default: FINREPORT_SCHEMA or built-in)")
	cmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory for uploads, reports and the run ledger (default: FINREPORT_DATA_DIR)")

	cmd.AddCommand(
		NewReportCmd(),
		NewSummarizeCmd(),
		NewRetrieveCmd(),
		NewServeCmd(),
		NewMCPCmd(),
		NewWatchCmd(),
		NewArtifactsCmd(),
		NewHistoryCmd(),
		NewSchemaCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
