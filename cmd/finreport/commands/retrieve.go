// ABOUTME: Retrieve command prints the chunks of a document nearest to a query
// ABOUTME: Produces the titled retrieval digest and optionally stores it
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	retrieveQuery string
	retrieveK     int
)

// NewRetrieveCmd creates the retrieve command
func NewRetrieveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retrieve <file>",
		Short: "Print a retrieval digest of a document",
		Long: `Print a retrieval digest of a document.

The document is split into overlapping chunks, every chunk is embedded
and the k chunks nearest to the query are printed under the digest
title, nearest first. The digest is stored as <name>_digest.txt unless
FINREPORT_STORE_DIGESTS=false.`,
		Example: `  finreport retrieve q4_letter.txt
  finreport retrieve q4_letter.txt --query "operating expenses" -k 5`,
		Args: cobra.ExactArgs(1),
		RunE: runRetrieve,
	}

	cmd.Flags().StringVar(&retrieveQuery, "query", "", "Retrieval query (default: FINREPORT_DIGEST_QUERY)")
	cmd.Flags().IntVarP(&retrieveK, "top-k", "k", 0, "Number of chunks (default: FINREPORT_TOP_K)")

	return cmd
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("top-k") {
		if err := validatePositiveInt(retrieveK, "top-k"); err != nil {
			return err
		}
	}

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

	res, err := a.svc.Digest(ctx, name, text, retrieveQuery, retrieveK)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat == formatJSON {
		return printJSON(out, res)
	}
	fmt.Fprintln(out, res.Text)
	if res.Artifact != nil && !quiet {
		fmt.Fprintf(out, "\nStored as %s\n", res.Artifact.Name)
	}
	return nil
}
