// ABOUTME: Artifacts command lists, copies out and removes stored reports
// ABOUTME: Works against storage only and never contacts a model provider
package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var artifactOutput string

// NewArtifactsCmd creates the artifacts command with list, get and rm subcommands
func NewArtifactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "artifacts",
		Aliases: []string{"ls"},
		Short:   "List stored reports, summaries and digests",
		Args:    cobra.NoArgs,
		RunE:    runArtifactsList,
	}

	getCmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Write a stored artifact to stdout or a file",
		Example: `  finreport artifacts get q4_letter_report.pdf -o q4.pdf
  finreport artifacts get q4_letter_summary.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runArtifactsGet,
	}
	getCmd.Flags().StringVarP(&artifactOutput, "output", "o", "", "Write to this path instead of stdout")

	rmCmd := &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"delete"},
		Short:   "Delete a stored artifact",
		Args:    cobra.ExactArgs(1),
		RunE:    runArtifactsRm,
	}

	cmd.AddCommand(getCmd, rmCmd)
	return cmd
}

func runArtifactsList(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	artifacts, err := store.ListArtifacts()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat == formatJSON {
		return printJSON(out, artifacts)
	}

	if len(artifacts) == 0 {
		if !quiet {
			fmt.Fprintln(out, "No artifacts stored yet.")
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tKIND\tSIZE\tCREATED\n")
	fmt.Fprintf(w, "----\t----\t----\t-------\n")
	for _, a := range artifacts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.Name, a.Kind, formatBytes(a.Size), formatTime(a.CreatedAt))
	}
	return w.Flush()
}

func runArtifactsGet(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	data, artifact, err := store.ReadArtifact(args[0])
	if err != nil {
		return err
	}

	if artifactOutput == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.WriteFile(artifactOutput, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", artifactOutput, err)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s) to %s\n", artifact.Name, formatBytes(artifact.Size), artifactOutput)
	}
	return nil
}

func runArtifactsRm(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.DeleteArtifact(args[0]); err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	}
	return nil
}
