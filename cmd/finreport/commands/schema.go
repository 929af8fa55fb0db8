// ABOUTME: Schema command prints the active report schema or writes a starter file
// ABOUTME: The starter file is the built-in quarterly schema, ready for editing
package commands

import (
	"fmt"
	"os"

	"github.com/harper/finreport/internal/config"
	"github.com/spf13/cobra"
)

var schemaForce bool

// NewSchemaCmd creates the schema command with show and init subcommands
func NewSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect or create report schemas",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the schema in effect",
		Args:  cobra.NoArgs,
		RunE:  runSchemaShow,
	}

	initCmd := &cobra.Command{
		Use:     "init <path>",
		Short:   "Write the built-in schema to a YAML file",
		Example: `  finreport schema init schema.yaml && finreport --schema schema.yaml report q4.txt`,
		Args:    cobra.ExactArgs(1),
		RunE:    runSchemaInit,
	}
	initCmd.Flags().BoolVar(&schemaForce, "force", false, "Overwrite an existing file")

	cmd.AddCommand(showCmd, initCmd)
	return cmd
}

func runSchemaShow(cmd *cobra.Command, args []string) error {
	path := schemaPath
	if path == "" {
		path = os.Getenv("FINREPORT_SCHEMA")
	}

	schema, err := config.LoadSchema(path)
	if err != nil {
		return err
	}

	if outputFormat == formatJSON {
		return printJSON(cmd.OutOrStdout(), schema)
	}
	return config.WriteSchema(cmd.OutOrStdout(), schema)
}

func runSchemaInit(cmd *cobra.Command, args []string) error {
	path := args[0]

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if schemaForce {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0644) // #nosec G304
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := config.WriteSchema(f, config.DefaultSchema()); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote schema to %s\n", path)
	}
	return nil
}
