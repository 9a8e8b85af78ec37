package cmd

import "github.com/spf13/cobra"

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage the manifest JSON schema",
		Long:  "Provides tools for generating the JSON schema of textpatch.yml.",
	}

	cmd.AddCommand(newSchemaGenerateCmd())

	return cmd
}
