package cmd

import (
	"fmt"
	"os"

	"github.com/grovetools/textpatch/pkg/config"
	"github.com/spf13/cobra"
)

func newSchemaGenerateCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the JSON schema of textpatch.yml",
		Long: `Reflects the manifest types into a JSON schema.

The schema is printed to stdout unless --output is given. Editors that
understand JSON schema can use it to validate and complete manifests.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.SchemaJSON()
			if err != nil {
				return fmt.Errorf("failed to marshal schema: %w", err)
			}
			data = append(data, '\n')

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("failed to write schema file: %w", err)
			}
			log.WithField("path", output).Info("Schema generation complete")
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the schema to this file")
	return cmd
}
