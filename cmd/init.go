package cmd

import (
	"fmt"
	"os"

	"github.com/grovetools/textpatch/internal/scaffold"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var opts scaffold.InitOptions

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a starter textpatch.yml",
		Long: `Creates a textpatch.yml manifest in the given directory (default: the current directory).

Without --recipe the manifest contains one commented example patch. With
--recipe it references the named built-in recipes instead.

It will not overwrite an existing manifest.

Examples:
  textpatch init                        # Example manifest in the current directory
  textpatch init --recipe lore-skills   # Manifest using a built-in recipe`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current working directory: %w", err)
			}
			if len(args) == 1 {
				dir = args[0]
			}

			dest, err := scaffold.Init(dir, opts, getLogger())
			if err != nil {
				return err
			}
			log.WithField("path", dest).Info("Created manifest")
			fmt.Fprintln(cmd.OutOrStdout(), "Next steps: edit the manifest, then run 'textpatch check' and 'textpatch apply'.")
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&opts.Recipes, "recipe", nil, "Built-in recipe to include (repeatable)")

	return cmd
}
