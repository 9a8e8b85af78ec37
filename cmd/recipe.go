package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/grovetools/textpatch/pkg/recipes"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRecipeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "List and display built-in patch recipes",
		Long:  "Commands for working with the patch recipes embedded in the binary",
	}

	cmd.AddCommand(newRecipeListCmd())
	cmd.AddCommand(newRecipePrintCmd())

	return cmd
}

func newRecipeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List built-in recipes",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := recipes.List()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPATCHES\tDESCRIPTION")
			for _, r := range all {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", r.Name, len(r.Patches), r.Description)
			}
			return tw.Flush()
		},
	}
}

func newRecipePrintCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "print [name]",
		Short: "Print a recipe, or every recipe when no name is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var value interface{}
			if len(args) == 1 {
				r, err := recipes.Get(args[0])
				if err != nil {
					return err
				}
				value = r
			} else {
				collection, err := recipes.Collection()
				if err != nil {
					return err
				}
				value = collection
			}

			var (
				data []byte
				err  error
			)
			if jsonOutput {
				data, err = json.MarshalIndent(value, "", "  ")
				data = append(data, '\n')
			} else {
				data, err = yaml.Marshal(value)
			}
			if err != nil {
				return fmt.Errorf("failed to marshal recipe: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print as JSON instead of YAML")

	return cmd
}
