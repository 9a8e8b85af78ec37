package cmd

import (
	"github.com/grovetools/textpatch/pkg/patch"
	"github.com/grovetools/textpatch/pkg/writer"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newApplyCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "apply [patch...]",
		Short: "Apply patches from the manifest",
		Long: `Applies the named patches (or every patch in the manifest when none are named), one after another.

Each patch is read, located and written on its own. The run stops at the first
patch whose markers are all missing; patches applied before it stay applied.

Examples:
  textpatch apply                       # Apply every patch in ./textpatch.yml
  textpatch apply update-lore-type      # Apply one patch
  textpatch apply --dry-run             # Preview the substitutions`,
		RunE: func(cmd *cobra.Command, args []string) error {
			patches, err := loadPatches(args)
			if err != nil {
				return err
			}

			var w writer.Writer = writer.NewFile()
			if dryRun {
				w = writer.NewDryRun()
			}
			applier := patch.NewApplier(w, getLogger())

			for _, p := range patches {
				res, err := applier.Apply(cmd.Context(), p)
				if err != nil {
					log.WithFields(logrus.Fields{
						"patch":  p.Name,
						"target": p.Target,
					}).Error("Patch failed")
					return err
				}

				fields := logrus.Fields{
					"patch":   res.Patch,
					"target":  res.Target,
					"changes": res.Count(),
				}
				if res.Match.Fallback() {
					fields["fallback"] = res.Match.Index
				}

				if dryRun {
					printPreview(cmd.OutOrStdout(), res)
					log.WithFields(fields).Info("Patch would apply")
				} else {
					log.WithFields(fields).Info("Patch applied")
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the substitutions without writing any file")

	return cmd
}
