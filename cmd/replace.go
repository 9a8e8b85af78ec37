package cmd

import (
	"fmt"
	"os"

	"github.com/grovetools/textpatch/pkg/patch"
	"github.com/grovetools/textpatch/pkg/writer"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newReplaceCmd() *cobra.Command {
	var (
		p               patch.Patch
		mode            string
		regex           bool
		dryRun          bool
		markerFile      string
		replacementFile string
	)

	cmd := &cobra.Command{
		Use:   "replace",
		Short: "Apply a single ad-hoc substitution without a manifest",
		Long: `Substitutes the first occurrence of --marker in --file with --replacement.

When the marker is absent each --fallback is tried in order. If no variant is
found the file is left untouched and the command fails.

Multi-line markers and replacements can be read from files with
--marker-file and --replacement-file.

Examples:
  textpatch replace --file src/types/lore.ts --marker 'attacks?: string;' \
      --mode insert_after --replacement-file field.txt
  textpatch replace --file App.tsx --marker 'old' --fallback 'older' --replacement 'new'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if markerFile != "" {
				data, err := os.ReadFile(markerFile)
				if err != nil {
					return fmt.Errorf("failed to read marker file: %w", err)
				}
				p.Marker = string(data)
			}
			if replacementFile != "" {
				data, err := os.ReadFile(replacementFile)
				if err != nil {
					return fmt.Errorf("failed to read replacement file: %w", err)
				}
				p.Replacement = string(data)
			}
			p.Name = "replace"
			p.Mode = patch.Mode(mode)
			if regex {
				p.Match = patch.MatchRegex
			}

			var w writer.Writer = writer.NewFile()
			if dryRun {
				w = writer.NewDryRun()
			}

			res, err := patch.NewApplier(w, getLogger()).Apply(cmd.Context(), p)
			if err != nil {
				return err
			}

			if dryRun {
				printPreview(cmd.OutOrStdout(), res)
			}
			log.WithFields(logrus.Fields{
				"target":   res.Target,
				"changes":  res.Count(),
				"fallback": res.Match.Fallback(),
				"dry_run":  dryRun,
			}).Info("Replacement complete")
			return nil
		},
	}

	cmd.Flags().StringVarP(&p.Target, "file", "f", "", "File to patch")
	cmd.Flags().StringVarP(&p.Marker, "marker", "m", "", "Primary marker")
	cmd.Flags().StringArrayVar(&p.Fallbacks, "fallback", nil, "Fallback marker (repeatable, tried in order)")
	cmd.Flags().StringVarP(&p.Replacement, "replacement", "r", "", "Replacement text")
	cmd.Flags().StringVar(&markerFile, "marker-file", "", "Read the primary marker from a file")
	cmd.Flags().StringVar(&replacementFile, "replacement-file", "", "Read the replacement from a file")
	cmd.Flags().StringVar(&mode, "mode", string(patch.ModeReplace), "replace, insert_after or insert_before")
	cmd.Flags().BoolVar(&regex, "regex", false, "Treat markers as regular expressions")
	cmd.Flags().BoolVar(&p.All, "all", false, "Substitute every occurrence of the matched marker")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the substitution without writing the file")
	cmd.MarkFlagRequired("file")

	return cmd
}
