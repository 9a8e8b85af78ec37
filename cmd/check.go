package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/grovetools/textpatch/pkg/patch"
	"github.com/grovetools/textpatch/pkg/writer"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [patch...]",
		Short: "Report whether each patch is pending, applied or missing",
		Long: `Inspects each target without writing to it.

  pending   a marker is present and apply would change the file
  applied   no marker is eligible but the patched form is present
  missing   neither is present; the target has drifted from what the patch expects
  unverified  no marker is left and the patch leaves no fixed text behind
              (deletions, regex replacements using $ groups)

Exits with an error when any patch is missing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			patches, err := loadPatches(args)
			if err != nil {
				return err
			}

			applier := patch.NewApplier(writer.NewDryRun(), getLogger())
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PATCH\tSTATUS\tTARGET")

			missing := 0
			for _, p := range patches {
				status, err := applier.Inspect(cmd.Context(), p)
				if err != nil {
					tw.Flush()
					return fmt.Errorf("check %s: %w", p.Name, err)
				}
				if status == patch.StatusMissing {
					missing++
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, colorStatus(status), p.Target)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if missing > 0 {
				return fmt.Errorf("%d of %d patches are missing from their targets", missing, len(patches))
			}
			return nil
		},
	}
	return cmd
}

func colorStatus(s patch.Status) string {
	switch s {
	case patch.StatusPending:
		return color.YellowString(string(s))
	case patch.StatusApplied:
		return color.GreenString(string(s))
	case patch.StatusUnverified:
		return color.CyanString(string(s))
	default:
		return color.RedString(string(s))
	}
}

func writeStatus(out io.Writer, name string, s patch.Status) {
	fmt.Fprintf(out, "%s: %s\n", name, colorStatus(s))
}
