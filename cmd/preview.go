package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/grovetools/textpatch/pkg/patch"
)

var (
	headerColor  = color.New(color.Bold)
	removedColor = color.New(color.FgRed)
	addedColor   = color.New(color.FgGreen)
)

// printPreview writes each change of res as removed and added lines.
func printPreview(out io.Writer, res *patch.Result) {
	headerColor.Fprintf(out, "--- %s (%s)\n", res.Target, res.Patch)
	for _, c := range res.Match.Changes {
		fmt.Fprintf(out, "@@ line %d @@\n", c.Line)
		for _, line := range splitLines(c.Old) {
			removedColor.Fprintf(out, "-%s\n", line)
		}
		for _, line := range splitLines(c.New) {
			addedColor.Fprintf(out, "+%s\n", line)
		}
	}
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
