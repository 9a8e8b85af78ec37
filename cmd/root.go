package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/grovetools/core/cli"
	"github.com/spf13/cobra"
)

var rootCmd *cobra.Command

// Persistent flag values shared by subcommands.
var (
	configPath string
	rootDir    string
)

func init() {
	rootCmd = newRootCmd()
}

func newRootCmd() *cobra.Command {
	cmd := cli.NewStandardCommand("textpatch", "Guarded literal text substitution for source trees.")
	cmd.Long = `textpatch applies declarative find-and-replace patches to text files.

Each patch names a target file, a primary marker, optional fallback markers
and a replacement. The first marker variant found is substituted; if none is
found the target is left untouched and textpatch exits with an error.

The manifest defaults to ./textpatch.yml, or $TEXTPATCH_CONFIG when set.`
	cmd.SilenceUsage = true
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		opts := cli.GetOptions(cmd)
		configPath = opts.ConfigFile
		if configPath == "" {
			configPath = os.Getenv("TEXTPATCH_CONFIG")
		}
		configureLogger(cmd.ErrOrStderr(), opts.Verbose, opts.JSONOutput)
	}

	cmd.PersistentFlags().StringVar(&rootDir, "root", "", "Override the manifest root for relative targets")

	// Add commands
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newApplyCmd())
	cmd.AddCommand(newReplaceCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newRecipeCmd())
	cmd.AddCommand(newSchemaCmd())

	return cmd
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cli.ExecuteContext(ctx, rootCmd)
}
