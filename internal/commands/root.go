package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bokisim/bokisim/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "bokisim",
		Short:   "Turn-based bookkeeping simulation",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newDemoCommand())
	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newReportCommand())

	return rootCmd
}
