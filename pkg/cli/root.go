package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the webslayer command tree. Without a subcommand it
// opens the interactive dashboard.
func NewRootCommand() *cobra.Command {
	g := DefaultGlobalOptions()
	tuiCmd := NewCmdTUI(g)

	cmd := &cobra.Command{
		Use:          "webslayer",
		Short:        "webslayer configures and monitors scraping jobs",
		Args:         cobra.NoArgs,
		RunE:         tuiCmd.RunE,
		SilenceUsage: true,
	}
	g.Bind(cmd.PersistentFlags())

	cmd.AddCommand(tuiCmd)
	cmd.AddCommand(NewCmdJobs(g))
	cmd.AddCommand(NewCmdReports(g))
	cmd.AddCommand(NewCmdSchemas(g))
	cmd.AddCommand(NewCmdProjects(g))
	cmd.AddCommand(NewCmdConfig(g))
	return cmd
}
