package cli

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"webslayer-go/pkg/config"
)

func NewCmdConfig(g *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the configuration file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:          "show",
		Short:        "Print the effective configuration",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: closing(g, func(cmd *cobra.Command, args []string) error {
			if err := g.Complete(cmd, args); err != nil {
				return err
			}
			data, err := toml.Marshal(g.Config())
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:          "set section.key=value",
		Short:        "Set a configuration value",
		Example:      "  webslayer config set backend.base_url=http://localhost:8000/webslayer\n  webslayer config set poll.interval_seconds=5",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: closing(g, func(cmd *cobra.Command, args []string) error {
			if err := g.Complete(cmd, args); err != nil {
				return err
			}
			cfg := g.Config()
			if err := cfg.Set(args[0]); err != nil {
				return err
			}
			cfg.Sanitize()
			if err := config.Save(cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration updated successfully")
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: closing(g, func(cmd *cobra.Command, args []string) error {
			if err := g.Complete(cmd, args); err != nil {
				return err
			}
			p, err := config.ConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		}),
	})
	return cmd
}
