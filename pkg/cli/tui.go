package cli

import (
	"context"

	"github.com/spf13/cobra"

	"webslayer-go/pkg/app"
	"webslayer-go/pkg/cli/tui"
)

type TUIOptions struct {
	*GlobalOptions
}

func NewCmdTUI(g *GlobalOptions) *cobra.Command {
	o := &TUIOptions{GlobalOptions: g}
	return &cobra.Command{
		Use:          "tui",
		Short:        "Open the interactive dashboard (default)",
		Args:         cobra.NoArgs,
		RunE:         runE(o),
		SilenceUsage: true,
	}
}

func (o *TUIOptions) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	bridge := &tui.Bridge{}
	a, err := o.App(ctx, app.Options{OnChange: bridge.OnChange})
	if err != nil {
		return err
	}
	return tui.Run(a, bridge)
}
