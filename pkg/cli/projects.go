package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"webslayer-go/pkg/app"
	"webslayer-go/pkg/cli/format"
	"webslayer-go/pkg/schemas"
)

func NewCmdProjects(g *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Manage saved projects",
	}
	cmd.AddCommand(newFuncCmd(g, "list", "List projects", cobra.NoArgs,
		func(ctx context.Context, a *app.App, out io.Writer, args []string) error {
			list, err := a.Backend.ListProjects(ctx)
			if err != nil {
				return err
			}
			return g.Print(out, list, func() string { return format.ProjectTable(list) })
		}))
	cmd.AddCommand(newFuncCmd(g, "get NAME", "Show a project", cobra.ExactArgs(1),
		func(ctx context.Context, a *app.App, out io.Writer, args []string) error {
			p, err := a.Backend.GetProject(ctx, args[0])
			if err != nil {
				return err
			}
			return g.Print(out, p, func() string { return format.ProjectDetails(*p) })
		}))
	cmd.AddCommand(newCmdProjectsApply(g))
	cmd.AddCommand(newFuncCmd(g, "delete NAME", "Delete a project", cobra.ExactArgs(1),
		func(ctx context.Context, a *app.App, out io.Writer, args []string) error {
			if err := a.Backend.DeleteProject(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Project %s deleted\n", args[0])
			return nil
		}))
	cmd.AddCommand(newCmdProjectsRun(g))
	return cmd
}

type ProjectApplyOptions struct {
	*GlobalOptions
	File string
}

func newCmdProjectsApply(g *GlobalOptions) *cobra.Command {
	o := &ProjectApplyOptions{GlobalOptions: g}
	cmd := &cobra.Command{
		Use:          "apply -f FILE",
		Short:        "Create or replace a project from a YAML or JSON file",
		Args:         cobra.NoArgs,
		RunE:         runE(o),
		SilenceUsage: true,
	}
	cmd.Flags().StringVarP(&o.File, "file", "f", "", "Project definition file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (o *ProjectApplyOptions) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	p, err := schemas.LoadProjectFile(o.File)
	if err != nil {
		return err
	}
	if p.Name == "" {
		return fmt.Errorf("%s: project name is required", o.File)
	}
	if p.CrawlConfig != nil {
		c := p.CrawlConfig.Clamp()
		p.CrawlConfig = &c
	}
	if p.ScraperConfig != nil {
		s := p.ScraperConfig.Clamp()
		p.ScraperConfig = &s
	}

	a, err := o.App(ctx, app.Options{})
	if err != nil {
		return err
	}
	saved, err := a.Backend.UpsertProject(ctx, *p)
	if err != nil {
		return err
	}
	return o.Print(cmd.OutOrStdout(), saved, func() string {
		return fmt.Sprintf("✓ Project %s applied\n", saved.Name)
	})
}

type ProjectRunOptions struct {
	*GlobalOptions
	WatchOptions
	Watch bool
}

func newCmdProjectsRun(g *GlobalOptions) *cobra.Command {
	o := &ProjectRunOptions{GlobalOptions: g}
	cmd := &cobra.Command{
		Use:          "run NAME",
		Short:        "Start a job from a saved project",
		Args:         cobra.ExactArgs(1),
		RunE:         runE(o),
		SilenceUsage: true,
	}
	cmd.Flags().BoolVarP(&o.Watch, "watch", "w", false, "Wait for the job to finish")
	o.WatchOptions.Bind(cmd.Flags())
	return cmd
}

func (o *ProjectRunOptions) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	a, err := watchApp(ctx, o.GlobalOptions, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	created, err := a.Projects.Run(ctx, args[0])
	if err != nil {
		return err
	}
	if err := o.Print(out, created, func() string {
		return fmt.Sprintf("✓ Job %s started from project %s\n", created.JobID, args[0])
	}); err != nil {
		return err
	}
	if !o.Watch {
		return nil
	}
	return o.follow(ctx, o.GlobalOptions, a, cmd, created.JobID)
}
