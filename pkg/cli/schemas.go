package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"webslayer-go/pkg/app"
	"webslayer-go/pkg/cli/format"
	"webslayer-go/pkg/schemas"
	"webslayer-go/pkg/utils"
)

func NewCmdSchemas(g *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schemas",
		Aliases: []string{"schema"},
		Short:   "Manage extraction schemas",
	}
	cmd.AddCommand(newFuncCmd(g, "list", "List schema names", cobra.NoArgs,
		func(ctx context.Context, a *app.App, out io.Writer, args []string) error {
			names, err := a.Backend.ListSchemas(ctx)
			if err != nil {
				return err
			}
			return g.Print(out, names, func() string {
				if len(names) == 0 {
					return "No schemas found.\n"
				}
				return strings.Join(names, "\n") + "\n"
			})
		}))
	cmd.AddCommand(newFuncCmd(g, "get NAME", "Show a schema's fields", cobra.ExactArgs(1),
		func(ctx context.Context, a *app.App, out io.Writer, args []string) error {
			s, err := a.Backend.GetSchema(ctx, args[0])
			if err != nil {
				return err
			}
			return g.Print(out, s, func() string { return format.SchemaFields(*s) })
		}))
	cmd.AddCommand(newCmdSchemasApply(g))
	cmd.AddCommand(newFuncCmd(g, "delete NAME", "Delete a schema", cobra.ExactArgs(1),
		func(ctx context.Context, a *app.App, out io.Writer, args []string) error {
			if err := a.Backend.DeleteSchema(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Schema %s deleted\n", args[0])
			return nil
		}))
	return cmd
}

type SchemaApplyOptions struct {
	*GlobalOptions
	File string
}

func newCmdSchemasApply(g *GlobalOptions) *cobra.Command {
	o := &SchemaApplyOptions{GlobalOptions: g}
	cmd := &cobra.Command{
		Use:          "apply -f FILE",
		Short:        "Create or replace a schema from a YAML or JSON file",
		Args:         cobra.NoArgs,
		RunE:         runE(o),
		SilenceUsage: true,
	}
	cmd.Flags().StringVarP(&o.File, "file", "f", "", "Schema definition file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (o *SchemaApplyOptions) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	s, err := schemas.LoadSchemaFile(o.File)
	if err != nil {
		return err
	}
	if err := utils.ValidateSchema(*s); err != nil {
		return err
	}
	a, err := o.App(ctx, app.Options{})
	if err != nil {
		return err
	}
	saved, err := a.Backend.UpsertSchema(ctx, *s)
	if err != nil {
		return err
	}
	return o.Print(cmd.OutOrStdout(), saved, func() string {
		return fmt.Sprintf("✓ Schema %s applied (%d fields)\n", saved.Name, len(saved.Fields))
	})
}
