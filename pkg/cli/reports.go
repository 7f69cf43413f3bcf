package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"webslayer-go/pkg/app"
	"webslayer-go/pkg/cli/format"
	"webslayer-go/pkg/export"
	"webslayer-go/pkg/models"
)

func NewCmdReports(g *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reports",
		Aliases: []string{"report"},
		Short:   "Inspect and export job reports",
	}
	cmd.AddCommand(newCmdReportsList(g))
	cmd.AddCommand(newFuncCmd(g, "get NAME", "Print a report", cobra.ExactArgs(1),
		func(ctx context.Context, a *app.App, out io.Writer, args []string) error {
			r, err := a.Reports.Get(ctx, args[0])
			if err != nil {
				return err
			}
			return g.Print(out, r, func() string {
				data, err := export.JSON(r)
				if err != nil {
					return format.FormatErrorMessage(err)
				}
				return string(data)
			})
		}))
	cmd.AddCommand(newCmdReportsDownload(g))
	cmd.AddCommand(newCmdReportsArchive(g))
	cmd.AddCommand(newCmdReportsCheck(g))
	cmd.AddCommand(newFuncCmd(g, "delete NAME", "Delete a report", cobra.ExactArgs(1),
		func(ctx context.Context, a *app.App, out io.Writer, args []string) error {
			if err := a.Reports.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Report %s deleted\n", args[0])
			return nil
		}))
	return cmd
}

type ReportListOptions struct {
	*GlobalOptions
	SchemaName string
	Since      string
	Until      string
	Limit      int

	filter models.ReportFilter
}

func newCmdReportsList(g *GlobalOptions) *cobra.Command {
	o := &ReportListOptions{GlobalOptions: g}
	cmd := &cobra.Command{
		Use:          "list",
		Short:        "List reports, newest first",
		Args:         cobra.NoArgs,
		RunE:         runE(o),
		SilenceUsage: true,
	}
	fs := cmd.Flags()
	fs.StringVar(&o.SchemaName, "schema", "", "Only reports produced with this schema")
	fs.StringVar(&o.Since, "since", "", "Only reports created after this time (RFC3339 or a duration like 24h)")
	fs.StringVar(&o.Until, "until", "", "Only reports created before this time (RFC3339)")
	fs.IntVarP(&o.Limit, "limit", "n", 0, "Maximum number of reports (1-100)")
	return cmd
}

// parseTime accepts RFC3339 or a duration counted back from now.
func parseTime(v string, now time.Time) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return nil, fmt.Errorf("invalid time %q: expected RFC3339 or a duration", v)
	}
	t := now.Add(-d)
	return &t, nil
}

func (o *ReportListOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	now := time.Now()
	start, err := parseTime(o.Since, now)
	if err != nil {
		return err
	}
	end, err := parseTime(o.Until, now)
	if err != nil {
		return err
	}
	o.filter = models.ReportFilter{SchemaName: o.SchemaName, StartTime: start, EndTime: end, Limit: o.Limit}
	return nil
}

func (o *ReportListOptions) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	a, err := o.App(ctx, app.Options{})
	if err != nil {
		return err
	}
	list, err := a.Reports.List(ctx, o.filter)
	if err != nil {
		return err
	}
	return o.Print(cmd.OutOrStdout(), list, func() string { return format.ReportTable(list) })
}

type ReportDownloadOptions struct {
	*GlobalOptions
	Format string
	Out    string
}

func newCmdReportsDownload(g *GlobalOptions) *cobra.Command {
	o := &ReportDownloadOptions{GlobalOptions: g}
	cmd := &cobra.Command{
		Use:          "download NAME",
		Short:        "Save a report as <name>.json or <name>.xlsx",
		Args:         cobra.ExactArgs(1),
		RunE:         runE(o),
		SilenceUsage: true,
	}
	cmd.Flags().StringVarP(&o.Format, "format", "f", "json", "File format: json or xlsx")
	cmd.Flags().StringVar(&o.Out, "out", "", "Destination file (default <name>.<format>)")
	return cmd
}

func (o *ReportDownloadOptions) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	a, err := o.App(ctx, app.Options{})
	if err != nil {
		return err
	}
	return saveReport(ctx, a, cmd.OutOrStdout(), args[0], o.Format, o.Out)
}

type ReportArchiveOptions struct {
	*GlobalOptions
	Format string
}

func newCmdReportsArchive(g *GlobalOptions) *cobra.Command {
	o := &ReportArchiveOptions{GlobalOptions: g}
	cmd := &cobra.Command{
		Use:          "archive NAME",
		Short:        "Upload a report to object storage and print a download link",
		Args:         cobra.ExactArgs(1),
		RunE:         runE(o),
		SilenceUsage: true,
	}
	cmd.Flags().StringVarP(&o.Format, "format", "f", "json", "File format: json or xlsx")
	return cmd
}

func (o *ReportArchiveOptions) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	f, err := export.ParseFormat(o.Format)
	if err != nil {
		return err
	}
	a, err := o.App(ctx, app.Options{})
	if err != nil {
		return err
	}
	res, err := a.Reports.Archive(ctx, args[0], f)
	if err != nil {
		return err
	}
	return o.Print(cmd.OutOrStdout(), res, func() string {
		s := fmt.Sprintf("✓ Archived %s as %s\n", args[0], res.Key)
		if res.URL != "" {
			s += fmt.Sprintf("  %s\n", res.URL)
		}
		return s
	})
}

type ReportCheckOptions struct {
	*GlobalOptions
	SchemaName string
}

func newCmdReportsCheck(g *GlobalOptions) *cobra.Command {
	o := &ReportCheckOptions{GlobalOptions: g}
	cmd := &cobra.Command{
		Use:          "check NAME",
		Short:        "Validate a report's content against its schema",
		Args:         cobra.ExactArgs(1),
		RunE:         runE(o),
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&o.SchemaName, "schema", "", "Schema to check against (default: the report's schema)")
	return cmd
}

func (o *ReportCheckOptions) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	a, err := o.App(ctx, app.Options{})
	if err != nil {
		return err
	}
	res, err := a.Reports.Check(ctx, args[0], o.SchemaName)
	if err != nil {
		return err
	}
	if err := o.Print(cmd.OutOrStdout(), res, func() string {
		if res.Valid {
			return fmt.Sprintf("✓ Report %s matches schema %s\n", args[0], res.Schema)
		}
		return fmt.Sprintf("✗ Report %s does not match schema %s:\n  %s\n", args[0], res.Schema, strings.Join(res.Errors, "\n  "))
	}); err != nil {
		return err
	}
	if !res.Valid {
		return fmt.Errorf("report %s failed schema check", args[0])
	}
	return nil
}
