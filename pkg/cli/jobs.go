package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"webslayer-go/pkg/app"
	"webslayer-go/pkg/cli/format"
	"webslayer-go/pkg/export"
	"webslayer-go/pkg/models"
	"webslayer-go/pkg/poller"
	"webslayer-go/pkg/state"
)

// funcOptions runs a command body against the App with no flags of its own.
type funcOptions struct {
	*GlobalOptions
	run func(ctx context.Context, a *app.App, out io.Writer, args []string) error
}

func (o *funcOptions) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	a, err := o.App(ctx, app.Options{})
	if err != nil {
		return err
	}
	return o.run(ctx, a, cmd.OutOrStdout(), args)
}

func newFuncCmd(g *GlobalOptions, use, short string, args cobra.PositionalArgs, run func(ctx context.Context, a *app.App, out io.Writer, args []string) error) *cobra.Command {
	o := &funcOptions{GlobalOptions: g, run: run}
	return &cobra.Command{
		Use:          use,
		Short:        short,
		Args:         args,
		RunE:         runE(o),
		SilenceUsage: true,
	}
}

func NewCmdJobs(g *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Submit scraping jobs and follow their progress",
	}
	cmd.AddCommand(newCmdJobsStart(g))
	cmd.AddCommand(newFuncCmd(g, "status JOB_ID", "Fetch a job's status once", cobra.ExactArgs(1),
		func(ctx context.Context, a *app.App, out io.Writer, args []string) error {
			st, err := a.Backend.GetJobStatus(ctx, args[0])
			if err != nil {
				return err
			}
			return g.Print(out, st, func() string {
				line := fmt.Sprintf("job %s: %s\n", args[0], st.Status.Normalize())
				if st.ReportName != "" {
					line += fmt.Sprintf("report: %s\n", st.ReportName)
				}
				if st.Error != "" {
					line += fmt.Sprintf("error: %s\n", st.Error)
				}
				return line
			})
		}))
	cmd.AddCommand(newCmdJobsWatch(g))
	cmd.AddCommand(newCmdJobsHistory(g))
	return cmd
}

// WatchOptions controls following a job to completion.
type WatchOptions struct {
	Out    string
	Format string
}

func (w *WatchOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&w.Out, "save", w.Out, "Save the finished report to this file")
	fs.StringVar(&w.Format, "format", "json", "Report file format: json or xlsx")
}

// watchApp builds an App whose job changes are printed to progress as they
// happen. Callers pass stderr; stdout carries only command output.
func watchApp(ctx context.Context, g *GlobalOptions, progress io.Writer) (*app.App, error) {
	return g.App(ctx, app.Options{
		OnChange: func(s poller.Snapshot) {
			if s.JobID != "" && s.State != poller.StateLoading {
				fmt.Fprintln(progress, format.JobLine(s))
			}
		},
	})
}

// follow waits for jobID to finish, then prints the report to stdout or saves
// it. A failed job is returned as an error.
func (w *WatchOptions) follow(ctx context.Context, g *GlobalOptions, a *app.App, cmd *cobra.Command, jobID string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	snap, err := a.Jobs.Wait(ctx, jobID)
	if err != nil {
		return fmt.Errorf("waiting for job %s: %w", jobID, err)
	}
	if snap.State == poller.StateFailed {
		return fmt.Errorf("job %s failed: %s", jobID, snap.Error)
	}
	if snap.Report == nil {
		return nil
	}

	if w.Out == "" {
		return g.Print(cmd.OutOrStdout(), snap.Report, func() string {
			data, err := export.JSON(snap.Report)
			if err != nil {
				return format.FormatErrorMessage(err)
			}
			return string(data)
		})
	}
	return saveReport(ctx, a, cmd.ErrOrStderr(), snap.Report.Name, w.Format, w.Out)
}

func saveReport(ctx context.Context, a *app.App, out io.Writer, name, formatName, path string) error {
	f, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}
	dl, err := a.Reports.Download(ctx, name, f)
	if err != nil {
		return err
	}
	if path == "" {
		path = dl.Filename
	}
	if err := os.WriteFile(path, dl.Data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(out, "✓ Report %s saved to %s\n", name, path)
	return nil
}

// JobStartOptions builds a job request from flags layered over the default
// draft.
type JobStartOptions struct {
	*GlobalOptions
	WatchOptions

	URLs             []string
	SchemaName       string
	ReturnSchemaList bool
	ModelType        string
	ModelName        string
	Watch            bool

	draft state.Draft
}

func newCmdJobsStart(g *GlobalOptions) *cobra.Command {
	o := &JobStartOptions{GlobalOptions: g, draft: state.DefaultDraft()}
	cmd := &cobra.Command{
		Use:          "start",
		Short:        "Start a scraping job",
		Example:      "  webslayer jobs start --url https://example.com --schema products --watch",
		RunE:         runE(o),
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *JobStartOptions) Bind(fs *pflag.FlagSet) {
	d := &o.draft
	fs.StringArrayVar(&o.URLs, "url", nil, "URL to scrape (repeatable)")
	fs.StringVar(&o.SchemaName, "schema", "", "Schema the report must follow")
	fs.BoolVar(&o.ReturnSchemaList, "return-schema-list", false, "Return a list of records instead of one")
	fs.StringVar(&o.ModelType, "model-type", string(d.LLM.ModelType), "LLM provider: Ollama, Claude, OpenAI or Gemini")
	fs.StringVar(&o.ModelName, "model-name", d.LLM.ModelName, "LLM model name")

	fs.BoolVar(&d.CrawlConfig.EnableCrawling, "crawl", d.CrawlConfig.EnableCrawling, "Follow links from the given URLs")
	fs.IntVar(&d.CrawlConfig.MaxDepth, "max-depth", d.CrawlConfig.MaxDepth, "Crawl depth (1-10)")
	fs.IntVar(&d.CrawlConfig.MaxURLs, "max-urls", d.CrawlConfig.MaxURLs, "Maximum URLs to crawl (1-1000)")
	fs.BoolVar(&d.CrawlConfig.EnableChunking, "chunking", d.CrawlConfig.EnableChunking, "Split page content into chunks")
	fs.IntVar(&d.CrawlConfig.ChunkSize, "chunk-size", d.CrawlConfig.ChunkSize, "Chunk size in characters")
	fs.IntVar(&d.CrawlConfig.ChunkOverlap, "chunk-overlap", d.CrawlConfig.ChunkOverlap, "Overlap between chunks")

	fs.BoolVar(&d.ScraperConfig.EnableHallucinationCheck, "hallucination-check", d.ScraperConfig.EnableHallucinationCheck, "Enable hallucination checks")
	fs.IntVar(&d.ScraperConfig.MaxHallucinationChecks, "max-hallucination-checks", d.ScraperConfig.MaxHallucinationChecks, "Hallucination check attempts (0-5)")
	fs.BoolVar(&d.ScraperConfig.EnableQualityCheck, "quality-check", d.ScraperConfig.EnableQualityCheck, "Enable quality checks")
	fs.IntVar(&d.ScraperConfig.MaxQualityChecks, "max-quality-checks", d.ScraperConfig.MaxQualityChecks, "Quality check attempts (0-5)")

	fs.BoolVarP(&o.Watch, "watch", "w", false, "Wait for the job to finish")
	o.WatchOptions.Bind(fs)
}

func (o *JobStartOptions) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	a, err := watchApp(ctx, o.GlobalOptions, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	a.Store.UpdateDraft(func(d *state.Draft) {
		*d = o.draft
		d.URLs = o.URLs
		d.SchemaName = o.SchemaName
		d.ReturnSchemaList = o.ReturnSchemaList
		d.LLM.ModelType = models.ModelType(o.ModelType)
		d.LLM.ModelName = o.ModelName
	})

	created, err := a.Jobs.Submit(ctx, nil)
	if err != nil {
		return err
	}
	if err := o.Print(out, created, func() string {
		return fmt.Sprintf("✓ Job %s started: %s\n", created.JobID, created.Message)
	}); err != nil {
		return err
	}
	if !o.Watch {
		return nil
	}
	return o.follow(ctx, o.GlobalOptions, a, cmd, created.JobID)
}

type JobWatchOptions struct {
	*GlobalOptions
	WatchOptions
}

func newCmdJobsWatch(g *GlobalOptions) *cobra.Command {
	o := &JobWatchOptions{GlobalOptions: g}
	cmd := &cobra.Command{
		Use:          "watch JOB_ID",
		Short:        "Poll a job until it finishes and print its report",
		Args:         cobra.ExactArgs(1),
		RunE:         runE(o),
		SilenceUsage: true,
	}
	o.WatchOptions.Bind(cmd.Flags())
	return cmd
}

func (o *JobWatchOptions) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	a, err := watchApp(ctx, o.GlobalOptions, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.Jobs.Track(args[0])
	return o.follow(ctx, o.GlobalOptions, a, cmd, args[0])
}

type JobHistoryOptions struct {
	*GlobalOptions
	Limit int
}

func newCmdJobsHistory(g *GlobalOptions) *cobra.Command {
	o := &JobHistoryOptions{GlobalOptions: g}
	cmd := &cobra.Command{
		Use:          "history",
		Short:        "List jobs recorded in the history database",
		Args:         cobra.NoArgs,
		RunE:         runE(o),
		SilenceUsage: true,
	}
	cmd.Flags().IntVarP(&o.Limit, "limit", "n", 20, "Number of jobs to show")
	return cmd
}

func (o *JobHistoryOptions) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	a, err := o.App(ctx, app.Options{})
	if err != nil {
		return err
	}
	if a.DB == nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "job history is disabled (set database.url)")
	}
	recs, err := a.Jobs.History(ctx, o.Limit)
	if err != nil {
		return err
	}
	return o.Print(cmd.OutOrStdout(), recs, func() string { return format.HistoryTable(recs) })
}
