package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"webslayer-go/pkg/app"
	"webslayer-go/pkg/cli/logger"
	"webslayer-go/pkg/config"
	"webslayer-go/pkg/schemas"
)

// Output formats accepted by --output.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// GlobalOptions are the persistent flags shared by every command. The
// config, logger and App are created on first use.
type GlobalOptions struct {
	ConfigFile string
	BaseURL    string
	Output     string
	LogFile    string
	Offline    bool

	cfg *config.Config
	app *app.App
}

func DefaultGlobalOptions() *GlobalOptions {
	return &GlobalOptions{
		Output: OutputTable,
	}
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ConfigFile, "config", "c", o.ConfigFile, "Path to configuration file (default ~/.config/webslayer/config.toml)")
	fs.StringVarP(&o.BaseURL, "base-url", "u", o.BaseURL, "Scraping backend base URL (overrides backend.base_url)")
	fs.StringVarP(&o.Output, "output", "o", o.Output, "Output format: table, json or yaml")
	fs.StringVar(&o.LogFile, "log-file", o.LogFile, "Log file (default tmp/webslayer-cli-<timestamp>.log)")
	fs.BoolVar(&o.Offline, "offline", o.Offline, "Do not connect to Redis, Postgres or object storage")
}

// Complete loads configuration and opens the log file.
func (o *GlobalOptions) Complete(cmd *cobra.Command, args []string) error {
	if o.cfg != nil {
		return nil
	}
	if o.ConfigFile != "" {
		if err := os.Setenv(config.PathEnv, o.ConfigFile); err != nil {
			return err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if o.BaseURL != "" {
		cfg.Backend.BaseURL = o.BaseURL
	}
	if o.LogFile != "" {
		cfg.Log.File = o.LogFile
	}
	if _, err := logger.Init(cfg.Log.Level, cfg.Log.File); err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}

func (o *GlobalOptions) Validate(args []string) error {
	switch o.Output {
	case OutputTable, OutputJSON, OutputYAML:
		return nil
	}
	return fmt.Errorf("unsupported output format %q", o.Output)
}

// Config returns the loaded configuration; Complete must have run.
func (o *GlobalOptions) Config() *config.Config {
	return o.cfg
}

// App builds the services on first use.
func (o *GlobalOptions) App(ctx context.Context, opts app.Options) (*app.App, error) {
	if o.app != nil {
		return o.app, nil
	}
	opts.Offline = opts.Offline || o.Offline
	a, err := app.New(ctx, o.cfg, logger.L(), opts)
	if err != nil {
		return nil, err
	}
	o.app = a
	return a, nil
}

// Close releases the App and flushes the log.
func (o *GlobalOptions) Close() {
	if o.app != nil {
		o.app.Close()
		o.app = nil
	}
	logger.CloseLog()
}

// Print writes v as JSON or YAML, or calls table for the default format.
func (o *GlobalOptions) Print(w io.Writer, v any, table func() string) error {
	switch o.Output {
	case OutputJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case OutputYAML:
		data, err := schemas.MarshalYAML(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		_, err := fmt.Fprint(w, table())
		return err
	}
}

// runner adapts the Complete/Validate/Run sequence shared by every command.
type runner interface {
	Complete(cmd *cobra.Command, args []string) error
	Validate(args []string) error
	Run(ctx context.Context, cmd *cobra.Command, args []string) error
	Close()
}

func runE(o runner) func(cmd *cobra.Command, args []string) error {
	return closing(o, func(cmd *cobra.Command, args []string) error {
		if err := o.Complete(cmd, args); err != nil {
			return err
		}
		if err := o.Validate(args); err != nil {
			return err
		}
		return o.Run(cmd.Context(), cmd, args)
	})
}

// closing runs fn, logs its error and then releases c. cobra skips post-run
// hooks when RunE fails, so cleanup happens here.
func closing(c interface{ Close() }, fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer c.Close()
		err := fn(cmd, args)
		if err != nil {
			logger.LogError(err, "%s failed", cmd.CommandPath())
		}
		return err
	}
}
