package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nao1215/wikiwalk/internal/config"
	"github.com/nao1215/wikiwalk/internal/database"
	"github.com/nao1215/wikiwalk/internal/driver"
	"github.com/nao1215/wikiwalk/internal/driver/browser"
	"github.com/nao1215/wikiwalk/internal/driver/static"
	"github.com/nao1215/wikiwalk/internal/link"
	wlog "github.com/nao1215/wikiwalk/internal/log"
	"github.com/nao1215/wikiwalk/internal/model"
	"github.com/nao1215/wikiwalk/internal/report"
	"github.com/nao1215/wikiwalk/internal/traversal"
	"github.com/spf13/cobra"
)

// driverOpener creates the page driver for a walk.
type driverOpener func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (driver.Driver, error)

// NewWalkCmd creates the walk command.
func NewWalkCmd() *cobra.Command {
	return newWalkCmd(openDriver)
}

func newWalkCmd(open driverOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "walk",
		Short: "Follow first links until Philosophy is reached",
		Long: `Walk plays one round of Getting to Philosophy.

It opens a random article (or --start), then repeatedly follows the first
qualifying link of the body text. The run ends when the target article is
reached, an article is visited twice, an article has no qualifying link, or
the step limit is exhausted. Finished runs are stored in the history
database unless --no-save is given.

Examples:
  # Start from a random article
  wikiwalk walk

  # Start from a given article and show the path
  wikiwalk walk -v --start "Quantum mechanics"

  # Use a headless Firefox and write a Markdown report
  wikiwalk walk -b firefox -m -o run.md

  # Route requests through a local Tor SOCKS proxy
  wikiwalk walk --proxy 127.0.0.1:9050`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := buildWalkConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}

			logger := wlog.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
			var progress io.Writer
			if cfg.Verbose {
				progress = cmd.ErrOrStderr()
			}
			return runWalk(cmd.Context(), cfg, open, cmd.OutOrStdout(), progress, logger)
		},
	}

	// Driver flags
	cmd.Flags().StringP("backend", "b", config.DefaultBackend.String(),
		"Page driver: static, chrome or firefox")
	cmd.Flags().Bool("headless", true,
		"Hide the browser window (chrome and firefox)")
	cmd.Flags().Bool("install", true,
		"Install the playwright browser before starting (chrome and firefox)")
	cmd.Flags().String("origin", config.DefaultOrigin,
		"Wikipedia edition to play on")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each page load")
	cmd.Flags().Duration("delay", config.DefaultRequestDelay,
		"Minimum pause between two requests (static)")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address, e.g. 127.0.0.1:9050 (static)")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent sent with every request")

	// Game flags
	cmd.Flags().StringP("start", "s", "",
		"Start article title or URL (default: random article)")
	cmd.Flags().String("target", model.DefaultTarget,
		"Heading that ends the run successfully")
	cmd.Flags().IntP("max-steps", "n", config.DefaultMaxSteps,
		"Maximum number of links to follow (0 = unlimited)")
	cmd.Flags().Bool("legacy-guard", false,
		"Check parentheses even when the link text occurs more than once in the paragraph")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .wikiwalk in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-save", false,
		"Do not store the run in the history database")

	return cmd
}

// buildWalkConfig layers defaults, the configuration file and the flags
// the user actually set, in that order.
func buildWalkConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if err := applyConfigFile(cfg, cfg.ConfigFilePath); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		name, err := flags.GetString("backend")
		if err != nil {
			return nil, err
		}
		cfg.Backend, err = driver.ParseBackend(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", config.ErrInvalidBackend, err)
		}
	}

	type boolFlag struct {
		name string
		dst  *bool
	}
	for _, f := range []boolFlag{
		{"headless", &cfg.Headless},
		{"install", &cfg.InstallBrowser},
		{"legacy-guard", &cfg.LegacyParenthesisGuard},
		{"json", &cfg.JSONReport},
		{"markdown", &cfg.MarkdownReport},
	} {
		if flags.Changed(f.name) {
			if *f.dst, err = flags.GetBool(f.name); err != nil {
				return nil, err
			}
		}
	}
	if flags.Changed("no-save") {
		noSave, err := flags.GetBool("no-save")
		if err != nil {
			return nil, err
		}
		cfg.SaveToDB = !noSave
	}

	type stringFlag struct {
		name string
		dst  *string
	}
	for _, f := range []stringFlag{
		{"origin", &cfg.Origin},
		{"proxy", &cfg.ProxyAddress},
		{"user-agent", &cfg.UserAgent},
		{"start", &cfg.StartURL},
		{"target", &cfg.Target},
		{"output", &cfg.ReportFile},
	} {
		if flags.Changed(f.name) {
			if *f.dst, err = flags.GetString(f.name); err != nil {
				return nil, err
			}
		}
	}

	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("delay") {
		if cfg.RequestDelay, err = flags.GetDuration("delay"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("max-steps") {
		if cfg.MaxSteps, err = flags.GetInt("max-steps"); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// applyConfigFile loads the configuration file, if any, onto cfg.
// An explicitly given path must exist; otherwise a missing file is fine.
func applyConfigFile(cfg *config.Config, explicitPath string) error {
	path := config.FindConfigFile(explicitPath)
	if path == "" {
		if explicitPath != "" {
			return fmt.Errorf("configuration file not found: %s", explicitPath)
		}
		return nil
	}

	file, err := config.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	if err := file.Apply(cfg); err != nil {
		return fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return nil
}

// openDriver creates the driver selected by cfg.Backend.
func openDriver(_ context.Context, cfg *config.Config, logger *slog.Logger) (driver.Driver, error) {
	if cfg.Backend.IsBrowser() {
		if cfg.ProxyAddress != "" {
			logger.Warn("proxy is only used by the static backend", "backend", cfg.Backend)
		}
		return browser.New(browser.Options{
			Backend:   cfg.Backend,
			Headless:  cfg.Headless,
			Timeout:   cfg.Timeout,
			UserAgent: cfg.UserAgent,
			Origin:    cfg.Origin,
			Install:   cfg.InstallBrowser,
		})
	}

	client, err := static.NewHTTPClient(cfg.ProxyAddress, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return static.New(client,
		static.WithOrigin(cfg.Origin),
		static.WithUserAgent(cfg.UserAgent),
		static.WithMaxBodySize(cfg.MaxBodySize),
		static.WithDelay(cfg.RequestDelay),
	), nil
}

// runWalk plays one game, stores it and writes the report.
// When progress is non-nil every visited article is echoed to it.
func runWalk(ctx context.Context, cfg *config.Config, open driverOpener, out, progress io.Writer, logger *slog.Logger) error {
	logger.Info("starting walk",
		"backend", cfg.Backend,
		"start", cfg.StartURL,
		"target", cfg.Target,
		"maxSteps", cfg.MaxSteps,
	)

	drv, err := open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to start %s driver: %w", cfg.Backend, err)
	}

	classifier := link.NewClassifier(
		link.WithOrigin(cfg.Origin),
		link.WithLegacyParenthesisGuard(cfg.LegacyParenthesisGuard),
	)
	opts := []traversal.Option{
		traversal.WithTarget(cfg.Target),
		traversal.WithMaxSteps(cfg.MaxSteps),
		traversal.WithClassifier(classifier),
		traversal.WithLogger(logger),
		traversal.WithBackendName(cfg.Backend.String()),
	}
	if progress != nil {
		opts = append(opts, traversal.WithObserver(func(step int, a model.Article) {
			fmt.Fprintf(progress, "%4d  %s\n", step, a.Heading)
		}))
	}
	if cfg.StartURL != "" {
		opts = append(opts, traversal.WithStartURL(cfg.ArticleURL(cfg.StartURL)))
	}

	run, walkErr := traversal.New(drv, opts...).FindPhilosophy(ctx)

	// The run is stored even when it was interrupted.
	if cfg.SaveToDB {
		if err := saveRun(context.WithoutCancel(ctx), cfg.DBDir, run, logger); err != nil {
			logger.Warn("failed to save run", "error", err)
		}
	}

	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) {
			return fmt.Errorf("walk interrupted after %d steps: %w", run.Steps, walkErr)
		}
		return fmt.Errorf("walk failed: %w", walkErr)
	}

	return writeRunReport(cfg, run, out)
}

// saveRun stores a run in the history database in dbDir.
func saveRun(ctx context.Context, dbDir string, run *model.Run, logger *slog.Logger) error {
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	logger.Info("run saved", "id", run.ID, "db", db.Path())
	return nil
}

// writeRunReport outputs the run in the requested format to the report
// file or to out.
func writeRunReport(cfg *config.Config, run *model.Run, out io.Writer) error {
	if cfg.ReportFile == "" {
		_, err := newReportWriter(out, cfg.JSONReport, cfg.MarkdownReport, cfg.Verbose).Write(run)
		return err
	}

	f, err := createReportFile(cfg.ReportFile)
	if err != nil {
		return err
	}
	return writeReportAndClose(f, cfg, run)
}

// writeReportAndClose writes the report to wc and closes it. A failed close
// is returned as well.
func writeReportAndClose(wc io.WriteCloser, cfg *config.Config, run *model.Run) (err error) {
	defer func() {
		if cerr := wc.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close output file: %w", cerr))
		}
	}()

	_, err = newReportWriter(wc, cfg.JSONReport, cfg.MarkdownReport, cfg.Verbose).Write(run)
	return err
}

// newReportWriter picks the report format.
func newReportWriter(out io.Writer, jsonOutput, markdownOutput, verbose bool) report.Writer {
	switch {
	case jsonOutput:
		return report.NewJSONWriter(out, report.WithPrettyPrint())
	case markdownOutput:
		return report.NewMarkdownWriter(out)
	default:
		return report.NewSimpleWriter(out, report.WithVerbose(verbose))
	}
}

// createReportFile creates (or truncates) path with owner-only permissions,
// creating parent directories as needed.
func createReportFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided report path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}
