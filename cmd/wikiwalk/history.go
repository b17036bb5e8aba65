package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nao1215/wikiwalk/internal/config"
	"github.com/nao1215/wikiwalk/internal/database"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit is how many runs history lists by default.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previously played runs",
		Long: `History lists the runs stored in the history database.

Examples:
  # List the 20 most recent runs
  wikiwalk history

  # Show one run with its full path (an ID prefix is enough)
  wikiwalk history --id 3f2a9c1e

  # Outcome statistics as Markdown with a pie chart
  wikiwalk history --stats --markdown

  # Remove a run
  wikiwalk history --delete 3f2a9c1e`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "l", defaultHistoryLimit,
		"Maximum number of runs to list (0 = all)")
	cmd.Flags().Bool("stats", false,
		"Show outcome statistics instead of the run list")
	cmd.Flags().String("id", "",
		"Show a single run by ID or unique ID prefix")
	cmd.Flags().String("delete", "",
		"Delete a run by ID or unique ID prefix")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: ~/.local/share/wikiwalk)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .wikiwalk in current or home directory)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")

	cmd.MarkFlagsMutuallyExclusive("json", "markdown")
	cmd.MarkFlagsMutuallyExclusive("stats", "id", "delete")

	return cmd
}

// historyOptions holds the parsed history flags.
type historyOptions struct {
	limit    int
	stats    bool
	id       string
	deleteID string
	json     bool
	markdown bool
	verbose  bool
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	opts, err := parseHistoryFlags(cmd)
	if err != nil {
		return err
	}
	if opts.limit < 0 {
		return errors.New("limit must not be negative")
	}

	dbDir, err := historyDBDir(cmd)
	if err != nil {
		return err
	}

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return showHistory(cmd.Context(), db, opts, cmd.OutOrStdout())
}

func parseHistoryFlags(cmd *cobra.Command) (historyOptions, error) {
	var opts historyOptions
	var err error
	flags := cmd.Flags()

	if opts.limit, err = flags.GetInt("limit"); err != nil {
		return opts, err
	}
	if opts.stats, err = flags.GetBool("stats"); err != nil {
		return opts, err
	}
	if opts.id, err = flags.GetString("id"); err != nil {
		return opts, err
	}
	if opts.deleteID, err = flags.GetString("delete"); err != nil {
		return opts, err
	}
	if opts.json, err = flags.GetBool("json"); err != nil {
		return opts, err
	}
	if opts.markdown, err = flags.GetBool("markdown"); err != nil {
		return opts, err
	}
	opts.verbose = getVerboseFlag(cmd)
	return opts, nil
}

// historyDBDir resolves the database directory: --db-dir, then the
// configuration file, then the XDG data directory.
func historyDBDir(cmd *cobra.Command) (string, error) {
	dir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return "", err
	}
	if dir != "" {
		return dir, nil
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return "", err
	}
	cfg := config.NewConfig()
	if err := applyConfigFile(cfg, configPath); err != nil {
		return "", err
	}
	return cfg.DBDir, nil
}

// showHistory performs the action selected by opts.
func showHistory(ctx context.Context, db *database.RunDB, opts historyOptions, out io.Writer) error {
	switch {
	case opts.deleteID != "":
		run, err := db.GetRun(ctx, opts.deleteID)
		if err != nil {
			return err
		}
		if err := db.DeleteRun(ctx, run.ID); err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "Deleted run %s\n", run.ID)
		return err

	case opts.id != "":
		run, err := db.GetRun(ctx, opts.id)
		if err != nil {
			return err
		}
		// A single run is always shown with its path.
		_, err = newReportWriter(out, opts.json, opts.markdown, true).Write(run)
		return err

	case opts.stats:
		stats, err := db.Stats(ctx)
		if err != nil {
			return err
		}
		_, err = newReportWriter(out, opts.json, opts.markdown, opts.verbose).WriteStats(stats)
		return err

	default:
		runs, err := db.ListRuns(ctx, opts.limit)
		if err != nil {
			return err
		}
		_, err = newReportWriter(out, opts.json, opts.markdown, opts.verbose).WriteHistory(runs)
		return err
	}
}
