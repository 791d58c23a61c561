package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/djimit/PhishLens/internal/config"
	"github.com/djimit/PhishLens/internal/database"
	"github.com/djimit/PhishLens/internal/history"
	"github.com/djimit/PhishLens/internal/log"
	"github.com/djimit/PhishLens/internal/model"
	"github.com/djimit/PhishLens/internal/report"
)

// addOutputFlags registers the report flags shared by scan and history.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .phishlens in current or home directory)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-color", false,
		"Disable the colored heatmap")
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// flagChanged reports whether the command defines name and the user set it.
func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

// buildConfig resolves defaults, the configuration file, .env and the
// environment, then applies the flags the user set.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(configPath, os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg.Verbose = getVerboseFlag(cmd)

	flags := cmd.Flags()
	if flagChanged(cmd, "timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flagChanged(cmd, "model") {
		if cfg.Model, err = flags.GetString("model"); err != nil {
			return nil, err
		}
	}
	if flagChanged(cmd, "proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}
	if flagChanged(cmd, "adversarial") {
		if cfg.AdversarialEnabled, err = flags.GetBool("adversarial"); err != nil {
			return nil, err
		}
	}
	if flagChanged(cmd, "ephemeral") {
		if cfg.Ephemeral, err = flags.GetBool("ephemeral"); err != nil {
			return nil, err
		}
	}

	if flagChanged(cmd, "json") {
		if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
			return nil, err
		}
	}
	if flagChanged(cmd, "markdown") {
		if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
			return nil, err
		}
	}
	if flagChanged(cmd, "output") {
		if cfg.ReportFile, err = flags.GetString("output"); err != nil {
			return nil, err
		}
	}
	if flagChanged(cmd, "no-color") {
		if cfg.NoColor, err = flags.GetBool("no-color"); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// setupLogger creates the secure structured logger for the run.
func setupLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	logger := log.NewSecureLogger(cmd.ErrOrStderr(), verbose)
	slog.SetDefault(logger)
	return logger
}

// historyHandle is an open scan history and, unless the run is ephemeral,
// the database behind it.
type historyHandle struct {
	store  *history.Store
	db     *database.SlotDB
	slot   string
	logger *slog.Logger
}

// clearedSlotSuffix names the slot that remembers when the history was
// last cleared. Clearing removes the history slot itself.
const clearedSlotSuffix = "_cleared"

// openHistory opens the persisted scan history, or an in-memory one when
// cfg.Ephemeral is set.
func openHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*historyHandle, error) {
	if cfg.Ephemeral {
		store := history.NewStore(history.NewMemorySlot(), history.WithLogger(logger))
		return &historyHandle{store: store, logger: logger}, nil
	}

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	store := history.NewStore(db.Slot(cfg.HistorySlot), history.WithLogger(logger))
	store.Load(ctx)
	logger.Debug("history loaded", "path", db.Path(), "slot", cfg.HistorySlot, "items", store.Len())

	return &historyHandle{store: store, db: db, slot: cfg.HistorySlot, logger: logger}, nil
}

// Close releases the database.
func (h *historyHandle) Close() {
	if h.db == nil {
		return
	}
	if err := h.db.Close(); err != nil {
		h.logger.Error("failed to close history database", "error", err)
	}
}

// clear empties the history and stamps the cleared marker.
func (h *historyHandle) clear(ctx context.Context) (int, error) {
	n := h.store.Len()
	if err := h.store.Clear(ctx); err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	if h.db == nil {
		return n, nil
	}
	if err := h.db.Slot(h.slot+clearedSlotSuffix).Write(ctx, []byte(strconv.Itoa(n))); err != nil {
		return n, fmt.Errorf("failed to record history clear: %w", err)
	}
	return n, nil
}

// status describes the persisted history: when it was last written, when it
// was cleared, or nothing for a history that was never used.
func (h *historyHandle) status(ctx context.Context) (string, error) {
	if h.db == nil {
		return "", nil
	}

	slot := h.db.Slot(h.slot)
	exists, err := slot.Exists(ctx)
	if err != nil {
		return "", err
	}
	if exists {
		at, err := slot.UpdatedAt(ctx)
		if err != nil {
			return "", err
		}
		if at.IsZero() {
			return "Last updated: unknown", nil
		}
		return "Last updated: " + formatStatusTime(at), nil
	}

	marker := h.db.Slot(h.slot + clearedSlotSuffix)
	cleared, err := marker.Exists(ctx)
	if err != nil || !cleared {
		return "", err
	}
	at, err := marker.UpdatedAt(ctx)
	if err != nil {
		return "", err
	}
	if at.IsZero() {
		return "History was cleared.", nil
	}
	return "History was cleared on " + formatStatusTime(at) + ".", nil
}

func formatStatusTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}

// openOutput returns the report destination: cfg.ReportFile when set,
// otherwise stdout.
func openOutput(cmd *cobra.Command, cfg *config.Config) (io.Writer, func() error, error) {
	if cfg.ReportFile == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports quote the scanned email.
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

// newReportWriter selects the writer for the configured format.
func newReportWriter(cfg *config.Config, w io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewFullJSONWriter(w, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(w)
	default:
		return report.NewSimpleWriter(w,
			report.WithColor(!cfg.NoColor && isTerminal(w)),
			report.WithVerbose(cfg.Verbose),
		)
	}
}

// openReportWriter builds the writer for the configured format and
// destination. A report file also gets a plain summary on stdout.
func openReportWriter(cmd *cobra.Command, cfg *config.Config) (report.Writer, func() error, error) {
	out, closeOut, err := openOutput(cmd, cfg)
	if err != nil {
		return nil, nil, err
	}
	w := newReportWriter(cfg, out)
	if cfg.ReportFile == "" {
		return w, closeOut, nil
	}

	stdout := cmd.OutOrStdout()
	summary := report.NewSimpleWriter(stdout, report.WithColor(!cfg.NoColor && isTerminal(stdout)))
	return report.NewMultiWriter(w, summary), closeOut, nil
}

// writeItem writes one scan to the configured destination.
func writeItem(cmd *cobra.Command, cfg *config.Config, item *model.HistoryItem) error {
	w, closeOut, err := openReportWriter(cmd, cfg)
	if err != nil {
		return err
	}
	if _, err := w.Write(item); err != nil {
		_ = closeOut() //nolint:errcheck // the write error is more useful
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := closeOut(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if cfg.ReportFile != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", cfg.ReportFile)
	}
	return nil
}

// isTerminal reports whether v is a file attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
