package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/djimit/PhishLens/internal/config"
	"github.com/djimit/PhishLens/internal/history"
	"github.com/djimit/PhishLens/internal/inference"
	"github.com/djimit/PhishLens/internal/model"
	"github.com/djimit/PhishLens/internal/scanner"
)

// errOffline is returned if a history command ever reaches the analysis
// service. History commands only display stored scans.
var errOffline = errors.New("analysis is not available from history commands")

// NewHistoryCmd creates the history command and its subcommands.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent scans",
		Long: fmt.Sprintf(`History lists the last %d scans, newest first.

Examples:
  # List recent scans
  phishlens history

  # Show the most recent scan again
  phishlens history show 1

  # Show a scan by id
  phishlens history show 0192f5a4-7c1e-7d4e-9b8a-2f1c3d4e5f60

  # Remove all stored scans
  phishlens history clear`, model.HistoryLimit),
		Args: cobra.NoArgs,
		RunE: runHistoryListCmd,
	}
	addOutputFlags(cmd)

	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryClearCmd())

	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id|index>",
		Short: "Show a stored scan",
		Long: `Show prints the full report of a stored scan without analyzing it again.
The scan is selected by its id or by its 1-based position in the history list.`,
		Args: cobra.ExactArgs(1),
		RunE: runHistoryShowCmd,
	}
	addOutputFlags(cmd)
	return cmd
}

func newHistoryClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all stored scans",
		Args:  cobra.NoArgs,
		RunE:  runHistoryClearCmd,
	}
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .phishlens in current or home directory)")
	return cmd
}

// historyConfig loads the configuration for history commands. No API key
// is needed to read the history.
func historyConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.JSONReport && cfg.MarkdownReport {
		return nil, fmt.Errorf("configuration error: %w", config.ErrConflictingReportFormats)
	}
	return cfg, nil
}

func runHistoryListCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := historyConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd, cfg.Verbose)

	hist, err := openHistory(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer hist.Close()

	w, closeOut, err := openReportWriter(cmd, cfg)
	if err != nil {
		return err
	}
	if _, err := w.WriteHistory(hist.store.List()); err != nil {
		_ = closeOut() //nolint:errcheck // the write error is more useful
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := closeOut(); err != nil {
		return err
	}

	// Status goes to stderr so JSON output stays parseable.
	status, err := hist.status(cmd.Context())
	if err != nil {
		logger.Warn("failed to read history status", "error", err)
	} else if status != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), status)
	}
	return nil
}

func runHistoryShowCmd(cmd *cobra.Command, args []string) error {
	cfg, err := historyConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd, cfg.Verbose)

	hist, err := openHistory(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer hist.Close()

	offline := inference.InfererFunc(func(_ context.Context, _ string, _ model.ScanConfig) (model.ScanResult, error) {
		return model.ScanResult{}, errOffline
	})
	ctrl := scanner.New(offline, hist.store, scanner.WithLogger(logger))

	if err := restore(ctrl, hist.store, args[0]); err != nil {
		return err
	}
	return writeItem(cmd, cfg, ctrl.View().Item)
}

// restore loads the stored scan selected by ref, an id or a 1-based index.
func restore(ctrl *scanner.Controller, store *history.Store, ref string) error {
	err := ctrl.LoadHistory(ref)
	if err == nil {
		return nil
	}
	if !errors.Is(err, history.ErrItemNotFound) {
		return err
	}

	n, convErr := strconv.Atoi(ref)
	if convErr != nil {
		return fmt.Errorf("%w: %s", history.ErrItemNotFound, ref)
	}
	item, err := store.At(n - 1)
	if err != nil {
		return fmt.Errorf("%w: %d (history has %d scans)", history.ErrItemNotFound, n, store.Len())
	}
	ctrl.LoadHistoryItem(item)
	return nil
}

func runHistoryClearCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := historyConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd, cfg.Verbose)

	hist, err := openHistory(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer hist.Close()

	n, err := hist.clear(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d scan(s) from history.\n", n)
	return nil
}
