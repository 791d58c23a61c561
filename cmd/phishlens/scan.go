package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/djimit/PhishLens/internal/config"
	"github.com/djimit/PhishLens/internal/examples"
	"github.com/djimit/PhishLens/internal/inference"
	"github.com/djimit/PhishLens/internal/model"
	"github.com/djimit/PhishLens/internal/scanner"
)

// maxInputBytes caps how much is read from a file or stdin. Anything past
// MaxInputChars is rejected later with the character counter.
const maxInputBytes = 1 << 20

var (
	// errNoInput is returned when no input source was given and stdin is a terminal.
	errNoInput = errors.New("no input: pass a file, --text, --example, or pipe the email on stdin")

	// errMultipleInputs is returned when more than one input source was given.
	errMultipleInputs = errors.New("conflicting inputs: use only one of [file], --text, --example")

	// errScanFailed is returned after an inference failure has been reported.
	errScanFailed = errors.New("scan failed")
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [file]",
		Short: "Analyze an email for phishing",
		Long: `Scan sends an email to the analysis model and prints a verdict, the
critical findings, and a character-level heatmap of the text.

The email is read from the file argument, --text, --example, or stdin.
Input must be non-empty and at most 5,000 characters.

Every completed scan is saved to the history (the last 10 are kept).

Examples:
  # Scan a saved email
  phishlens scan suspicious.eml

  # Scan from a pipe
  pbpaste | phishlens scan

  # Try a built-in example with lookalike characters
  phishlens scan --example adv

  # Disable adversarial mode and output JSON
  phishlens scan --adversarial=false --json email.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScanCmd,
	}

	cmd.Flags().String("text", "", "Email text to analyze")
	cmd.Flags().StringP("example", "e", "",
		fmt.Sprintf("Analyze a built-in example (%s)", strings.Join(examples.Names(), ", ")))
	cmd.Flags().Bool("adversarial", model.DefaultScanConfig().AdversarialEnabled,
		"Look for lookalike characters and character substitutions")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for the analysis request")
	cmd.Flags().String("model", config.DefaultModel, "Model used for the analysis")
	cmd.Flags().String("proxy", "", "Route the analysis request through a SOCKS5 proxy (host:port)")
	cmd.Flags().Bool("ephemeral", false,
		"Keep history in memory for this run only")
	addOutputFlags(cmd)

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	content, fromStdin, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	// Invalid input never reaches the analysis service.
	if err := model.ValidateInput(content); err != nil {
		return fmt.Errorf("%w (%s)", err, model.Stats(content).Counter())
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd, cfg.Verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hist, err := openHistory(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer hist.Close()

	opts := []inference.Option{
		inference.WithEndpoint(cfg.Endpoint),
		inference.WithModel(cfg.Model),
		inference.WithTemperature(cfg.Temperature),
		inference.WithTimeout(cfg.Timeout),
		inference.WithLogger(logger),
	}
	if cfg.ProxyAddress != "" {
		opts = append(opts, inference.WithProxy(cfg.ProxyAddress))
	}
	client, err := inference.NewClient(cfg.APIKey, opts...)
	if err != nil {
		return fmt.Errorf("failed to create inference client: %w", err)
	}

	var prompt retryPrompt
	if !fromStdin {
		prompt = terminalPrompt(cmd.InOrStdin())
	}

	progress := cmd.ErrOrStderr()
	ctrl := scanner.New(client, hist.store,
		scanner.WithLogger(logger),
		scanner.WithOnChange(func(v scanner.View) {
			if v.State == model.StateScanning {
				fmt.Fprintf(progress, "Analyzing %s with %s...\n", model.Stats(v.Content).Counter(), cfg.Model)
			}
		}),
	)

	return runScan(ctx, cmd, cfg, ctrl, content, prompt, logger)
}

// runScan submits content and reports the outcome. On failure it offers
// a retry through prompt; a nil prompt means no retry.
func runScan(
	ctx context.Context,
	cmd *cobra.Command,
	cfg *config.Config,
	ctrl *scanner.Controller,
	content string,
	prompt retryPrompt,
	logger *slog.Logger,
) error {
	if err := ctrl.Submit(ctx, content, cfg.ScanConfig()); err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	for {
		ctrl.Wait()
		view := ctrl.View()

		switch view.State {
		case model.StateCompleted:
			if view.HistoryErr != nil {
				logger.Warn("scan not saved to history", "error", view.HistoryErr)
				fmt.Fprintln(stderr, "Warning: the scan could not be saved to history.")
			}
			return writeItem(cmd, cfg, view.Item)

		case model.StateError:
			logger.Debug("scan failed", "error", view.Err)
			printFailure(stderr, view.Message)

			if prompt == nil || ctx.Err() != nil || !prompt(stderr) {
				return errScanFailed
			}
			if err := ctrl.Retry(ctx); err != nil {
				return err
			}

		default:
			return fmt.Errorf("%w: scanner stopped in state %s", errScanFailed, view.State)
		}
	}
}

// printFailure prints the failure message and the remediation tips.
func printFailure(w io.Writer, message string) {
	fmt.Fprintf(w, "\n%s\n\n", message)
	fmt.Fprintln(w, "Things to check:")
	for _, tip := range inference.RemediationTips() {
		fmt.Fprintf(w, "  - %s\n", tip)
	}
	fmt.Fprintln(w)
}

// retryPrompt asks whether a failed scan should be run again.
type retryPrompt func(out io.Writer) bool

// terminalPrompt returns a prompt reading answers from in, or nil when in
// is not an interactive terminal.
func terminalPrompt(in io.Reader) retryPrompt {
	if !isTerminal(in) {
		return nil
	}
	return linePrompt(in)
}

// linePrompt returns a prompt that reads one answer line per call.
func linePrompt(in io.Reader) retryPrompt {
	reader := bufio.NewReader(in)
	return func(out io.Writer) bool {
		fmt.Fprint(out, "Retry analysis? [y/N]: ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	}
}

// readInput returns the email to scan and whether it was read from stdin.
func readInput(cmd *cobra.Command, args []string) (string, bool, error) {
	text, err := cmd.Flags().GetString("text")
	if err != nil {
		return "", false, err
	}
	exampleName, err := cmd.Flags().GetString("example")
	if err != nil {
		return "", false, err
	}

	sources := 0
	for _, given := range []bool{len(args) > 0, flagChanged(cmd, "text"), exampleName != ""} {
		if given {
			sources++
		}
	}
	if sources > 1 {
		return "", false, errMultipleInputs
	}

	switch {
	case exampleName != "":
		ex, err := examples.Get(exampleName)
		if err != nil {
			return "", false, fmt.Errorf("%w: %q (available: %s)",
				err, exampleName, strings.Join(examples.Names(), ", "))
		}
		return ex.Content, false, nil

	case flagChanged(cmd, "text"):
		return text, false, nil

	case len(args) > 0:
		content, err := readLimited(args[0])
		if err != nil {
			return "", false, err
		}
		return content, false, nil
	}

	in := cmd.InOrStdin()
	if isTerminal(in) {
		return "", false, errNoInput
	}
	data, err := io.ReadAll(io.LimitReader(in, maxInputBytes))
	if err != nil {
		return "", true, fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), true, nil
}

// readLimited reads at most maxInputBytes from path.
func readLimited(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided input path is intentional
	if err != nil {
		return "", fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxInputBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	return string(data), nil
}
