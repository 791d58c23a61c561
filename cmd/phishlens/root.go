package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for PhishLens.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phishlens",
		Short: "Character-level phishing detection for emails",
		Long: `PhishLens classifies an email as phishing or safe and renders a
character-level heatmap of what drove the decision.

Classification is delegated to the Gemini API. Set GEMINI_API_KEY in the
environment or in a .env file before scanning. The last 10 scans are kept
in a local history.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewExamplesCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
