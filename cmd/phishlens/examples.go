package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/djimit/PhishLens/internal/examples"
	"github.com/djimit/PhishLens/internal/model"
)

// NewExamplesCmd creates the examples command.
func NewExamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examples [name]",
		Short: "List or print the built-in example emails",
		Long: `Examples lists the built-in sample emails. With a name, it prints that
email so it can be edited or piped elsewhere.

Examples:
  # List the samples
  phishlens examples

  # Print the adversarial sample
  phishlens examples adv

  # Scan a sample
  phishlens scan --example phish`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: examples.Names(),
		RunE:      runExamplesCmd,
	}
}

func runExamplesCmd(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		ex, err := examples.Get(args[0])
		if err != nil {
			return fmt.Errorf("%w: %q", err, args[0])
		}
		fmt.Fprintln(out, ex.Content)
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tLENGTH\tDESCRIPTION")
	for _, ex := range examples.All() {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", ex.Name, model.Stats(ex.Content).Length, ex.Description)
	}
	return tw.Flush()
}
