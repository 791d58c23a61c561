package main

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/djimit/PhishLens/internal/config"
)

//go:embed templates/phishlens.yaml
var configTemplate []byte

// errConfigExists is returned when init would replace a file without --force.
var errConfigExists = errors.New("configuration file already exists")

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented PhishLens configuration file",
		Long: `Init writes a configuration file listing every option with its default.

By default the file is .phishlens in the current directory. With --global it
is written to the per-user configuration directory, which is searched after
the current and home directories.

The API key is best kept in GEMINI_API_KEY or a .env file rather than in the
configuration file.

Examples:
  phishlens init
  phishlens init --global
  phishlens init -o ./team/phishlens.yaml --force`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile, "Where to write the configuration file")
	cmd.Flags().BoolP("global", "g", false, "Write to the per-user configuration directory")
	cmd.Flags().BoolP("force", "f", false, "Replace an existing file")
	cmd.MarkFlagsMutuallyExclusive("output", "global")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	path, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	global, err := cmd.Flags().GetBool("global")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	if global {
		path = filepath.Join(config.XDGConfigDir(), config.XDGConfigFile)
	}

	if err := writeConfigTemplate(path, force); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %s\n", path)
	printInitHint(out, os.Getenv)
	return nil
}

// writeConfigTemplate creates path with owner-only permissions. Without
// force an existing file is left untouched.
func writeConfigTemplate(path string, force bool) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0600) //nolint:gosec // user-chosen destination
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s (use --force to replace it)", errConfigExists, path)
	}
	if err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	if _, err := f.Write(configTemplate); err != nil {
		_ = f.Close() //nolint:errcheck // the write error is more useful
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return f.Close()
}

// printInitHint tells the user whether an API key is already available.
func printInitHint(w io.Writer, getenv func(string) string) {
	for _, name := range []string{config.EnvAPIKey, config.EnvAPIKeyLegacy} {
		if getenv(name) != "" {
			fmt.Fprintf(w, "Using the API key from %s. Try: phishlens scan --example phish\n", name)
			return
		}
	}
	fmt.Fprintf(w, "Set %s (or add it to .env), then try: phishlens scan --example phish\n", config.EnvAPIKey)
}
