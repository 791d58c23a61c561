package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/djimit/PhishLens/internal/model"
)

// Default configuration values.
const (
	// DefaultModel is the Gemini model used for classification.
	DefaultModel = "gemini-3-flash-preview"

	// DefaultEndpoint is the Gemini REST base URL.
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultTemperature keeps answers close to deterministic so that the
	// same email scores the same way twice.
	DefaultTemperature = 0.1

	// MaxTemperature is the upper bound accepted by the service.
	MaxTemperature = 2.0

	// DefaultTimeout bounds a single inference call. Character-level
	// heatmaps for 5,000 characters take a while to generate.
	DefaultTimeout = 60 * time.Second

	// AppName is the application name used for XDG directory paths.
	AppName = "phishlens"

	// DefaultHistorySlot is the storage key of the scan history.
	DefaultHistorySlot = "phishlens_scan_history"
)

// Config holds all configuration options for PhishLens.
// It is populated once at startup and passed down explicitly.
type Config struct {
	// APIKey authenticates against the inference service.
	APIKey string

	// Model is the model name passed to generateContent.
	Model string

	// Endpoint is the REST base URL of the inference service.
	Endpoint string

	// Temperature is the sampling temperature, in [0, MaxTemperature].
	Temperature float64

	// Timeout bounds one inference call.
	Timeout time.Duration

	// ProxyAddress routes inference calls through a SOCKS5 proxy in
	// "host:port" format. Empty means a direct connection.
	ProxyAddress string

	// AdversarialEnabled asks the model to look for lookalike characters.
	AdversarialEnabled bool

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the default locations are searched.
	ConfigFilePath string

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile writes the report to this path instead of stdout.
	ReportFile string

	// NoColor disables the colored heatmap.
	NoColor bool

	// DBDir is the directory holding the history database.
	// Defaults to the XDG data directory (~/.local/share/phishlens on Linux).
	DBDir string

	// HistorySlot is the key under which the history is stored.
	HistorySlot string

	// Ephemeral keeps history in memory only for this run.
	Ephemeral bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Model:              DefaultModel,
		Endpoint:           DefaultEndpoint,
		Temperature:        DefaultTemperature,
		Timeout:            DefaultTimeout,
		AdversarialEnabled: model.DefaultScanConfig().AdversarialEnabled,
		DBDir:              XDGDataDir(),
		HistorySlot:        DefaultHistorySlot,
	}
}

// ScanConfig returns the per-scan options.
func (c *Config) ScanConfig() model.ScanConfig {
	return model.ScanConfig{AdversarialEnabled: c.AdversarialEnabled}
}

// XDGDataDir returns the XDG data directory for PhishLens.
// On Linux: ~/.local/share/phishlens
// On macOS: ~/Library/Application Support/phishlens
// On Windows: %LOCALAPPDATA%\phishlens
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for PhishLens.
// On Linux: ~/.config/phishlens
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is usable for scanning.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Temperature < 0 || c.Temperature > MaxTemperature {
		return ErrInvalidTemperature
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidEndpoint
	}

	return nil
}
