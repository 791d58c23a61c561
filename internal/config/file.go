package config

import (
	"fmt"
	"time"
)

// File represents the structure of the .phishlens configuration file.
// Unset fields leave the current value untouched.
type File struct {
	// APIKey is accepted for convenience; prefer the environment.
	APIKey string `yaml:"apiKey,omitempty"`

	Model    string `yaml:"model,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`

	// Temperature uses a pointer so that 0 can be set explicitly.
	Temperature *float64 `yaml:"temperature,omitempty"`

	// Timeout is a Go duration string, e.g. "90s".
	Timeout string `yaml:"timeout,omitempty"`

	// Proxy is a SOCKS5 proxy address in "host:port" format.
	Proxy string `yaml:"proxy,omitempty"`

	// Adversarial sets the default adversarial mode.
	Adversarial *bool `yaml:"adversarial,omitempty"`

	// DBDir overrides the history database directory.
	DBDir string `yaml:"dbDir,omitempty"`

	// HistorySlot overrides the history storage key.
	HistorySlot string `yaml:"historySlot,omitempty"`
}

// Apply copies the values set in the file onto cfg.
func (f *File) Apply(cfg *Config) error {
	if f.APIKey != "" {
		cfg.APIKey = f.APIKey
	}
	if f.Model != "" {
		cfg.Model = f.Model
	}
	if f.Endpoint != "" {
		cfg.Endpoint = f.Endpoint
	}
	if f.Temperature != nil {
		cfg.Temperature = *f.Temperature
	}
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidTimeout, f.Timeout)
		}
		cfg.Timeout = d
	}
	if f.Proxy != "" {
		cfg.ProxyAddress = f.Proxy
	}
	if f.Adversarial != nil {
		cfg.AdversarialEnabled = *f.Adversarial
	}
	if f.DBDir != "" {
		cfg.DBDir = f.DBDir
	}
	if f.HistorySlot != "" {
		cfg.HistorySlot = f.HistorySlot
	}
	return nil
}
