// Package config provides the configuration for PhishLens: inference
// service settings, report preferences and storage locations.
//
// Values are resolved in this order, later sources winning: built-in
// defaults, the YAML configuration file, the environment (including a .env
// file), and finally command line flags.
package config
