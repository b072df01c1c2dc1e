// Package config provides configuration structures and utilities for tagcrawl.
// It defines the run configuration (endpoint, pagination, politeness, output)
// and the tag filter, and loads them from defaults, a YAML file, a .env file,
// the process environment and CLI flags.
package config
