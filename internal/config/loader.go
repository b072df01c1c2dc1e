package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".tagcrawl"

// xdgConfigFile is the file name looked up inside XDGConfigDir.
const xdgConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the structure of the YAML configuration file.
// Every field is optional; unset fields keep the value they already had.
type File struct {
	Endpoint  string        `yaml:"endpoint,omitempty"`
	Output    string        `yaml:"output,omitempty"`
	PageSize  int           `yaml:"pageSize,omitempty"`
	MaxPages  int           `yaml:"maxPages,omitempty"`
	Delay     time.Duration `yaml:"delay,omitempty"`
	Timeout   time.Duration `yaml:"timeout,omitempty"`
	Proxy     string        `yaml:"proxy,omitempty"`
	UserAgent string        `yaml:"userAgent,omitempty"`
	History   *bool         `yaml:"history,omitempty"`
	Filter    FileFilter    `yaml:"filter,omitempty"`
}

// FileFilter mirrors Filter with optional fields, so that a file can
// switch a category off without restating the other fields.
type FileFilter struct {
	MinPostCount   *int64 `yaml:"minPostCount,omitempty"`
	General        *bool  `yaml:"general,omitempty"`
	Artist         *bool  `yaml:"artist,omitempty"`
	Copyright      *bool  `yaml:"copyright,omitempty"`
	Character      *bool  `yaml:"character,omitempty"`
	Meta           *bool  `yaml:"meta,omitempty"`
	KeepUnderscore *bool  `yaml:"keepUnderscore,omitempty"`
	EscapeBrackets *bool  `yaml:"escapeBrackets,omitempty"`
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. .tagcrawl in the current directory
// 3. config.yaml in the XDG config directory
// 4. .tagcrawl in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), xdgConfigFile))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// ApplyFile overrides c with every field set in f.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}

	if f.Endpoint != "" {
		c.Endpoint = f.Endpoint
	}
	if f.Output != "" {
		c.Output = f.Output
	}
	if f.PageSize != 0 {
		c.PageSize = f.PageSize
	}
	if f.MaxPages != 0 {
		c.MaxPages = f.MaxPages
	}
	if f.Delay != 0 {
		c.Delay = f.Delay
	}
	if f.Timeout != 0 {
		c.Timeout = f.Timeout
	}
	if f.Proxy != "" {
		c.Proxy = f.Proxy
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.History != nil {
		c.SaveHistory = *f.History
	}

	ff := f.Filter
	if ff.MinPostCount != nil {
		c.Filter.MinPostCount = *ff.MinPostCount
	}
	setBool(&c.Filter.General, ff.General)
	setBool(&c.Filter.Artist, ff.Artist)
	setBool(&c.Filter.Copyright, ff.Copyright)
	setBool(&c.Filter.Character, ff.Character)
	setBool(&c.Filter.Meta, ff.Meta)
	setBool(&c.Filter.KeepUnderscore, ff.KeepUnderscore)
	setBool(&c.Filter.EscapeBrackets, ff.EscapeBrackets)
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
