package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/tagcrawl/internal/danbooru"
)

// Default configuration values.
// The filter defaults and the pagination constants match the tags.csv
// shipped with the autocomplete extension.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "tagcrawl"

	// DefaultEndpoint is the Danbooru tag listing endpoint.
	DefaultEndpoint = danbooru.DefaultEndpoint

	// DefaultPageSize is the number of tags requested per page.
	DefaultPageSize = danbooru.DefaultPageSize

	// DefaultMaxPages is the safety ceiling on pages fetched in one run.
	// Reaching it ends the run normally.
	DefaultMaxPages = 99

	// DefaultDelay is the pause between two page requests.
	DefaultDelay = 250 * time.Millisecond

	// DefaultTimeout is the per-request timeout. Zero means none: an
	// unresponsive endpoint blocks until the operator interrupts the run.
	DefaultTimeout time.Duration = 0

	// DefaultMinPostCount is the default popularity threshold.
	DefaultMinPostCount = 64

	// DefaultOutput is the artifact file name read by the autocomplete extension.
	DefaultOutput = "tags.csv"

	// DefaultUserAgent identifies tagcrawl in HTTP requests.
	DefaultUserAgent = "tagcrawl/1.0 (+https://github.com/nao1215/tagcrawl)"
)

// Config holds all configuration options for one crawl run.
// It is populated once before the run and passed by value afterwards;
// nothing in the crawl path mutates it.
type Config struct {
	// Endpoint is the tag listing URL without query parameters.
	Endpoint string

	// PageSize is the "limit" query parameter.
	PageSize int

	// MaxPages is the highest page number requested.
	MaxPages int

	// Delay is the pause between successive page requests.
	Delay time.Duration

	// Timeout bounds each HTTP request. Zero disables the timeout.
	Timeout time.Duration

	// Proxy is an optional SOCKS5 proxy in "host:port" form.
	Proxy string

	// UserAgent is sent with every request.
	UserAgent string

	// Output is the artifact path. It is truncated at the start of each run.
	Output string

	// Filter selects and normalizes tags.
	Filter Filter

	// ConfigFilePath is the YAML file the configuration was loaded from, if any.
	ConfigFilePath string

	// SaveHistory records the run in the history database.
	SaveHistory bool

	// DBDir is the directory of the history database.
	DBDir string

	// Verbose enables debug logging.
	Verbose bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Endpoint:    DefaultEndpoint,
		PageSize:    DefaultPageSize,
		MaxPages:    DefaultMaxPages,
		Delay:       DefaultDelay,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		Output:      DefaultOutput,
		Filter:      DefaultFilter(),
		SaveHistory: true,
		DBDir:       XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for tagcrawl.
// On Linux: ~/.local/share/tagcrawl
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for tagcrawl.
// On Linux: ~/.config/tagcrawl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return ErrEmptyEndpoint
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidEndpoint
	}

	if c.Output == "" {
		return ErrEmptyOutput
	}

	if c.PageSize <= 0 {
		return ErrInvalidPageSize
	}

	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}

	if c.Delay < 0 {
		return ErrInvalidDelay
	}

	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}

	return c.Filter.Validate()
}
