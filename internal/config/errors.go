package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and Filter.Validate() so
// callers can use errors.Is() while still getting a readable message.
var (
	// ErrEmptyEndpoint is returned when no API endpoint is configured.
	ErrEmptyEndpoint = errors.New("invalid endpoint: must not be empty")

	// ErrInvalidEndpoint is returned when the endpoint is not an absolute http(s) URL.
	ErrInvalidEndpoint = errors.New("invalid endpoint: must be an absolute http or https URL")

	// ErrEmptyOutput is returned when no artifact path is configured.
	ErrEmptyOutput = errors.New("invalid output: path must not be empty")

	// ErrInvalidPageSize is returned when the page size is not positive.
	ErrInvalidPageSize = errors.New("invalid page size: must be positive")

	// ErrInvalidMaxPages is returned when the page ceiling is not positive.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidDelay is returned when the inter-page delay is negative.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidTimeout is returned when the request timeout is negative.
	// Zero means no timeout.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")

	// ErrInvalidMinPostCount is returned when the popularity threshold is negative.
	ErrInvalidMinPostCount = errors.New("invalid min post count: must be non-negative")

	// ErrArtistNotSupported is returned when the artist category is enabled.
	// Artist tags are never written to the artifact.
	ErrArtistNotSupported = errors.New("invalid filter: the artist category cannot be enabled")

	// ErrNoCategoryEnabled is returned when every category is disabled,
	// which would always produce an empty artifact.
	ErrNoCategoryEnabled = errors.New("invalid filter: at least one category must be enabled")

	// ErrInvalidEnvValue is returned when a TAGCRAWL_* variable cannot be parsed.
	ErrInvalidEnvValue = errors.New("invalid environment value")
)
