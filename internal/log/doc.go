// Package log builds the application's slog logger.
//
// The logger wraps a text or JSON handler with SecureHandler, which masks
// credentials before they reach the output:
//   - attributes whose key names a secret (api_key, login, password, token)
//   - values that look like bearer/basic credentials or JWTs
//   - userinfo in URLs, e.g. a SOCKS5 proxy "user:pass@host:port"
//   - the api_key and login query parameters of Danbooru URLs
//
// Usage:
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
package log
