package log

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
)

// MaskValue replaces sensitive values.
const MaskValue = "***REDACTED***"

// urlMask replaces credentials inside URLs. It has no characters that
// URL encoding would escape.
const urlMask = "REDACTED"

// sensitiveKeys are attribute keys whose value is always masked.
var sensitiveKeys = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"api_key":             true,
	"apikey":              true,
	"api-key":             true,
	"x-api-key":           true,
	"login":               true,
	"password":            true,
	"passwd":              true,
	"session":             true,
}

// sensitiveKeywords mask any key containing them. The bare word "key" is
// left out because it matches keys like "primaryKey".
var sensitiveKeywords = []string{
	"password", "passwd", "secret", "token", "credential", "auth",
}

// sensitivePatterns mask a string value regardless of its key.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
}

// sensitiveQuery are URL query parameters that carry Danbooru credentials.
var sensitiveQuery = []string{"api_key", "login"}

// SecureHandler masks sensitive attributes before passing records to the
// wrapped handler. Groups are masked recursively.
type SecureHandler struct {
	handler slog.Handler
}

// NewSecureHandler wraps handler. A nil handler wraps slog.Default().Handler().
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler}
}

// Enabled delegates to the wrapped handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and forwards it.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(maskAttr(a))
		return true
	})
	return h.handler.Handle(ctx, masked)
}

// WithAttrs masks attrs and returns a handler carrying them.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = maskAttr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(masked)}
}

// WithGroup returns a handler that nests attributes under name.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name)}
}

func maskAttr(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()

	if v.Kind() == slog.KindGroup {
		group := v.Group()
		masked := make([]slog.Attr, len(group))
		for i, ga := range group {
			masked[i] = maskAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(masked...)}
	}

	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, MaskString(v.String()))
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return slog.String(a.Key, MaskString(err.Error()))
		}
	}
	return slog.Attr{Key: a.Key, Value: v}
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	if sensitiveKeys[lower] {
		return true
	}
	for _, kw := range sensitiveKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// MaskString masks s entirely when it looks like a credential, and masks
// URL userinfo and credential query parameters inside it otherwise.
// Error messages from net/http quote the request URL, so URLs are found
// anywhere in s, not only when s is a URL.
func MaskString(s string) string {
	for _, p := range sensitivePatterns {
		if p.MatchString(s) {
			return MaskValue
		}
	}
	if !strings.Contains(s, "@") && !strings.Contains(s, "api_key") && !strings.Contains(s, "login") {
		return s
	}

	fields := strings.Fields(s)
	changed := false
	for i, f := range fields {
		trimmed := strings.Trim(f, `"':,`)
		if m := maskURL(trimmed); m != trimmed {
			fields[i] = strings.Replace(f, trimmed, m, 1)
			changed = true
		}
	}
	if !changed {
		return s
	}
	return strings.Join(fields, " ")
}

// maskURL masks the userinfo and credential query parameters of raw.
// Bare "user:pass@host:port" proxy addresses are handled as well.
func maskURL(raw string) string {
	candidate := raw
	schemeless := !strings.Contains(raw, "://")
	if schemeless {
		if !strings.Contains(raw, "@") {
			return raw
		}
		candidate = "socks5://" + raw
	}

	u, err := url.Parse(candidate)
	if err != nil || u.Host == "" {
		return raw
	}

	changed := false
	if u.User != nil {
		u.User = url.User(urlMask)
		changed = true
	}
	if u.RawQuery != "" {
		q := u.Query()
		for _, name := range sensitiveQuery {
			if q.Has(name) {
				q.Set(name, urlMask)
				changed = true
			}
		}
		if changed {
			u.RawQuery = q.Encode()
		}
	}
	if !changed {
		return raw
	}

	out := u.String()
	if schemeless {
		out = strings.TrimPrefix(out, "socks5://")
	}
	return out
}

// NewSecureLogger returns a text logger on w that masks credentials.
// The level is Debug when verbose, Warn otherwise.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewSecureJSONLogger is NewSecureLogger with JSON output.
func NewSecureJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewJSONHandler(w, handlerOptions(verbose))))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
