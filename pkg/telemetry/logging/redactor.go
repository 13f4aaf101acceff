package logging

import (
	"log/slog"
	"regexp"
	"strings"
)

// RedactPattern is a custom redaction rule.
type RedactPattern struct {
	// Name identifies the pattern; custom patterns override built-ins
	// with the same name.
	Name string

	// Pattern is the regular expression to match.
	Pattern string

	// Replacement is substituted for every match.
	Replacement string
}

// Redactor masks sensitive values in log output. Payload content from
// corpus files can surface in diagnostics, so anything that looks like a
// credential is scrubbed before the record is written.
type Redactor struct {
	patterns map[string]*redactPattern
	enabled  bool
}

// redactPattern contains a compiled regex and replacement string.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Built-in pattern names.
const (
	PatternAPIKey      = "api_key"
	PatternEmail       = "email"
	PatternBearerToken = "bearer_token"
	PatternPassword    = "password"
)

// NewRedactor creates a new Redactor with default and custom patterns.
func NewRedactor(customPatterns []RedactPattern) *Redactor {
	r := &Redactor{
		patterns: make(map[string]*redactPattern),
		enabled:  true,
	}

	r.addDefaultPatterns()

	for _, p := range customPatterns {
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			// Skip invalid patterns rather than fail the logger
			continue
		}
		r.patterns[p.Name] = &redactPattern{
			name:        p.Name,
			regex:       regex,
			replacement: p.Replacement,
		}
	}

	return r
}

// addDefaultPatterns adds the built-in redaction patterns.
func (r *Redactor) addDefaultPatterns() {
	patterns := map[string]struct {
		regex       string
		replacement string
	}{
		// Inline API key assignments
		PatternAPIKey: {
			regex:       `(api[-_]?key)[-_:=]\s*[a-zA-Z0-9\-._~+/]+`,
			replacement: "$1: ***",
		},

		// Email addresses
		PatternEmail: {
			regex:       `([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`,
			replacement: "$1_redacted",
		},

		// Bearer tokens
		PatternBearerToken: {
			regex:       `Bearer\s+[a-zA-Z0-9\-._~+/]+=*`,
			replacement: "Bearer ***",
		},

		// Password fields
		PatternPassword: {
			regex:       `(password|passwd|pwd)[:=]\s*[^\s]+`,
			replacement: "$1: ***",
		},
	}

	for name, p := range patterns {
		regex := regexp.MustCompile(p.regex)
		r.patterns[name] = &redactPattern{
			name:        name,
			regex:       regex,
			replacement: p.replacement,
		}
	}
}

// RedactString redacts sensitive content from a string value.
func (r *Redactor) RedactString(value string) string {
	if !r.enabled || value == "" {
		return value
	}

	redacted := value
	for _, pattern := range r.patterns {
		redacted = pattern.regex.ReplaceAllString(redacted, pattern.replacement)
	}

	return redacted
}

// RedactArgs redacts sensitive content from variadic log arguments.
// Args are in the form: key1, value1, key2, value2, ...
func (r *Redactor) RedactArgs(args ...any) []any {
	if !r.enabled || len(args) == 0 {
		return args
	}

	redacted := make([]any, len(args))
	copy(redacted, args)

	for i := 1; i < len(redacted); i += 2 {
		key, ok := redacted[i-1].(string)
		if ok && r.isSensitiveKey(key) {
			redacted[i] = maskValue(redacted[i])
			continue
		}

		if str, ok := redacted[i].(string); ok {
			redacted[i] = r.RedactString(str)
		}
	}

	return redacted
}

// redactAttr applies the redaction rules to a single slog attribute.
// Values under a sensitive key are masked whole; string values are run
// through the patterns; groups are redacted member by member.
func (r *Redactor) redactAttr(attr slog.Attr) slog.Attr {
	if r.isSensitiveKey(attr.Key) {
		masked, _ := maskValue(attr.Value.String()).(string)
		return slog.String(attr.Key, masked)
	}

	switch attr.Value.Kind() {
	case slog.KindString:
		return slog.String(attr.Key, r.RedactString(attr.Value.String()))
	case slog.KindGroup:
		members := attr.Value.Group()
		cleaned := make([]any, 0, len(members))
		for _, member := range members {
			cleaned = append(cleaned, r.redactAttr(member))
		}
		return slog.Group(attr.Key, cleaned...)
	default:
		return attr
	}
}

// isSensitiveKey checks if a key name indicates sensitive data.
func (r *Redactor) isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)

	sensitiveKeys := []string{
		"password", "passwd", "pwd",
		"secret", "token", "api_key", "apikey",
		"auth", "authorization",
		"credential", "private_key", "privatekey",
	}

	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}

	return false
}

// maskValue masks a sensitive value completely, keeping a short prefix of
// string values as a debugging hint.
func maskValue(value any) any {
	switch v := value.(type) {
	case string:
		if v == "" {
			return ""
		}
		if len(v) <= 4 {
			return "***"
		}
		return v[:4] + "***"
	default:
		return "***"
	}
}
