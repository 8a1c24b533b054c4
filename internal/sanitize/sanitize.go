// Package sanitize masks visitor identifiers, contact details, and
// credentials before they reach log output.
package sanitize

import (
	"regexp"
	"strings"
)

// Values that must never appear verbatim in logs: visitor emails and
// credential-shaped strings (repository errors can embed the former,
// upstream API errors the latter).
var (
	emailPattern  = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|apikey|secret|token|password|auth)[=:\s"']*([\w-]{16,})`)
	bearerPattern = regexp.MustCompile(`(?i)bearer\s+[\w.-]+`)
)

// String masks emails, API keys, and bearer tokens in the input.
func String(input string) string {
	result := emailPattern.ReplaceAllStringFunc(input, maskEmail)
	result = apiKeyPattern.ReplaceAllStringFunc(result, maskAPIKey)
	result = bearerPattern.ReplaceAllString(result, "Bearer [REDACTED]")
	return result
}

// Error masks an error message for logging. Returns "" for a nil error.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// Email masks an email address, keeping a short prefix and the domain.
func Email(email string) string {
	return maskEmail(email)
}

func maskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return "[email]"
	}
	if at <= 2 {
		return email[:1] + "***" + email[at:]
	}
	return email[:2] + "***" + email[at:]
}

func maskAPIKey(match string) string {
	parts := apiKeyPattern.FindStringSubmatch(match)
	if len(parts) >= 2 {
		// Preserve the key name but mask the value
		prefix := strings.TrimSuffix(match, parts[len(parts)-1])
		return prefix + "[REDACTED]"
	}
	return "[REDACTED-KEY]"
}

// PartialMask masks the middle portion of a string, keeping the first and
// last N characters.
func PartialMask(s string, keepStart, keepEnd int) string {
	if len(s) <= keepStart+keepEnd {
		return strings.Repeat("*", len(s))
	}
	return s[:keepStart] + strings.Repeat("*", len(s)-keepStart-keepEnd) + s[len(s)-keepEnd:]
}

// ID partially masks a visitor identifier, showing the first 4 and last 4
// characters. Enough to correlate log lines, not enough to join against
// external data.
func ID(id string) string {
	return PartialMask(id, 4, 4)
}
