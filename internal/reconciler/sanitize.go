package reconciler

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxErrorMessageLength caps the error text persisted to a record's status.
const maxErrorMessageLength = 4096

var sensitivePatterns = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9\-._~+/]+=*`), "${1}[REDACTED]"},
	{regexp.MustCompile(`\bsk-[A-Za-z0-9_\-]{8,}`), "[REDACTED]"},
	{regexp.MustCompile(`(?i)\b(password|passwd|secret|token|api[_-]?key)(\s*=\s*)\S+`), "${1}${2}[REDACTED]"},
}

// SanitizeErrorMessage prepares an error message for storage in a record's
// status, where it is visible to anyone who can read the record and is sent
// back to the generator in Repair mode. Credentials are redacted and the
// message is truncated; everything else is kept verbatim.
func SanitizeErrorMessage(msg string) string {
	if msg == "" {
		return ""
	}

	for _, p := range sensitivePatterns {
		msg = p.pattern.ReplaceAllString(msg, p.replacement)
	}

	msg = strings.TrimSpace(msg)
	if len(msg) > maxErrorMessageLength {
		cut := maxErrorMessageLength
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		msg = msg[:cut] + " ... (truncated)"
	}
	return msg
}
