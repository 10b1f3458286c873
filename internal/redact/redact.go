// Package redact keeps user message content out of logs. The coordinator
// handles live keystrokes, so log lines may only ever carry short previews of
// what the user typed, never the full text, and never credentials.
package redact

import (
	"fmt"
	"log"
	"regexp"
)

const previewRunes = 50

var (
	bearerRe    = regexp.MustCompile(`(?i)(bearer\s+)([A-Za-z0-9._\-+/=]+)`)
	apiKeyRe    = regexp.MustCompile(`(?i)(api[_-]?key\s*[:=]\s*)([A-Za-z0-9._\-+/=]+)`)
	textFieldRe = regexp.MustCompile(`("text"\s*:\s*")((?:[^"\\]|\\.)*)(")`)
)

// Preview truncates message text for logging. Anything beyond the preview
// window is dropped, matching what the UI itself would show in a log line.
func Preview(s string) string {
	runes := []rune(s)
	if len(runes) <= previewRunes {
		return s
	}
	return string(runes[:previewRunes]) + "..."
}

// String masks credentials and embedded message bodies in free-form strings.
func String(s string) string {
	if s == "" {
		return s
	}
	out := s
	out = bearerRe.ReplaceAllString(out, "${1}[REDACTED]")
	out = apiKeyRe.ReplaceAllString(out, "${1}[REDACTED]")
	out = textFieldRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := textFieldRe.FindStringSubmatch(m)
		if len(sub) < 4 {
			return m
		}
		body := sub[2]
		if len([]rune(body)) <= previewRunes {
			return m
		}
		return sub[1] + Preview(body) + sub[3]
	})
	return out
}

// Sprintf formats like fmt.Sprintf and redacts the result.
func Sprintf(format string, args ...interface{}) string {
	return String(fmt.Sprintf(format, args...))
}

// Logf prints a redacted log line.
func Logf(format string, args ...interface{}) {
	log.Print(Sprintf(format, args...))
}
