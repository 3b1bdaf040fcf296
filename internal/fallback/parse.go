// File: internal/fallback/parse.go
package fallback

import (
	"strings"
	"time"
)

// consoleTimeLayout is the timestamp format the consoles render in result
// tables.
const consoleTimeLayout = "2006-01-02 15:04:05"

// NonEmpty accepts any string with non-whitespace content, trimmed.
func NonEmpty(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	return trimmed, trimmed != ""
}

// DigitRun extracts the first maximal run of ASCII digits. Console cells
// routinely append decoration ("20055094254<span>copy</span>", a trailing
// copy icon's text) after the identifier; the leading digit run is the
// identifier itself.
func DigitRun(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	start := -1
	for i, r := range trimmed {
		if r >= '0' && r <= '9' {
			start = i
			break
		}
	}
	if start < 0 {
		return "", false
	}
	end := start
	for end < len(trimmed) && trimmed[end] >= '0' && trimmed[end] <= '9' {
		end++
	}
	return trimmed[start:end], true
}

// Percentage accepts a percentage cell and returns it without the trailing
// percent sign, trimmed. "98.5%" and "98.5" both yield "98.5". Placeholder
// cells ("-", "查看") are rejected: the remainder must be digits with at
// most one decimal point.
func Percentage(raw string) (string, bool) {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if trimmed == "" {
		return "", false
	}
	dots := 0
	for _, r := range trimmed {
		switch {
		case r >= '0' && r <= '9':
		case r == '.':
			dots++
			if dots > 1 {
				return "", false
			}
		default:
			return "", false
		}
	}
	return trimmed, true
}

// ParseConsoleTime parses a console table timestamp. Unparsable input
// yields the zero time so the row sorts earliest rather than being dropped.
func ParseConsoleTime(raw string) time.Time {
	t, err := time.Parse(consoleTimeLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}
	}
	return t
}
