// File: internal/config/errors.go
package config

import (
	"fmt"
	"strings"
)

// MissingSetting names one unresolved required setting and the sources the
// operator can populate to fix it.
type MissingSetting struct {
	Name    string
	Sources []string
}

// MissingError reports required settings that could not be resolved from any
// of their candidate sources. It is user-fixable and is never retried
// automatically; callers surface it verbatim so the operator knows exactly
// which knobs to set.
type MissingError struct {
	Settings []MissingSetting
}

// Error implements the error interface.
func (e *MissingError) Error() string {
	if len(e.Settings) == 0 {
		return "configuration error"
	}
	parts := make([]string, 0, len(e.Settings))
	for _, s := range e.Settings {
		parts = append(parts, fmt.Sprintf("%s (set via %s)", s.Name, strings.Join(s.Sources, " or ")))
	}
	return "missing required configuration: " + strings.Join(parts, ", ")
}

// NewMissingError builds a MissingError from the given settings.
func NewMissingError(settings ...MissingSetting) *MissingError {
	return &MissingError{Settings: settings}
}
