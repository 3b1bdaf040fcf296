// File: internal/creds/creds.go
package creds

import (
	"os"
	"strings"

	"github.com/xkilldash9x/consolepilot/internal/config"
)

// Pair is a resolved identity/secret pair. It is never persisted; it exists
// only for the duration of a login attempt.
type Pair struct {
	Identity string
	Secret   string
}

// Resolve produces a credential pair from layered sources: an explicit value
// wins over the named environment variable; if neither is set the whole call
// fails with a config.MissingError naming every unresolved field and its
// candidate sources. A half-resolved pair is never returned.
func Resolve(explicitIdentity, explicitSecret, identityEnv, secretEnv string) (Pair, error) {
	pair := Pair{
		Identity: firstNonEmpty(explicitIdentity, os.Getenv(identityEnv)),
		Secret:   firstNonEmpty(explicitSecret, os.Getenv(secretEnv)),
	}

	var missing []config.MissingSetting
	if pair.Identity == "" {
		missing = append(missing, config.MissingSetting{
			Name:    "identity",
			Sources: []string{"--username flag", "env " + identityEnv},
		})
	}
	if pair.Secret == "" {
		missing = append(missing, config.MissingSetting{
			Name:    "secret",
			Sources: []string{"--password flag", "env " + secretEnv},
		})
	}
	if len(missing) > 0 {
		return Pair{}, config.NewMissingError(missing...)
	}
	return pair, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
