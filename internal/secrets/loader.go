package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source lists the places a credential may come from, in precedence order:
// File, then Value, then the Env variable.
type Source struct {
	Name  string
	Value string
	File  string
	Env   string
}

// Load resolves the credential from src. The result is trimmed and never empty.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "api key"
	}

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return secret, nil
	}

	if secret := strings.TrimSpace(src.Value); secret != "" {
		return secret, nil
	}

	if env := strings.TrimSpace(src.Env); env != "" {
		if secret := strings.TrimSpace(os.Getenv(env)); secret != "" {
			return secret, nil
		}
		return "", fmt.Errorf("%s is not configured (set --api-key, --api-key-file or %s)", name, env)
	}

	return "", fmt.Errorf("%s is not configured", name)
}

// Redact keeps a short prefix of secret for log lines.
func Redact(secret string) string {
	const visible = 7
	if len(secret) <= visible {
		return strings.Repeat("*", len(secret))
	}
	return secret[:visible] + "..."
}
