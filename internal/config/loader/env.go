package loader

import (
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

// EnvLoader folds prefixed environment variables into a config tree.
type EnvLoader struct {
	prefix  string   // Environment variable prefix (e.g., "DOCKGEN_")
	environ []string // Override for os.Environ, used in tests
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "DOCKGEN_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{prefix: prefix}
}

// NewEnvLoaderWithEnviron creates a loader that reads from a fixed
// environment snapshot instead of the process environment.
func NewEnvLoaderWithEnviron(prefix string, environ []string) *EnvLoader {
	return &EnvLoader{prefix: prefix, environ: environ}
}

// Load scans the environment for prefixed variables and returns a
// configuration tree. The remainder of the name after the prefix
// becomes a top-level key, lowercased so it matches the schema's
// field names. Values that parse as JSON are decoded (enabling nested
// objects and sequences via the environment); anything else stays a
// raw string.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	environ := l.environ
	if environ == nil {
		environ = os.Environ()
	}

	for _, env := range environ {
		if !strings.HasPrefix(env, l.prefix) {
			continue
		}

		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}

		name := strings.TrimPrefix(parts[0], l.prefix)
		if name == "" || name == "CFG_FILE" {
			// CFG_FILE names the config file; it is not config.
			continue
		}

		config[strings.ToLower(name)] = ParseValue(parts[1])
	}

	return config, nil
}

// ParseValue decodes a raw override value (from the environment or a
// command-line flag) as JSON when it is valid JSON, normalized to the
// canonical tree shape. Invalid JSON is kept as a plain string.
func ParseValue(s string) any {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}

	if gjson.Valid(trimmed) {
		return Normalize(gjson.Parse(trimmed).Value())
	}

	return s
}
