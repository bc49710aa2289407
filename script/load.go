package script

import (
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

const builtinPrefix = "builtin:"

// Source reads a script. Names starting with "builtin:" come from the
// embedded scripts directory; everything else is a path on disk.
func Source(name string) ([]byte, error) {
	if after, ok := strings.CutPrefix(name, builtinPrefix); ok {
		clean := path.Clean(strings.TrimSuffix(after, ".tengo")) + ".tengo"
		data, err := ScriptsFS.ReadFile(path.Join("scripts", clean))
		if err != nil {
			return nil, fmt.Errorf("script: load %s: %w", name, err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", name, err)
	}
	return data, nil
}

// IsBuiltin reports whether name refers to an embedded script, which can
// not change at runtime.
func IsBuiltin(name string) bool {
	return strings.HasPrefix(name, builtinPrefix)
}

// Load reads and compiles the named script.
func Load(name string, logger *slog.Logger) (*Renderer, error) {
	src, err := Source(name)
	if err != nil {
		return nil, err
	}
	return New(name, src, logger)
}
