package theme

import (
	"embed"
	"io/fs"
	"path"
	"strings"
)

//go:embed themes/*.css
var embedded embed.FS

// DefaultStylesheet is the built-in stylesheet used when none is configured
// or the configured one cannot be found.
const DefaultStylesheet = "default"

// Embedded returns a bundled stylesheet by name. Partials (names starting with
// an underscore) are reachable too, with or without the .css extension.
func Embedded(name string) (string, bool) {
	name = strings.TrimSuffix(name, ".css")
	data, err := embedded.ReadFile(path.Join("themes", name+".css"))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// EmbeddedNames lists bundled stylesheets, partials excluded.
func EmbeddedNames() []string {
	entries, err := fs.ReadDir(embedded, "themes")
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "_") || path.Ext(name) != ".css" {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ".css"))
	}
	return names
}
