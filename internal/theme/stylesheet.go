package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"
)

// importRegex matches @import "file.css"; or @import 'file.css'; or @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Stylesheet is resolved CSS with its origin.
type Stylesheet struct {
	Name     string
	Path     string // empty when embedded
	CSS      string // @import statements already inlined
	ModTime  time.Time
	Embedded bool
}

// ReadStylesheet loads a stylesheet from disk and inlines its imports.
func ReadStylesheet(name, path string) (*Stylesheet, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	css, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return &Stylesheet{
		Name:    name,
		Path:    path,
		CSS:     ProcessImports(string(css), filepath.Dir(path), nil),
		ModTime: info.ModTime(),
	}, nil
}

// Resolve finds a stylesheet by name, checking dir before the embedded set so
// user files override bundled ones of the same name. Unknown names fall back to
// DefaultStylesheet and report ErrNotFound alongside the fallback.
func Resolve(dir, name string) (*Stylesheet, error) {
	if name == "" {
		name = DefaultStylesheet
	}

	if dir != "" {
		path := filepath.Join(dir, name+".css")
		if _, err := os.Stat(path); err == nil {
			sheet, err := ReadStylesheet(name, path)
			if err == nil {
				return sheet, nil
			}
			// fall through to the bundled copy
			if css, ok := Embedded(name); ok {
				return embeddedSheet(name, css), fmt.Errorf("read %s: %w", path, err)
			}
			return embeddedDefault(), fmt.Errorf("read %s: %w", path, err)
		}
	}

	if css, ok := Embedded(name); ok {
		return embeddedSheet(name, css), nil
	}
	return embeddedDefault(), fmt.Errorf("stylesheet %q: %w", name, ErrNotFound)
}

// ErrNotFound reports a stylesheet that exists neither on disk nor embedded.
var ErrNotFound = errors.New("stylesheet not found")

func embeddedSheet(name, css string) *Stylesheet {
	return &Stylesheet{
		Name:     name,
		CSS:      ProcessImports(css, "", nil),
		Embedded: true,
	}
}

func embeddedDefault() *Stylesheet {
	css, _ := Embedded(DefaultStylesheet)
	return embeddedSheet(DefaultStylesheet, css)
}

// ProcessImports resolves and inlines @import statements in CSS.
// Imports are resolved relative to baseDir, then against the embedded set.
// The seen map prevents circular imports.
func ProcessImports(css string, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(match string) string {
		submatch := importRegex.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}
		importPath := submatch[1]

		fullPath := importPath
		if !filepath.IsAbs(importPath) && baseDir != "" {
			fullPath = filepath.Join(baseDir, importPath)
		}

		if seen[fullPath] {
			return "/* circular import prevented: " + importPath + " */"
		}
		seen[fullPath] = true

		data, err := os.ReadFile(fullPath)
		if err != nil {
			if css, ok := Embedded(filepath.Base(importPath)); ok {
				return "/* imported (embedded): " + importPath + " */\n" + css
			}
			return "/* import failed: " + importPath + " */"
		}

		return "/* imported: " + importPath + " */\n" + ProcessImports(string(data), filepath.Dir(fullPath), seen)
	})
}

// Reload re-reads a stylesheet from disk. It reports whether the CSS changed.
func (s *Stylesheet) Reload() (bool, error) {
	if s.Embedded {
		return false, nil
	}

	next, err := ReadStylesheet(s.Name, s.Path)
	if err != nil {
		return false, err
	}

	changed := next.CSS != s.CSS
	s.CSS = next.CSS
	s.ModTime = next.ModTime
	return changed, nil
}

// Info describes an available stylesheet.
type Info struct {
	Name     string `json:"name" yaml:"name"`
	Path     string `json:"path,omitempty" yaml:"path,omitempty"`
	Default  bool   `json:"default" yaml:"default"`
	Embedded bool   `json:"embedded" yaml:"embedded"`
}

// List returns bundled stylesheets followed by the ones in dir. A user file
// that shadows a bundled name replaces its entry.
func List(dir string) ([]Info, error) {
	var infos []Info
	for _, name := range EmbeddedNames() {
		infos = append(infos, Info{Name: name, Default: name == DefaultStylesheet, Embedded: true})
	}
	if dir == "" {
		return infos, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return infos, nil
		}
		return infos, err
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "_") || filepath.Ext(name) != ".css" {
			continue
		}
		info := Info{
			Name: strings.TrimSuffix(name, ".css"),
			Path: filepath.Join(dir, name),
		}
		info.Default = info.Name == DefaultStylesheet

		if i := slices.IndexFunc(infos, func(in Info) bool { return in.Name == info.Name }); i >= 0 {
			infos[i] = info
			continue
		}
		infos = append(infos, info)
	}
	return infos, nil
}
