// Package output provides formatters for widget status.
package output

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/jmylchreest/toastui/internal/notification"
)

// Formatter writes a widget status.
type Formatter interface {
	// Format writes s to the writer.
	Format(w io.Writer, s notification.Status) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain  FormatType = "plain"
	FormatJSON   FormatType = "json"
	FormatYAML   FormatType = "yaml"
	FormatWaybar FormatType = "waybar"
)

// ValidFormats returns all accepted format names.
func ValidFormats() []FormatType {
	return []FormatType{FormatPlain, FormatJSON, FormatYAML, FormatWaybar}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template   string           // Custom text/template; overrides the format
	MessageMax int              // Maximum message length in plain and waybar output (0 = unlimited)
	Now        func() time.Time // Clock for relative times (default time.Now)
}

// DefaultFormatterOptions returns the options used by the CLI.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{MessageMax: 80, Now: time.Now}
}

// NewFormatter creates a formatter for the specified format type. A custom
// template takes precedence over format.
func NewFormatter(format FormatType, opts FormatterOptions) (Formatter, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Template != "" {
		return NewTemplateFormatter(opts)
	}

	switch format {
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatYAML:
		return NewYAMLFormatter(), nil
	case FormatWaybar:
		return NewWaybarFormatter(opts), nil
	case FormatPlain, "":
		return NewPlainFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown format %q (valid: %v)", format, ValidFormats())
	}
}

// IsValid reports whether f names a known format.
func (f FormatType) IsValid() bool {
	return slices.Contains(ValidFormats(), f)
}
