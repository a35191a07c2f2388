package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/toastui/internal/notification"
)

// PlainFormatter formats status as plain text.
type PlainFormatter struct {
	opts FormatterOptions
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &PlainFormatter{opts: opts}
}

// Format writes one "key: value" line per field.
func (f *PlainFormatter) Format(w io.Writer, s notification.Status) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "state:   %s\n", s.State)
	fmt.Fprintf(&sb, "id:      %s\n", s.ID)
	if s.Message != "" {
		fmt.Fprintf(&sb, "message: %s\n", sanitizeMessage(s.Message, f.opts.MessageMax))
	}
	if s.Theme != "" {
		fmt.Fprintf(&sb, "theme:   %s\n", s.Theme)
	}
	fmt.Fprintf(&sb, "timeout: %s\n", timeoutText(s.Timeout))
	if !s.ShownAt.IsZero() {
		fmt.Fprintf(&sb, "shown:   %s\n", relativeTime(s.ShownAt, f.opts.Now()))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// TemplateFormatter formats status with a user template.
type TemplateFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// templateData is the value templates are executed against.
type templateData struct {
	notification.Status
	Visible  bool
	ShownAgo string
}

// NewTemplateFormatter parses opts.Template.
func NewTemplateFormatter(opts FormatterOptions) (*TemplateFormatter, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	tmpl, err := template.New("status").Funcs(templateFuncs()).Parse(opts.Template)
	if err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}
	return &TemplateFormatter{opts: opts, template: tmpl}, nil
}

// Format executes the template. A trailing newline is added when missing.
func (f *TemplateFormatter) Format(w io.Writer, s notification.Status) error {
	data := templateData{
		Status:  s,
		Visible: s.State != notification.Hidden.String(),
	}
	if !s.ShownAt.IsZero() {
		data.ShownAgo = relativeTime(s.ShownAt, f.opts.Now())
	}

	var sb strings.Builder
	if err := f.template.Execute(&sb, data); err != nil {
		return err
	}
	out := sb.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err := io.WriteString(w, out)
	return err
}

// templateFuncs returns template helper functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": func(s string, maxLen int) string {
			return sanitizeMessage(s, maxLen)
		},
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"timeout": timeoutText,
	}
}

// FormatField outputs a single status field.
func FormatField(s notification.Status, field string) string {
	switch strings.ToLower(field) {
	case "id":
		return s.ID
	case "message", "text":
		return s.Message
	case "theme":
		return s.Theme
	case "timeout":
		return timeoutText(s.Timeout)
	case "shown_at", "shown":
		if s.ShownAt.IsZero() {
			return ""
		}
		return s.ShownAt.Format(time.RFC3339)
	default:
		return s.State
	}
}

func timeoutText(d time.Duration) string {
	if d <= 0 {
		return "never"
	}
	return d.String()
}

// relativeTime returns a human-readable relative time string.
func relativeTime(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

// sanitizeMessage flattens a message onto one line and truncates it.
func sanitizeMessage(msg string, maxLen int) string {
	msg = strings.Join(strings.Fields(msg), " ")

	if maxLen > 0 && len(msg) > maxLen {
		if maxLen <= 3 {
			return msg[:maxLen]
		}
		return msg[:maxLen-3] + "..."
	}
	return msg
}
