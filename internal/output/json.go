package output

import (
	"encoding/json"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/toastui/internal/notification"
)

// record is the machine-readable shape of a status. Durations and times are
// written as strings so both encoders agree.
type record struct {
	ID      string `json:"id" yaml:"id"`
	State   string `json:"state" yaml:"state"`
	Message string `json:"message" yaml:"message"`
	Theme   string `json:"theme,omitempty" yaml:"theme,omitempty"`
	Timeout string `json:"timeout" yaml:"timeout"`
	ShownAt string `json:"shown_at,omitempty" yaml:"shown_at,omitempty"`
}

func newRecord(s notification.Status) record {
	r := record{
		ID:      s.ID,
		State:   s.State,
		Message: s.Message,
		Theme:   s.Theme,
		Timeout: s.Timeout.String(),
	}
	if !s.ShownAt.IsZero() {
		r.ShownAt = s.ShownAt.Format(time.RFC3339)
	}
	return r
}

// JSONFormatter formats status as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format writes s as a JSON object.
func (f *JSONFormatter) Format(w io.Writer, s notification.Status) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newRecord(s))
}

// YAMLFormatter formats status as a YAML document.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Format writes s as YAML.
func (f *YAMLFormatter) Format(w io.Writer, s notification.Status) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(newRecord(s)); err != nil {
		return err
	}
	return encoder.Close()
}
