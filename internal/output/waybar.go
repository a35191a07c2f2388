package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jmylchreest/toastui/internal/notification"
)

// WaybarStatus represents the Waybar custom module JSON format.
type WaybarStatus struct {
	Text    string `json:"text"`
	Alt     string `json:"alt,omitempty"`
	Tooltip string `json:"tooltip,omitempty"`
	Class   string `json:"class,omitempty"`
}

// WaybarFormatter formats status for a Waybar custom module.
type WaybarFormatter struct {
	opts FormatterOptions
}

// NewWaybarFormatter creates a new Waybar formatter.
func NewWaybarFormatter(opts FormatterOptions) *WaybarFormatter {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &WaybarFormatter{opts: opts}
}

// Format writes one JSON line. The text is empty while the widget is hidden so
// Waybar collapses the module.
func (f *WaybarFormatter) Format(w io.Writer, s notification.Status) error {
	return json.NewEncoder(w).Encode(f.status(s))
}

// FormatError writes an error entry for when no status is available.
func (f *WaybarFormatter) FormatError(w io.Writer, err error) error {
	return json.NewEncoder(w).Encode(WaybarStatus{Alt: "error", Class: "error", Tooltip: err.Error()})
}

func (f *WaybarFormatter) status(s notification.Status) WaybarStatus {
	if s.State == notification.Hidden.String() {
		return WaybarStatus{Alt: "empty", Class: "empty", Tooltip: "No notification"}
	}

	class := s.State
	if s.Theme != "" {
		class = s.State + " " + s.Theme
	}

	tooltip := fmt.Sprintf("%s\nstate: %s", s.Message, s.State)
	if !s.ShownAt.IsZero() {
		tooltip += "\nshown " + relativeTime(s.ShownAt, f.opts.Now())
	}

	return WaybarStatus{
		Text:    sanitizeMessage(s.Message, f.opts.MessageMax),
		Alt:     s.State,
		Tooltip: tooltip,
		Class:   class,
	}
}
