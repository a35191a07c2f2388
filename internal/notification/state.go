package notification

import "errors"

// Visibility is the panel's position in the show/hide cycle.
type Visibility int

const (
	// Hidden is the initial state and the end of every cycle.
	Hidden Visibility = iota
	// Showing means Show was accepted and the entrance transition has not completed.
	Showing
	// Shown means the entrance transition completed.
	Shown
	// Hiding means Hide was accepted and the exit transition has not completed.
	Hiding
)

// String returns the string representation of Visibility.
func (v Visibility) String() string {
	switch v {
	case Hidden:
		return "hidden"
	case Showing:
		return "showing"
	case Shown:
		return "shown"
	case Hiding:
		return "hiding"
	default:
		return "unknown"
	}
}

// Soft failures. They are logged and reported to callers as a false result.
var (
	ErrAlreadyVisible = errors.New("the notification is already visible")
	ErrNotVisible     = errors.New("the notification is not visible")
)
