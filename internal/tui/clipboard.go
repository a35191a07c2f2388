package tui

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// copyText copies text to the system clipboard.
func copyText(ctx context.Context, text, command string) error {
	cmd := detectClipboardCommand(command)
	if cmd == "" {
		return errors.New("no clipboard command available")
	}

	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return errors.New("invalid clipboard command")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	c := exec.CommandContext(ctx, parts[0], parts[1:]...)
	c.Stdin = strings.NewReader(text)
	return c.Run()
}

// detectClipboardCommand returns the configured command, or the first of
// wl-copy, xclip and xsel found on PATH.
func detectClipboardCommand(configured string) string {
	if configured != "" {
		return configured
	}

	if _, err := exec.LookPath("wl-copy"); err == nil {
		return "wl-copy"
	}
	if _, err := exec.LookPath("xclip"); err == nil {
		return "xclip -selection clipboard"
	}
	if _, err := exec.LookPath("xsel"); err == nil {
		return "xsel --clipboard --input"
	}
	return ""
}
