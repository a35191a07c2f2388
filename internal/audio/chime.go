package audio

import (
	"log/slog"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/event"
)

// Chime plays the configured sound whenever a notification emits show.
type Chime struct {
	logger *slog.Logger
	player *Player
	path   string
}

// NewChime creates a chime from the [audio] config section. It returns nil
// when audio is disabled or no sound is set.
func NewChime(cfg *config.Config, logger *slog.Logger) *Chime {
	if logger == nil {
		logger = slog.Default()
	}
	path := cfg.SoundPath()
	if path == "" {
		return nil
	}

	player := NewPlayer(logger)
	player.SetVolume(float64(cfg.Audio.Volume) / 100)

	c := &Chime{logger: logger, player: player, path: path}
	if _, err := player.Preload(path); err != nil {
		logger.Warn("failed to preload sound", "path", path, "error", err)
	}
	return c
}

// Handle implements event.Handler. Playback failures are logged.
func (c *Chime) Handle(ev event.Event) {
	if c == nil || ev.Name != event.Show {
		return
	}
	if err := c.player.Play(c.path); err != nil {
		c.logger.Warn("failed to play sound", "path", c.path, "error", err)
	}
}

// Close releases the speaker.
func (c *Chime) Close() {
	if c == nil {
		return
	}
	c.player.Close()
}
