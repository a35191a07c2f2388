package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/toastui/internal/audio"
	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/dbus"
	"github.com/jmylchreest/toastui/internal/notification"
	"github.com/jmylchreest/toastui/internal/tui"
)

// maxStdinMessage caps a message read from standard input.
const maxStdinMessage = 64 * 1024

// controlTimeout bounds a single call to the daemon.
const controlTimeout = 5 * time.Second

// showOptions holds the show flags.
type showOptions struct {
	message      string
	timeout      string
	theme        string
	noDismiss    bool
	exitOnHidden bool
	altScreen    bool
	sound        string
	daemon       bool
}

var showOpts showOptions

var showCmd = &cobra.Command{
	Use:   "show [message...]",
	Short: "Show the notification",
	Long: `Show the notification in the terminal, or with --daemon on the desktop.

Flags override the [notification] section of the config file. The message is
taken from the arguments, or read from standard input when it is "-".

Key bindings:
  x, esc      Click the close control
  s           Show again once hidden
  c           Copy the message to the clipboard
  ?           Toggle help
  q           Quit

With --daemon the running toastuid shows its configured notification; the
message flags do not apply.`,
	Args: cobra.ArbitraryArgs,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	addShowFlags(showCmd)
}

func addShowFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&showOpts.message, "message", "m", "",
		"Message text (\"-\" reads standard input)")
	cmd.Flags().StringVarP(&showOpts.timeout, "timeout", "t", "",
		"Auto-hide after this long, e.g. 5s or 1500 (0 disables)")
	cmd.Flags().StringVar(&showOpts.theme, "theme", "",
		"Theme tag (primary, danger, success, ...)")
	cmd.Flags().BoolVar(&showOpts.noDismiss, "no-dismiss", false,
		"Hide the close control")
	cmd.Flags().BoolVar(&showOpts.exitOnHidden, "exit-on-hidden", false,
		"Exit once the notification has hidden")
	cmd.Flags().BoolVar(&showOpts.altScreen, "alt-screen", false,
		"Use the alternate screen buffer")
	cmd.Flags().StringVar(&showOpts.sound, "sound", "",
		"Play this sound file when the notification shows")
	cmd.Flags().BoolVarP(&showOpts.daemon, "daemon", "d", false,
		"Ask toastuid to show its notification instead")
}

func runShow(cmd *cobra.Command, args []string) error {
	if showOpts.daemon {
		return daemonShow()
	}

	c := *getConfig()
	if err := applyShowFlags(cmd.Flags(), &c, args, os.Stdin); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chime := audio.NewChime(&c, logger)
	defer chime.Close()

	return tui.Run(ctx, tui.RunOptions{
		Options: tui.Options{
			Config:  &c,
			OnEvent: chime.Handle,
			Logger:  logger,
		},
		AltScreen: showOpts.altScreen,
	})
}

// applyShowFlags overrides c with the flags that were set and the message arguments.
func applyShowFlags(flags *pflag.FlagSet, c *config.Config, args []string, stdin io.Reader) error {
	message := showOpts.message
	if !flags.Changed("message") && len(args) > 0 {
		message = strings.Join(args, " ")
	}
	if message == "-" {
		data, err := io.ReadAll(io.LimitReader(stdin, maxStdinMessage))
		if err != nil {
			return fmt.Errorf("failed to read message from stdin: %w", err)
		}
		message = strings.TrimRight(string(data), "\n")
	}
	if message != "" {
		c.Notification.Message = message
	}

	if flags.Changed("timeout") {
		var d config.Duration
		if err := d.UnmarshalText([]byte(showOpts.timeout)); err != nil {
			return err
		}
		c.Notification.Timeout = d
	}
	if flags.Changed("theme") {
		c.Notification.Theme = showOpts.theme
	}
	if showOpts.noDismiss {
		c.Notification.DismissControl = false
	}
	if showOpts.exitOnHidden {
		c.TUI.ExitOnHidden = true
	}
	if showOpts.sound != "" {
		c.Audio.Enabled = true
		c.Audio.Sound = showOpts.sound
	}

	if c.Notification.Message == "" {
		return errors.New("no message: pass one as an argument, with --message, or set it in the config")
	}
	return c.Validate()
}

func daemonShow() error {
	client, err := dbus.Connect()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), controlTimeout)
	defer cancel()

	ok, err := client.Show(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return notification.ErrAlreadyVisible
	}
	logger.Debug("daemon notification shown")
	return nil
}
