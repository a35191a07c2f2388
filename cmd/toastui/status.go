package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastui/internal/dbus"
	"github.com/jmylchreest/toastui/internal/event"
	"github.com/jmylchreest/toastui/internal/output"
)

var statusOpts struct {
	format   string
	template string
	field    string
	watch    bool
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the daemon's notification status",
	Long: `Print the state of toastuid's notification.

Formats:
  plain     Human-readable summary (default)
  json      JSON object
  yaml      YAML document
  waybar    Waybar custom module JSON

With --watch, a new status is printed after every lifecycle signal. This is
designed to be used with Waybar's custom module:

  "custom/toast": {
    "exec": "toastui status --format waybar --watch",
    "return-type": "json",
    "on-click": "toastui hide --quiet"
  }

Templates receive the status fields (.ID, .State, .Message, .Theme, .Timeout,
.ShownAt) plus .Visible and .ShownAgo, and the functions truncate, upper,
lower and timeout.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVarP(&statusOpts.format, "format", "f", string(output.FormatPlain),
		"Output format (plain, json, yaml, waybar)")
	statusCmd.Flags().StringVar(&statusOpts.template, "template", "",
		"Go template for output (overrides --format)")
	statusCmd.Flags().StringVar(&statusOpts.field, "field", "",
		"Print a single field (id, state, message, theme, timeout, shown_at)")
	statusCmd.Flags().BoolVarP(&statusOpts.watch, "watch", "w", false,
		"Print again after every lifecycle signal")
}

func runStatus(cmd *cobra.Command, args []string) error {
	opts := output.DefaultFormatterOptions()
	opts.Template = statusOpts.template
	formatter, err := output.NewFormatter(output.FormatType(statusOpts.format), opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := dbus.Connect()
	if err != nil {
		return err
	}

	printOnce := func() error {
		return printStatus(ctx, os.Stdout, client, formatter)
	}
	if err := printOnce(); err != nil {
		return err
	}
	if !statusOpts.watch {
		return nil
	}

	monitor := dbus.NewMonitor(func(ev event.Event) {
		logger.Debug("lifecycle signal", "event", ev.Name, "notification_id", ev.Source)
		if err := printOnce(); err != nil {
			logger.Warn("failed to print status", "error", err)
		}
	}, logger)
	return monitor.Run(ctx)
}

func printStatus(ctx context.Context, w io.Writer, client *dbus.Client, formatter output.Formatter) error {
	ctx, cancel := context.WithTimeout(ctx, controlTimeout)
	defer cancel()

	status, err := client.Status(ctx)
	if wf, ok := formatter.(*output.WaybarFormatter); ok && errors.Is(err, dbus.ErrNoDaemon) {
		// Keep the bar module alive while the daemon restarts
		return wf.FormatError(w, err)
	}
	if err != nil {
		return err
	}

	if statusOpts.field != "" {
		_, err := fmt.Fprintln(w, output.FormatField(status, statusOpts.field))
		return err
	}
	return formatter.Format(w, status)
}
