package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastui/internal/dbus"
	"github.com/jmylchreest/toastui/internal/notification"
)

var hideOpts struct {
	quiet bool
}

var hideCmd = &cobra.Command{
	Use:   "hide",
	Short: "Hide the daemon's notification",
	Long: `Ask toastuid to hide its notification. A notification that is still
entering is hidden once its entrance transition ends.

Exits non-zero when nothing is visible, unless --quiet is given.`,
	Args: cobra.NoArgs,
	RunE: runHide,
}

func init() {
	rootCmd.AddCommand(hideCmd)

	hideCmd.Flags().BoolVarP(&hideOpts.quiet, "quiet", "q", false,
		"Succeed even when no notification is visible")
}

func runHide(cmd *cobra.Command, args []string) error {
	client, err := dbus.Connect()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), controlTimeout)
	defer cancel()

	ok, err := client.Hide(ctx)
	if err != nil {
		return err
	}
	if !ok && !hideOpts.quiet {
		return notification.ErrNotVisible
	}
	return nil
}
