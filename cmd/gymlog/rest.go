// ABOUTME: CLI command for a foreground rest countdown.
// ABOUTME: Ctrl-C skips the rest; a beep plays when it runs out.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/gymlog/internal/timer"
	"github.com/spf13/cobra"
)

var restCmd = &cobra.Command{
	Use:   "rest [seconds]",
	Short: "Count down a rest period",
	Long: `Count down a rest period and beep when it ends. Press Ctrl-C to skip.

Without an argument the configured rest_seconds is used (default 120).
With timer_variant "simple", durations snap to 60, 90, 120 or 180 seconds.

Examples:
  gymlog rest
  gymlog rest 90`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{skipStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var d time.Duration
		if len(args) == 1 {
			secs, err := strconv.Atoi(args[0])
			if err != nil || secs <= 0 {
				return fmt.Errorf("invalid rest duration: %s", args[0])
			}
			d = time.Duration(secs) * time.Second
		}

		t := newRestTimer(cfg, logger)
		defer t.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		if runRest(ctx, t, d, os.Stdout) {
			color.Green("✓ Rest over")
		} else {
			color.Yellow("Rest skipped")
		}
		return nil
	},
}

// runRest starts t and blocks until it expires (true) or ctx ends (false).
func runRest(ctx context.Context, t *timer.Timer, d time.Duration, out io.Writer) bool {
	done := make(chan bool, 1)
	var once sync.Once

	unsubscribe := t.Subscribe(func(st timer.Status) {
		if st.State == timer.Idle {
			once.Do(func() { done <- st.Expired })
			return
		}
		fmt.Fprintf(out, "\r⏱  %s ", formatRest(st.Remaining))
	})
	defer unsubscribe()

	t.Start(d)
	fmt.Fprintf(out, "⏱  %s ", formatRest(t.Status().Remaining))

	select {
	case expired := <-done:
		fmt.Fprintln(out)
		return expired
	case <-ctx.Done():
		unsubscribe()
		t.Skip()
		fmt.Fprintln(out)
		return false
	}
}

func init() {
	rootCmd.AddCommand(restCmd)
}
