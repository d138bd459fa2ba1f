package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"slidertext/pkg/js"
	"slidertext/pkg/page"
)

var (
	runTimeout     time.Duration
	runPageScripts bool
)

var runCmd = &cobra.Command{
	Use:   "run <page.html> <scenario.js>",
	Short: "Run a scripted scenario against a page",
	Long: `Runs a JavaScript scenario with two globals besides console:

  document  read-mostly DOM (querySelector, classList, textContent, ...)
  page      press(key...), click(el|selector), tick(seconds[, steps]),
            scroll(y), scrollY(), resize(w, h), state(el|selector),
            snapshot(path)

A scenario fails by throwing.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read scenario: %w", err)
		}
		ctx := cmd.Context()
		if runTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, runTimeout)
			defer cancel()
		}

		s, err := openSession(ctx, args[0], cfg, logger)
		if err != nil {
			return err
		}
		defer s.close()

		engine := js.New(&scenarioDriver{Page: s.page, session: s},
			js.WithLogger(logger),
			js.WithSnapshot(func(path string) error { return s.snapshot(ctx, path) }),
		)
		if runPageScripts {
			if err := engine.Execute(ctx); err != nil {
				return err
			}
		}
		if err := engine.Run(ctx, args[1], string(src)); err != nil {
			return err
		}
		for _, path := range engine.Snapshots() {
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		return nil
	},
}

// scenarioDriver resizes the canvas along with the page.
type scenarioDriver struct {
	*page.Page
	session *session
}

func (d *scenarioDriver) Resize(width, height float64) {
	d.session.resize(width, height)
}

func init() {
	runCmd.Flags().DurationVar(&runTimeout, "timeout", time.Minute, "Abort the scenario after this long (0 disables)")
	runCmd.Flags().BoolVar(&runPageScripts, "page-scripts", false, "Run the page's own scripts before the scenario")
}
