// Command slidertext renders, scripts and shows pages with the slider text
// section running.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"slidertext/pkg/config"
	"slidertext/pkg/logging"
)

var (
	configPath string
	verbose    bool
	width      float64
	height     float64

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "slidertext",
	Short: "Looping text slider pages, rendered headless or in a window",
	Long: `slidertext lays out an HTML page, mounts the home page sections (the
product selection title reveal and the looping text slider) and drives
them: render single frames, export frame sequences, run scripted
scenarios or open an interactive window.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("width") {
			cfg.Viewport.Width = width
		}
		if cmd.Flags().Changed("height") {
			cfg.Viewport.Height = height
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Level = zapcore.DebugLevel.String()
		}
		logger, err = logging.New(cfg.Logging)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "slidertext.yaml", "Configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Float64Var(&width, "width", 0, "Viewport width (overrides config)")
	rootCmd.PersistentFlags().Float64Var(&height, "height", 0, "Viewport height (overrides config)")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(framesCmd)
	rootCmd.AddCommand(showCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
