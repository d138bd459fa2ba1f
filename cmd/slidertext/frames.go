package main

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	framesFPS      int
	framesDuration time.Duration
	framesDir      string
	framesScroll   float64
	framesKeys     []string
)

var framesCmd = &cobra.Command{
	Use:   "frames <page.html>",
	Short: "Export an animation as a PNG sequence",
	Long: `Renders --duration of animation at --fps into --dir as frame_0000.png,
frame_0001.png, ... Keys given with --key are pressed before the first
frame, so a transition can be captured from its start.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if framesFPS <= 0 {
			return fmt.Errorf("fps must be positive, got %d", framesFPS)
		}
		if err := os.MkdirAll(framesDir, 0o755); err != nil {
			return fmt.Errorf("create frame dir: %w", err)
		}
		ctx := cmd.Context()
		s, err := openSession(ctx, args[0], cfg, logger)
		if err != nil {
			return err
		}
		defer s.close()

		s.page.Scroll(framesScroll)
		for _, key := range framesKeys {
			s.page.Key(key)
		}

		// Frames are produced in order on this goroutine; only encoding
		// fans out.
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(runtime.NumCPU())
		count := int(framesDuration.Seconds()*float64(framesFPS)) + 1
		dt := 1 / float64(framesFPS)
		for i := 0; i < count; i++ {
			if gctx.Err() != nil {
				break
			}
			if i > 0 {
				s.page.Tick(dt)
			}
			img := s.frame(ctx)
			path := filepath.Join(framesDir, fmt.Sprintf("frame_%04d.png", i))
			g.Go(func() error {
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				if err := png.Encode(f, img); err != nil {
					f.Close()
					return fmt.Errorf("encode %s: %w", path, err)
				}
				return f.Close()
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		logger.Info("frames exported", zap.Int("frames", count), zap.String("dir", framesDir))
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d frames to %s\n", count, framesDir)
		return nil
	},
}

func init() {
	framesCmd.Flags().IntVar(&framesFPS, "fps", 30, "Frames per second")
	framesCmd.Flags().DurationVar(&framesDuration, "duration", 3*time.Second, "Length of the sequence")
	framesCmd.Flags().StringVar(&framesDir, "dir", "frames", "Output directory")
	framesCmd.Flags().Float64Var(&framesScroll, "scroll", 0, "Vertical scroll offset in pixels")
	framesCmd.Flags().StringSliceVar(&framesKeys, "key", nil, "Key to press before the first frame (repeatable)")
}
