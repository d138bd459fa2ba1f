package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"slidertext/pkg/input"
	"slidertext/pkg/loop"
)

var showCmd = &cobra.Command{
	Use:   "show <page.html>",
	Short: "Open a page in a window",
	Long: `Opens the page in a window driven by a fixed-rate loop.

Keys: Left/Right navigate the slider, Up/Down and PageUp/PageDown scroll,
Home scrolls to the top. The page reloads when the file changes on disk.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		s, err := openSession(ctx, path, cfg, logger)
		if err != nil {
			return err
		}
		v := &viewer{path: path, session: s, dirty: true}
		defer func() { v.session.close() }()

		a := app.New()
		w := a.NewWindow(fmt.Sprintf("slidertext - %s", filepath.Base(path)))
		w.Resize(fyne.NewSize(float32(cfg.Viewport.Width), float32(cfg.Viewport.Height)))
		v.view = canvas.NewImageFromImage(s.frame(ctx))
		v.view.FillMode = canvas.ImageFillOriginal
		w.SetContent(v.view)

		v.loop = loop.New(loop.Config{TargetFPS: cfg.Scroll.FPS}, func(f loop.Frame) { v.tick(ctx, f) }, logger)
		w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
			if err := v.loop.Post(func() { v.key(ev.Name) }); err != nil {
				logger.Debug("key dropped", zap.String("key", string(ev.Name)), zap.Error(err))
			}
		})
		w.SetOnClosed(cancel)

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		defer watcher.Close()
		// Editors often replace the file, so watch the directory.
		if err := watcher.Add(filepath.Dir(path)); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := v.loop.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("loop failed", zap.Error(err))
			}
		}()
		go func() {
			defer wg.Done()
			v.watch(ctx, watcher)
		}()

		w.ShowAndRun()
		cancel()
		wg.Wait()
		return nil
	},
}

// viewer connects a session to a window. Everything except watch runs
// on the loop goroutine.
type viewer struct {
	path    string
	session *session
	view    *canvas.Image
	loop    *loop.Loop
	dirty   bool
}

func (v *viewer) tick(ctx context.Context, f loop.Frame) {
	p := v.session.page
	idle := p.Engine().Idle()
	p.Tick(f.DeltaTime)
	if idle && !v.dirty {
		return
	}
	v.dirty = false
	img := v.session.frame(ctx)
	fyne.Do(func() {
		v.view.Image = img
		v.view.Refresh()
	})
}

func (v *viewer) key(name fyne.KeyName) {
	p := v.session.page
	step := cfg.Scroll.Step
	switch name {
	case fyne.KeyLeft:
		p.Key(input.ArrowLeft)
	case fyne.KeyRight:
		p.Key(input.ArrowRight)
	case fyne.KeyDown:
		p.Scroll(p.ScrollY() + step)
	case fyne.KeyUp:
		p.Scroll(p.ScrollY() - step)
	case fyne.KeyPageDown:
		p.Scroll(p.ScrollY() + cfg.Viewport.Height)
	case fyne.KeyPageUp:
		p.Scroll(p.ScrollY() - cfg.Viewport.Height)
	case fyne.KeyHome:
		p.Scroll(0)
	default:
		return
	}
	v.dirty = true
}

// watch reloads the page after it changes, once writes have settled.
func (v *viewer) watch(ctx context.Context, watcher *fsnotify.Watcher) {
	const settle = 150 * time.Millisecond
	var pending *time.Timer
	defer func() {
		if pending != nil {
			pending.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Name != v.path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(settle, func() {
				_ = v.loop.Post(func() { v.reload(ctx) })
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error", zap.Error(err))
		}
	}
}

// reload replaces the session, keeping the scroll position. A page that
// fails to load leaves the current one in place.
func (v *viewer) reload(ctx context.Context) {
	next, err := openSession(ctx, v.path, cfg, logger)
	if err != nil {
		logger.Warn("reload failed", zap.String("path", v.path), zap.Error(err))
		return
	}
	next.page.Scroll(v.session.page.ScrollY())
	v.session.close()
	v.session = next
	v.dirty = true
	logger.Info("page reloaded", zap.String("path", v.path))
}
