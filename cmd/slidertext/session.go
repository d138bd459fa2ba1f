package main

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"time"

	"go.uber.org/zap"

	"slidertext/pkg/config"
	"slidertext/pkg/images"
	"slidertext/pkg/page"
	"slidertext/pkg/render"
	"slidertext/pkg/resource"
	"slidertext/pkg/text"
)

// session is one loaded page with its renderer. It is not safe for
// concurrent use.
type session struct {
	path     string
	page     *page.Page
	images   *images.Loader
	renderer *render.Renderer
	fonts    text.FontConfig
	fps      int
	logger   *zap.Logger
}

func openSession(ctx context.Context, path string, cfg *config.Config, logger *zap.Logger) (*session, error) {
	fetcher := resource.ForPage(path)
	doc, err := resource.LoadDocument(ctx, fetcher, path, logger)
	if err != nil {
		return nil, err
	}
	loader := images.NewLoader(fetcher, images.WithLogger(logger))

	p := page.Home(doc, page.Motion(cfg.Motion),
		page.WithViewport(cfg.Viewport.Width, cfg.Viewport.Height),
		page.WithMeasurer(text.NewGGMeasurer(cfg.Fonts, text.WithLogger(logger))),
		page.WithImageSizer(loader),
		page.WithLogger(logger),
	)
	if err := p.Create(); err != nil {
		p.Destroy()
		return nil, err
	}
	s := &session{
		path:   path,
		page:   p,
		images: loader,
		fonts:  cfg.Fonts,
		fps:    cfg.Scroll.FPS,
		logger: logger,
	}
	s.renderer = s.newRenderer(cfg.Viewport.Width, cfg.Viewport.Height)
	return s, nil
}

func (s *session) newRenderer(width, height float64) *render.Renderer {
	return render.NewRenderer(int(width), int(height),
		render.WithFonts(s.fonts),
		render.WithImages(s.images),
		render.WithLogger(s.logger),
	)
}

// advance runs the clock forward by d in frame-sized steps.
func (s *session) advance(d time.Duration) {
	step := 1 / float64(s.fps)
	for left := d.Seconds(); left > 1e-9; left -= step {
		s.page.Tick(min(step, left))
	}
}

// resize changes the viewport of the page and the canvas.
func (s *session) resize(width, height float64) {
	s.page.Resize(width, height)
	s.renderer = s.newRenderer(width, height)
}

// draw renders the current state onto the canvas.
func (s *session) draw(ctx context.Context) image.Image {
	s.renderer.Render(ctx, s.page.Layout().Tree(), s.page.Engine(), s.page.ScrollY())
	return s.renderer.Image()
}

// frame renders the current state into an image the caller owns.
func (s *session) frame(ctx context.Context) *image.RGBA {
	src := s.draw(ctx)
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

func (s *session) snapshot(ctx context.Context, path string) error {
	s.draw(ctx)
	if err := s.renderer.SavePNG(path); err != nil {
		return fmt.Errorf("snapshot %s: %w", path, err)
	}
	s.logger.Info("snapshot written", zap.String("path", path))
	return nil
}

func (s *session) close() {
	s.page.Destroy()
}
