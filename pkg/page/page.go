// Package page owns a document and everything that animates it: the live
// layout, the timeline engine, the input host and the mounted sections.
// A Page is not safe for concurrent use; drive it from one event loop.
package page

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"slidertext/pkg/html"
	"slidertext/pkg/input"
	"slidertext/pkg/layout"
	"slidertext/pkg/section"
	"slidertext/pkg/text"
	"slidertext/pkg/timeline"
)

var (
	ErrCreated   = errors.New("page: already created")
	ErrDestroyed = errors.New("page: destroyed")
)

// Mount creates one section of the page.
type Mount func(env section.Env) (section.Section, error)

type Page struct {
	id     string
	doc    *html.Document
	live   *layout.Live
	engine *timeline.Engine
	host   *input.Host
	logger *zap.Logger

	mounts   []Mount
	sections []section.Section

	created   bool
	destroyed bool
}

type options struct {
	width, height float64
	measurer      text.Measurer
	images        layout.ImageSizer
	logger        *zap.Logger
	mounts        []Mount
}

// Option configures a Page.
type Option func(*options)

func WithViewport(width, height float64) Option {
	return func(o *options) { o.width, o.height = width, height }
}

func WithMeasurer(m text.Measurer) Option {
	return func(o *options) { o.measurer = m }
}

func WithImageSizer(s layout.ImageSizer) Option {
	return func(o *options) { o.images = s }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSections registers section mounts, run in order by Create.
func WithSections(mounts ...Mount) Option {
	return func(o *options) { o.mounts = append(o.mounts, mounts...) }
}

func New(id string, doc *html.Document, opts ...Option) *Page {
	o := options{width: 1440, height: 900, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	var lopts []layout.Option
	if o.measurer != nil {
		lopts = append(lopts, layout.WithMeasurer(o.measurer))
	}
	if o.images != nil {
		lopts = append(lopts, layout.WithImageSizer(o.images))
	}
	live := layout.NewLive(doc, layout.NewLayoutEngine(o.width, o.height, lopts...))
	return &Page{
		id:     id,
		doc:    doc,
		live:   live,
		engine: timeline.New(timeline.WithLogger(o.logger), timeline.WithGeometry(live)),
		host:   input.NewHost(),
		logger: o.logger.With(zap.String("page", id)),
		mounts: o.mounts,
	}
}

// Create mounts every registered section. Sections mounted before a
// failing one stay mounted and are destroyed with the page.
func (p *Page) Create() error {
	if p.destroyed {
		return ErrDestroyed
	}
	if p.created {
		return ErrCreated
	}
	p.created = true
	env := section.Env{
		Root:   p.doc.Root,
		Engine: p.engine,
		Layout: p.live,
		Input:  p.host,
		Logger: p.logger,
	}
	for _, mount := range p.mounts {
		s, err := mount(env)
		if err != nil {
			return fmt.Errorf("create page %s: %w", p.id, err)
		}
		p.sections = append(p.sections, s)
		if !s.Active() {
			p.logger.Debug("section skipped", zap.String("section", s.Name()))
		}
	}
	p.logger.Info("page created", zap.Int("sections", len(p.sections)))
	return nil
}

// Resize changes the viewport and re-evaluates scroll triggers against
// the new layout.
func (p *Page) Resize(width, height float64) {
	p.live.SetViewport(width, height)
	p.engine.Refresh()
	p.logger.Debug("page resized", zap.Float64("width", width), zap.Float64("height", height))
}

func (p *Page) Scroll(y float64) {
	p.engine.Scroll(max(y, 0))
}

func (p *Page) Key(key string) {
	if !p.destroyed {
		p.host.DispatchKey(key)
	}
}

// Click dispatches a click on n and returns the number of handlers run.
func (p *Page) Click(n *html.Node) int {
	if p.destroyed || n == nil {
		return 0
	}
	return p.host.DispatchClick(n)
}

func (p *Page) ScrollY() float64 { return p.engine.ScrollY() }

// State returns the animated state of n.
func (p *Page) State(n *html.Node) timeline.State { return p.engine.Get(n) }

// Tick advances the animation clock by dt seconds.
func (p *Page) Tick(dt float64) {
	p.engine.Advance(dt)
}

// Destroy tears the sections down in reverse order. It is idempotent.
func (p *Page) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	for i := len(p.sections) - 1; i >= 0; i-- {
		p.sections[i].Destroy()
	}
	p.logger.Info("page destroyed", zap.Int("listeners", p.host.Len()))
}

func (p *Page) ID() string                  { return p.id }
func (p *Page) Document() *html.Document    { return p.doc }
func (p *Page) Layout() *layout.Live        { return p.live }
func (p *Page) Engine() *timeline.Engine    { return p.engine }
func (p *Page) Input() *input.Host          { return p.host }
func (p *Page) Sections() []section.Section { return p.sections }
func (p *Page) Destroyed() bool             { return p.destroyed }

// Section returns the mounted section called name.
func (p *Page) Section(name string) (section.Section, bool) {
	for _, s := range p.sections {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}
