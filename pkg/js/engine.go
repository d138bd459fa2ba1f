// Package js runs scenario scripts against a live page. Scripts see a
// read-mostly document and a page object that drives input, the clock
// and the viewport.
package js

import (
	"context"
	"fmt"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"slidertext/pkg/html"
	"slidertext/pkg/timeline"
)

// Driver is the page a scenario controls.
type Driver interface {
	Document() *html.Document
	Key(key string)
	Click(n *html.Node) int
	Tick(dt float64)
	Scroll(y float64)
	ScrollY() float64
	Resize(width, height float64)
	State(n *html.Node) timeline.State
}

// SnapshotFunc writes the current frame to path.
type SnapshotFunc func(path string) error

type Engine struct {
	vm       *goja.Runtime
	driver   Driver
	dom      *domContext
	logger   *zap.Logger
	snapshot SnapshotFunc
	taken    []string
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithSnapshot enables page.snapshot.
func WithSnapshot(fn SnapshotFunc) Option {
	return func(e *Engine) { e.snapshot = fn }
}

// New creates an engine with fresh document, page and console globals.
func New(d Driver, opts ...Option) *Engine {
	e := &Engine{vm: goja.New(), driver: d, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}

	c := &consoleAPI{logger: e.logger.Named("console")}
	c.register(e.vm)
	e.dom = registerDocument(e.vm, d.Document())
	e.registerPage()
	return e
}

// Run executes src. Cancelling ctx interrupts the script.
func (e *Engine) Run(ctx context.Context, name, src string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	_, err := e.vm.RunScript(name, src)
	close(done)
	<-stopped
	e.vm.ClearInterrupt()
	if err != nil {
		return fmt.Errorf("scenario %s: %w", name, err)
	}
	e.logger.Debug("scenario finished", zap.String("name", name), zap.Int("snapshots", len(e.taken)))
	return nil
}

// Execute runs the document's own scripts in order.
func (e *Engine) Execute(ctx context.Context) error {
	for i, script := range e.driver.Document().Scripts {
		if err := e.Run(ctx, fmt.Sprintf("script %d", i), script); err != nil {
			return err
		}
	}
	return nil
}

// Snapshots returns the paths written by page.snapshot, in order.
func (e *Engine) Snapshots() []string { return e.taken }
