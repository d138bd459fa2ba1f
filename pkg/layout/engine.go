package layout

import (
	"slidertext/pkg/css"
	"slidertext/pkg/html"
	"slidertext/pkg/text"
)

// ImageSizer reports the intrinsic size of an image source.
type ImageSizer interface {
	ImageSize(src string) (width, height int, ok bool)
}

type LayoutEngine struct {
	viewport Size
	measurer text.Measurer
	images   ImageSizer
}

// Option configures a LayoutEngine.
type Option func(*LayoutEngine)

// WithMeasurer sets the text measurer. The default loads the bundled fonts
// through gg.
func WithMeasurer(m text.Measurer) Option {
	return func(le *LayoutEngine) { le.measurer = m }
}

// WithImageSizer sets the source of intrinsic image sizes.
func WithImageSizer(s ImageSizer) Option {
	return func(le *LayoutEngine) { le.images = s }
}

func NewLayoutEngine(viewportWidth, viewportHeight float64, opts ...Option) *LayoutEngine {
	le := &LayoutEngine{viewport: Size{Width: viewportWidth, Height: viewportHeight}}
	for _, opt := range opts {
		opt(le)
	}
	if le.measurer == nil {
		le.measurer = text.NewGGMeasurer(text.DefaultFontConfig())
	}
	return le
}

// SetViewport changes the viewport used by the next Layout.
func (le *LayoutEngine) SetViewport(width, height float64) {
	le.viewport = Size{Width: width, Height: height}
}

func (le *LayoutEngine) Viewport() Size { return le.viewport }

// Measurer returns the text measurer layout uses.
func (le *LayoutEngine) Measurer() text.Measurer { return le.measurer }

// Layout computes styles and geometry for the whole document.
func (le *LayoutEngine) Layout(doc *html.Document) *Tree {
	styles := css.ApplyStylesToDocument(doc)
	t := &Tree{
		boxes:    make(map[*html.Node]*Box),
		styles:   styles,
		Viewport: le.viewport,
	}
	lc := &layoutContext{engine: le, styles: styles, tree: t}

	root := &Box{Node: doc.Root, Style: css.NewStyle(), Width: le.viewport.Width, Display: css.DisplayBlock}
	root.Height = lc.layoutChildren(root, 0, 0, root.Width)
	t.Root = root
	t.boxes[doc.Root] = root
	return t
}

// layoutContext carries per-pass state.
type layoutContext struct {
	engine *LayoutEngine
	styles css.ComputedStyles
	tree   *Tree
}

func (lc *layoutContext) styleOf(n *html.Node) *css.Style {
	return lc.styles.Of(n)
}

func (lc *layoutContext) register(b *Box) {
	if _, ok := lc.tree.boxes[b.Node]; !ok {
		lc.tree.boxes[b.Node] = b
	}
}

func faceOf(style *css.Style) text.Face {
	return text.Face{
		Size:   style.GetFontSize(),
		Bold:   style.GetFontWeight() == css.FontWeightBold,
		Italic: style.IsItalic(),
	}
}

func isBlockLevel(style *css.Style) bool {
	switch style.GetDisplay() {
	case css.DisplayBlock, css.DisplayFlex:
		return true
	}
	return false
}
