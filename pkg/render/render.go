// Package render paints a laid out page with its animated state.
package render

import (
	"context"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"slidertext/pkg/css"
	"slidertext/pkg/html"
	"slidertext/pkg/layout"
	"slidertext/pkg/text"
	"slidertext/pkg/timeline"
)

// States supplies the animated state of element nodes.
type States interface {
	Get(n *html.Node) timeline.State
}

// ImageSource loads the images of img elements.
type ImageSource interface {
	Load(ctx context.Context, src string) (image.Image, error)
}

type Renderer struct {
	context    *gg.Context
	fonts      text.FontConfig
	images     ImageSource
	logger     *zap.Logger
	background color.Color

	faces  map[text.Face]font.Face
	broken map[string]bool
}

type Option func(*Renderer)

func WithFonts(fc text.FontConfig) Option {
	return func(r *Renderer) { r.fonts = fc }
}

func WithImages(src ImageSource) Option {
	return func(r *Renderer) { r.images = src }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

// WithBackground sets the canvas color, white by default.
func WithBackground(c color.Color) Option {
	return func(r *Renderer) { r.background = c }
}

func NewRenderer(width, height int, opts ...Option) *Renderer {
	r := &Renderer{
		context:    gg.NewContext(width, height),
		fonts:      text.DefaultFontConfig(),
		logger:     zap.NewNop(),
		background: color.White,
		faces:      make(map[text.Face]font.Face),
		broken:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render paints tree scrolled down by scrollY. A nil states paints every
// element at rest.
func (r *Renderer) Render(ctx context.Context, tree *layout.Tree, states States, scrollY float64) {
	dc := r.context
	dc.ResetClip()
	dc.Identity()
	dc.SetColor(r.background)
	dc.Clear()
	if tree == nil || tree.Root == nil {
		return
	}
	dc.Push()
	dc.Translate(0, -scrollY)
	r.paint(ctx, tree, tree.Root, states, 1)
	dc.Pop()
}

// paint draws box and its subtree. Element state applies once, on the box
// the tree registered for the node.
func (r *Renderer) paint(ctx context.Context, tree *layout.Tree, box *layout.Box, states States, alpha float64) {
	dc := r.context
	dc.Push()
	defer dc.Pop()

	if owned(tree, box) && states != nil {
		s := states.Get(box.Node)
		alpha *= math.Max(0, math.Min(1, s.Opacity))
		if alpha <= 0 {
			return
		}
		bb := box.BorderBox()
		dc.Translate(s.X, s.Y+s.YPercent/100*bb.Height)
		if s.Scale != 1 {
			dc.ScaleAbout(s.Scale, s.Scale, bb.X+bb.Width/2, bb.Y+bb.Height/2)
		}
	}

	r.drawBackground(box, alpha)
	r.drawBorder(box, alpha)
	r.drawImage(ctx, box, alpha)
	r.drawText(box, alpha)

	if box.Clip {
		pb := box.PaddingBox()
		dc.DrawRectangle(pb.X, pb.Y, pb.Width, pb.Height)
		dc.Clip()
	}
	for _, child := range box.Children {
		r.paint(ctx, tree, child, states, alpha)
	}
}

func owned(tree *layout.Tree, box *layout.Box) bool {
	if box.Node == nil || box.Node.Type != html.ElementNode || box.Text != "" {
		return false
	}
	b, ok := tree.Box(box.Node)
	return ok && b == box
}

func (r *Renderer) setColor(c css.Color, alpha float64) {
	r.context.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, c.A*alpha)
}

// drawBackground fills the padding box.
func (r *Renderer) drawBackground(box *layout.Box, alpha float64) {
	if box.Style == nil || box.Text != "" {
		return
	}
	c, ok := box.Style.GetBackgroundColor()
	if !ok {
		return
	}
	pb := box.PaddingBox()
	if pb.Width <= 0 || pb.Height <= 0 {
		return
	}
	r.setColor(c, alpha)
	r.context.DrawRectangle(pb.X, pb.Y, pb.Width, pb.Height)
	r.context.Fill()
}

// drawBorder fills each border side with border-color, falling back to
// the text color.
func (r *Renderer) drawBorder(box *layout.Box, alpha float64) {
	e := box.Border
	if box.Style == nil || (e.Top <= 0 && e.Right <= 0 && e.Bottom <= 0 && e.Left <= 0) {
		return
	}
	if s, _ := box.Style.Get("border-style"); s == "none" || s == "hidden" {
		return
	}
	c := box.Style.GetColor()
	if v, ok := box.Style.Get("border-color"); ok {
		if parsed, ok := css.ParseColor(v); ok {
			c = parsed
		}
	}
	bb := box.BorderBox()
	r.setColor(c, alpha)
	dc := r.context
	dc.DrawRectangle(bb.X, bb.Y, bb.Width, e.Top)
	dc.DrawRectangle(bb.X, bb.Bottom()-e.Bottom, bb.Width, e.Bottom)
	dc.DrawRectangle(bb.X, bb.Y+e.Top, e.Left, bb.Height-e.Top-e.Bottom)
	dc.DrawRectangle(bb.Right()-e.Right, bb.Y+e.Top, e.Right, bb.Height-e.Top-e.Bottom)
	dc.Fill()
}

func (r *Renderer) drawText(box *layout.Box, alpha float64) {
	if box.Text == "" {
		return
	}
	face := r.face(box.Face)
	m := face.Metrics()
	ascent := float64(m.Ascent) / 64
	descent := float64(m.Descent) / 64
	baseline := box.Y + (box.Height-(ascent+descent))/2 + ascent

	r.setColor(box.Style.GetColor(), alpha)
	r.context.SetFontFace(face)
	r.context.DrawString(box.Text, box.X, baseline)
}

// face loads the configured font for f, or the built-in bitmap face when
// the font files are missing.
func (r *Renderer) face(f text.Face) font.Face {
	if ff, ok := r.faces[f]; ok {
		return ff
	}
	var ff font.Face = basicfont.Face7x13
	path := r.fonts.FontPath(f.Bold, f.Italic)
	if path != "" {
		loaded, err := gg.LoadFontFace(path, f.Size)
		if err == nil {
			ff = loaded
		} else {
			r.logger.Debug("font unavailable, using bitmap face", zap.String("path", path), zap.Error(err))
		}
	}
	r.faces[f] = ff
	return ff
}

// drawImage scales the image to the content box. Images that cannot be
// loaded are drawn as a crossed placeholder.
func (r *Renderer) drawImage(ctx context.Context, box *layout.Box, alpha float64) {
	if box.ImagePath == "" {
		return
	}
	cb := box.ContentBox()
	if cb.Width <= 0 || cb.Height <= 0 {
		return
	}
	dc := r.context

	var img image.Image
	var err error
	if r.images != nil {
		img, err = r.images.Load(ctx, box.ImagePath)
	}
	if img == nil {
		if err != nil && !r.broken[box.ImagePath] {
			r.broken[box.ImagePath] = true
			r.logger.Warn("image not drawn", zap.String("src", box.ImagePath), zap.Error(err))
		}
		dc.SetRGBA(0.9, 0.9, 0.9, alpha)
		dc.DrawRectangle(cb.X, cb.Y, cb.Width, cb.Height)
		dc.Fill()
		dc.SetRGBA(0.5, 0.5, 0.5, alpha)
		dc.SetLineWidth(2)
		dc.DrawLine(cb.X, cb.Y, cb.Right(), cb.Bottom())
		dc.DrawLine(cb.Right(), cb.Y, cb.X, cb.Bottom())
		dc.Stroke()
		return
	}
	if alpha < 1 {
		img = fade(img, alpha)
	}

	b := img.Bounds()
	dc.Push()
	dc.Translate(cb.X, cb.Y)
	dc.Scale(cb.Width/float64(b.Dx()), cb.Height/float64(b.Dy()))
	dc.DrawImage(img, 0, 0)
	dc.Pop()
}

// fade returns a copy of img with its alpha multiplied by alpha.
func fade(img image.Image, alpha float64) image.Image {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(alpha * 255))})
	draw.Copy(out, image.Point{}, img, b, draw.Over, &draw.Options{SrcMask: mask, SrcMaskP: b.Min})
	return out
}

// Image returns the canvas.
func (r *Renderer) Image() image.Image { return r.context.Image() }

func (r *Renderer) SavePNG(filename string) error {
	return r.context.SavePNG(filename)
}

func (r *Renderer) EncodePNG(w io.Writer) error {
	return r.context.EncodePNG(w)
}
