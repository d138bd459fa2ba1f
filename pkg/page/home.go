package page

import (
	"slidertext/pkg/carousel"
	"slidertext/pkg/html"
	"slidertext/pkg/section"
)

// Motion is the motion configuration of the home page sections.
type Motion struct {
	Carousel carousel.Motion
	Entrance section.Entrance
	Reveal   section.Reveal
}

func DefaultMotion() Motion {
	return Motion{
		Carousel: carousel.DefaultMotion(),
		Entrance: section.DefaultEntrance(),
		Reveal:   section.DefaultReveal(),
	}
}

// Home is the home page: the product selection title reveal followed by
// the slider text section.
func Home(doc *html.Document, m Motion, opts ...Option) *Page {
	mounts := WithSections(
		func(env section.Env) (section.Section, error) { return section.NewTitleReveal(env, m.Reveal) },
		func(env section.Env) (section.Section, error) {
			return section.NewSliderText(env, m.Entrance, m.Carousel)
		},
	)
	return New("home", doc, append(opts, mounts)...)
}
