package carousel

// Step is the timing of one animation.
type Step struct {
	Duration float64 `yaml:"duration"`
	Ease     string  `yaml:"ease"`
	Delay    float64 `yaml:"delay"`
}

// Motion holds every timing the carousel uses.
type Motion struct {
	// PrimeScale and PrimeTitleY are the resting state of slides that are
	// not shown.
	PrimeScale  float64 `yaml:"prime_scale"`
	PrimeTitleY float64 `yaml:"prime_title_y"`

	FirstImage Step `yaml:"first_image"`
	FirstTitle Step `yaml:"first_title"`
	Track      Step `yaml:"track"`
	ImageOut   Step `yaml:"image_out"`
	TitleOut   Step `yaml:"title_out"`
	ImageIn    Step `yaml:"image_in"`
	TitleIn    Step `yaml:"title_in"`
}

func DefaultMotion() Motion {
	return Motion{
		PrimeScale:  1.1,
		PrimeTitleY: 20,
		FirstImage:  Step{Duration: 1.4, Ease: "expo.out", Delay: 0.5},
		FirstTitle:  Step{Duration: 0.8, Ease: "power2.out", Delay: 0.8},
		Track:       Step{Duration: 1, Ease: "power2.inOut"},
		ImageOut:    Step{Duration: 1, Ease: "power2.inOut"},
		TitleOut:    Step{Duration: 0.4, Ease: "power2.in"},
		ImageIn:     Step{Duration: 1.2, Ease: "power2.out", Delay: 0.2},
		TitleIn:     Step{Duration: 0.6, Ease: "power2.out", Delay: 0.4},
	}
}

// Steps returns the named steps, for validation.
func (m Motion) Steps() map[string]Step {
	return map[string]Step{
		"first_image": m.FirstImage,
		"first_title": m.FirstTitle,
		"track":       m.Track,
		"image_out":   m.ImageOut,
		"title_out":   m.TitleOut,
		"image_in":    m.ImageIn,
		"title_in":    m.TitleIn,
	}
}
