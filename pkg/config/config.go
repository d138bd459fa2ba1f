// Package config loads the slidertext configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"slidertext/pkg/carousel"
	"slidertext/pkg/logging"
	"slidertext/pkg/section"
	"slidertext/pkg/text"
)

var (
	ErrInvalidViewport = errors.New("config: invalid viewport")
	ErrInvalidMotion   = errors.New("config: invalid motion")
	ErrInvalidScroll   = errors.New("config: invalid scroll")
)

// Config holds all slidertext configuration.
type Config struct {
	Viewport Viewport        `yaml:"viewport"`
	Fonts    text.FontConfig `yaml:"fonts"`
	Motion   Motion          `yaml:"motion"`
	Scroll   Scroll          `yaml:"scroll"`
	Logging  logging.Config  `yaml:"logging"`
}

type Viewport struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Motion holds every duration, ease and delay of the page.
type Motion struct {
	Carousel carousel.Motion  `yaml:"carousel"`
	Entrance section.Entrance `yaml:"entrance"`
	Reveal   section.Reveal   `yaml:"reveal"`
}

// Scroll configures the interactive viewer.
type Scroll struct {
	// Step is how far one scroll key moves, in pixels.
	Step float64 `yaml:"step"`
	// FPS is the frame rate of the event loop.
	FPS int `yaml:"fps"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Viewport: Viewport{Width: 1440, Height: 900},
		Fonts:    text.DefaultFontConfig(),
		Motion: Motion{
			Carousel: carousel.DefaultMotion(),
			Entrance: section.DefaultEntrance(),
			Reveal:   section.DefaultReveal(),
		},
		Scroll:  Scroll{Step: 120, FPS: 60},
		Logging: logging.DefaultConfig(),
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate rejects values the page cannot run with.
func (c *Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("%w: %gx%g", ErrInvalidViewport, c.Viewport.Width, c.Viewport.Height)
	}
	for name, s := range c.Motion.Carousel.Steps() {
		if s.Duration < 0 || s.Delay < 0 {
			return fmt.Errorf("%w: carousel %s has a negative duration or delay", ErrInvalidMotion, name)
		}
	}
	cues := c.Motion.Entrance.Cues()
	cues["reveal_lines"] = c.Motion.Reveal.Lines
	for name, cue := range cues {
		if cue.Duration < 0 || cue.At < 0 || cue.Stagger < 0 {
			return fmt.Errorf("%w: %s has a negative duration, offset or stagger", ErrInvalidMotion, name)
		}
	}
	if c.Motion.Carousel.PrimeScale <= 0 {
		return fmt.Errorf("%w: prime scale must be positive", ErrInvalidMotion)
	}
	if c.Scroll.Step < 0 || c.Scroll.FPS <= 0 {
		return fmt.Errorf("%w: step %g, fps %d", ErrInvalidScroll, c.Scroll.Step, c.Scroll.FPS)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
