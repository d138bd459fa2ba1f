// Package visualtest compares rendered frames against references.
package visualtest

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

var ErrSizeMismatch = errors.New("visualtest: image sizes differ")

// Result describes how two frames differ.
type Result struct {
	Match           bool
	DifferentPixels int
	TotalPixels     int
	// MaxDifference is the largest channel difference found, 0-255.
	MaxDifference int
	// Diff marks differing pixels red over a grayscale copy of the actual
	// frame. It is only set when Options.Diff is true and the frames differ.
	Diff *image.RGBA
}

// Options configures a comparison.
type Options struct {
	// Tolerance is the largest per-channel difference still counted as equal.
	Tolerance int
	// FuzzyRadius lets a pixel match any reference pixel within the radius,
	// absorbing small shifts of antialiased edges.
	FuzzyRadius int
	// MaxDifferentPercent passes frames whose share of differing pixels is
	// at most this value.
	MaxDifferentPercent float64
	Diff                bool
}

func DefaultOptions() Options {
	return Options{Tolerance: 2}
}

// Compare compares two frames pixel by pixel.
func Compare(actual, expected image.Image, opts Options) (*Result, error) {
	bounds := actual.Bounds()
	if bounds != expected.Bounds() {
		return &Result{}, fmt.Errorf("%w: actual=%v, expected=%v", ErrSizeMismatch, bounds, expected.Bounds())
	}
	res := &Result{Match: true, TotalPixels: bounds.Dx() * bounds.Dy()}
	var diff *image.RGBA
	if opts.Diff {
		diff = image.NewRGBA(bounds)
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			a := rgba(actual.At(x, y))
			d := distance(a, rgba(expected.At(x, y)))
			res.MaxDifference = max(res.MaxDifference, d)

			same := d <= opts.Tolerance ||
				opts.FuzzyRadius > 0 && nearby(a, expected, x, y, opts.FuzzyRadius, opts.Tolerance)
			if !same {
				res.Match = false
				res.DifferentPixels++
			}
			if diff != nil {
				if same {
					diff.Set(x, y, color.RGBA{a.R, a.R, a.R, 255})
				} else {
					diff.Set(x, y, color.RGBA{255, 0, 0, 255})
				}
			}
		}
	}

	if !res.Match && opts.MaxDifferentPercent > 0 {
		pct := float64(res.DifferentPixels) / float64(res.TotalPixels) * 100
		res.Match = pct <= opts.MaxDifferentPercent
	}
	if !res.Match {
		res.Diff = diff
	}
	return res, nil
}

// CompareFiles compares two PNG files.
func CompareFiles(actualPath, expectedPath string, opts Options) (*Result, error) {
	actual, err := loadPNG(actualPath)
	if err != nil {
		return nil, err
	}
	expected, err := loadPNG(expectedPath)
	if err != nil {
		return nil, err
	}
	return Compare(actual, expected, opts)
}

// SavePNG writes img to path.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func rgba(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func distance(a, b color.NRGBA) int {
	return max(absDiff(a.R, b.R), absDiff(a.G, b.G), absDiff(a.B, b.B), absDiff(a.A, b.A))
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// nearby reports whether a matches any expected pixel within radius of (x, y).
func nearby(a color.NRGBA, expected image.Image, x, y, radius, tolerance int) bool {
	b := expected.Bounds()
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			p := image.Pt(x+dx, y+dy)
			if !p.In(b) {
				continue
			}
			if distance(a, rgba(expected.At(p.X, p.Y))) <= tolerance {
				return true
			}
		}
	}
	return false
}
