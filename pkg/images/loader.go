// Package images decodes and caches the images a page references.
package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"slidertext/pkg/resource"
)

var ErrNotDataURI = errors.New("images: not a data URI")

// Loader loads images through a fetcher, or straight from data URIs, and
// keeps every decoded image. Concurrent loads of one source share a
// single fetch.
type Loader struct {
	fetcher resource.Fetcher
	logger  *zap.Logger

	mu     sync.RWMutex
	cache  map[string]image.Image
	failed map[string]bool
	group  singleflight.Group
}

type Option func(*Loader)

func WithLogger(l *zap.Logger) Option {
	return func(ld *Loader) { ld.logger = l }
}

// NewLoader creates a loader. A nil fetcher only serves data URIs.
func NewLoader(fetcher resource.Fetcher, opts ...Option) *Loader {
	l := &Loader{
		fetcher: fetcher,
		logger:  zap.NewNop(),
		cache:   make(map[string]image.Image),
		failed:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the decoded image for src.
func (l *Loader) Load(ctx context.Context, src string) (image.Image, error) {
	l.mu.RLock()
	img, ok := l.cache[src]
	l.mu.RUnlock()
	if ok {
		return img, nil
	}

	v, err, _ := l.group.Do(src, func() (any, error) {
		img, err := l.decode(ctx, src)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.cache[src] = img
		l.mu.Unlock()
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(image.Image), nil
}

func (l *Loader) decode(ctx context.Context, src string) (image.Image, error) {
	if IsDataURI(src) {
		return DecodeDataURI(src)
	}
	if l.fetcher == nil {
		return nil, fmt.Errorf("images: no fetcher for %s", src)
	}
	body, _, err := l.fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", src, err)
	}
	return img, nil
}

// ImageSize reports the intrinsic size of src for layout. Sources that
// fail to load are logged once and have no size.
func (l *Loader) ImageSize(src string) (width, height int, ok bool) {
	img, err := l.Load(context.Background(), src)
	if err != nil {
		l.mu.Lock()
		first := !l.failed[src]
		l.failed[src] = true
		l.mu.Unlock()
		if first {
			l.logger.Warn("image unavailable", zap.String("src", short(src)), zap.Error(err))
		}
		return 0, 0, false
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), true
}

// Len returns the number of cached images.
func (l *Loader) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.cache)
}

func short(src string) string {
	if len(src) > 64 {
		return src[:64] + "…"
	}
	return src
}

func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// DecodeDataURI decodes a base64 or percent-encoded image data URI.
func DecodeDataURI(uri string) (image.Image, error) {
	if !IsDataURI(uri) {
		return nil, ErrNotDataURI
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("images: data URI without payload")
	}
	var data []byte
	var err error
	if strings.HasSuffix(meta, ";base64") {
		data, err = base64.StdEncoding.DecodeString(payload)
	} else {
		var s string
		s, err = url.PathUnescape(payload)
		data = []byte(s)
	}
	if err != nil {
		return nil, fmt.Errorf("images: data URI payload: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("images: data URI: %w", err)
	}
	return img, nil
}
