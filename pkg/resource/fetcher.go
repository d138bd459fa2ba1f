// Package resource loads pages and their assets from disk or the network.
package resource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	stdnet "slidertext/std/net"
)

// Fetcher retrieves resources by URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (body []byte, contentType string, err error)
}

// DefaultFetcher resolves relative URIs against a base, which is either a
// directory or an http(s) URL, and reads files or fetches network URLs.
type DefaultFetcher struct {
	base string
}

// NewFetcher creates a DefaultFetcher. For a page path or URL use
// ForPage to get the base right.
func NewFetcher(base string) *DefaultFetcher {
	return &DefaultFetcher{base: base}
}

// ForPage returns a fetcher resolving against the location of page.
func ForPage(page string) *DefaultFetcher {
	if stdnet.IsNetworkURL(page) {
		return NewFetcher(page)
	}
	return NewFetcher(filepath.Dir(page))
}

// Resolve returns the absolute location of uri.
func (f *DefaultFetcher) Resolve(uri string) string {
	switch {
	case stdnet.IsNetworkURL(uri):
		return uri
	case stdnet.IsNetworkURL(f.base):
		return stdnet.ResolveURL(f.base, uri)
	case filepath.IsAbs(uri) || f.base == "":
		return uri
	}
	return filepath.Join(f.base, filepath.FromSlash(uri))
}

func (f *DefaultFetcher) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	resolved := f.Resolve(uri)
	if stdnet.IsNetworkURL(resolved) {
		return stdnet.Fetch(ctx, resolved)
	}
	body, err := os.ReadFile(resolved)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", resolved, err)
	}
	return body, contentTypeOf(resolved), nil
}

func contentTypeOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".css":
		return "text/css"
	case ".html", ".htm":
		return "text/html"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	}
	return ""
}

// FetchCSS fetches a stylesheet and returns its text. Content that does
// not look like CSS or text is rejected.
func FetchCSS(ctx context.Context, f Fetcher, uri string) (string, error) {
	body, contentType, err := f.Fetch(ctx, uri)
	if err != nil {
		return "", err
	}
	ct := strings.ToLower(contentType)
	if ct != "" && !strings.HasPrefix(ct, "text/") && !strings.Contains(ct, "css") {
		return "", fmt.Errorf("unexpected content type for CSS: %s", contentType)
	}
	return string(body), nil
}
