package resource

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"slidertext/pkg/html"
)

// LoadDocument fetches and parses the page at uri and appends the linked
// stylesheets to the document's styles, after its inline ones. A
// stylesheet that cannot be fetched is logged and skipped.
func LoadDocument(ctx context.Context, f Fetcher, uri string, logger *zap.Logger) (*html.Document, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	body, _, err := f.Fetch(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("load page: %w", err)
	}
	doc, err := html.Parse(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", uri, err)
	}

	for _, href := range stylesheetLinks(doc) {
		src, err := FetchCSS(ctx, f, href)
		if err != nil {
			logger.Warn("stylesheet skipped", zap.String("href", href), zap.Error(err))
			continue
		}
		doc.Stylesheets = append(doc.Stylesheets, src)
	}
	return doc, nil
}

func stylesheetLinks(doc *html.Document) []string {
	var hrefs []string
	doc.Root.Walk(func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.TagName == "link" {
			rel, _ := n.GetAttribute("rel")
			if href, ok := n.GetAttribute("href"); ok && rel == "stylesheet" && href != "" {
				hrefs = append(hrefs, href)
			}
		}
		return true
	})
	return hrefs
}
