package resource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadDocumentFromDisk(t *testing.T) {
	dir := t.TempDir()
	page := writeFile(t, dir, "index.html", `<html><head>
<style>h1 { color: red }</style>
<link rel="stylesheet" href="css/site.css">
<link rel="stylesheet" href="css/missing.css">
<link rel="icon" href="favicon.ico">
</head><body><h1>Hi</h1></body></html>`)
	writeFile(t, dir, "css/site.css", ".slider__text { display: block }")

	core, logs := observer.New(zap.WarnLevel)
	doc, err := LoadDocument(context.Background(), ForPage(page), page, zap.New(core))
	require.NoError(t, err)
	assert.Equal(t, []string{"h1 { color: red }", ".slider__text { display: block }"}, doc.Stylesheets)
	assert.Equal(t, 1, logs.FilterMessage("stylesheet skipped").Len())
}

func TestLoadDocumentMissingPage(t *testing.T) {
	_, err := LoadDocument(context.Background(), NewFetcher(""), filepath.Join(t.TempDir(), "nope.html"), nil)
	assert.ErrorContains(t, err, "load page")
}

func TestFetcherOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/site/page.html":
			_, _ = w.Write([]byte(`<link rel="stylesheet" href="style.css"><p>x</p>`))
		case "/site/style.css":
			w.Header().Set("Content-Type", "text/css; charset=utf-8")
			_, _ = w.Write([]byte("p { margin: 0 }"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	uri := srv.URL + "/site/page.html"
	f := ForPage(uri)
	assert.Equal(t, srv.URL+"/site/style.css", f.Resolve("style.css"))
	doc, err := LoadDocument(context.Background(), f, uri, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"p { margin: 0 }"}, doc.Stylesheets)
}

func TestFetchCSSRejectsImages(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.png", "not really")
	_, err := FetchCSS(context.Background(), NewFetcher(dir), "a.png")
	assert.ErrorContains(t, err, "unexpected content type")
}

func TestResolve(t *testing.T) {
	f := NewFetcher("/srv/pages")
	assert.Equal(t, filepath.Join("/srv/pages", "img", "a.png"), f.Resolve("img/a.png"))
	assert.Equal(t, "/abs/b.png", f.Resolve("/abs/b.png"))
	assert.Equal(t, "https://x.test/c.png", f.Resolve("https://x.test/c.png"))
}
