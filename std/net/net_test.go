package net

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.UserAgent())
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/css")
		_, _ = w.Write([]byte("body { color: red }"))
	}))
	defer srv.Close()

	body, ct, err := Fetch(context.Background(), srv.URL+"/site.css")
	require.NoError(t, err)
	assert.Equal(t, "text/css", ct)
	assert.Equal(t, "body { color: red }", string(body))

	_, _, err = Fetch(context.Background(), srv.URL+"/missing")
	assert.ErrorContains(t, err, "HTTP 404")
}

func TestResolveURL(t *testing.T) {
	assert.Equal(t, "https://example.com/css/site.css", ResolveURL("https://example.com/index.html", "css/site.css"))
	assert.Equal(t, "https://cdn.example.com/a.png", ResolveURL("https://example.com/", "https://cdn.example.com/a.png"))
	assert.True(t, IsNetworkURL("http://x"))
	assert.False(t, IsNetworkURL("file.html"))
}
