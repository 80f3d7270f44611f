package extractors_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stacklok/release-version-api/internal/httpclient"
)

// atomFeed renders a minimal releases feed with one entry per title
func atomFeed(titles ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<feed xmlns="http://www.w3.org/2005/Atom" xml:lang="en-US">` + "\n")
	b.WriteString("  <id>tag:github.com,2008:releases</id>\n")
	b.WriteString("  <title>Release notes</title>\n")
	b.WriteString("  <updated>2024-05-01T10:00:00Z</updated>\n")
	for i, title := range titles {
		fmt.Fprintf(&b, "  <entry>\n    <id>tag:github.com,2008:Repository/1/%d</id>\n", i)
		b.WriteString("    <updated>2024-05-01T10:00:00Z</updated>\n")
		fmt.Fprintf(&b, "    <title>%s</title>\n  </entry>\n", title)
	}
	b.WriteString("</feed>\n")
	return b.String()
}

// newFixtureServer serves fixed bodies keyed by request path; unknown paths return 404
func newFixtureServer(t *testing.T, bodies map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	server.Config.SetKeepAlivesEnabled(false)
	t.Cleanup(server.Close)
	return server
}

func newTestClient() httpclient.Client {
	return httpclient.NewDefaultClient(5 * time.Second)
}
