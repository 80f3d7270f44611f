package helpers

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"time"
)

// AtomFeed renders a GitHub-style releases.atom document with one entry per title,
// newest first
func AtomFeed(titles ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<feed xmlns="http://www.w3.org/2005/Atom" xml:lang="en-US">` + "\n")
	b.WriteString("  <title>Release notes</title>\n")

	updated := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range titles {
		fmt.Fprintf(&b, "  <entry>\n    <id>tag:github.com,2008:Repository/1/%d</id>\n", i)
		fmt.Fprintf(&b, "    <updated>%s</updated>\n", updated.Add(-time.Duration(i)*24*time.Hour).Format(time.RFC3339))
		fmt.Fprintf(&b, "    <title>%s</title>\n  </entry>\n", html.EscapeString(title))
	}

	b.WriteString("</feed>\n")
	return b.String()
}

// StableCheckJSON renders a version to status document
func StableCheckJSON(statuses map[string]string) string {
	data, err := json.Marshal(statuses)
	if err != nil {
		panic(err)
	}
	return string(data)
}
