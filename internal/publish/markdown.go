package publish

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"

	"github.com/leapstack-labs/pagecraft/pkg/block"
)

// droppedTags never carry readable content.
var droppedTags = map[string]bool{
	"style":    true,
	"script":   true,
	"svg":      true,
	"video":    true,
	"template": true,
}

// Markdown renders the page as Markdown: the title as a level one heading
// followed by the text of every section. Scoped stylesheets, scripts and
// decorative media are left out.
func (r Renderer) Markdown(ctx context.Context, title string, list []block.Instance) (string, error) {
	var buf bytes.Buffer
	if err := r.Sections(list).Render(ctx, &buf); err != nil {
		return "", err
	}

	nodes, err := html.ParseFragment(&buf, &html.Node{Type: html.ElementNode, Data: "body"})
	if err != nil {
		return "", fmt.Errorf("failed to parse rendered sections: %w", err)
	}

	var clean bytes.Buffer
	for _, n := range nodes {
		strip(n)
		if n.Type == html.ElementNode && droppedTags[n.Data] {
			continue
		}
		if err := html.Render(&clean, n); err != nil {
			return "", err
		}
	}

	md, err := htmltomarkdown.ConvertString(clean.String())
	if err != nil {
		return "", fmt.Errorf("failed to convert page to markdown: %w", err)
	}

	var out strings.Builder
	if title != "" {
		out.WriteString("# " + title + "\n\n")
	}
	out.WriteString(strings.TrimSpace(md))
	out.WriteString("\n")
	return out.String(), nil
}

// strip removes dropped elements below n.
func strip(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && droppedTags[c.Data] {
			n.RemoveChild(c)
		} else {
			strip(c)
		}
		c = next
	}
}
