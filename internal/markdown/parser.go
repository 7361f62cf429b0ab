package markdown

import (
	"bytes"
	"html"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

// Parser renders user-written notes. Raw HTML in the source is never passed
// through (goldmark's default), so the output is safe to embed in pages.
type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
			goldmarkhtml.WithXHTML(),
		),
	)

	return &Parser{
		md: md,
	}
}

func (p *Parser) Parse(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	err := p.md.Convert(source, &buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// HTML renders s to an HTML fragment. On failure the text is returned escaped.
func (p *Parser) HTML(s string) string {
	out, err := p.Parse([]byte(s))
	if err != nil {
		slog.Error("markdown render failed", "error", err)
		return html.EscapeString(s)
	}
	return string(out)
}
