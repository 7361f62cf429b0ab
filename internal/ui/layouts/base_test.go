package layouts

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/tracker/internal/config"
	"github.com/templui/tracker/internal/ctxkeys"
	"github.com/templui/tracker/internal/flash"
)

func renderBase(t *testing.T, ctx context.Context) string {
	t.Helper()
	body := templ.Raw("<p>body</p>")
	var buf bytes.Buffer
	require.NoError(t, Base("Projects").Render(templ.WithChildren(ctx, body), &buf))
	return buf.String()
}

func TestBase(t *testing.T) {
	ctx := templ.WithNonce(context.Background(), "n0nce")
	ctx = ctxkeys.WithURLPath(ctx, "/")

	html := renderBase(t, ctx)

	assert.Contains(t, html, "<title>Projects · Progress Tracker</title>")
	assert.Contains(t, html, `<a href="/" class="active">Projects</a>`)
	assert.Contains(t, html, `<a href="/projects/new">New project</a>`)
	assert.Contains(t, html, `<script nonce="n0nce">`)
	assert.Contains(t, html, "<main><p>body</p></main>")
}

func TestBase_Flash(t *testing.T) {
	ctx := ctxkeys.WithFlash(context.Background(), &flash.Message{Kind: flash.KindDanger, Text: "Project <deleted>"})

	html := renderBase(t, ctx)

	assert.Contains(t, html, `<div class="flash flash-danger" role="status">Project &lt;deleted&gt;</div>`)
}

func TestBase_AppNameFromConfig(t *testing.T) {
	ctx := ctxkeys.WithConfig(context.Background(), &config.Config{AppName: "Roadmap"})

	html := renderBase(t, ctx)

	assert.Contains(t, html, "<title>Projects · Roadmap</title>")
	assert.Contains(t, html, `<a class="brand" href="/">Roadmap</a>`)
}
