package handler

import (
	"net/http"

	"github.com/templui/tracker/internal/ui"
	"github.com/templui/tracker/internal/ui/pages"
)

// NotFound renders the 404 page. Also used when a referenced record is missing.
func NotFound(w http.ResponseWriter, r *http.Request) {
	ui.RenderStatus(w, r, http.StatusNotFound, pages.NotFound())
}
