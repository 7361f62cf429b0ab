package pages

import (
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/templui/tracker/internal/markdown"
	"github.com/templui/tracker/internal/model"
)

var md = markdown.NewParser()

// projectURL joins path segments under /projects/{id}.
func projectURL(id string, segments ...string) templ.SafeURL {
	return templ.URL(strings.Join(append([]string{"/projects", id}, segments...), "/"))
}

func entryDeleteURL(id string) templ.SafeURL {
	return templ.URL("/entries/" + id + "/delete")
}

func formatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return formatDate(*t)
}

func formatDateTime(t time.Time) string {
	return t.UTC().Format("Jan 2, 2006 15:04 UTC")
}

var statusOptions = []string{
	model.ProjectStatusPlanned,
	model.ProjectStatusInProgress,
	model.ProjectStatusOnHold,
	model.ProjectStatusCompleted,
}
