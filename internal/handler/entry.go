package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/tracker/internal/flash"
	"github.com/templui/tracker/internal/repository"
	"github.com/templui/tracker/internal/validation"
)

// AddEntry appends to a project's log. Invalid content does not redisplay a
// form; the user lands back on the detail page with an error message.
func (h *ProjectHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")

	_, err := h.projectService.ByID(r.Context(), projectID)
	if errors.Is(err, repository.ErrProjectNotFound) {
		NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to get project", "error", err, "project_id", projectID)
		http.Error(w, "Failed to load project", http.StatusInternalServerError)
		return
	}

	detail := "/projects/" + projectID

	content, errs := validation.ValidateProgressEntry(r.PostFormValue("content"))
	if errs != nil {
		h.redirect(w, r, detail, flash.KindDanger, "Could not add entry. Make sure content is not empty.")
		return
	}

	_, err = h.projectService.AddEntry(r.Context(), projectID, content)
	if errors.Is(err, repository.ErrProjectNotFound) {
		NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to add progress entry", "error", err, "project_id", projectID)
		http.Error(w, "Failed to add progress entry", http.StatusInternalServerError)
		return
	}

	h.redirect(w, r, detail, flash.KindSuccess, "Progress entry added")
}

func (h *ProjectHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	entryID := r.PathValue("id")

	projectID, err := h.projectService.DeleteEntry(r.Context(), entryID)
	if errors.Is(err, repository.ErrEntryNotFound) {
		NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to delete progress entry", "error", err, "entry_id", entryID)
		http.Error(w, "Failed to delete progress entry", http.StatusInternalServerError)
		return
	}

	h.redirect(w, r, "/projects/"+projectID, flash.KindInfo, "Progress entry deleted")
}
