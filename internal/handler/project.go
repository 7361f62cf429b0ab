package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/tracker/internal/flash"
	"github.com/templui/tracker/internal/repository"
	"github.com/templui/tracker/internal/service"
	"github.com/templui/tracker/internal/ui"
	"github.com/templui/tracker/internal/ui/pages"
	"github.com/templui/tracker/internal/validation"
)

type ProjectHandler struct {
	projectService *service.ProjectService
	flash          *flash.Store
}

func NewProjectHandler(projectService *service.ProjectService, flashStore *flash.Store) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		flash:          flashStore,
	}
}

func (h *ProjectHandler) ProjectsPage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	projects, err := h.projectService.Projects(r.Context(), query)
	if err != nil {
		slog.Error("failed to list projects", "error", err, "query", query)
		http.Error(w, "Failed to load projects", http.StatusInternalServerError)
		return
	}

	ui.Render(w, r, pages.Projects(projects, query))
}

func (h *ProjectHandler) NewPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.ProjectForm("New Project", "/projects/new", "/", validation.ProjectForm{}, nil))
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	form := projectForm(r)

	in, errs := validation.ValidateProject(form)
	if errs != nil {
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, pages.ProjectForm("New Project", "/projects/new", "/", form, errs))
		return
	}

	project, err := h.projectService.Create(r.Context(), *in)
	if err != nil {
		slog.Error("failed to create project", "error", err)
		http.Error(w, "Failed to create project", http.StatusInternalServerError)
		return
	}

	slog.Info("project created", "project_id", project.ID)
	h.redirect(w, r, "/", flash.KindSuccess, "Project created")
}

func (h *ProjectHandler) ProjectDetailPage(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")

	project, entries, err := h.projectService.ProjectWithEntries(r.Context(), projectID)
	if errors.Is(err, repository.ErrProjectNotFound) {
		NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to get project", "error", err, "project_id", projectID)
		http.Error(w, "Failed to load project", http.StatusInternalServerError)
		return
	}

	ui.Render(w, r, pages.ProjectDetail(project, entries))
}

func (h *ProjectHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")

	project, err := h.projectService.ByID(r.Context(), projectID)
	if errors.Is(err, repository.ErrProjectNotFound) {
		NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to get project", "error", err, "project_id", projectID)
		http.Error(w, "Failed to load project", http.StatusInternalServerError)
		return
	}

	ui.Render(w, r, pages.ProjectForm("Edit Project", "/projects/"+project.ID+"/edit", "/projects/"+project.ID, validation.ProjectFormFrom(project), nil))
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")

	// Unknown ids are a 404 even when the submission is invalid
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

	form := projectForm(r)
	in, errs := validation.ValidateProject(form)
	if errs != nil {
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, pages.ProjectForm("Edit Project", "/projects/"+projectID+"/edit", "/projects/"+projectID, form, errs))
		return
	}

	_, err = h.projectService.Update(r.Context(), projectID, *in)
	if errors.Is(err, repository.ErrProjectNotFound) {
		NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to update project", "error", err, "project_id", projectID)
		http.Error(w, "Failed to update project", http.StatusInternalServerError)
		return
	}

	h.redirect(w, r, "/projects/"+projectID, flash.KindSuccess, "Project updated")
}

func (h *ProjectHandler) DeletePage(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")

	project, err := h.projectService.ByID(r.Context(), projectID)
	if errors.Is(err, repository.ErrProjectNotFound) {
		NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to get project", "error", err, "project_id", projectID)
		http.Error(w, "Failed to load project", http.StatusInternalServerError)
		return
	}

	ui.Render(w, r, pages.ProjectDelete(project))
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")

	err := h.projectService.Delete(r.Context(), projectID)
	if errors.Is(err, repository.ErrProjectNotFound) {
		NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to delete project", "error", err, "project_id", projectID)
		http.Error(w, "Failed to delete project", http.StatusInternalServerError)
		return
	}

	slog.Info("project deleted", "project_id", projectID)
	h.redirect(w, r, "/", flash.KindInfo, "Project deleted")
}

func (h *ProjectHandler) Export(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.Export(r.Context())
	if err != nil {
		slog.Error("failed to list projects for export", "error", err)
		http.Error(w, "Failed to export projects", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=projects-export.json")

	err = json.NewEncoder(w).Encode(projects)
	if err != nil {
		slog.Error("failed to encode projects", "error", err)
	}
}

// redirect sends a 303 to target carrying a one-shot status message.
func (h *ProjectHandler) redirect(w http.ResponseWriter, r *http.Request, target, kind, text string) {
	err := h.flash.Set(w, kind, text)
	if err != nil {
		slog.Error("failed to set flash message", "error", err)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func projectForm(r *http.Request) validation.ProjectForm {
	return validation.ProjectForm{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
		StartDate:   r.PostFormValue("start_date"),
		Progress:    r.PostFormValue("progress"),
		EndDate:     r.PostFormValue("end_date"),
		Status:      r.PostFormValue("status"),
	}
}
