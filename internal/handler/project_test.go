package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/tracker/internal/db/dbtest"
	"github.com/templui/tracker/internal/flash"
	"github.com/templui/tracker/internal/handler"
	"github.com/templui/tracker/internal/model"
	"github.com/templui/tracker/internal/repository"
	"github.com/templui/tracker/internal/service"
)

type fixture struct {
	handler *handler.ProjectHandler
	service *service.ProjectService
	flash   *flash.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := dbtest.New(t)
	svc := service.NewProjectService(
		repository.NewProjectRepository(database),
		repository.NewProgressEntryRepository(database),
	)
	store := flash.NewStore("test-secret", false)
	return &fixture{
		handler: handler.NewProjectHandler(svc, store),
		service: svc,
		flash:   store,
	}
}

func (f *fixture) createProject(t *testing.T, name string) *model.Project {
	t.Helper()
	in, err := validProjectInput(name)
	require.NoError(t, err)
	p, err := f.service.Create(context.Background(), in)
	require.NoError(t, err)
	return p
}

// flashOf reads the message a response left in its flash cookie.
func (f *fixture) flashOf(t *testing.T, rec *httptest.ResponseRecorder) *flash.Message {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return f.flash.Pop(httptest.NewRecorder(), req)
}

func validProjectInput(name string) (model.ProjectInput, error) {
	start, err := time.Parse(model.DateLayout, "2024-01-01")
	return model.ProjectInput{Name: name, StartDate: start}, err
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func withID(req *http.Request, id string) *http.Request {
	req.SetPathValue("id", id)
	return req
}

func TestProjectsPage(t *testing.T) {
	f := newFixture(t)
	f.createProject(t, "Alpha")
	f.createProject(t, "Beta")

	t.Run("lists all", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.handler.ProjectsPage(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Alpha")
		assert.Contains(t, rec.Body.String(), "Beta")
	})

	t.Run("filters by q", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.handler.ProjectsPage(rec, httptest.NewRequest(http.MethodGet, "/?q=alp", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Alpha")
		assert.NotContains(t, rec.Body.String(), "Beta")
	})
}

func TestCreate(t *testing.T) {
	t.Run("valid redirects home", func(t *testing.T) {
		f := newFixture(t)
		rec := httptest.NewRecorder()

		f.handler.Create(rec, postForm("/projects/new", url.Values{
			"name":       {"  Alpha  "},
			"start_date": {"2024-01-01"},
		}))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
		msg := f.flashOf(t, rec)
		require.NotNil(t, msg)
		assert.Equal(t, flash.KindSuccess, msg.Kind)

		projects, err := f.service.Projects(context.Background(), "")
		require.NoError(t, err)
		require.Len(t, projects, 1)
		assert.Equal(t, "Alpha", projects[0].Name)
		assert.Equal(t, model.ProjectStatusPlanned, projects[0].Status)
	})

	t.Run("invalid re-renders with errors", func(t *testing.T) {
		f := newFixture(t)
		rec := httptest.NewRecorder()

		f.handler.Create(rec, postForm("/projects/new", url.Values{
			"name":        {"   "},
			"description": {"kept"},
			"start_date":  {"2024-01-01"},
		}))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "Name is required")
		assert.Contains(t, rec.Body.String(), "kept")

		projects, err := f.service.Projects(context.Background(), "")
		require.NoError(t, err)
		assert.Empty(t, projects)
	})
}

func TestProjectDetailPage(t *testing.T) {
	f := newFixture(t)
	p := f.createProject(t, "Alpha")
	_, err := f.service.AddEntry(context.Background(), p.ID, "kickoff **done**")
	require.NoError(t, err)

	t.Run("shows project and entries", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.handler.ProjectDetailPage(rec, withID(httptest.NewRequest(http.MethodGet, "/projects/"+p.ID, nil), p.ID))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Alpha")
		assert.Contains(t, rec.Body.String(), "kickoff <strong>done</strong>")
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.handler.ProjectDetailPage(rec, withID(httptest.NewRequest(http.MethodGet, "/projects/nope", nil), "nope"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestEditPage(t *testing.T) {
	f := newFixture(t)
	p := f.createProject(t, "Alpha")

	rec := httptest.NewRecorder()
	f.handler.EditPage(rec, withID(httptest.NewRequest(http.MethodGet, "/", nil), p.ID))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="2024-01-01"`)

	rec = httptest.NewRecorder()
	f.handler.EditPage(rec, withID(httptest.NewRequest(http.MethodGet, "/", nil), "nope"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdate(t *testing.T) {
	t.Run("valid redirects to detail", func(t *testing.T) {
		f := newFixture(t)
		p := f.createProject(t, "Alpha")
		rec := httptest.NewRecorder()

		f.handler.Update(rec, withID(postForm("/projects/"+p.ID+"/edit", url.Values{
			"name":       {"Alpha v2"},
			"start_date": {"2024-01-01"},
			"end_date":   {"2024-06-30"},
			"status":     {"Completed"},
		}), p.ID))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/projects/"+p.ID, rec.Header().Get("Location"))

		got, err := f.service.ByID(context.Background(), p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alpha v2", got.Name)
		assert.Equal(t, "Completed", got.Status)
		require.NotNil(t, got.EndDate)
	})

	t.Run("invalid keeps stored values", func(t *testing.T) {
		f := newFixture(t)
		p := f.createProject(t, "Alpha")
		rec := httptest.NewRecorder()

		f.handler.Update(rec, withID(postForm("/", url.Values{
			"name":       {"Alpha renamed"},
			"start_date": {"2024-05-01"},
			"end_date":   {"someday"},
		}), p.ID))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "End date must be a valid date (YYYY-MM-DD)")

		got, err := f.service.ByID(context.Background(), p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alpha", got.Name)
		assert.Nil(t, got.EndDate)
	})

	t.Run("end date before start date is stored", func(t *testing.T) {
		f := newFixture(t)
		p := f.createProject(t, "Alpha")
		rec := httptest.NewRecorder()

		f.handler.Update(rec, withID(postForm("/", url.Values{
			"name":       {"Alpha"},
			"start_date": {"2024-05-01"},
			"end_date":   {"2024-04-01"},
		}), p.ID))

		assert.Equal(t, http.StatusSeeOther, rec.Code)

		got, err := f.service.ByID(context.Background(), p.ID)
		require.NoError(t, err)
		require.NotNil(t, got.EndDate)
		assert.Equal(t, "2024-04-01", got.EndDate.Format(model.DateLayout))
	})

	t.Run("unknown id is 404 even when invalid", func(t *testing.T) {
		f := newFixture(t)
		rec := httptest.NewRecorder()

		f.handler.Update(rec, withID(postForm("/", url.Values{}), "nope"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	p := f.createProject(t, "Alpha")
	_, err := f.service.AddEntry(context.Background(), p.ID, "kickoff")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	f.handler.DeletePage(rec, withID(httptest.NewRequest(http.MethodGet, "/", nil), p.ID))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Alpha")

	rec = httptest.NewRecorder()
	f.handler.Delete(rec, withID(postForm("/", url.Values{}), p.ID))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	_, err = f.service.ByID(context.Background(), p.ID)
	assert.ErrorIs(t, err, repository.ErrProjectNotFound)

	rec = httptest.NewRecorder()
	f.handler.Delete(rec, withID(postForm("/", url.Values{}), p.ID))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	f.handler.DeletePage(rec, withID(httptest.NewRequest(http.MethodGet, "/", nil), p.ID))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	p := f.createProject(t, "Alpha")
	f.createProject(t, "Beta")
	_, err := f.service.AddEntry(context.Background(), p.ID, "kickoff")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	f.handler.Export(rec, httptest.NewRequest(http.MethodGet, "/projects/export", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []struct {
		Name    string `json:"name"`
		Entries []struct {
			Content string `json:"content"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)

	byName := map[string]int{}
	for _, p := range got {
		byName[p.Name] = len(p.Entries)
	}
	assert.Equal(t, map[string]int{"Alpha": 1, "Beta": 0}, byName)
}
