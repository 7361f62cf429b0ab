package routes_test

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/tracker/internal/app"
	"github.com/templui/tracker/internal/config"
	"github.com/templui/tracker/internal/db/dbtest"
	"github.com/templui/tracker/internal/flash"
	"github.com/templui/tracker/internal/repository"
	"github.com/templui/tracker/internal/routes"
	"github.com/templui/tracker/internal/service"
)

type browser struct {
	t      *testing.T
	srv    *httptest.Server
	client *http.Client
}

func newBrowser(t *testing.T) *browser {
	t.Helper()

	database := dbtest.New(t)
	cfg := &config.Config{
		AppName:         "Progress Tracker",
		AppEnv:          "test",
		SecretKey:       "test-secret",
		WriteRateLimit:  1000,
		WriteRateWindow: time.Minute,
	}
	a := &app.App{
		Cfg:   cfg,
		DB:    database,
		Flash: flash.NewStore(cfg.SecretKey, false),
		ProjectService: service.NewProjectService(
			repository.NewProjectRepository(database),
			repository.NewProgressEntryRepository(database),
		),
	}

	srv := httptest.NewServer(routes.SetupRoutes(a))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &browser{
		t:   t,
		srv: srv,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *browser) get(path string) (int, string) {
	b.t.Helper()
	resp, err := b.client.Get(b.srv.URL + path)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp.StatusCode, string(body)
}

// post submits a form with the csrf token from the cookie jar and returns
// the status and redirect target.
func (b *browser) post(path string, form url.Values) (int, string) {
	b.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf_token", b.csrfToken())

	resp, err := b.client.PostForm(b.srv.URL+path, form)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, resp.Header.Get("Location")
}

func (b *browser) csrfToken() string {
	b.t.Helper()
	u, err := url.Parse(b.srv.URL)
	require.NoError(b.t, err)
	for _, c := range b.client.Jar.Cookies(u) {
		if c.Name == "csrf_token" {
			return c.Value
		}
	}
	// First visit issues the cookie
	b.get("/")
	for _, c := range b.client.Jar.Cookies(u) {
		if c.Name == "csrf_token" {
			return c.Value
		}
	}
	b.t.Fatal("no csrf cookie issued")
	return ""
}

var projectLink = regexp.MustCompile(`href="/projects/([0-9a-f-]{36})"`)

func TestProjectLifecycle(t *testing.T) {
	b := newBrowser(t)

	status, location := b.post("/projects/new", url.Values{
		"name":       {"Alpha"},
		"start_date": {"2024-01-01"},
	})
	require.Equal(t, http.StatusSeeOther, status)
	require.Equal(t, "/", location)

	status, body := b.get("/")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Project created")
	assert.Contains(t, body, "Planned")

	m := projectLink.FindStringSubmatch(body)
	require.NotNil(t, m, "project link on list page")
	id := m[1]

	// Flash is shown once
	_, body = b.get("/")
	assert.NotContains(t, body, "Project created")

	status, location = b.post("/projects/"+id+"/entries", url.Values{"content": {"kickoff"}})
	require.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/projects/"+id, location)

	status, body = b.get("/projects/" + id)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "kickoff")
	assert.Contains(t, body, "Progress entry added")

	status, location = b.post("/projects/"+id+"/delete", nil)
	require.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/", location)

	status, _ = b.get("/projects/" + id)
	assert.Equal(t, http.StatusNotFound, status)

	_, body = b.get("/")
	assert.NotContains(t, body, "Alpha")
}

func TestCSRFRequired(t *testing.T) {
	b := newBrowser(t)

	resp, err := b.client.PostForm(b.srv.URL+"/projects/new", url.Values{
		"name":       {"Alpha"},
		"start_date": {"2024-01-01"},
	})
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRoutes(t *testing.T) {
	b := newBrowser(t)

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/", http.StatusOK, "No projects yet"},
		{"/projects/new", http.StatusOK, "New Project"},
		{"/projects/export", http.StatusOK, "[]"},
		{"/healthz", http.StatusOK, "ok"},
		{"/assets/css/app.css", http.StatusOK, ""},
		{"/projects/missing", http.StatusNotFound, "Not found"},
		{"/projects/missing/edit", http.StatusNotFound, "Not found"},
		{"/no/such/page", http.StatusNotFound, "Not found"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, body := b.get(tt.path)
			assert.Equal(t, tt.status, status)
			assert.Contains(t, body, tt.body)
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	b := newBrowser(t)

	resp, err := b.client.Get(b.srv.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.True(t, strings.Contains(resp.Header.Get("Content-Security-Policy"), "nonce-"))
}
