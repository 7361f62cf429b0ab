package routes

import (
	"io/fs"
	"net/http"

	"github.com/templui/tracker/assets"
	"github.com/templui/tracker/internal/app"
	"github.com/templui/tracker/internal/handler"
	"github.com/templui/tracker/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	project := handler.NewProjectHandler(app.ProjectService, app.Flash)
	health := handler.NewHealthHandler(app.DB)

	mux := http.NewServeMux()

	// Static files
	sub, _ := fs.Sub(assets.AssetsFS, ".")
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(sub))))

	// Health
	mux.HandleFunc("GET /healthz", health.Health)

	// Projects
	mux.HandleFunc("GET /{$}", project.ProjectsPage)
	mux.HandleFunc("GET /projects/new", project.NewPage)
	mux.HandleFunc("GET /projects/export", project.Export)
	mux.HandleFunc("GET /projects/{id}", project.ProjectDetailPage)
	mux.HandleFunc("GET /projects/{id}/edit", project.EditPage)
	mux.HandleFunc("GET /projects/{id}/delete", project.DeletePage)
	mux.HandleFunc("POST /projects/new", project.Create)
	mux.HandleFunc("POST /projects/{id}/edit", project.Update)
	mux.HandleFunc("POST /projects/{id}/delete", project.Delete)

	// Progress entries
	mux.HandleFunc("POST /projects/{id}/entries", project.AddEntry)
	mux.HandleFunc("POST /entries/{id}/delete", project.DeleteEntry)

	// 404
	mux.HandleFunc("/{path...}", handler.NotFound)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg),  // Config first so every later layer sees it
		middleware.NonceMiddleware,  // CSP nonce, must be before SecurityHeaders
		middleware.SecurityHeaders,
		middleware.ClientIP(app.Cfg.TrustProxy),
		middleware.RequestLogging,
		middleware.RateLimitWrites(app.Cfg.WriteRateLimit, app.Cfg.WriteRateWindow), // nil when disabled
		middleware.CSRFProtection(app.Cfg.SecureCookies()),
		middleware.Flash(app.Flash),
		middleware.WithURLPath,
	)

	return handler
}
