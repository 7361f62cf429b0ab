package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/tracker/internal/config"
	"github.com/templui/tracker/internal/db"
	"github.com/templui/tracker/internal/flash"
	"github.com/templui/tracker/internal/repository"
	"github.com/templui/tracker/internal/service"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	Flash          *flash.Store
	ProjectService *service.ProjectService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Schema is created on startup; safe to repeat
	err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Repositories
	projectRepository := repository.NewProjectRepository(database)
	progressEntryRepository := repository.NewProgressEntryRepository(database)

	// Services
	projectService := service.NewProjectService(projectRepository, progressEntryRepository)

	return &App{
		Cfg:            cfg,
		DB:             database,
		Flash:          flash.NewStore(cfg.SecretKey, cfg.SecureCookies()),
		ProjectService: projectService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
