package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/templui/tracker/internal/model"
)

var (
	ErrProjectNotFound = errors.New("project not found")
)

type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	ByID(ctx context.Context, projectID string) (*model.Project, error)
	Projects(ctx context.Context, filter string) ([]*model.Project, error)
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, projectID string) error
}

type projectRepository struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *model.Project) error {
	query := `INSERT INTO projects (id, name, description, start_date, progress, end_date, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		project.ID,
		project.Name,
		project.Description,
		project.StartDate,
		project.Progress,
		project.EndDate,
		project.Status,
		project.CreatedAt,
		project.UpdatedAt,
	)

	return err
}

func (r *projectRepository) ByID(ctx context.Context, projectID string) (*model.Project, error) {
	project := &model.Project{}
	query := `SELECT * FROM projects WHERE id = $1`

	err := r.db.GetContext(ctx, project, query, projectID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}

	return project, nil
}

// Projects lists projects newest first. A non-blank filter keeps projects whose
// name, description, progress or status contains it, ignoring case.
func (r *projectRepository) Projects(ctx context.Context, filter string) ([]*model.Project, error) {
	var projects []*model.Project

	query := `SELECT * FROM projects`
	var args []any

	filter = strings.TrimSpace(filter)
	if filter != "" {
		// Both sides fold through the database's LOWER so the casing rules match
		query += ` WHERE LOWER(name) LIKE LOWER($1) ESCAPE '\'
		              OR LOWER(description) LIKE LOWER($1) ESCAPE '\'
		              OR LOWER(progress) LIKE LOWER($1) ESCAPE '\'
		              OR LOWER(status) LIKE LOWER($1) ESCAPE '\'`
		args = append(args, "%"+escapeLike(filter)+"%")
	}

	query += ` ORDER BY created_at DESC, id DESC`

	err := r.db.SelectContext(ctx, &projects, query, args...)
	if err != nil {
		return nil, err
	}

	return projects, nil
}

func (r *projectRepository) Update(ctx context.Context, project *model.Project) error {
	query := `UPDATE projects
	          SET name = $1, description = $2, start_date = $3, progress = $4, end_date = $5, status = $6, updated_at = $7
	          WHERE id = $8`

	result, err := r.db.ExecContext(ctx, query,
		project.Name,
		project.Description,
		project.StartDate,
		project.Progress,
		project.EndDate,
		project.Status,
		project.UpdatedAt,
		project.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrProjectNotFound
	}

	return nil
}

// Delete removes the project and every progress entry it owns in one
// transaction: entries first, then the project row.
func (r *projectRepository) Delete(ctx context.Context, projectID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `DELETE FROM progress_entries WHERE project_id = $1`, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete progress entries: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrProjectNotFound
	}

	return tx.Commit()
}

// escapeLike makes % and _ in user input match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
