package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/tracker/internal/model"
)

var (
	ErrEntryNotFound = errors.New("progress entry not found")
)

type ProgressEntryRepository interface {
	Create(ctx context.Context, entry *model.ProgressEntry) error
	ByID(ctx context.Context, entryID string) (*model.ProgressEntry, error)
	Entries(ctx context.Context, projectID string) ([]*model.ProgressEntry, error)
	Counts(ctx context.Context) (map[string]int, error)
	Delete(ctx context.Context, entryID string) error
}

type progressEntryRepository struct {
	db *sqlx.DB
}

func NewProgressEntryRepository(db *sqlx.DB) ProgressEntryRepository {
	return &progressEntryRepository{db: db}
}

func (r *progressEntryRepository) Create(ctx context.Context, entry *model.ProgressEntry) error {
	query := `INSERT INTO progress_entries (id, project_id, content, created_at)
	          VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.ProjectID,
		entry.Content,
		entry.CreatedAt,
	)

	return err
}

func (r *progressEntryRepository) ByID(ctx context.Context, entryID string) (*model.ProgressEntry, error) {
	entry := &model.ProgressEntry{}
	query := `SELECT * FROM progress_entries WHERE id = $1`

	err := r.db.GetContext(ctx, entry, query, entryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// Entries returns a project's log, most recent first.
func (r *progressEntryRepository) Entries(ctx context.Context, projectID string) ([]*model.ProgressEntry, error) {
	var entries []*model.ProgressEntry
	query := `SELECT * FROM progress_entries WHERE project_id = $1 ORDER BY created_at DESC, id DESC`

	err := r.db.SelectContext(ctx, &entries, query, projectID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Counts returns the number of entries per project id. Projects without
// entries are absent from the map.
func (r *progressEntryRepository) Counts(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		ProjectID string `db:"project_id"`
		Count     int    `db:"count"`
	}
	query := `SELECT project_id, COUNT(*) AS count FROM progress_entries GROUP BY project_id`

	err := r.db.SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.ProjectID] = row.Count
	}
	return counts, nil
}

func (r *progressEntryRepository) Delete(ctx context.Context, entryID string) error {
	query := `DELETE FROM progress_entries WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, entryID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrEntryNotFound
	}

	return nil
}
