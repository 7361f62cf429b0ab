package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/tracker/internal/db/dbtest"
	"github.com/templui/tracker/internal/model"
)

func newProject(name string, createdAt time.Time) *model.Project {
	return &model.Project{
		ID:        uuid.New().String(),
		Name:      name,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:    model.ProjectStatusPlanned,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func newEntry(projectID, content string, createdAt time.Time) *model.ProgressEntry {
	return &model.ProgressEntry{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Content:   content,
		CreatedAt: createdAt,
	}
}

func TestProjectRepository_CreateAndByID(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepository(dbtest.New(t))

	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	p := newProject("Alpha", time.Now().UTC())
	p.Description = "first"
	p.EndDate = &end
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.ByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got.Name)
	assert.Equal(t, "first", got.Description)
	assert.True(t, got.StartDate.Equal(p.StartDate))
	require.NotNil(t, got.EndDate)
	assert.True(t, got.EndDate.Equal(end))
	assert.Equal(t, model.ProjectStatusPlanned, got.Status)
}

func TestProjectRepository_ByIDNotFound(t *testing.T) {
	repo := NewProjectRepository(dbtest.New(t))

	_, err := repo.ByID(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestProjectRepository_ProjectsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepository(dbtest.New(t))

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Create(ctx, newProject(name, base.Add(time.Duration(i)*time.Minute))))
	}

	projects, err := repo.Projects(ctx, "")
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, "third", projects[0].Name)
	assert.Equal(t, "second", projects[1].Name)
	assert.Equal(t, "first", projects[2].Name)
}

func TestProjectRepository_ProjectsFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepository(dbtest.New(t))
	now := time.Now().UTC()

	alpha := newProject("Alpha", now)
	alpha.Description = "Migrate the Billing service"
	beta := newProject("Beta", now.Add(time.Second))
	beta.Progress = "waiting on vendor"
	gamma := newProject("Gamma", now.Add(2*time.Second))
	gamma.Status = "Blocked"
	odd := newProject("100% done_ish", now.Add(3*time.Second))
	for _, p := range []*model.Project{alpha, beta, gamma, odd} {
		require.NoError(t, repo.Create(ctx, p))
	}

	tests := []struct {
		filter string
		want   []string
	}{
		{"billing", []string{"Alpha"}},
		{"  VENDOR ", []string{"Beta"}},
		{"blocked", []string{"Gamma"}},
		{"gam", []string{"Gamma"}},
		{"%", []string{"100% done_ish"}},
		{"_", []string{"100% done_ish"}},
		{"nothing matches", nil},
		{"   ", []string{"100% done_ish", "Gamma", "Beta", "Alpha"}},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			projects, err := repo.Projects(ctx, tt.filter)
			require.NoError(t, err)

			var names []string
			for _, p := range projects {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestProjectRepository_ProjectsFilterNonASCII(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepository(dbtest.New(t))

	now := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, newProject("Émile Über", now)))
	require.NoError(t, repo.Create(ctx, newProject("Plain", now.Add(time.Second))))

	for _, filter := range []string{"Émile", "Über", "mile", "ÉMILE"} {
		t.Run(filter, func(t *testing.T) {
			projects, err := repo.Projects(ctx, filter)
			require.NoError(t, err)
			require.Len(t, projects, 1)
			assert.Equal(t, "Émile Über", projects[0].Name)
		})
	}
}

func TestProjectRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepository(dbtest.New(t))

	p := newProject("Alpha", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, p))

	p.Name = "Alpha v2"
	p.Status = ""
	p.Progress = "halfway"
	p.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.ByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha v2", got.Name)
	assert.Equal(t, "halfway", got.Progress)
	assert.Empty(t, got.Status)

	missing := newProject("ghost", time.Now().UTC())
	assert.ErrorIs(t, repo.Update(ctx, missing), ErrProjectNotFound)
}

func TestProjectRepository_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	repo := NewProjectRepository(database)
	entries := NewProgressEntryRepository(database)

	now := time.Now().UTC()
	doomed := newProject("doomed", now)
	kept := newProject("kept", now.Add(time.Second))
	require.NoError(t, repo.Create(ctx, doomed))
	require.NoError(t, repo.Create(ctx, kept))

	for i := 0; i < 3; i++ {
		require.NoError(t, entries.Create(ctx, newEntry(doomed.ID, "note", now.Add(time.Duration(i)*time.Second))))
	}
	require.NoError(t, entries.Create(ctx, newEntry(kept.ID, "survivor", now)))

	require.NoError(t, repo.Delete(ctx, doomed.ID))

	var orphans int
	require.NoError(t, database.Get(&orphans, `SELECT COUNT(*) FROM progress_entries WHERE project_id = $1`, doomed.ID))
	assert.Zero(t, orphans)

	left, err := entries.Entries(ctx, kept.ID)
	require.NoError(t, err)
	assert.Len(t, left, 1)

	// Second delete of the same project
	assert.ErrorIs(t, repo.Delete(ctx, doomed.ID), ErrProjectNotFound)
}

func TestProjectRepository_DeleteTransaction(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewProjectRepository(sqlx.NewDb(mockDB, "sqlmock"))

	t.Run("children before parent in one transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM progress_entries").WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec("DELETE FROM projects").WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.Delete(context.Background(), "p1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing project rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM progress_entries").WithArgs("p2").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM projects").WithArgs("p2").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Delete(context.Background(), "p2"), ErrProjectNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("entry delete failure rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM progress_entries").WithArgs("p3").WillReturnError(assert.AnError)
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Delete(context.Background(), "p3"), assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now \\ ok`, escapeLike(`50% off_now \ ok`))
}
