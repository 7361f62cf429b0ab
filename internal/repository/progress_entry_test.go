package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/tracker/internal/db/dbtest"
)

func TestProgressEntryRepository_EntriesNewestFirst(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	projects := NewProjectRepository(database)
	repo := NewProgressEntryRepository(database)

	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	p := newProject("Alpha", base)
	require.NoError(t, projects.Create(ctx, p))

	require.NoError(t, repo.Create(ctx, newEntry(p.ID, "kickoff", base)))
	require.NoError(t, repo.Create(ctx, newEntry(p.ID, "design review", base.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, newEntry(p.ID, "shipped", base.Add(2*time.Hour))))

	entries, err := repo.Entries(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "shipped", entries[0].Content)
	assert.Equal(t, "design review", entries[1].Content)
	assert.Equal(t, "kickoff", entries[2].Content)
	assert.True(t, entries[2].CreatedAt.Equal(base))
}

func TestProgressEntryRepository_ForeignKey(t *testing.T) {
	repo := NewProgressEntryRepository(dbtest.New(t))

	err := repo.Create(context.Background(), newEntry("no-such-project", "orphan", time.Now().UTC()))

	assert.Error(t, err)
}

func TestProgressEntryRepository_ByIDAndDelete(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	projects := NewProjectRepository(database)
	repo := NewProgressEntryRepository(database)

	p := newProject("Alpha", time.Now().UTC())
	require.NoError(t, projects.Create(ctx, p))
	e := newEntry(p.ID, "kickoff", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, e))

	got, err := repo.ByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ProjectID)

	require.NoError(t, repo.Delete(ctx, e.ID))

	_, err = repo.ByID(ctx, e.ID)
	assert.ErrorIs(t, err, ErrEntryNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, e.ID), ErrEntryNotFound)
}

func TestProgressEntryRepository_Counts(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	projects := NewProjectRepository(database)
	repo := NewProgressEntryRepository(database)

	now := time.Now().UTC()
	busy := newProject("busy", now)
	quiet := newProject("quiet", now)
	require.NoError(t, projects.Create(ctx, busy))
	require.NoError(t, projects.Create(ctx, quiet))
	require.NoError(t, repo.Create(ctx, newEntry(busy.ID, "one", now)))
	require.NoError(t, repo.Create(ctx, newEntry(busy.ID, "two", now)))

	counts, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[busy.ID])
	assert.Zero(t, counts[quiet.ID])
}
