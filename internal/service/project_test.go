package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/tracker/internal/db/dbtest"
	"github.com/templui/tracker/internal/model"
	"github.com/templui/tracker/internal/repository"
)

func newTestService(t *testing.T) *ProjectService {
	t.Helper()
	database := dbtest.New(t)
	svc := NewProjectService(
		repository.NewProjectRepository(database),
		repository.NewProgressEntryRepository(database),
	)

	// Deterministic, strictly increasing clock
	clock := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc
}

func input(name string) model.ProjectInput {
	return model.ProjectInput{
		Name:      name,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestProjectService_CreateDefaultsStatus(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	p, err := svc.Create(ctx, input("Alpha"))
	require.NoError(t, err)
	assert.Equal(t, model.ProjectStatusPlanned, p.Status)
	assert.NotEmpty(t, p.ID)

	stored, err := svc.ByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProjectStatusPlanned, stored.Status)
}

func TestProjectService_CreateKeepsStatus(t *testing.T) {
	in := input("Beta")
	in.Status = "In Progress"

	p, err := newTestService(t).Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "In Progress", p.Status)
}

func TestProjectService_Update(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	p, err := svc.Create(ctx, input("Alpha"))
	require.NoError(t, err)

	in := input("Alpha renamed")
	in.Progress = "halfway"
	updated, err := svc.Update(ctx, p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Alpha renamed", updated.Name)
	assert.Empty(t, updated.Status)
	assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))
	assert.True(t, updated.CreatedAt.Equal(p.CreatedAt))

	_, err = svc.Update(ctx, "missing", in)
	assert.ErrorIs(t, err, repository.ErrProjectNotFound)
}

func TestProjectService_ProjectsWithCounts(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	alpha, err := svc.Create(ctx, input("Alpha"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, input("Beta"))
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, alpha.ID, "kickoff")
	require.NoError(t, err)

	summaries, err := svc.Projects(ctx, "")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "Beta", summaries[0].Name)
	assert.Equal(t, 0, summaries[0].EntryCount)
	assert.Equal(t, "Alpha", summaries[1].Name)
	assert.Equal(t, 1, summaries[1].EntryCount)
}

func TestProjectService_FilterByDescription(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	withDesc := input("Alpha")
	withDesc.Description = "Rewrite the payroll exporter"
	_, err := svc.Create(ctx, withDesc)
	require.NoError(t, err)
	_, err = svc.Create(ctx, input("Beta"))
	require.NoError(t, err)

	summaries, err := svc.Projects(ctx, "PAYROLL")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Alpha", summaries[0].Name)
}

func TestProjectService_AddEntryUnknownProject(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.AddEntry(ctx, "missing", "lost note")
	assert.ErrorIs(t, err, repository.ErrProjectNotFound)

	exported, err := svc.Export(ctx)
	require.NoError(t, err)
	assert.Empty(t, exported)
}

func TestProjectService_DeleteCascadesEntries(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	p, err := svc.Create(ctx, input("Alpha"))
	require.NoError(t, err)
	for _, note := range []string{"one", "two", "three"} {
		_, err := svc.AddEntry(ctx, p.ID, note)
		require.NoError(t, err)
	}

	require.NoError(t, svc.Delete(ctx, p.ID))

	entries, err := svc.entryRepo.Entries(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.ErrorIs(t, svc.Delete(ctx, p.ID), repository.ErrProjectNotFound)
}

func TestProjectService_EntryLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	p, err := svc.Create(ctx, input("Alpha"))
	require.NoError(t, err)

	first, err := svc.AddEntry(ctx, p.ID, "kickoff")
	require.NoError(t, err)
	second, err := svc.AddEntry(ctx, p.ID, "first milestone")
	require.NoError(t, err)

	_, entries, err := svc.ProjectWithEntries(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, first.ID, entries[1].ID)

	owner, err := svc.DeleteEntry(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, owner)

	_, err = svc.DeleteEntry(ctx, first.ID)
	assert.ErrorIs(t, err, repository.ErrEntryNotFound)
}

func TestProjectService_Export(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	alpha, err := svc.Create(ctx, input("Alpha"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, input("Beta"))
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, alpha.ID, "kickoff")
	require.NoError(t, err)

	exported, err := svc.Export(ctx)
	require.NoError(t, err)
	require.Len(t, exported, 2)
	assert.Equal(t, "Beta", exported[0].Name)
	assert.NotNil(t, exported[0].Entries)
	assert.Empty(t, exported[0].Entries)
	require.Len(t, exported[1].Entries, 1)
	assert.Equal(t, "kickoff", exported[1].Entries[0].Content)
}
