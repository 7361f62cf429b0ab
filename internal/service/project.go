package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/templui/tracker/internal/model"
	"github.com/templui/tracker/internal/repository"
)

type ProjectService struct {
	repo      repository.ProjectRepository
	entryRepo repository.ProgressEntryRepository
	now       func() time.Time
}

func NewProjectService(
	repo repository.ProjectRepository,
	entryRepo repository.ProgressEntryRepository,
) *ProjectService {
	return &ProjectService{
		repo:      repo,
		entryRepo: entryRepo,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *ProjectService) Create(ctx context.Context, in model.ProjectInput) (*model.Project, error) {
	now := s.now()
	project := &model.Project{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.Apply(project)

	if project.Status == "" {
		project.Status = model.ProjectStatusPlanned
	}

	err := s.repo.Create(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

func (s *ProjectService) ByID(ctx context.Context, projectID string) (*model.Project, error) {
	return s.repo.ByID(ctx, projectID)
}

func (s *ProjectService) Projects(ctx context.Context, filter string) ([]*model.ProjectSummary, error) {
	projects, err := s.repo.Projects(ctx, filter)
	if err != nil {
		return nil, err
	}

	counts, err := s.entryRepo.Counts(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]*model.ProjectSummary, 0, len(projects))
	for _, p := range projects {
		summaries = append(summaries, &model.ProjectSummary{Project: p, EntryCount: counts[p.ID]})
	}
	return summaries, nil
}

func (s *ProjectService) ProjectWithEntries(ctx context.Context, projectID string) (*model.Project, []*model.ProgressEntry, error) {
	project, err := s.repo.ByID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	entries, err := s.entryRepo.Entries(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	return project, entries, nil
}

// Update overwrites every mutable field. An empty status stays empty;
// the "Planned" default only applies at creation.
func (s *ProjectService) Update(ctx context.Context, projectID string, in model.ProjectInput) (*model.Project, error) {
	project, err := s.repo.ByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	in.Apply(project)
	project.UpdatedAt = s.now()

	err = s.repo.Update(ctx, project)
	if err != nil {
		return nil, err
	}

	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, projectID string) error {
	return s.repo.Delete(ctx, projectID)
}

func (s *ProjectService) AddEntry(ctx context.Context, projectID, content string) (*model.ProgressEntry, error) {
	_, err := s.repo.ByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	entry := &model.ProgressEntry{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Content:   content,
		CreatedAt: s.now(),
	}

	err = s.entryRepo.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to create progress entry: %w", err)
	}

	return entry, nil
}

// DeleteEntry removes an entry and returns the id of the project that owned it.
func (s *ProjectService) DeleteEntry(ctx context.Context, entryID string) (string, error) {
	entry, err := s.entryRepo.ByID(ctx, entryID)
	if err != nil {
		return "", err
	}

	err = s.entryRepo.Delete(ctx, entryID)
	if err != nil {
		return "", err
	}

	return entry.ProjectID, nil
}

// Export returns every project with its full log, newest first.
func (s *ProjectService) Export(ctx context.Context) ([]*model.ProjectWithEntries, error) {
	projects, err := s.repo.Projects(ctx, "")
	if err != nil {
		return nil, err
	}

	export := make([]*model.ProjectWithEntries, 0, len(projects))
	for _, p := range projects {
		entries, err := s.entryRepo.Entries(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if entries == nil {
			entries = []*model.ProgressEntry{}
		}
		export = append(export, &model.ProjectWithEntries{Project: p, Entries: entries})
	}
	return export, nil
}
