package model

import (
	"time"
)

const (
	ProjectStatusPlanned    = "Planned"
	ProjectStatusInProgress = "In Progress"
	ProjectStatusOnHold     = "On Hold"
	ProjectStatusCompleted  = "Completed"
)

// DateLayout is the wire and form format for calendar dates.
const DateLayout = "2006-01-02"

type Project struct {
	ID          string     `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Description string     `db:"description" json:"description"`
	StartDate   time.Time  `db:"start_date" json:"start_date"`
	Progress    string     `db:"progress" json:"progress"`
	EndDate     *time.Time `db:"end_date" json:"end_date,omitempty"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// ProjectInput holds the mutable fields of a project after form validation.
type ProjectInput struct {
	Name        string
	Description string
	StartDate   time.Time
	Progress    string
	EndDate     *time.Time
	Status      string
}

// Apply overwrites every mutable field of p with the input.
func (in ProjectInput) Apply(p *Project) {
	p.Name = in.Name
	p.Description = in.Description
	p.StartDate = in.StartDate
	p.Progress = in.Progress
	p.EndDate = in.EndDate
	p.Status = in.Status
}

// ProjectWithEntries is the export shape of a project and its log.
type ProjectWithEntries struct {
	*Project
	Entries []*ProgressEntry `json:"entries"`
}

// ProjectSummary is a list row: the project plus its entry count.
type ProjectSummary struct {
	*Project
	EntryCount int
}
