package validation

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/templui/tracker/internal/model"
)

const (
	MaxProjectNameLength   = 120
	MaxProjectStatusLength = 50
)

// ProjectForm is the raw, unvalidated project submission.
type ProjectForm struct {
	Name        string
	Description string
	StartDate   string
	Progress    string
	EndDate     string
	Status      string
}

// ProjectFormFrom fills a form from an existing project for editing.
func ProjectFormFrom(p *model.Project) ProjectForm {
	form := ProjectForm{
		Name:        p.Name,
		Description: p.Description,
		StartDate:   p.StartDate.Format(model.DateLayout),
		Progress:    p.Progress,
		Status:      p.Status,
	}
	if p.EndDate != nil {
		form.EndDate = p.EndDate.Format(model.DateLayout)
	}
	return form
}

// ValidateProject checks every field and returns either the typed input or
// the per-field errors. A single failing field rejects the whole form.
func ValidateProject(form ProjectForm) (*model.ProjectInput, FieldErrors) {
	errs := FieldErrors{}

	name := strings.TrimSpace(form.Name)
	if name == "" {
		errs.Add("name", "Name is required")
	} else if utf8.RuneCountInString(name) > MaxProjectNameLength {
		errs.Add("name", "Name is too long (max 120 characters)")
	}

	var startDate time.Time
	raw := strings.TrimSpace(form.StartDate)
	if raw == "" {
		errs.Add("start_date", "Start date is required")
	} else {
		parsed, err := parseDate(raw)
		if err != nil {
			errs.Add("start_date", "Start date must be a valid date (YYYY-MM-DD)")
		} else {
			startDate = parsed
		}
	}

	var endDate *time.Time
	if raw := strings.TrimSpace(form.EndDate); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			errs.Add("end_date", "End date must be a valid date (YYYY-MM-DD)")
		} else {
			endDate = &parsed
		}
	}

	status := strings.TrimSpace(form.Status)
	if utf8.RuneCountInString(status) > MaxProjectStatusLength {
		errs.Add("status", "Status is too long (max 50 characters)")
	}

	if errs.Any() {
		return nil, errs
	}

	return &model.ProjectInput{
		Name:        name,
		Description: form.Description,
		StartDate:   startDate,
		Progress:    form.Progress,
		EndDate:     endDate,
		Status:      status,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(model.DateLayout, s, time.UTC)
}
