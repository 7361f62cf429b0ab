package pages

import (
	"strings"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/templui/tracker/internal/model"
	"github.com/templui/tracker/internal/validation"
	"golang.org/x/text/cases"
)

const (
	badgeBase  = "inline-block rounded px-2 py-0.5 text-xs font-medium bg-gray-100 text-gray-700"
	inputBase  = "block w-full rounded border border-gray-300 px-3 py-2"
	inputError = "border-red-500"
)

var statusVariants = map[string]string{
	foldStatus(model.ProjectStatusPlanned):    "bg-blue-100 text-blue-800",
	foldStatus(model.ProjectStatusInProgress): "bg-yellow-100 text-yellow-800",
	foldStatus(model.ProjectStatusOnHold):     "bg-orange-100 text-orange-800",
	foldStatus(model.ProjectStatusCompleted):  "bg-green-100 text-green-800",
}

// foldStatus builds a fresh Caser per call; Casers are not safe to share
// between goroutines.
func foldStatus(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// statusClass picks badge colors for the well-known statuses, matching
// case-insensitively. Free-text statuses keep the neutral badge.
func statusClass(status string) string {
	variant := statusVariants[foldStatus(status)]
	return twmerge.Merge(badgeBase, variant)
}

// fieldClass highlights inputs that failed validation.
func fieldClass(errs validation.FieldErrors, field string) string {
	if errs.Has(field) {
		return twmerge.Merge(inputBase, inputError)
	}
	return inputBase
}
