package binder

import (
	"regexp"

	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/go-playground/validator/v10"
)

var (
	dateRE = regexp.MustCompile(`^\d{4}-(0[0-9]|1[0-2])-(0[0-9]|1[0-9]|2[0-9]|3[0-1])$`)
)

// dateValidator ensures the value matches the format YYYY-MM-DD or is empty.
// Add `ne=` to the tag when the date is required.
func dateValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return dateRE.MatchString(value)
}

var sortOptions = map[string]struct{}{
	models.ContentSortDateAddedDesc: {},
	models.ContentSortTitleAsc:      {},
	models.ContentSortAuthorAsc:     {},
	models.ContentSortShareCount:    {},
}

// sortOptionValidator accepts the content sort options or the empty string.
func sortOptionValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, ok := sortOptions[value]
	return ok
}
