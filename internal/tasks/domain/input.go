package domain

import (
	"strings"

	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/frodo/internal/validation"
)

// CreateTaskInput holds the fields a caller supplies for a new task.
type CreateTaskInput struct {
	Title       string
	Description *string
	Tags        []string
}

// Normalize trims the title and drops a blank description. Tags are kept
// as given, in order and including repeats.
func (i *CreateTaskInput) Normalize() {
	i.Title = strings.TrimSpace(i.Title)
	if i.Description != nil && strings.TrimSpace(*i.Description) == "" {
		i.Description = nil
	}
	if i.Tags == nil {
		i.Tags = []string{}
	}
}

// Validate checks the input. Call Normalize first.
func (i *CreateTaskInput) Validate() error {
	err := validation.ValidateStruct(i,
		validation.Field(&i.Title,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&i.Tags,
			validation.Each(validation.Required),
		),
	)
	return customValidation.WrapValidationError(err)
}
