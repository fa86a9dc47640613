package usecases

import (
	"context"

	"formfield-server/internal/control_plane/domain"
)

type FieldService interface {
	CreateField(context.Context, domain.FieldDefinition) (domain.FieldDefinition, error)
	AssignNameIfAbsent(context.Context, domain.ID) (domain.FieldDefinition, error)
	GetField(context.Context, domain.ID, domain.Stage) (domain.FieldDefinition, error)
	FieldsByParent(context.Context, domain.ID, domain.Stage) ([]domain.FieldDefinition, error)
	UpdateField(context.Context, domain.FieldDefinition) (domain.FieldDefinition, error)
	DeleteField(context.Context, domain.ID) error
	IsModifiedOnStage(context.Context, domain.ID) (bool, error)
	AddOption(context.Context, domain.OptionValue) (domain.OptionValue, error)
	OptionsByField(context.Context, domain.ID, domain.Stage) ([]domain.OptionValue, error)
	AddRule(context.Context, domain.DisplayRule) (domain.DisplayRule, error)
	RulesByField(context.Context, domain.ID, domain.Stage) ([]domain.DisplayRule, error)
}

type CascadeService interface {
	Publish(context.Context, domain.ID) error
	Unpublish(context.Context, domain.ID, domain.Stage) error
	Delete(context.Context, domain.ID) error
	Duplicate(context.Context, domain.ID) (domain.FieldDefinition, error)
}

type MigrationService interface {
	Migrate(context.Context, domain.ID) (domain.FieldDefinition, error)
	MigrateAll(context.Context) (MigrationReport, error)
}

type ValidationService interface {
	ValidateField(context.Context, domain.FieldDefinition, map[string]any) (ValidationOutcome, error)
	ValidateSubmission(context.Context, domain.ID, map[string]any) (SubmissionOutcome, error)
	ErrorMessage(domain.FieldDefinition) string
}

type FormService interface {
	CreateForm(context.Context, domain.Form) error
	GetForm(context.Context, domain.ID) (domain.Form, error)
	AllForms(context.Context) ([]domain.Form, error)
	CanEditForm(context.Context, domain.ID, string) (bool, error)
}
