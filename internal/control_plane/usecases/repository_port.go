package usecases

import (
	"context"

	"formfield-server/internal/control_plane/domain"
)

// FieldRepository is the record store for the field aggregate: staged field
// snapshots plus the option and rule collections they own. One implementation
// backs all three record types so that cascades can run atomically.
type FieldRepository interface {
	// Atomically runs fn against a transactional view of the store. Changes
	// are only visible once fn returns nil; any error rolls everything back.
	Atomically(ctx context.Context, fn func(tx FieldRepository) error) error

	// LockField serializes stage-changing operations on one field id. Every
	// caller that reads a field and then rewrites its stage rows (publish,
	// delete, migrate) must hold this lock across the read and the write.
	// The returned func releases the lock.
	LockField(id domain.ID) func()

	// CreateField persists a draft-only snapshot, assigning the sort order
	// under a parent-scoped lock. The stored record is returned.
	CreateField(ctx context.Context, field domain.FieldDefinition) (domain.FieldDefinition, error)
	// CreateFieldCopy persists a draft-only snapshot exactly as given,
	// keeping the caller's sort order and version. Used by duplication.
	CreateFieldCopy(ctx context.Context, field domain.FieldDefinition) error
	GetField(ctx context.Context, id domain.ID, stage domain.Stage) (domain.FieldDefinition, error)
	FieldsByParent(ctx context.Context, parentID domain.ID, stage domain.Stage) ([]domain.FieldDefinition, error)
	// UpdateDraftField overwrites the draft snapshot and bumps its version.
	// Identity attributes (id, parent, name, sort order) are not touched.
	UpdateDraftField(ctx context.Context, field domain.FieldDefinition) error
	// RenameField sets the machine name on the draft snapshot without
	// bumping the version. Used once, right after creation.
	RenameField(ctx context.Context, id domain.ID, name string) error
	// UpdateFieldIfNotMigrated applies the update only when the stored draft
	// still has migrated == false. Reports whether the update was applied.
	UpdateFieldIfNotMigrated(ctx context.Context, field domain.FieldDefinition) (bool, error)
	FindUnmigratedFieldIDs(ctx context.Context) ([]domain.ID, error)
	// PromoteField copies the draft snapshot to live, bumping the live
	// version counter.
	PromoteField(ctx context.Context, id domain.ID) error
	RemoveFieldFromStage(ctx context.Context, id domain.ID, stage domain.Stage) error

	CreateOption(ctx context.Context, option domain.OptionValue) (domain.OptionValue, error)
	OptionsByField(ctx context.Context, fieldID domain.ID, stage domain.Stage) ([]domain.OptionValue, error)
	UpdateDraftOption(ctx context.Context, option domain.OptionValue) error
	PromoteOption(ctx context.Context, id domain.ID) error
	RemoveOptionFromStage(ctx context.Context, id domain.ID, stage domain.Stage) error

	CreateRule(ctx context.Context, rule domain.DisplayRule) (domain.DisplayRule, error)
	RulesByField(ctx context.Context, fieldID domain.ID, stage domain.Stage) ([]domain.DisplayRule, error)
	RulesByConditionField(ctx context.Context, conditionFieldID domain.ID, stage domain.Stage) ([]domain.DisplayRule, error)
	UpdateDraftRule(ctx context.Context, rule domain.DisplayRule) error
	PromoteRule(ctx context.Context, id domain.ID) error
	RemoveRuleFromStage(ctx context.Context, id domain.ID, stage domain.Stage) error
}

// FormDirectory answers parent-form existence and ownership questions. The
// CMS owns forms; the core only consults them.
type FormDirectory interface {
	CreateForm(ctx context.Context, form domain.Form) error
	GetForm(ctx context.Context, id domain.ID) (domain.Form, error)
	AllForms(ctx context.Context) ([]domain.Form, error)
	ParentExists(ctx context.Context, id domain.ID) (bool, error)
}
