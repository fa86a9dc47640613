package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"formfield-server/internal/control_plane/domain"
	"formfield-server/internal/infra/async"
)

func NewFieldService(
	repository FieldRepository,
	forms FormDirectory,
	broker async.InternalBroker,
) *SimpleFieldService {
	return &SimpleFieldService{
		repository: repository,
		forms:      forms,
		broker:     broker,
	}
}

var _ FieldService = (*SimpleFieldService)(nil)

type SimpleFieldService struct {
	repository FieldRepository
	forms      FormDirectory
	broker     async.InternalBroker
}

// CreateField persists a new draft-only field under an existing parent form.
// The repository assigns the sort order; the machine name is derived right
// after the create commits so it can embed the assigned id.
func (s *SimpleFieldService) CreateField(ctx context.Context, field domain.FieldDefinition) (domain.FieldDefinition, error) {
	exists, err := s.forms.ParentExists(ctx, field.ParentID)
	if err != nil {
		slog.Error("checking parent form", slog.String("error", err.Error()))
		return domain.FieldDefinition{}, fmt.Errorf("checking parent form: %w", err)
	}
	if !exists {
		slog.Warn("field created against unknown form", slog.String("parent_id", field.ParentID.String()))
		return domain.FieldDefinition{}, ErrParentFormNotFound
	}

	// An explicit name must be unique among the draft siblings: submission
	// errors and rule evaluation both address fields by name. Derived names
	// embed the id and cannot collide.
	if field.Name != "" {
		siblings, err := s.repository.FieldsByParent(ctx, field.ParentID, domain.StageDraft)
		if err != nil {
			return domain.FieldDefinition{}, fmt.Errorf("listing sibling fields: %w", err)
		}
		for _, sibling := range siblings {
			if sibling.Name == field.Name {
				slog.Warn("field name already taken",
					slog.String("parent_id", field.ParentID.String()),
					slog.String("name", field.Name))
				return domain.FieldDefinition{}, ErrDuplicateFieldName
			}
		}
	}

	created, err := s.repository.CreateField(ctx, field)
	if err != nil {
		slog.Error("creating field", slog.String("error", err.Error()))
		return domain.FieldDefinition{}, fmt.Errorf("creating field: %w", err)
	}

	created, err = s.AssignNameIfAbsent(ctx, created.ID)
	if err != nil {
		return domain.FieldDefinition{}, fmt.Errorf("assigning field name: %w", err)
	}

	slog.Info("field created",
		slog.String("field_id", created.ID.String()),
		slog.String("parent_id", created.ParentID.String()),
		slog.Int("sort_order", created.SortOrder))
	notifyLifecycle(ctx, s.broker, EventFieldCreated, created, domain.StageDraft)

	return created, nil
}

// AssignNameIfAbsent derives and persists the machine name when it is still
// empty. Idempotent: a non-empty name is never changed.
func (s *SimpleFieldService) AssignNameIfAbsent(ctx context.Context, id domain.ID) (domain.FieldDefinition, error) {
	field, err := s.repository.GetField(ctx, id, domain.StageDraft)
	if err != nil {
		return domain.FieldDefinition{}, fmt.Errorf("getting field: %w", err)
	}

	if field.Name != "" {
		return field, nil
	}

	field.Name = field.DeriveName()
	if err := s.repository.RenameField(ctx, field.ID, field.Name); err != nil {
		return domain.FieldDefinition{}, fmt.Errorf("renaming field: %w", err)
	}

	return field, nil
}

func (s *SimpleFieldService) GetField(ctx context.Context, id domain.ID, stage domain.Stage) (domain.FieldDefinition, error) {
	if !stage.IsValid() {
		return domain.FieldDefinition{}, ErrStageInvalid
	}

	return s.repository.GetField(ctx, id, stage)
}

func (s *SimpleFieldService) FieldsByParent(ctx context.Context, parentID domain.ID, stage domain.Stage) ([]domain.FieldDefinition, error) {
	if !stage.IsValid() {
		return nil, ErrStageInvalid
	}

	return s.repository.FieldsByParent(ctx, parentID, stage)
}

// UpdateField mutates the draft snapshot only; the live snapshot stays as it
// was until an explicit publish. Identity attributes are preserved from the
// stored record.
func (s *SimpleFieldService) UpdateField(ctx context.Context, field domain.FieldDefinition) (domain.FieldDefinition, error) {
	current, err := s.repository.GetField(ctx, field.ID, domain.StageDraft)
	if err != nil {
		return domain.FieldDefinition{}, fmt.Errorf("getting field: %w", err)
	}

	field.ParentID = current.ParentID
	field.Name = current.Name
	field.SortOrder = current.SortOrder
	field.Kind = current.Kind
	field.Migrated = current.Migrated
	field.LegacySettings = current.LegacySettings

	if err := s.repository.UpdateDraftField(ctx, field); err != nil {
		slog.Error("updating field", slog.String("error", err.Error()))
		return domain.FieldDefinition{}, fmt.Errorf("updating field: %w", err)
	}

	updated, err := s.repository.GetField(ctx, field.ID, domain.StageDraft)
	if err != nil {
		return domain.FieldDefinition{}, fmt.Errorf("getting field: %w", err)
	}

	notifyLifecycle(ctx, s.broker, EventFieldUpdated, updated, domain.StageDraft)
	return updated, nil
}

// DeleteField hard-removes a childless field from both stages. Fields that
// still own options or rules must go through the cascade delete; calling this
// directly on them is a programming error rejected at the boundary.
func (s *SimpleFieldService) DeleteField(ctx context.Context, id domain.ID) error {
	unlock := s.repository.LockField(id)
	defer unlock()

	field, err := s.repository.GetField(ctx, id, domain.StageDraft)
	if err != nil {
		return fmt.Errorf("getting field: %w", err)
	}

	// The childless check and the removal run in one transaction so an
	// option added in between cannot be orphaned.
	err = s.repository.Atomically(ctx, func(tx FieldRepository) error {
		for _, stage := range []domain.Stage{domain.StageDraft, domain.StageLive} {
			options, err := tx.OptionsByField(ctx, id, stage)
			if err != nil {
				return fmt.Errorf("listing options: %w", err)
			}
			rules, err := tx.RulesByField(ctx, id, stage)
			if err != nil {
				return fmt.Errorf("listing rules: %w", err)
			}
			if len(options) > 0 || len(rules) > 0 {
				slog.Warn("direct delete rejected, field has children",
					slog.String("field_id", id.String()),
					slog.String("stage", string(stage)))
				return ErrFieldHasChildren
			}
		}

		for _, stage := range []domain.Stage{domain.StageDraft, domain.StageLive} {
			if err := tx.RemoveFieldFromStage(ctx, id, stage); err != nil {
				return fmt.Errorf("removing field from %s: %w", stage, err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	notifyLifecycle(ctx, s.broker, EventFieldDeleted, field, "")
	return nil
}

// IsModifiedOnStage reports whether the draft snapshot has moved past the
// live one.
func (s *SimpleFieldService) IsModifiedOnStage(ctx context.Context, id domain.ID) (bool, error) {
	draft, err := s.repository.GetField(ctx, id, domain.StageDraft)
	if err != nil {
		return false, fmt.Errorf("getting draft: %w", err)
	}

	live, err := s.repository.GetField(ctx, id, domain.StageLive)
	if errors.Is(err, ErrFieldNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("getting live: %w", err)
	}

	return draft.Version != live.Version, nil
}

func (s *SimpleFieldService) AddOption(ctx context.Context, option domain.OptionValue) (domain.OptionValue, error) {
	owner, err := s.repository.GetField(ctx, option.FieldID, domain.StageDraft)
	if err != nil {
		return domain.OptionValue{}, fmt.Errorf("getting owning field: %w", err)
	}

	spec, err := domain.SpecFor(owner.Kind)
	if err != nil {
		return domain.OptionValue{}, err
	}
	if !spec.SupportsOptions {
		return domain.OptionValue{}, ErrOptionsNotSupported
	}

	created, err := s.repository.CreateOption(ctx, option)
	if err != nil {
		slog.Error("creating option", slog.String("error", err.Error()))
		return domain.OptionValue{}, fmt.Errorf("creating option: %w", err)
	}

	return created, nil
}

func (s *SimpleFieldService) OptionsByField(ctx context.Context, fieldID domain.ID, stage domain.Stage) ([]domain.OptionValue, error) {
	if !stage.IsValid() {
		return nil, ErrStageInvalid
	}

	return s.repository.OptionsByField(ctx, fieldID, stage)
}

// AddRule stores a display rule after checking the condition reference: it
// must name an existing field under the same parent form and never the
// owning field itself.
func (s *SimpleFieldService) AddRule(ctx context.Context, rule domain.DisplayRule) (domain.DisplayRule, error) {
	owner, err := s.repository.GetField(ctx, rule.FieldID, domain.StageDraft)
	if err != nil {
		return domain.DisplayRule{}, fmt.Errorf("getting owning field: %w", err)
	}

	if rule.ConditionFieldID == rule.FieldID {
		return domain.DisplayRule{}, ErrConditionFieldInvalid
	}

	condition, err := s.repository.GetField(ctx, rule.ConditionFieldID, domain.StageDraft)
	if errors.Is(err, ErrFieldNotFound) {
		return domain.DisplayRule{}, ErrConditionFieldInvalid
	}
	if err != nil {
		return domain.DisplayRule{}, fmt.Errorf("getting condition field: %w", err)
	}
	if condition.ParentID != owner.ParentID {
		return domain.DisplayRule{}, ErrConditionFieldInvalid
	}

	created, err := s.repository.CreateRule(ctx, rule)
	if err != nil {
		slog.Error("creating rule", slog.String("error", err.Error()))
		return domain.DisplayRule{}, fmt.Errorf("creating rule: %w", err)
	}

	return created, nil
}

func (s *SimpleFieldService) RulesByField(ctx context.Context, fieldID domain.ID, stage domain.Stage) ([]domain.DisplayRule, error) {
	if !stage.IsValid() {
		return nil, ErrStageInvalid
	}

	return s.repository.RulesByField(ctx, fieldID, stage)
}
