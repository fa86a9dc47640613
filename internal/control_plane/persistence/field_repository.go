package persistence

import (
	"context"
	"errors"
	"fmt"

	"formfield-server/internal/control_plane/domain"
	"formfield-server/internal/control_plane/persistence/internal"
	"formfield-server/internal/control_plane/usecases"
	"formfield-server/internal/infra/sql"
	"formfield-server/internal/infra/utils"
)

func NewFieldRepository(orm sql.ORM) (*SimpleFieldRepository, error) {
	err := orm.AutoMigrate(&internal.FormField{}, &internal.FieldOption{}, &internal.DisplayRule{})
	if err != nil {
		return nil, fmt.Errorf("auto migrating: %w", err)
	}

	return &SimpleFieldRepository{
		orm:   orm,
		locks: utils.NewKeyedMutex(),
	}, nil
}

var _ usecases.FieldRepository = (*SimpleFieldRepository)(nil)

// SimpleFieldRepository stores staged field snapshots and their owned options
// and rules. Every record lives twice at most, keyed by (id, stage).
type SimpleFieldRepository struct {
	orm   sql.ORM
	locks *utils.KeyedMutex
}

func (s *SimpleFieldRepository) Atomically(ctx context.Context, fn func(tx usecases.FieldRepository) error) error {
	return s.orm.Transaction(func(tx sql.ORM) error {
		return fn(&SimpleFieldRepository{orm: tx, locks: s.locks})
	})
}

// LockField serializes stage-changing operations on one field id. The lock
// table is shared with transactional views, so a caller can hold the lock
// across an Atomically block without deadlocking itself.
func (s *SimpleFieldRepository) LockField(id domain.ID) func() {
	return s.locks.Lock("field:" + id.String())
}

func (s *SimpleFieldRepository) CreateField(ctx context.Context, field domain.FieldDefinition) (domain.FieldDefinition, error) {
	// Sort assignment is serialized per parent so two concurrent creates
	// cannot claim the same position.
	unlock := s.locks.Lock("sort:" + field.ParentID.String())
	defer unlock()

	maxSort, err := s.maxSortOrder(ctx, field.ParentID)
	if err != nil {
		return domain.FieldDefinition{}, err
	}

	field.Stage = domain.StageDraft
	field.SortOrder = maxSort + 1
	field.Version = 1

	entity := internal.FromFieldDefinition(field)
	err = s.orm.WithContext(ctx).Create(&entity).Error()
	if err != nil {
		return domain.FieldDefinition{}, fmt.Errorf("database insert: %w", err)
	}

	return entity.ToDomain(), nil
}

func (s *SimpleFieldRepository) maxSortOrder(ctx context.Context, parentID domain.ID) (int, error) {
	var entity internal.FormField
	err := s.orm.
		WithContext(ctx).
		Where("parent_id = ? AND stage = ?", parentID.String(), string(domain.StageDraft)).
		Order("sort_order desc").
		First(&entity).
		Error()

	if errors.Is(err, sql.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("database query: %w", err)
	}

	return entity.SortOrder, nil
}

func (s *SimpleFieldRepository) CreateFieldCopy(ctx context.Context, field domain.FieldDefinition) error {
	field.Stage = domain.StageDraft
	entity := internal.FromFieldDefinition(field)
	err := s.orm.WithContext(ctx).Create(&entity).Error()
	if err != nil {
		return fmt.Errorf("database insert: %w", err)
	}

	return nil
}

func (s *SimpleFieldRepository) GetField(ctx context.Context, id domain.ID, stage domain.Stage) (domain.FieldDefinition, error) {
	var entity internal.FormField
	err := s.orm.
		WithContext(ctx).
		First(&entity, "id = ? AND stage = ?", id.String(), string(stage)).
		Error()

	if errors.Is(err, sql.ErrRecordNotFound) {
		return domain.FieldDefinition{}, usecases.ErrFieldNotFound
	}
	if err != nil {
		return domain.FieldDefinition{}, fmt.Errorf("database query: %w", err)
	}

	return entity.ToDomain(), nil
}

func (s *SimpleFieldRepository) FieldsByParent(ctx context.Context, parentID domain.ID, stage domain.Stage) ([]domain.FieldDefinition, error) {
	var entities []internal.FormField
	err := s.orm.
		WithContext(ctx).
		Where("parent_id = ? AND stage = ?", parentID.String(), string(stage)).
		Order("sort_order asc").
		Find(&entities).
		Error()

	if err != nil {
		return nil, fmt.Errorf("database query: %w", err)
	}

	result := make([]domain.FieldDefinition, len(entities))
	for i, entity := range entities {
		result[i] = entity.ToDomain()
	}

	return result, nil
}

func (s *SimpleFieldRepository) UpdateDraftField(ctx context.Context, field domain.FieldDefinition) error {
	current, err := s.GetField(ctx, field.ID, domain.StageDraft)
	if err != nil {
		return err
	}

	field.Stage = domain.StageDraft
	field.Version = current.Version + 1

	entity := internal.FromFieldDefinition(field)
	err = s.orm.WithContext(ctx).Save(&entity).Error()
	if err != nil {
		return fmt.Errorf("database update: %w", err)
	}

	return nil
}

func (s *SimpleFieldRepository) RenameField(ctx context.Context, id domain.ID, name string) error {
	tx := s.orm.
		WithContext(ctx).
		Model(&internal.FormField{}).
		Where("id = ? AND stage = ?", id.String(), string(domain.StageDraft)).
		Updates(map[string]any{"name": name})

	if err := tx.Error(); err != nil {
		return fmt.Errorf("database update: %w", err)
	}
	if tx.RowsAffected() == 0 {
		return usecases.ErrFieldNotFound
	}

	return nil
}

func (s *SimpleFieldRepository) UpdateFieldIfNotMigrated(ctx context.Context, field domain.FieldDefinition) (bool, error) {
	tx := s.orm.
		WithContext(ctx).
		Model(&internal.FormField{}).
		Where("id = ? AND stage = ? AND migrated = ?", field.ID.String(), string(domain.StageDraft), false).
		Updates(map[string]any{
			"title":                field.Title,
			"default_value":        field.Default,
			"right_title":          field.RightTitle,
			"extra_class":          field.ExtraClass,
			"custom_error_message": field.CustomErrorMessage,
			"required":             field.Required,
			"show_on_load":         field.ShowOnLoad,
			"migrated":             true,
			"legacy_settings":      nil,
			"version":              field.Version + 1,
		})

	if err := tx.Error(); err != nil {
		return false, fmt.Errorf("database update: %w", err)
	}

	return tx.RowsAffected() > 0, nil
}

func (s *SimpleFieldRepository) FindUnmigratedFieldIDs(ctx context.Context) ([]domain.ID, error) {
	var entities []internal.FormField
	err := s.orm.
		WithContext(ctx).
		Where("stage = ? AND migrated = ?", string(domain.StageDraft), false).
		Find(&entities).
		Error()

	if err != nil {
		return nil, fmt.Errorf("database query: %w", err)
	}

	result := make([]domain.ID, len(entities))
	for i, entity := range entities {
		result[i] = domain.ID(entity.ID)
	}

	return result, nil
}

func (s *SimpleFieldRepository) PromoteField(ctx context.Context, id domain.ID) error {
	draft, err := s.GetField(ctx, id, domain.StageDraft)
	if err != nil {
		return err
	}

	liveVersion := 0
	live, err := s.GetField(ctx, id, domain.StageLive)
	if err == nil {
		liveVersion = live.Version
	} else if !errors.Is(err, usecases.ErrFieldNotFound) {
		return err
	}

	draft.Stage = domain.StageLive
	draft.Version = liveVersion + 1

	// Replace the live row wholesale; Save cannot be trusted to upsert on a
	// composite key.
	if err := s.RemoveFieldFromStage(ctx, id, domain.StageLive); err != nil {
		return err
	}

	entity := internal.FromFieldDefinition(draft)
	err = s.orm.WithContext(ctx).Create(&entity).Error()
	if err != nil {
		return fmt.Errorf("database insert: %w", err)
	}

	return nil
}

func (s *SimpleFieldRepository) RemoveFieldFromStage(ctx context.Context, id domain.ID, stage domain.Stage) error {
	err := s.orm.
		WithContext(ctx).
		Delete(&internal.FormField{}, "id = ? AND stage = ?", id.String(), string(stage)).
		Error()

	if err != nil {
		return fmt.Errorf("database delete: %w", err)
	}

	return nil
}

func (s *SimpleFieldRepository) CreateOption(ctx context.Context, option domain.OptionValue) (domain.OptionValue, error) {
	unlock := s.locks.Lock("option-sort:" + option.FieldID.String())
	defer unlock()

	maxSort, err := s.maxOptionSortOrder(ctx, option.FieldID)
	if err != nil {
		return domain.OptionValue{}, err
	}

	option.Stage = domain.StageDraft
	if option.SortOrder == 0 {
		option.SortOrder = maxSort + 1
	}
	option.Version = 1

	entity := internal.FromOptionValue(option)
	err = s.orm.WithContext(ctx).Create(&entity).Error()
	if err != nil {
		return domain.OptionValue{}, fmt.Errorf("database insert: %w", err)
	}

	return entity.ToDomain(), nil
}

func (s *SimpleFieldRepository) maxOptionSortOrder(ctx context.Context, fieldID domain.ID) (int, error) {
	var entity internal.FieldOption
	err := s.orm.
		WithContext(ctx).
		Where("field_id = ? AND stage = ?", fieldID.String(), string(domain.StageDraft)).
		Order("sort_order desc").
		First(&entity).
		Error()

	if errors.Is(err, sql.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("database query: %w", err)
	}

	return entity.SortOrder, nil
}

func (s *SimpleFieldRepository) OptionsByField(ctx context.Context, fieldID domain.ID, stage domain.Stage) ([]domain.OptionValue, error) {
	var entities []internal.FieldOption
	err := s.orm.
		WithContext(ctx).
		Where("field_id = ? AND stage = ?", fieldID.String(), string(stage)).
		Order("sort_order asc").
		Find(&entities).
		Error()

	if err != nil {
		return nil, fmt.Errorf("database query: %w", err)
	}

	result := make([]domain.OptionValue, len(entities))
	for i, entity := range entities {
		result[i] = entity.ToDomain()
	}

	return result, nil
}

func (s *SimpleFieldRepository) UpdateDraftOption(ctx context.Context, option domain.OptionValue) error {
	var current internal.FieldOption
	err := s.orm.
		WithContext(ctx).
		First(&current, "id = ? AND stage = ?", option.ID.String(), string(domain.StageDraft)).
		Error()

	if errors.Is(err, sql.ErrRecordNotFound) {
		return usecases.ErrFieldNotFound
	}
	if err != nil {
		return fmt.Errorf("database query: %w", err)
	}

	option.Stage = domain.StageDraft
	option.Version = current.Version + 1

	entity := internal.FromOptionValue(option)
	err = s.orm.WithContext(ctx).Save(&entity).Error()
	if err != nil {
		return fmt.Errorf("database update: %w", err)
	}

	return nil
}

func (s *SimpleFieldRepository) PromoteOption(ctx context.Context, id domain.ID) error {
	var draft internal.FieldOption
	err := s.orm.
		WithContext(ctx).
		First(&draft, "id = ? AND stage = ?", id.String(), string(domain.StageDraft)).
		Error()

	if err != nil {
		return fmt.Errorf("database query: %w", err)
	}

	if err := s.RemoveOptionFromStage(ctx, id, domain.StageLive); err != nil {
		return err
	}

	draft.Stage = string(domain.StageLive)
	err = s.orm.WithContext(ctx).Create(&draft).Error()
	if err != nil {
		return fmt.Errorf("database insert: %w", err)
	}

	return nil
}

func (s *SimpleFieldRepository) RemoveOptionFromStage(ctx context.Context, id domain.ID, stage domain.Stage) error {
	err := s.orm.
		WithContext(ctx).
		Delete(&internal.FieldOption{}, "id = ? AND stage = ?", id.String(), string(stage)).
		Error()

	if err != nil {
		return fmt.Errorf("database delete: %w", err)
	}

	return nil
}

func (s *SimpleFieldRepository) CreateRule(ctx context.Context, rule domain.DisplayRule) (domain.DisplayRule, error) {
	rule.Stage = domain.StageDraft
	rule.Version = 1

	entity := internal.FromDisplayRule(rule)
	err := s.orm.WithContext(ctx).Create(&entity).Error()
	if err != nil {
		return domain.DisplayRule{}, fmt.Errorf("database insert: %w", err)
	}

	return entity.ToDomain(), nil
}

func (s *SimpleFieldRepository) RulesByField(ctx context.Context, fieldID domain.ID, stage domain.Stage) ([]domain.DisplayRule, error) {
	return s.findRules(ctx, "field_id = ? AND stage = ?", fieldID, stage)
}

func (s *SimpleFieldRepository) RulesByConditionField(ctx context.Context, conditionFieldID domain.ID, stage domain.Stage) ([]domain.DisplayRule, error) {
	return s.findRules(ctx, "condition_field_id = ? AND stage = ?", conditionFieldID, stage)
}

func (s *SimpleFieldRepository) findRules(ctx context.Context, query string, id domain.ID, stage domain.Stage) ([]domain.DisplayRule, error) {
	var entities []internal.DisplayRule
	err := s.orm.
		WithContext(ctx).
		Where(query, id.String(), string(stage)).
		Find(&entities).
		Error()

	if err != nil {
		return nil, fmt.Errorf("database query: %w", err)
	}

	result := make([]domain.DisplayRule, len(entities))
	for i, entity := range entities {
		result[i] = entity.ToDomain()
	}

	return result, nil
}

func (s *SimpleFieldRepository) UpdateDraftRule(ctx context.Context, rule domain.DisplayRule) error {
	var current internal.DisplayRule
	err := s.orm.
		WithContext(ctx).
		First(&current, "id = ? AND stage = ?", rule.ID.String(), string(domain.StageDraft)).
		Error()

	if errors.Is(err, sql.ErrRecordNotFound) {
		return usecases.ErrFieldNotFound
	}
	if err != nil {
		return fmt.Errorf("database query: %w", err)
	}

	rule.Stage = domain.StageDraft
	rule.Version = current.Version + 1

	entity := internal.FromDisplayRule(rule)
	err = s.orm.WithContext(ctx).Save(&entity).Error()
	if err != nil {
		return fmt.Errorf("database update: %w", err)
	}

	return nil
}

func (s *SimpleFieldRepository) PromoteRule(ctx context.Context, id domain.ID) error {
	var draft internal.DisplayRule
	err := s.orm.
		WithContext(ctx).
		First(&draft, "id = ? AND stage = ?", id.String(), string(domain.StageDraft)).
		Error()

	if err != nil {
		return fmt.Errorf("database query: %w", err)
	}

	if err := s.RemoveRuleFromStage(ctx, id, domain.StageLive); err != nil {
		return err
	}

	draft.Stage = string(domain.StageLive)
	err = s.orm.WithContext(ctx).Create(&draft).Error()
	if err != nil {
		return fmt.Errorf("database insert: %w", err)
	}

	return nil
}

func (s *SimpleFieldRepository) RemoveRuleFromStage(ctx context.Context, id domain.ID, stage domain.Stage) error {
	err := s.orm.
		WithContext(ctx).
		Delete(&internal.DisplayRule{}, "id = ? AND stage = ?", id.String(), string(stage)).
		Error()

	if err != nil {
		return fmt.Errorf("database delete: %w", err)
	}

	return nil
}
