package usecases

import (
	"context"
	"fmt"
	"sync"

	"formfield-server/internal/control_plane/domain"
	"formfield-server/internal/infra/utils"
)

// fakeFieldRepository is an in-memory FieldRepository for service tests. It
// keeps the same stage-keyed record layout the real store uses, and its
// Atomically commits a snapshot only when fn succeeds so atomicity can be
// asserted without a database.
type fakeFieldRepository struct {
	mu      sync.Mutex
	locks   *utils.KeyedMutex
	fields  map[string]domain.FieldDefinition
	options map[string]domain.OptionValue
	rules   map[string]domain.DisplayRule

	// failOn makes the named operation fail for the given record id.
	failOn map[string]domain.ID
}

func newFakeFieldRepository() *fakeFieldRepository {
	return &fakeFieldRepository{
		locks:   utils.NewKeyedMutex(),
		fields:  make(map[string]domain.FieldDefinition),
		options: make(map[string]domain.OptionValue),
		rules:   make(map[string]domain.DisplayRule),
		failOn:  make(map[string]domain.ID),
	}
}

func (f *fakeFieldRepository) LockField(id domain.ID) func() {
	return f.locks.Lock("field:" + id.String())
}

func stageKey(id domain.ID, stage domain.Stage) string {
	return fmt.Sprintf("%s|%s", id, stage)
}

func (f *fakeFieldRepository) failing(op string, id domain.ID) bool {
	target, ok := f.failOn[op]
	return ok && target == id
}

func (f *fakeFieldRepository) snapshot() *fakeFieldRepository {
	copied := newFakeFieldRepository()
	for k, v := range f.fields {
		copied.fields[k] = v
	}
	for k, v := range f.options {
		copied.options[k] = v
	}
	for k, v := range f.rules {
		copied.rules[k] = v
	}
	copied.failOn = f.failOn
	copied.locks = f.locks
	return copied
}

func (f *fakeFieldRepository) Atomically(ctx context.Context, fn func(tx FieldRepository) error) error {
	f.mu.Lock()
	tx := f.snapshot()
	f.mu.Unlock()

	if err := fn(tx); err != nil {
		return err
	}

	f.mu.Lock()
	f.fields = tx.fields
	f.options = tx.options
	f.rules = tx.rules
	f.mu.Unlock()
	return nil
}

func (f *fakeFieldRepository) CreateField(_ context.Context, field domain.FieldDefinition) (domain.FieldDefinition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	maxSort := 0
	for _, existing := range f.fields {
		if existing.ParentID == field.ParentID && existing.Stage == domain.StageDraft && existing.SortOrder > maxSort {
			maxSort = existing.SortOrder
		}
	}
	field.SortOrder = maxSort + 1
	field.Stage = domain.StageDraft
	field.Version = 1
	f.fields[stageKey(field.ID, domain.StageDraft)] = field
	return field, nil
}

func (f *fakeFieldRepository) CreateFieldCopy(_ context.Context, field domain.FieldDefinition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	field.Stage = domain.StageDraft
	f.fields[stageKey(field.ID, domain.StageDraft)] = field
	return nil
}

func (f *fakeFieldRepository) GetField(_ context.Context, id domain.ID, stage domain.Stage) (domain.FieldDefinition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	field, ok := f.fields[stageKey(id, stage)]
	if !ok {
		return domain.FieldDefinition{}, ErrFieldNotFound
	}
	return field, nil
}

func (f *fakeFieldRepository) FieldsByParent(_ context.Context, parentID domain.ID, stage domain.Stage) ([]domain.FieldDefinition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.FieldDefinition
	for _, field := range f.fields {
		if field.ParentID == parentID && field.Stage == stage {
			result = append(result, field)
		}
	}
	return result, nil
}

func (f *fakeFieldRepository) UpdateDraftField(_ context.Context, field domain.FieldDefinition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := stageKey(field.ID, domain.StageDraft)
	current, ok := f.fields[key]
	if !ok {
		return ErrFieldNotFound
	}
	field.Stage = domain.StageDraft
	field.Version = current.Version + 1
	f.fields[key] = field
	return nil
}

func (f *fakeFieldRepository) RenameField(_ context.Context, id domain.ID, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := stageKey(id, domain.StageDraft)
	field, ok := f.fields[key]
	if !ok {
		return ErrFieldNotFound
	}
	field.Name = name
	f.fields[key] = field
	return nil
}

func (f *fakeFieldRepository) UpdateFieldIfNotMigrated(_ context.Context, field domain.FieldDefinition) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := stageKey(field.ID, domain.StageDraft)
	current, ok := f.fields[key]
	if !ok {
		return false, ErrFieldNotFound
	}
	if current.Migrated {
		return false, nil
	}
	field.Stage = domain.StageDraft
	field.Version = current.Version + 1
	f.fields[key] = field
	return true, nil
}

func (f *fakeFieldRepository) FindUnmigratedFieldIDs(_ context.Context) ([]domain.ID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []domain.ID
	for _, field := range f.fields {
		if field.Stage == domain.StageDraft && !field.Migrated {
			ids = append(ids, field.ID)
		}
	}
	return ids, nil
}

func (f *fakeFieldRepository) PromoteField(_ context.Context, id domain.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing("PromoteField", id) {
		return fmt.Errorf("induced failure")
	}
	draft, ok := f.fields[stageKey(id, domain.StageDraft)]
	if !ok {
		return ErrFieldNotFound
	}
	liveKey := stageKey(id, domain.StageLive)
	liveVersion := 0
	if live, ok := f.fields[liveKey]; ok {
		liveVersion = live.Version
	}
	draft.Stage = domain.StageLive
	draft.Version = liveVersion + 1
	f.fields[liveKey] = draft
	return nil
}

func (f *fakeFieldRepository) RemoveFieldFromStage(_ context.Context, id domain.ID, stage domain.Stage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.fields, stageKey(id, stage))
	return nil
}

func (f *fakeFieldRepository) CreateOption(_ context.Context, option domain.OptionValue) (domain.OptionValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	option.Stage = domain.StageDraft
	f.options[stageKey(option.ID, domain.StageDraft)] = option
	return option, nil
}

func (f *fakeFieldRepository) OptionsByField(_ context.Context, fieldID domain.ID, stage domain.Stage) ([]domain.OptionValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.OptionValue
	for _, option := range f.options {
		if option.FieldID == fieldID && option.Stage == stage {
			result = append(result, option)
		}
	}
	return result, nil
}

func (f *fakeFieldRepository) UpdateDraftOption(_ context.Context, option domain.OptionValue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	option.Stage = domain.StageDraft
	f.options[stageKey(option.ID, domain.StageDraft)] = option
	return nil
}

func (f *fakeFieldRepository) PromoteOption(_ context.Context, id domain.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing("PromoteOption", id) {
		return fmt.Errorf("induced failure")
	}
	draft, ok := f.options[stageKey(id, domain.StageDraft)]
	if !ok {
		return fmt.Errorf("option not found")
	}
	draft.Stage = domain.StageLive
	f.options[stageKey(id, domain.StageLive)] = draft
	return nil
}

func (f *fakeFieldRepository) RemoveOptionFromStage(_ context.Context, id domain.ID, stage domain.Stage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.options, stageKey(id, stage))
	return nil
}

func (f *fakeFieldRepository) CreateRule(_ context.Context, rule domain.DisplayRule) (domain.DisplayRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rule.Stage = domain.StageDraft
	f.rules[stageKey(rule.ID, domain.StageDraft)] = rule
	return rule, nil
}

func (f *fakeFieldRepository) RulesByField(_ context.Context, fieldID domain.ID, stage domain.Stage) ([]domain.DisplayRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.DisplayRule
	for _, rule := range f.rules {
		if rule.FieldID == fieldID && rule.Stage == stage {
			result = append(result, rule)
		}
	}
	return result, nil
}

func (f *fakeFieldRepository) RulesByConditionField(_ context.Context, conditionFieldID domain.ID, stage domain.Stage) ([]domain.DisplayRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.DisplayRule
	for _, rule := range f.rules {
		if rule.ConditionFieldID == conditionFieldID && rule.Stage == stage {
			result = append(result, rule)
		}
	}
	return result, nil
}

func (f *fakeFieldRepository) UpdateDraftRule(_ context.Context, rule domain.DisplayRule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rule.Stage = domain.StageDraft
	f.rules[stageKey(rule.ID, domain.StageDraft)] = rule
	return nil
}

func (f *fakeFieldRepository) PromoteRule(_ context.Context, id domain.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing("PromoteRule", id) {
		return fmt.Errorf("induced failure")
	}
	draft, ok := f.rules[stageKey(id, domain.StageDraft)]
	if !ok {
		return fmt.Errorf("rule not found")
	}
	draft.Stage = domain.StageLive
	f.rules[stageKey(id, domain.StageLive)] = draft
	return nil
}

func (f *fakeFieldRepository) RemoveRuleFromStage(_ context.Context, id domain.ID, stage domain.Stage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rules, stageKey(id, stage))
	return nil
}

var _ FieldRepository = (*fakeFieldRepository)(nil)

type fakeFormDirectory struct {
	mu    sync.Mutex
	forms map[domain.ID]domain.Form
}

func newFakeFormDirectory(forms ...domain.Form) *fakeFormDirectory {
	directory := &fakeFormDirectory{forms: make(map[domain.ID]domain.Form)}
	for _, form := range forms {
		directory.forms[form.ID] = form
	}
	return directory
}

func (f *fakeFormDirectory) CreateForm(_ context.Context, form domain.Form) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forms[form.ID] = form
	return nil
}

func (f *fakeFormDirectory) GetForm(_ context.Context, id domain.ID) (domain.Form, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	form, ok := f.forms[id]
	if !ok {
		return domain.Form{}, ErrFormNotFound
	}
	return form, nil
}

func (f *fakeFormDirectory) AllForms(_ context.Context) ([]domain.Form, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Form
	for _, form := range f.forms {
		result = append(result, form)
	}
	return result, nil
}

func (f *fakeFormDirectory) ParentExists(_ context.Context, id domain.ID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.forms[id]
	return ok, nil
}

var _ FormDirectory = (*fakeFormDirectory)(nil)
