package usecases

import (
	"context"
	"sync"
	"testing"

	"formfield-server/internal/control_plane/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testForm(t *testing.T) domain.Form {
	t.Helper()
	form, err := domain.NewFormBuilder().WithTitle("contact us").Build()
	require.NoError(t, err)
	return form
}

func testField(t *testing.T, parentID domain.ID, kind domain.Kind) domain.FieldDefinition {
	t.Helper()
	field, err := domain.NewFieldDefinitionBuilder().
		WithParent(parentID).
		WithKind(kind).
		WithTitle("your answer").
		Build()
	require.NoError(t, err)
	return field
}

func TestFieldService_CreateField_AssignsSortAndName(t *testing.T) {
	ctx := context.Background()
	form := testForm(t)
	repo := newFakeFieldRepository()
	service := NewFieldService(repo, newFakeFormDirectory(form), nil)

	first, err := service.CreateField(ctx, testField(t, form.ID, domain.KindText))
	require.NoError(t, err)
	second, err := service.CreateField(ctx, testField(t, form.ID, domain.KindText))
	require.NoError(t, err)

	assert.Equal(t, 1, first.SortOrder)
	assert.Equal(t, 2, second.SortOrder)
	assert.Equal(t, "text-"+first.ID.String(), first.Name)
	assert.NotEqual(t, first.Name, second.Name)
}

func TestFieldService_CreateField_UnknownParent(t *testing.T) {
	ctx := context.Background()
	form := testForm(t)
	service := NewFieldService(newFakeFieldRepository(), newFakeFormDirectory(), nil)

	_, err := service.CreateField(ctx, testField(t, form.ID, domain.KindText))
	assert.ErrorIs(t, err, ErrParentFormNotFound)
}

func TestFieldService_AssignNameIfAbsent_KeepsExplicitName(t *testing.T) {
	ctx := context.Background()
	form := testForm(t)
	repo := newFakeFieldRepository()
	service := NewFieldService(repo, newFakeFormDirectory(form), nil)

	field, err := domain.NewFieldDefinitionBuilder().
		WithParent(form.ID).
		WithName("email-address").
		Build()
	require.NoError(t, err)

	created, err := service.CreateField(ctx, field)
	require.NoError(t, err)
	assert.Equal(t, "email-address", created.Name)

	again, err := service.AssignNameIfAbsent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "email-address", again.Name)
}

func TestFieldService_UpdateField_PreservesIdentity(t *testing.T) {
	ctx := context.Background()
	form := testForm(t)
	repo := newFakeFieldRepository()
	service := NewFieldService(repo, newFakeFormDirectory(form), nil)

	created, err := service.CreateField(ctx, testField(t, form.ID, domain.KindText))
	require.NoError(t, err)

	changed := created
	changed.Title = "updated title"
	changed.Name = "attempted-rename"
	changed.SortOrder = 99

	updated, err := service.UpdateField(ctx, changed)
	require.NoError(t, err)

	assert.Equal(t, "updated title", updated.Title)
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.SortOrder, updated.SortOrder)
	assert.Greater(t, updated.Version, created.Version)
}

func TestFieldService_DeleteField_RejectsWithChildren(t *testing.T) {
	ctx := context.Background()
	form := testForm(t)
	repo := newFakeFieldRepository()
	service := NewFieldService(repo, newFakeFormDirectory(form), nil)

	field, err := service.CreateField(ctx, testField(t, form.ID, domain.KindDropdown))
	require.NoError(t, err)

	option, err := domain.NewOptionValueBuilder().WithField(field.ID).WithLabel("yes").Build()
	require.NoError(t, err)
	_, err = service.AddOption(ctx, option)
	require.NoError(t, err)

	err = service.DeleteField(ctx, field.ID)
	assert.ErrorIs(t, err, ErrFieldHasChildren)

	_, err = service.GetField(ctx, field.ID, domain.StageDraft)
	assert.NoError(t, err)
}

func TestFieldService_DeleteField_RemovesChildlessField(t *testing.T) {
	ctx := context.Background()
	form := testForm(t)
	repo := newFakeFieldRepository()
	service := NewFieldService(repo, newFakeFormDirectory(form), nil)

	field, err := service.CreateField(ctx, testField(t, form.ID, domain.KindText))
	require.NoError(t, err)

	require.NoError(t, service.DeleteField(ctx, field.ID))

	_, err = service.GetField(ctx, field.ID, domain.StageDraft)
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestFieldService_IsModifiedOnStage(t *testing.T) {
	ctx := context.Background()
	form := testForm(t)
	repo := newFakeFieldRepository()
	service := NewFieldService(repo, newFakeFormDirectory(form), nil)
	cascades := NewCascadeService(repo, nil)

	field, err := service.CreateField(ctx, testField(t, form.ID, domain.KindText))
	require.NoError(t, err)

	// Never published: always modified.
	modified, err := service.IsModifiedOnStage(ctx, field.ID)
	require.NoError(t, err)
	assert.True(t, modified)

	require.NoError(t, cascades.Publish(ctx, field.ID))

	modified, err = service.IsModifiedOnStage(ctx, field.ID)
	require.NoError(t, err)
	assert.False(t, modified)

	field.Title = "changed"
	_, err = service.UpdateField(ctx, field)
	require.NoError(t, err)

	modified, err = service.IsModifiedOnStage(ctx, field.ID)
	require.NoError(t, err)
	assert.True(t, modified)
}

func TestFieldService_AddOption_KindWithoutOptions(t *testing.T) {
	ctx := context.Background()
	form := testForm(t)
	repo := newFakeFieldRepository()
	service := NewFieldService(repo, newFakeFormDirectory(form), nil)

	field, err := service.CreateField(ctx, testField(t, form.ID, domain.KindText))
	require.NoError(t, err)

	option, err := domain.NewOptionValueBuilder().WithField(field.ID).WithLabel("yes").Build()
	require.NoError(t, err)

	_, err = service.AddOption(ctx, option)
	assert.ErrorIs(t, err, ErrOptionsNotSupported)
}

func TestFieldService_AddRule_ConditionChecks(t *testing.T) {
	ctx := context.Background()
	form := testForm(t)
	otherForm := testForm(t)
	repo := newFakeFieldRepository()
	service := NewFieldService(repo, newFakeFormDirectory(form, otherForm), nil)

	field, err := service.CreateField(ctx, testField(t, form.ID, domain.KindText))
	require.NoError(t, err)
	sibling, err := service.CreateField(ctx, testField(t, form.ID, domain.KindText))
	require.NoError(t, err)
	foreign, err := service.CreateField(ctx, testField(t, otherForm.ID, domain.KindText))
	require.NoError(t, err)

	valid, err := domain.NewDisplayRuleBuilder().
		WithField(field.ID).
		WithConditionField(sibling.ID).
		WithOperator(domain.OperatorIsNotBlank).
		Build()
	require.NoError(t, err)
	_, err = service.AddRule(ctx, valid)
	assert.NoError(t, err)

	// Condition field from a different form is rejected.
	crossForm, err := domain.NewDisplayRuleBuilder().
		WithField(field.ID).
		WithConditionField(foreign.ID).
		Build()
	require.NoError(t, err)
	_, err = service.AddRule(ctx, crossForm)
	assert.ErrorIs(t, err, ErrConditionFieldInvalid)

	// Condition field that does not exist is rejected.
	dangling, err := domain.NewDisplayRuleBuilder().
		WithField(field.ID).
		WithConditionField(domain.ID("missing")).
		Build()
	require.NoError(t, err)
	_, err = service.AddRule(ctx, dangling)
	assert.ErrorIs(t, err, ErrConditionFieldInvalid)
}

func TestFieldService_CreateField_DuplicateNameRejected(t *testing.T) {
	ctx := context.Background()
	form := testForm(t)
	service := NewFieldService(newFakeFieldRepository(), newFakeFormDirectory(form), nil)

	named := func(name string) domain.FieldDefinition {
		field, err := domain.NewFieldDefinitionBuilder().
			WithParent(form.ID).
			WithName(name).
			Build()
		require.NoError(t, err)
		return field
	}

	first, err := service.CreateField(ctx, named("email"))
	require.NoError(t, err)
	assert.Equal(t, "email", first.Name)

	_, err = service.CreateField(ctx, named("email"))
	assert.ErrorIs(t, err, ErrDuplicateFieldName)

	// A different explicit name is still fine.
	_, err = service.CreateField(ctx, named("phone"))
	assert.NoError(t, err)
}

func TestFieldService_DeleteField_SerializedWithPublish(t *testing.T) {
	ctx := context.Background()
	form := testForm(t)
	repo := newFakeFieldRepository()
	service := NewFieldService(repo, newFakeFormDirectory(form), nil)
	cascades := NewCascadeService(repo, nil)

	// Whatever order the two operations land in, the delete must take both
	// stage rows with it: a publish slipping in between the delete's check
	// and its removal would leave a live row with no draft.
	for i := 0; i < 50; i++ {
		created, err := service.CreateField(ctx, testField(t, form.ID, domain.KindText))
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = cascades.Publish(ctx, created.ID)
		}()
		go func() {
			defer wg.Done()
			_ = service.DeleteField(ctx, created.ID)
		}()
		wg.Wait()

		for _, stage := range []domain.Stage{domain.StageDraft, domain.StageLive} {
			_, err := repo.GetField(ctx, created.ID, stage)
			assert.ErrorIs(t, err, ErrFieldNotFound)
		}
	}
}
