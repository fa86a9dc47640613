package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"formfield-server/internal/control_plane/domain"
	"formfield-server/internal/control_plane/usecases"
	"formfield-server/internal/infra/sql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *SimpleFieldRepository {
	t.Helper()
	orm, err := sql.NewMemoryORM()
	require.NoError(t, err)
	repo, err := NewFieldRepository(orm)
	require.NoError(t, err)
	return repo
}

func draftField(t *testing.T, parentID domain.ID) domain.FieldDefinition {
	t.Helper()
	field, err := domain.NewFieldDefinitionBuilder().
		WithParent(parentID).
		WithTitle("question").
		Build()
	require.NoError(t, err)
	return field
}

func TestFieldRepository_CreateField_AssignsSequentialSort(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	parent := domain.ID("form-1")

	for i := 1; i <= 3; i++ {
		created, err := repo.CreateField(ctx, draftField(t, parent))
		require.NoError(t, err)
		assert.Equal(t, i, created.SortOrder)
		assert.Equal(t, 1, created.Version)
		assert.Equal(t, domain.StageDraft, created.Stage)
	}

	// A different parent starts its own sequence.
	other, err := repo.CreateField(ctx, draftField(t, domain.ID("form-2")))
	require.NoError(t, err)
	assert.Equal(t, 1, other.SortOrder)
}

func TestFieldRepository_GetField_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	_, err := repo.GetField(ctx, domain.ID("missing"), domain.StageDraft)
	assert.ErrorIs(t, err, usecases.ErrFieldNotFound)
}

func TestFieldRepository_PromoteField_CopiesDraftToLive(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	created, err := repo.CreateField(ctx, draftField(t, domain.ID("form-1")))
	require.NoError(t, err)

	require.NoError(t, repo.PromoteField(ctx, created.ID))

	live, err := repo.GetField(ctx, created.ID, domain.StageLive)
	require.NoError(t, err)
	assert.Equal(t, created.Title, live.Title)
	assert.Equal(t, domain.StageLive, live.Stage)
	assert.Equal(t, 1, live.Version)

	// Promoting again replaces the live row and bumps its version.
	require.NoError(t, repo.PromoteField(ctx, created.ID))
	live, err = repo.GetField(ctx, created.ID, domain.StageLive)
	require.NoError(t, err)
	assert.Equal(t, 2, live.Version)
}

func TestFieldRepository_RenameField_DoesNotBumpVersion(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	created, err := repo.CreateField(ctx, draftField(t, domain.ID("form-1")))
	require.NoError(t, err)

	require.NoError(t, repo.RenameField(ctx, created.ID, "text-abc"))

	stored, err := repo.GetField(ctx, created.ID, domain.StageDraft)
	require.NoError(t, err)
	assert.Equal(t, "text-abc", stored.Name)
	assert.Equal(t, created.Version, stored.Version)

	err = repo.RenameField(ctx, domain.ID("missing"), "any")
	assert.ErrorIs(t, err, usecases.ErrFieldNotFound)
}

func TestFieldRepository_UpdateFieldIfNotMigrated_Latches(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	field, err := domain.NewFieldDefinitionBuilder().
		WithParent(domain.ID("form-1")).
		WithLegacySettings([]byte(`{"Title":"legacy"}`)).
		Build()
	require.NoError(t, err)
	created, err := repo.CreateField(ctx, field)
	require.NoError(t, err)

	created.Title = "migrated"
	created.Migrated = true

	applied, err := repo.UpdateFieldIfNotMigrated(ctx, created)
	require.NoError(t, err)
	assert.True(t, applied)

	stored, err := repo.GetField(ctx, created.ID, domain.StageDraft)
	require.NoError(t, err)
	assert.True(t, stored.Migrated)
	assert.Equal(t, "migrated", stored.Title)
	assert.Empty(t, stored.LegacySettings)

	// Second application is refused by the latch.
	stored.Title = "second pass"
	applied, err = repo.UpdateFieldIfNotMigrated(ctx, stored)
	require.NoError(t, err)
	assert.False(t, applied)

	unchanged, err := repo.GetField(ctx, created.ID, domain.StageDraft)
	require.NoError(t, err)
	assert.Equal(t, "migrated", unchanged.Title)
}

func TestFieldRepository_FindUnmigratedFieldIDs(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	first, err := repo.CreateField(ctx, draftField(t, domain.ID("form-1")))
	require.NoError(t, err)
	second, err := repo.CreateField(ctx, draftField(t, domain.ID("form-1")))
	require.NoError(t, err)

	first.Migrated = true
	applied, err := repo.UpdateFieldIfNotMigrated(ctx, first)
	require.NoError(t, err)
	require.True(t, applied)

	ids, err := repo.FindUnmigratedFieldIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.ID{second.ID}, ids)
}

func TestFieldRepository_RulesByConditionField(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	owner, err := repo.CreateField(ctx, draftField(t, domain.ID("form-1")))
	require.NoError(t, err)
	condition, err := repo.CreateField(ctx, draftField(t, domain.ID("form-1")))
	require.NoError(t, err)

	rule, err := domain.NewDisplayRuleBuilder().
		WithField(owner.ID).
		WithConditionField(condition.ID).
		WithOperator(domain.OperatorIsNotBlank).
		Build()
	require.NoError(t, err)
	_, err = repo.CreateRule(ctx, rule)
	require.NoError(t, err)

	byOwner, err := repo.RulesByField(ctx, owner.ID, domain.StageDraft)
	require.NoError(t, err)
	require.Len(t, byOwner, 1)

	byCondition, err := repo.RulesByConditionField(ctx, condition.ID, domain.StageDraft)
	require.NoError(t, err)
	require.Len(t, byCondition, 1)
	assert.Equal(t, owner.ID, byCondition[0].FieldID)
}

func TestFieldRepository_Atomically_RollsBack(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	created, err := repo.CreateField(ctx, draftField(t, domain.ID("form-1")))
	require.NoError(t, err)

	err = repo.Atomically(ctx, func(tx usecases.FieldRepository) error {
		if err := tx.RemoveFieldFromStage(ctx, created.ID, domain.StageDraft); err != nil {
			return err
		}
		return fmt.Errorf("induced failure")
	})
	require.Error(t, err)

	// The delete inside the failed transaction did not stick.
	_, err = repo.GetField(ctx, created.ID, domain.StageDraft)
	assert.NoError(t, err)
}

func TestFieldRepository_OptionLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	field, err := repo.CreateField(ctx, draftField(t, domain.ID("form-1")))
	require.NoError(t, err)

	option, err := domain.NewOptionValueBuilder().WithField(field.ID).WithLabel("yes").Build()
	require.NoError(t, err)
	created, err := repo.CreateOption(ctx, option)
	require.NoError(t, err)
	assert.Equal(t, 1, created.SortOrder)

	require.NoError(t, repo.PromoteOption(ctx, created.ID))

	live, err := repo.OptionsByField(ctx, field.ID, domain.StageLive)
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "yes", live[0].Label)

	require.NoError(t, repo.RemoveOptionFromStage(ctx, created.ID, domain.StageLive))
	live, err = repo.OptionsByField(ctx, field.ID, domain.StageLive)
	require.NoError(t, err)
	assert.Empty(t, live)

	draft, err := repo.OptionsByField(ctx, field.ID, domain.StageDraft)
	require.NoError(t, err)
	assert.Len(t, draft, 1)
}

func TestFieldRepository_LockField_SerializesSameID(t *testing.T) {
	repo := newTestRepository(t)
	id := domain.ID("field-1")

	release := repo.LockField(id)

	acquired := make(chan struct{})
	go func() {
		unlock := repo.LockField(id)
		close(acquired)
		unlock()
	}()

	select {
	case <-acquired:
		t.Fatal("second caller acquired the lock while the first held it")
	case <-time.After(50 * time.Millisecond):
	}

	// A different id is independent.
	unlockOther := repo.LockField(domain.ID("field-2"))
	unlockOther()

	release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second caller never acquired the released lock")
	}
}

func TestFieldRepository_LockField_SharedWithTransactionalView(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	id := domain.ID("field-1")

	release := repo.LockField(id)
	defer release()

	// The transactional view hands out the same lock table, so a holder
	// observed outside the transaction still excludes callers inside one.
	err := repo.Atomically(ctx, func(tx usecases.FieldRepository) error {
		acquired := make(chan struct{})
		go func() {
			unlock := tx.LockField(id)
			close(acquired)
			unlock()
		}()

		select {
		case <-acquired:
			return fmt.Errorf("lock not shared with the transactional view")
		case <-time.After(50 * time.Millisecond):
			return nil
		}
	})
	assert.NoError(t, err)
}
