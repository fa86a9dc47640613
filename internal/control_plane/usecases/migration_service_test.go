package usecases

import (
	"context"
	"testing"

	"formfield-server/internal/control_plane/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func legacyField(t *testing.T, repo *fakeFieldRepository, form domain.Form, blob []byte) domain.FieldDefinition {
	t.Helper()
	ctx := context.Background()
	field, err := domain.NewFieldDefinitionBuilder().
		WithParent(form.ID).
		WithTitle("original title").
		WithLegacySettings(blob).
		Build()
	require.NoError(t, err)
	created, err := repo.CreateField(ctx, field)
	require.NoError(t, err)
	return created
}

func TestMigrationService_Migrate_AppliesSettings(t *testing.T) {
	ctx := context.Background()
	form := testForm(t)
	repo := newFakeFieldRepository()
	service := NewMigrationService(repo, nil)

	blob := []byte(`{"Title":"migrated title","Required":"1","ExtraClass":"wide","ShowOnLoad":"Hide"}`)
	field := legacyField(t, repo, form, blob)

	migrated, err := service.Migrate(ctx, field.ID)
	require.NoError(t, err)

	assert.True(t, migrated.Migrated)
	assert.Equal(t, "migrated title", migrated.Title)
	assert.True(t, migrated.Required)
	assert.Equal(t, "wide", migrated.ExtraClass)
	assert.False(t, migrated.ShowOnLoad)
	assert.Nil(t, migrated.LegacySettings)
}

func TestMigrationService_Migrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	form := testForm(t)
	repo := newFakeFieldRepository()
	service := NewMigrationService(repo, nil)

	field := legacyField(t, repo, form, []byte(`{"Title":"first pass"}`))

	first, err := service.Migrate(ctx, field.ID)
	require.NoError(t, err)

	// Author edits the title after migration; a second migrate must not
	// clobber it with the legacy value.
	edited := first
	edited.Title = "edited after migration"
	require.NoError(t, repo.UpdateDraftField(ctx, edited))

	second, err := service.Migrate(ctx, field.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited after migration", second.Title)
}

func TestMigrationService_Migrate_AbsentKeysLeaveAttributes(t *testing.T) {
	ctx := context.Background()
	form := testForm(t)
	repo := newFakeFieldRepository()
	service := NewMigrationService(repo, nil)

	field := legacyField(t, repo, form, []byte(`{"ExtraClass":"narrow"}`))

	migrated, err := service.Migrate(ctx, field.ID)
	require.NoError(t, err)

	assert.Equal(t, "original title", migrated.Title)
	assert.Equal(t, "narrow", migrated.ExtraClass)
	assert.True(t, migrated.ShowOnLoad)
}

func TestMigrationService_Migrate_MsgpackBlob(t *testing.T) {
	ctx := context.Background()
	form := testForm(t)
	repo := newFakeFieldRepository()
	service := NewMigrationService(repo, nil)

	blob, err := msgpack.Marshal(map[string]any{"Title": "packed title", "Required": true})
	require.NoError(t, err)
	field := legacyField(t, repo, form, blob)

	migrated, err := service.Migrate(ctx, field.ID)
	require.NoError(t, err)
	assert.Equal(t, "packed title", migrated.Title)
	assert.True(t, migrated.Required)
}

func TestMigrationService_Migrate_MalformedBlob(t *testing.T) {
	ctx := context.Background()
	form := testForm(t)
	repo := newFakeFieldRepository()
	service := NewMigrationService(repo, nil)

	field := legacyField(t, repo, form, []byte("{not json, not msgpack"))

	_, err := service.Migrate(ctx, field.ID)
	assert.ErrorIs(t, err, ErrMalformedSettings)

	// The record stays unmigrated so a repaired blob can be retried.
	stored, err := repo.GetField(ctx, field.ID, domain.StageDraft)
	require.NoError(t, err)
	assert.False(t, stored.Migrated)
}

func TestMigrationService_MigrateAll_SkipsMalformed(t *testing.T) {
	ctx := context.Background()
	form := testForm(t)
	repo := newFakeFieldRepository()
	service := NewMigrationService(repo, nil)

	good := legacyField(t, repo, form, []byte(`{"Title":"good"}`))
	bad := legacyField(t, repo, form, []byte("{broken"))
	empty := legacyField(t, repo, form, nil)

	report, err := service.MigrateAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 2, report.Migrated)
	require.Len(t, report.Malformed, 1)
	assert.Equal(t, bad.ID, report.Malformed[0])

	goodStored, err := repo.GetField(ctx, good.ID, domain.StageDraft)
	require.NoError(t, err)
	assert.True(t, goodStored.Migrated)
	emptyStored, err := repo.GetField(ctx, empty.ID, domain.StageDraft)
	require.NoError(t, err)
	assert.True(t, emptyStored.Migrated)
}

func TestShowOnLoadFromLegacy(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"empty string means default visible", "", true},
		{"hide sentinel", "Hide", false},
		{"show sentinel", "Show", true},
		{"falsy string", "0", false},
		{"boolean true", true, true},
		{"boolean false", false, false},
		{"numeric one", float64(1), true},
		{"numeric zero", float64(0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, showOnLoadFromLegacy(tt.value))
		})
	}
}

func TestDecodeLegacySettings_Empty(t *testing.T) {
	settings, err := decodeLegacySettings(nil)
	require.NoError(t, err)
	assert.Empty(t, settings)
}
