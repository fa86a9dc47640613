package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"formfield-server/internal/control_plane/domain"
	"formfield-server/internal/infra/async"
)

// MigrationReport summarizes one sweep over the unmigrated records.
type MigrationReport struct {
	Scanned   int
	Migrated  int
	Skipped   int
	Malformed []domain.ID
}

func NewMigrationService(
	repository FieldRepository,
	broker async.InternalBroker,
) *SimpleMigrationService {
	return &SimpleMigrationService{
		repository: repository,
		broker:     broker,
	}
}

var _ MigrationService = (*SimpleMigrationService)(nil)

// SimpleMigrationService folds legacy settings blobs into first-class field
// attributes. Each record migrates at most once: the migrated flag is flipped
// with a conditional update, so two concurrent sweeps cannot both apply.
type SimpleMigrationService struct {
	repository FieldRepository
	broker     async.InternalBroker
}

// legacy setting keys recognized by the migration. Keys outside this set are
// discarded; identity keys (Name, Sort) are deliberately absent because they
// were never authoritative in the settings blob.
const (
	legacyKeyTitle        = "Title"
	legacyKeyDefault      = "Default"
	legacyKeyRightTitle   = "RightTitle"
	legacyKeyExtraClass   = "ExtraClass"
	legacyKeyErrorMessage = "CustomErrorMessage"
	legacyKeyRequired     = "Required"
	legacyKeyShowOnLoad   = "ShowOnLoad"
)

// Migrate applies the legacy settings of one field to its draft snapshot and
// latches the migrated flag. Calling it on an already-migrated field is a
// no-op returning the current record.
func (s *SimpleMigrationService) Migrate(ctx context.Context, id domain.ID) (domain.FieldDefinition, error) {
	unlock := s.repository.LockField(id)
	defer unlock()

	field, err := s.repository.GetField(ctx, id, domain.StageDraft)
	if err != nil {
		return domain.FieldDefinition{}, fmt.Errorf("getting field: %w", err)
	}

	if field.Migrated {
		return field, nil
	}

	migrated, err := applyLegacySettings(field)
	if err != nil {
		return domain.FieldDefinition{}, err
	}

	applied, err := s.repository.UpdateFieldIfNotMigrated(ctx, migrated)
	if err != nil {
		return domain.FieldDefinition{}, fmt.Errorf("storing migrated field: %w", err)
	}
	if !applied {
		// Lost the race to a concurrent sweep; the stored record wins.
		return s.repository.GetField(ctx, id, domain.StageDraft)
	}

	slog.Info("field migrated", slog.String("field_id", id.String()))
	notifyLifecycle(ctx, s.broker, EventFieldMigrated, migrated, domain.StageDraft)
	return s.repository.GetField(ctx, id, domain.StageDraft)
}

// MigrateAll sweeps every unmigrated field. A malformed blob is reported and
// skipped rather than aborting the sweep, so one corrupt record cannot block
// the rest.
func (s *SimpleMigrationService) MigrateAll(ctx context.Context) (MigrationReport, error) {
	ids, err := s.repository.FindUnmigratedFieldIDs(ctx)
	if err != nil {
		return MigrationReport{}, fmt.Errorf("finding unmigrated fields: %w", err)
	}

	report := MigrationReport{Scanned: len(ids)}
	for _, id := range ids {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		_, err := s.Migrate(ctx, id)
		switch {
		case err == nil:
			report.Migrated++
		case isMalformedSettings(err):
			slog.Warn("skipping field with malformed legacy settings",
				slog.String("field_id", id.String()))
			report.Malformed = append(report.Malformed, id)
		default:
			slog.Error("migrating field",
				slog.String("field_id", id.String()),
				slog.String("error", err.Error()))
			report.Skipped++
		}
	}

	slog.Info("migration sweep finished",
		slog.Int("scanned", report.Scanned),
		slog.Int("migrated", report.Migrated),
		slog.Int("malformed", len(report.Malformed)),
		slog.Int("skipped", report.Skipped))
	return report, nil
}

// applyLegacySettings folds the blob into the record and marks it migrated.
// Settings that are absent from the blob leave the current attribute alone.
func applyLegacySettings(field domain.FieldDefinition) (domain.FieldDefinition, error) {
	settings, err := decodeLegacySettings(field.LegacySettings)
	if err != nil {
		return domain.FieldDefinition{}, err
	}

	if v, ok := settings[legacyKeyTitle]; ok {
		field.Title = stringify(v)
	}
	if v, ok := settings[legacyKeyDefault]; ok {
		field.Default = stringify(v)
	}
	if v, ok := settings[legacyKeyRightTitle]; ok {
		field.RightTitle = stringify(v)
	}
	if v, ok := settings[legacyKeyExtraClass]; ok {
		field.ExtraClass = stringify(v)
	}
	if v, ok := settings[legacyKeyErrorMessage]; ok {
		field.CustomErrorMessage = stringify(v)
	}
	if v, ok := settings[legacyKeyRequired]; ok {
		field.Required = coerceBool(v)
	}
	if v, ok := settings[legacyKeyShowOnLoad]; ok {
		field.ShowOnLoad = showOnLoadFromLegacy(v)
	}

	field.Migrated = true
	field.LegacySettings = nil
	return field, nil
}

func stringify(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

func isMalformedSettings(err error) bool {
	return errors.Is(err, ErrMalformedSettings)
}
