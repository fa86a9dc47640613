package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"formfield-server/internal/control_plane/domain"
	"formfield-server/internal/infra/async"
	"formfield-server/internal/infra/utils"
)

func NewCascadeService(
	repository FieldRepository,
	broker async.InternalBroker,
) *SimpleCascadeService {
	return &SimpleCascadeService{
		repository: repository,
		broker:     broker,
	}
}

var _ CascadeService = (*SimpleCascadeService)(nil)

// SimpleCascadeService runs multi-record stage operations. Every cascade is
// wrapped in one repository transaction so a failing child never leaves a
// half-published field behind, and stage changes on the same field are
// serialized through the repository's per-id lock.
type SimpleCascadeService struct {
	repository FieldRepository
	broker     async.InternalBroker
}

// Publish promotes the draft snapshot of a field and its owned children to
// live. Children go first so a visible field never references missing
// options; live options whose draft counterpart is gone are removed.
func (s *SimpleCascadeService) Publish(ctx context.Context, id domain.ID) error {
	unlock := s.repository.LockField(id)
	defer unlock()

	field, err := s.repository.GetField(ctx, id, domain.StageDraft)
	if err != nil {
		return fmt.Errorf("getting field: %w", err)
	}

	err = s.repository.Atomically(ctx, func(tx FieldRepository) error {
		if err := s.removeStaleLiveOptions(ctx, tx, id); err != nil {
			return err
		}
		if err := s.removeStaleLiveRules(ctx, tx, id); err != nil {
			return err
		}

		options, err := tx.OptionsByField(ctx, id, domain.StageDraft)
		if err != nil {
			return fmt.Errorf("listing draft options: %w", err)
		}
		for _, option := range options {
			if err := tx.PromoteOption(ctx, option.ID); err != nil {
				return &PartialCascadeError{FieldID: id, ChildID: option.ID, Err: err}
			}
		}

		rules, err := tx.RulesByField(ctx, id, domain.StageDraft)
		if err != nil {
			return fmt.Errorf("listing draft rules: %w", err)
		}
		for _, rule := range rules {
			if err := tx.PromoteRule(ctx, rule.ID); err != nil {
				return &PartialCascadeError{FieldID: id, ChildID: rule.ID, Err: err}
			}
		}

		if err := tx.PromoteField(ctx, id); err != nil {
			return fmt.Errorf("promoting field: %w", err)
		}

		return nil
	})
	if err != nil {
		slog.Error("publish cascade failed",
			slog.String("field_id", id.String()),
			slog.String("error", err.Error()))
		return err
	}

	slog.Info("field published", slog.String("field_id", id.String()))
	notifyLifecycle(ctx, s.broker, EventFieldPublished, field, domain.StageLive)
	return nil
}

// removeStaleLiveOptions deletes live options that no longer exist on draft.
// Without this step a publish would resurrect options deleted in the editor.
func (s *SimpleCascadeService) removeStaleLiveOptions(ctx context.Context, tx FieldRepository, fieldID domain.ID) error {
	draft, err := tx.OptionsByField(ctx, fieldID, domain.StageDraft)
	if err != nil {
		return fmt.Errorf("listing draft options: %w", err)
	}
	live, err := tx.OptionsByField(ctx, fieldID, domain.StageLive)
	if err != nil {
		return fmt.Errorf("listing live options: %w", err)
	}

	onDraft := make(map[domain.ID]bool, len(draft))
	for _, option := range draft {
		onDraft[option.ID] = true
	}

	for _, option := range live {
		if onDraft[option.ID] {
			continue
		}
		if err := tx.RemoveOptionFromStage(ctx, option.ID, domain.StageLive); err != nil {
			return &PartialCascadeError{FieldID: fieldID, ChildID: option.ID, Err: err}
		}
	}

	return nil
}

// removeStaleLiveRules is the rule counterpart of removeStaleLiveOptions: a
// live rule whose draft row is gone must not survive a republish.
func (s *SimpleCascadeService) removeStaleLiveRules(ctx context.Context, tx FieldRepository, fieldID domain.ID) error {
	draft, err := tx.RulesByField(ctx, fieldID, domain.StageDraft)
	if err != nil {
		return fmt.Errorf("listing draft rules: %w", err)
	}
	live, err := tx.RulesByField(ctx, fieldID, domain.StageLive)
	if err != nil {
		return fmt.Errorf("listing live rules: %w", err)
	}

	onDraft := make(map[domain.ID]bool, len(draft))
	for _, rule := range draft {
		onDraft[rule.ID] = true
	}

	for _, rule := range live {
		if onDraft[rule.ID] {
			continue
		}
		if err := tx.RemoveRuleFromStage(ctx, rule.ID, domain.StageLive); err != nil {
			return &PartialCascadeError{FieldID: fieldID, ChildID: rule.ID, Err: err}
		}
	}

	return nil
}

// Unpublish removes the field and its children from the given stage, leaving
// the other stage untouched. Children are removed before the field.
func (s *SimpleCascadeService) Unpublish(ctx context.Context, id domain.ID, stage domain.Stage) error {
	if !stage.IsValid() {
		return ErrStageInvalid
	}

	unlock := s.repository.LockField(id)
	defer unlock()

	field, err := s.repository.GetField(ctx, id, stage)
	if err != nil {
		return fmt.Errorf("getting field: %w", err)
	}

	err = s.repository.Atomically(ctx, func(tx FieldRepository) error {
		return s.removeFromStage(ctx, tx, id, stage)
	})
	if err != nil {
		slog.Error("unpublish cascade failed",
			slog.String("field_id", id.String()),
			slog.String("stage", string(stage)),
			slog.String("error", err.Error()))
		return err
	}

	slog.Info("field unpublished",
		slog.String("field_id", id.String()),
		slog.String("stage", string(stage)))
	notifyLifecycle(ctx, s.broker, EventFieldUnpublished, field, stage)
	return nil
}

// Delete removes the field and its children from both stages, plus any rule
// on a sibling that still names this field as its condition. Leaving those
// rules behind would make the siblings reference a field that no longer
// exists.
func (s *SimpleCascadeService) Delete(ctx context.Context, id domain.ID) error {
	unlock := s.repository.LockField(id)
	defer unlock()

	field, err := s.repository.GetField(ctx, id, domain.StageDraft)
	if err != nil {
		return fmt.Errorf("getting field: %w", err)
	}

	err = s.repository.Atomically(ctx, func(tx FieldRepository) error {
		for _, stage := range []domain.Stage{domain.StageDraft, domain.StageLive} {
			referencing, err := tx.RulesByConditionField(ctx, id, stage)
			if err != nil {
				return fmt.Errorf("listing referencing rules: %w", err)
			}
			for _, rule := range referencing {
				if err := tx.RemoveRuleFromStage(ctx, rule.ID, stage); err != nil {
					return &PartialCascadeError{FieldID: id, ChildID: rule.ID, Err: err}
				}
			}

			if err := s.removeFromStage(ctx, tx, id, stage); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		slog.Error("delete cascade failed",
			slog.String("field_id", id.String()),
			slog.String("error", err.Error()))
		return err
	}

	slog.Info("field deleted", slog.String("field_id", id.String()))
	notifyLifecycle(ctx, s.broker, EventFieldDeleted, field, "")
	return nil
}

func (s *SimpleCascadeService) removeFromStage(ctx context.Context, tx FieldRepository, id domain.ID, stage domain.Stage) error {
	options, err := tx.OptionsByField(ctx, id, stage)
	if err != nil {
		return fmt.Errorf("listing options: %w", err)
	}
	for _, option := range options {
		if err := tx.RemoveOptionFromStage(ctx, option.ID, stage); err != nil {
			return &PartialCascadeError{FieldID: id, ChildID: option.ID, Err: err}
		}
	}

	rules, err := tx.RulesByField(ctx, id, stage)
	if err != nil {
		return fmt.Errorf("listing rules: %w", err)
	}
	for _, rule := range rules {
		if err := tx.RemoveRuleFromStage(ctx, rule.ID, stage); err != nil {
			return &PartialCascadeError{FieldID: id, ChildID: rule.ID, Err: err}
		}
	}

	if err := tx.RemoveFieldFromStage(ctx, id, stage); err != nil {
		return fmt.Errorf("removing field from %s: %w", stage, err)
	}

	return nil
}

// Duplicate creates a fresh draft-only field from an existing one, copying
// its options under the new id. Display rules are not copied: their condition
// references are meaningful only for the original. The copy starts at version
// zero with no live snapshot.
func (s *SimpleCascadeService) Duplicate(ctx context.Context, id domain.ID) (domain.FieldDefinition, error) {
	source, err := s.repository.GetField(ctx, id, domain.StageDraft)
	if err != nil {
		return domain.FieldDefinition{}, fmt.Errorf("getting field: %w", err)
	}

	options, err := s.repository.OptionsByField(ctx, id, domain.StageDraft)
	if err != nil {
		return domain.FieldDefinition{}, fmt.Errorf("listing options: %w", err)
	}

	copied := source
	copied.ID = domain.ID(utils.GenerateUUID())
	copied.Name = ""
	copied.Version = 0
	copied.Stage = domain.StageDraft
	copied.Name = copied.DeriveName()

	err = s.repository.Atomically(ctx, func(tx FieldRepository) error {
		if err := tx.CreateFieldCopy(ctx, copied); err != nil {
			return fmt.Errorf("creating field copy: %w", err)
		}

		for _, option := range options {
			optionCopy := option
			optionCopy.ID = domain.ID(utils.GenerateUUID())
			optionCopy.FieldID = copied.ID
			if _, err := tx.CreateOption(ctx, optionCopy); err != nil {
				return &PartialCascadeError{FieldID: copied.ID, ChildID: option.ID, Err: err}
			}
		}

		return nil
	})
	if err != nil {
		slog.Error("duplicate cascade failed",
			slog.String("field_id", id.String()),
			slog.String("error", err.Error()))
		return domain.FieldDefinition{}, err
	}

	slog.Info("field duplicated",
		slog.String("source_id", id.String()),
		slog.String("copy_id", copied.ID.String()))
	notifyLifecycle(ctx, s.broker, EventFieldCreated, copied, domain.StageDraft)
	return copied, nil
}
