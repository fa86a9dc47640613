package usecases

import (
	"context"
	"fmt"

	"formfield-server/internal/control_plane/domain"
	"formfield-server/internal/infra/utils"
)

// FieldError is one failed check on a submission, addressed by the field's
// machine name so clients can attach it to the right widget.
type FieldError struct {
	FieldName string `json:"field_name"`
	Message   string `json:"message"`
}

// ValidationOutcome is the result of checking a single field.
type ValidationOutcome struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors,omitempty"`
}

// SubmissionOutcome is the result of checking a whole submission against the
// live fields of a form. Hidden fields are listed so clients can tell an
// exempted field from a passing one.
type SubmissionOutcome struct {
	Valid        bool         `json:"valid"`
	Errors       []FieldError `json:"errors,omitempty"`
	HiddenFields []string     `json:"hidden_fields,omitempty"`
}

func NewValidationService(repository FieldRepository) *SimpleValidationService {
	return &SimpleValidationService{
		repository: repository,
	}
}

var _ ValidationService = (*SimpleValidationService)(nil)

type SimpleValidationService struct {
	repository FieldRepository
}

// ValidateField checks one field against a submission payload. A required
// field with display rules is exempt from the required check: its visibility
// depends on other answers, so a blank value may simply mean "hidden".
// Format checks still run whenever a value is present.
func (s *SimpleValidationService) ValidateField(ctx context.Context, field domain.FieldDefinition, payload map[string]any) (ValidationOutcome, error) {
	spec, err := domain.SpecFor(field.Kind)
	if err != nil {
		return ValidationOutcome{}, err
	}
	if spec.FormatChecker == nil {
		return ValidationOutcome{}, fmt.Errorf("%w: %q", ErrFormatCheckerMissing, field.Kind)
	}

	var fieldErrors []FieldError

	if spec.ValueIsFlag {
		if field.Required && !utils.ExtractBoolValue(payload, field.Name) {
			exempt, err := s.hasDisplayRules(ctx, field)
			if err != nil {
				return ValidationOutcome{}, err
			}
			if !exempt {
				fieldErrors = append(fieldErrors, FieldError{
					FieldName: field.Name,
					Message:   s.ErrorMessage(field),
				})
			}
		}

		return ValidationOutcome{
			Valid:  len(fieldErrors) == 0,
			Errors: fieldErrors,
		}, nil
	}

	value := utils.ExtractStringValue(payload, field.Name)

	if value != "" {
		if err := spec.FormatChecker(value); err != nil {
			fieldErrors = append(fieldErrors, FieldError{
				FieldName: field.Name,
				Message:   err.Error(),
			})
		}
	}

	if value == "" && field.Required {
		exempt, err := s.hasDisplayRules(ctx, field)
		if err != nil {
			return ValidationOutcome{}, err
		}
		if !exempt {
			fieldErrors = append(fieldErrors, FieldError{
				FieldName: field.Name,
				Message:   s.ErrorMessage(field),
			})
		}
	}

	return ValidationOutcome{
		Valid:  len(fieldErrors) == 0,
		Errors: fieldErrors,
	}, nil
}

func (s *SimpleValidationService) hasDisplayRules(ctx context.Context, field domain.FieldDefinition) (bool, error) {
	stage := field.Stage
	if !stage.IsValid() {
		stage = domain.StageDraft
	}

	rules, err := s.repository.RulesByField(ctx, field.ID, stage)
	if err != nil {
		return false, fmt.Errorf("listing rules: %w", err)
	}

	return len(rules) > 0, nil
}

// ValidateSubmission checks a payload against every live field of a form and
// annotates which fields the display rules currently hide.
func (s *SimpleValidationService) ValidateSubmission(ctx context.Context, parentID domain.ID, payload map[string]any) (SubmissionOutcome, error) {
	fields, err := s.repository.FieldsByParent(ctx, parentID, domain.StageLive)
	if err != nil {
		return SubmissionOutcome{}, fmt.Errorf("listing live fields: %w", err)
	}

	nameByID := make(map[domain.ID]string, len(fields))
	for _, field := range fields {
		nameByID[field.ID] = field.Name
	}

	outcome := SubmissionOutcome{Valid: true}
	for _, field := range fields {
		visible, err := s.isVisible(ctx, field, nameByID, payload)
		if err != nil {
			return SubmissionOutcome{}, err
		}
		if !visible {
			outcome.HiddenFields = append(outcome.HiddenFields, field.Name)
		}

		fieldOutcome, err := s.ValidateField(ctx, field, payload)
		if err != nil {
			return SubmissionOutcome{}, err
		}
		if !fieldOutcome.Valid {
			outcome.Valid = false
			outcome.Errors = append(outcome.Errors, fieldOutcome.Errors...)
		}
	}

	return outcome, nil
}

// isVisible evaluates the field's live display rules against the payload. A
// field with no rules is always visible; with rules, every condition must
// hold, matching how the front end chains them.
func (s *SimpleValidationService) isVisible(ctx context.Context, field domain.FieldDefinition, nameByID map[domain.ID]string, payload map[string]any) (bool, error) {
	rules, err := s.repository.RulesByField(ctx, field.ID, domain.StageLive)
	if err != nil {
		return false, fmt.Errorf("listing rules: %w", err)
	}

	for _, rule := range rules {
		conditionName := nameByID[rule.ConditionFieldID]
		conditionValue := utils.ExtractStringValue(payload, conditionName)
		if !rule.Matches(conditionValue) {
			return false, nil
		}
	}

	return true, nil
}

// ErrorMessage is the message shown when a required field is left blank: the
// author's custom message when set, a generic one otherwise. Both paths strip
// markup, since titles are author-supplied.
func (s *SimpleValidationService) ErrorMessage(field domain.FieldDefinition) string {
	if field.CustomErrorMessage != "" {
		return utils.EscapeMarkup(field.CustomErrorMessage)
	}

	return utils.EscapeMarkup(fmt.Sprintf("%s is required.", field.DisplayTitle()))
}
