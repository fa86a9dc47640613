package domain

import (
	"errors"

	"formfield-server/internal/infra/utils"
)

// RuleOperator compares the condition field's submitted value against the
// rule's value.
type RuleOperator string

const (
	OperatorIsBlank    RuleOperator = "IsBlank"
	OperatorIsNotBlank RuleOperator = "IsNotBlank"
	OperatorHasValue   RuleOperator = "HasValue"
	OperatorValueNot   RuleOperator = "ValueNot"
)

// DisplayRule makes its owning field's visibility conditional on another
// field of the same parent form.
type DisplayRule struct {
	ID               ID
	FieldID          ID
	ConditionFieldID ID
	Operator         RuleOperator
	Value            string

	Stage   Stage
	Version int
}

// Matches reports whether the condition holds for the given submitted value
// of the condition field.
func (r DisplayRule) Matches(conditionValue string) bool {
	switch r.Operator {
	case OperatorIsBlank:
		return conditionValue == ""
	case OperatorIsNotBlank:
		return conditionValue != ""
	case OperatorHasValue:
		return conditionValue == r.Value
	case OperatorValueNot:
		return conditionValue != r.Value
	default:
		return false
	}
}

var (
	ErrSelfReferencingRule = errors.New("rule cannot reference its own field")
	ErrMissingRuleOwner    = errors.New("rule requires an owning field")
	ErrUnknownRuleOperator = errors.New("unknown rule operator")
)

func NewDisplayRuleBuilder() *displayRuleBuilder {
	return &displayRuleBuilder{}
}

type displayRuleBuilder struct {
	actions []displayRuleHandler
}

type displayRuleHandler func(v *DisplayRule) error

func (b *displayRuleBuilder) WithField(value ID) *displayRuleBuilder {
	b.actions = append(b.actions, func(r *DisplayRule) error {
		r.FieldID = value
		return nil
	})
	return b
}

func (b *displayRuleBuilder) WithConditionField(value ID) *displayRuleBuilder {
	b.actions = append(b.actions, func(r *DisplayRule) error {
		r.ConditionFieldID = value
		return nil
	})
	return b
}

func (b *displayRuleBuilder) WithOperator(value RuleOperator) *displayRuleBuilder {
	b.actions = append(b.actions, func(r *DisplayRule) error {
		r.Operator = value
		return nil
	})
	return b
}

func (b *displayRuleBuilder) WithValue(value string) *displayRuleBuilder {
	b.actions = append(b.actions, func(r *DisplayRule) error {
		r.Value = value
		return nil
	})
	return b
}

func (b *displayRuleBuilder) Build() (DisplayRule, error) {
	result := DisplayRule{
		ID:       ID(utils.GenerateUUID()),
		Operator: OperatorHasValue,
		Stage:    StageDraft,
	}
	for _, a := range b.actions {
		if err := a(&result); err != nil {
			return DisplayRule{}, err
		}
	}

	if result.FieldID == "" {
		return DisplayRule{}, ErrMissingRuleOwner
	}

	if result.ConditionFieldID == result.FieldID {
		return DisplayRule{}, ErrSelfReferencingRule
	}

	switch result.Operator {
	case OperatorIsBlank, OperatorIsNotBlank, OperatorHasValue, OperatorValueNot:
	default:
		return DisplayRule{}, ErrUnknownRuleOperator
	}

	return result, nil
}
