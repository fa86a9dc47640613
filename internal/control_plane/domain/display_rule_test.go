package domain_test

import (
	"testing"

	"formfield-server/internal/control_plane/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayRuleBuilder(t *testing.T) {
	rule, err := domain.NewDisplayRuleBuilder().
		WithField("field-b").
		WithConditionField("field-a").
		WithOperator(domain.OperatorHasValue).
		WithValue("yes").
		Build()
	require.NoError(t, err)

	assert.NotEmpty(t, rule.ID)
	assert.Equal(t, domain.ID("field-b"), rule.FieldID)
	assert.Equal(t, domain.ID("field-a"), rule.ConditionFieldID)
}

func TestDisplayRuleBuilder_SelfReference(t *testing.T) {
	_, err := domain.NewDisplayRuleBuilder().
		WithField("field-a").
		WithConditionField("field-a").
		Build()
	assert.ErrorIs(t, err, domain.ErrSelfReferencingRule)
}

func TestDisplayRuleBuilder_UnknownOperator(t *testing.T) {
	_, err := domain.NewDisplayRuleBuilder().
		WithField("field-b").
		WithConditionField("field-a").
		WithOperator("Resembles").
		Build()
	assert.ErrorIs(t, err, domain.ErrUnknownRuleOperator)
}

func TestDisplayRule_Matches(t *testing.T) {
	tests := []struct {
		operator  domain.RuleOperator
		ruleValue string
		submitted string
		want      bool
	}{
		{domain.OperatorIsBlank, "", "", true},
		{domain.OperatorIsBlank, "", "x", false},
		{domain.OperatorIsNotBlank, "", "x", true},
		{domain.OperatorIsNotBlank, "", "", false},
		{domain.OperatorHasValue, "yes", "yes", true},
		{domain.OperatorHasValue, "yes", "no", false},
		{domain.OperatorValueNot, "yes", "no", true},
		{domain.OperatorValueNot, "yes", "yes", false},
	}

	for _, tt := range tests {
		rule := domain.DisplayRule{Operator: tt.operator, Value: tt.ruleValue}
		assert.Equal(t, tt.want, rule.Matches(tt.submitted),
			"operator %s, rule value %q, submitted %q", tt.operator, tt.ruleValue, tt.submitted)
	}
}
