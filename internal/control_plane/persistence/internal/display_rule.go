package internal

import (
	"time"

	"formfield-server/internal/control_plane/domain"
)

type DisplayRule struct {
	ID               string    `json:"id" gorm:"primaryKey"`
	Stage            string    `json:"stage" gorm:"primaryKey"`
	FieldID          string    `json:"field_id" gorm:"index"`
	ConditionFieldID string    `json:"condition_field_id" gorm:"index"`
	Operator         string    `json:"operator"`
	Value            string    `json:"value"`
	Version          int       `json:"version"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (DisplayRule) TableName() string {
	return "display_rules"
}

func (s DisplayRule) ToDomain() domain.DisplayRule {
	return domain.DisplayRule{
		ID:               domain.ID(s.ID),
		FieldID:          domain.ID(s.FieldID),
		ConditionFieldID: domain.ID(s.ConditionFieldID),
		Operator:         domain.RuleOperator(s.Operator),
		Value:            s.Value,
		Stage:            domain.Stage(s.Stage),
		Version:          s.Version,
	}
}

func FromDisplayRule(value domain.DisplayRule) DisplayRule {
	return DisplayRule{
		ID:               value.ID.String(),
		Stage:            string(value.Stage),
		FieldID:          value.FieldID.String(),
		ConditionFieldID: value.ConditionFieldID.String(),
		Operator:         string(value.Operator),
		Value:            value.Value,
		Version:          value.Version,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
}
