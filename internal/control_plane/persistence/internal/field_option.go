package internal

import (
	"time"

	"formfield-server/internal/control_plane/domain"
)

type FieldOption struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Stage     string    `json:"stage" gorm:"primaryKey"`
	FieldID   string    `json:"field_id" gorm:"index"`
	Label     string    `json:"label"`
	IsDefault bool      `json:"is_default"`
	SortOrder int       `json:"sort_order"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (FieldOption) TableName() string {
	return "field_options"
}

func (s FieldOption) ToDomain() domain.OptionValue {
	return domain.OptionValue{
		ID:        domain.ID(s.ID),
		FieldID:   domain.ID(s.FieldID),
		Label:     s.Label,
		IsDefault: s.IsDefault,
		SortOrder: s.SortOrder,
		Stage:     domain.Stage(s.Stage),
		Version:   s.Version,
	}
}

func FromOptionValue(value domain.OptionValue) FieldOption {
	return FieldOption{
		ID:        value.ID.String(),
		Stage:     string(value.Stage),
		FieldID:   value.FieldID.String(),
		Label:     value.Label,
		IsDefault: value.IsDefault,
		SortOrder: value.SortOrder,
		Version:   value.Version,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}
