package internal

import (
	"time"

	"formfield-server/internal/control_plane/domain"
)

// FormField is one stage snapshot of a field. The primary key is (id, stage):
// a field has at most one draft row and one live row.
type FormField struct {
	ID                 string    `json:"id" gorm:"primaryKey"`
	Stage              string    `json:"stage" gorm:"primaryKey"`
	ParentID           string    `json:"parent_id" gorm:"index"`
	Kind               string    `json:"kind"`
	Name               string    `json:"name"`
	Title              string    `json:"title"`
	DefaultValue       string    `json:"default_value"`
	RightTitle         string    `json:"right_title"`
	ExtraClass         string    `json:"extra_class"`
	ShowOnLoad         bool      `json:"show_on_load"`
	Required           bool      `json:"required"`
	CustomErrorMessage string    `json:"custom_error_message"`
	SortOrder          int       `json:"sort_order"`
	Migrated           bool      `json:"migrated"`
	LegacySettings     []byte    `json:"legacy_settings,omitempty"`
	Version            int       `json:"version"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (FormField) TableName() string {
	return "form_fields"
}

func (s FormField) ToDomain() domain.FieldDefinition {
	return domain.FieldDefinition{
		ID:                 domain.ID(s.ID),
		ParentID:           domain.ID(s.ParentID),
		Kind:               domain.Kind(s.Kind),
		Name:               s.Name,
		Title:              s.Title,
		Default:            s.DefaultValue,
		RightTitle:         s.RightTitle,
		ExtraClass:         s.ExtraClass,
		ShowOnLoad:         s.ShowOnLoad,
		Required:           s.Required,
		CustomErrorMessage: s.CustomErrorMessage,
		SortOrder:          s.SortOrder,
		Migrated:           s.Migrated,
		LegacySettings:     s.LegacySettings,
		Stage:              domain.Stage(s.Stage),
		Version:            s.Version,
	}
}

func FromFieldDefinition(value domain.FieldDefinition) FormField {
	return FormField{
		ID:                 value.ID.String(),
		Stage:              string(value.Stage),
		ParentID:           value.ParentID.String(),
		Kind:               string(value.Kind),
		Name:               value.Name,
		Title:              value.Title,
		DefaultValue:       value.Default,
		RightTitle:         value.RightTitle,
		ExtraClass:         value.ExtraClass,
		ShowOnLoad:         value.ShowOnLoad,
		Required:           value.Required,
		CustomErrorMessage: value.CustomErrorMessage,
		SortOrder:          value.SortOrder,
		Migrated:           value.Migrated,
		LegacySettings:     value.LegacySettings,
		Version:            value.Version,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}
}
