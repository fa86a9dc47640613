package internal

import (
	"encoding/json"

	"formfield-server/internal/control_plane/domain"
)

type FieldCreateRequest struct {
	Kind               string `json:"kind"`
	Name               string `json:"name"`
	Title              string `json:"title"`
	Default            string `json:"default"`
	Required           bool   `json:"required"`
	CustomErrorMessage string `json:"custom_error_message"`

	// LegacySettings carries an opaque settings blob when importing records
	// from the old admin. It stays untouched until migration consumes it.
	LegacySettings json.RawMessage `json:"legacy_settings,omitempty"`
}

func (f *FieldCreateRequest) UnmarshalJSON(data []byte) error {
	type Alias FieldCreateRequest
	defaults := &Alias{
		Kind: string(domain.KindText),
	}

	if err := json.Unmarshal(data, defaults); err != nil {
		return err
	}

	*f = FieldCreateRequest(*defaults)
	return nil
}

type FieldUpdateRequest struct {
	Title              *string `json:"title"`
	Default            *string `json:"default"`
	RightTitle         *string `json:"right_title"`
	ExtraClass         *string `json:"extra_class"`
	ShowOnLoad         *bool   `json:"show_on_load"`
	Required           *bool   `json:"required"`
	CustomErrorMessage *string `json:"custom_error_message"`
}

// Apply overlays the present request attributes onto the stored field.
func (f FieldUpdateRequest) Apply(field domain.FieldDefinition) domain.FieldDefinition {
	if f.Title != nil {
		field.Title = *f.Title
	}
	if f.Default != nil {
		field.Default = *f.Default
	}
	if f.RightTitle != nil {
		field.RightTitle = *f.RightTitle
	}
	if f.ExtraClass != nil {
		field.ExtraClass = *f.ExtraClass
	}
	if f.ShowOnLoad != nil {
		field.ShowOnLoad = *f.ShowOnLoad
	}
	if f.Required != nil {
		field.Required = *f.Required
	}
	if f.CustomErrorMessage != nil {
		field.CustomErrorMessage = *f.CustomErrorMessage
	}
	return field
}

type FieldResponse struct {
	ID                 string `json:"id"`
	ParentID           string `json:"parent_id"`
	Kind               string `json:"kind"`
	Name               string `json:"name"`
	Title              string `json:"title"`
	Default            string `json:"default"`
	RightTitle         string `json:"right_title,omitempty"`
	ExtraClass         string `json:"extra_class,omitempty"`
	ShowOnLoad         bool   `json:"show_on_load"`
	Required           bool   `json:"required"`
	CustomErrorMessage string `json:"custom_error_message,omitempty"`
	SortOrder          int    `json:"sort_order"`
	Migrated           bool   `json:"migrated"`
	Stage              string `json:"stage"`
	Version            int    `json:"version"`
}

func FromFieldDefinition(value domain.FieldDefinition) FieldResponse {
	return FieldResponse{
		ID:                 value.ID.String(),
		ParentID:           value.ParentID.String(),
		Kind:               string(value.Kind),
		Name:               value.Name,
		Title:              value.Title,
		Default:            value.Default,
		RightTitle:         value.RightTitle,
		ExtraClass:         value.ExtraClass,
		ShowOnLoad:         value.ShowOnLoad,
		Required:           value.Required,
		CustomErrorMessage: value.CustomErrorMessage,
		SortOrder:          value.SortOrder,
		Migrated:           value.Migrated,
		Stage:              string(value.Stage),
		Version:            value.Version,
	}
}

type FieldListResponse struct {
	Data []FieldResponse `json:"data"`
}

type FieldStatusResponse struct {
	Modified bool `json:"modified"`
}

type OptionCreateRequest struct {
	Label     string `json:"label"`
	IsDefault bool   `json:"is_default"`
}

type OptionResponse struct {
	ID        string `json:"id"`
	FieldID   string `json:"field_id"`
	Label     string `json:"label"`
	IsDefault bool   `json:"is_default"`
	SortOrder int    `json:"sort_order"`
	Stage     string `json:"stage"`
}

func FromOptionValue(value domain.OptionValue) OptionResponse {
	return OptionResponse{
		ID:        value.ID.String(),
		FieldID:   value.FieldID.String(),
		Label:     value.Label,
		IsDefault: value.IsDefault,
		SortOrder: value.SortOrder,
		Stage:     string(value.Stage),
	}
}

type OptionListResponse struct {
	Data []OptionResponse `json:"data"`
}

type RuleCreateRequest struct {
	ConditionFieldID string `json:"condition_field_id"`
	Operator         string `json:"operator"`
	Value            string `json:"value"`
}

type RuleResponse struct {
	ID               string `json:"id"`
	FieldID          string `json:"field_id"`
	ConditionFieldID string `json:"condition_field_id"`
	Operator         string `json:"operator"`
	Value            string `json:"value"`
	Stage            string `json:"stage"`
}

func FromDisplayRule(value domain.DisplayRule) RuleResponse {
	return RuleResponse{
		ID:               value.ID.String(),
		FieldID:          value.FieldID.String(),
		ConditionFieldID: value.ConditionFieldID.String(),
		Operator:         string(value.Operator),
		Value:            value.Value,
		Stage:            string(value.Stage),
	}
}

type RuleListResponse struct {
	Data []RuleResponse `json:"data"`
}

type MigrationReportResponse struct {
	Scanned   int      `json:"scanned"`
	Migrated  int      `json:"migrated"`
	Skipped   int      `json:"skipped"`
	Malformed []string `json:"malformed,omitempty"`
}
