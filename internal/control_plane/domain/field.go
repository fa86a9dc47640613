package domain

import (
	"errors"
	"fmt"

	"formfield-server/internal/infra/utils"
)

// FieldDefinition is a single question on a user-defined form. It exists in
// two stage snapshots (draft and live), each with its own version counter;
// the struct holds the attributes of the snapshot it was read from.
type FieldDefinition struct {
	ID       ID
	ParentID ID
	Kind     Kind

	// Presentation
	Name       string
	Title      string
	Default    string
	RightTitle string
	ExtraClass string
	ShowOnLoad bool

	// Behavior
	Required           bool
	CustomErrorMessage string
	SortOrder          int

	// Legacy settings, consumed once by migration.
	Migrated       bool
	LegacySettings []byte

	Stage   Stage
	Version int
}

// DeriveName returns the deterministic machine key for a field whose name was
// left empty at authoring time. It embeds the assigned id, so it can only be
// computed after the record was persisted.
func (f FieldDefinition) DeriveName() string {
	return fmt.Sprintf("%s-%s", f.Kind, f.ID)
}

// DisplayTitle is the label used when composing messages about this field:
// the title when present, the machine name otherwise.
func (f FieldDefinition) DisplayTitle() string {
	if f.Title != "" {
		return f.Title
	}
	return f.Name
}

var (
	ErrMissingParent = errors.New("field requires a parent form")
	ErrUnknownKind   = errors.New("unknown field kind")
)

func NewFieldDefinitionBuilder() *fieldDefinitionBuilder {
	return &fieldDefinitionBuilder{}
}

type fieldDefinitionBuilder struct {
	actions []fieldDefinitionHandler
}

type fieldDefinitionHandler func(v *FieldDefinition) error

func (b *fieldDefinitionBuilder) WithParent(value ID) *fieldDefinitionBuilder {
	b.actions = append(b.actions, func(f *FieldDefinition) error {
		f.ParentID = value
		return nil
	})
	return b
}

func (b *fieldDefinitionBuilder) WithKind(value Kind) *fieldDefinitionBuilder {
	b.actions = append(b.actions, func(f *FieldDefinition) error {
		f.Kind = value
		return nil
	})
	return b
}

func (b *fieldDefinitionBuilder) WithName(value string) *fieldDefinitionBuilder {
	b.actions = append(b.actions, func(f *FieldDefinition) error {
		f.Name = value
		return nil
	})
	return b
}

func (b *fieldDefinitionBuilder) WithTitle(value string) *fieldDefinitionBuilder {
	b.actions = append(b.actions, func(f *FieldDefinition) error {
		f.Title = value
		return nil
	})
	return b
}

func (b *fieldDefinitionBuilder) WithDefault(value string) *fieldDefinitionBuilder {
	b.actions = append(b.actions, func(f *FieldDefinition) error {
		f.Default = value
		return nil
	})
	return b
}

func (b *fieldDefinitionBuilder) WithRequired(value bool) *fieldDefinitionBuilder {
	b.actions = append(b.actions, func(f *FieldDefinition) error {
		f.Required = value
		return nil
	})
	return b
}

func (b *fieldDefinitionBuilder) WithCustomErrorMessage(value string) *fieldDefinitionBuilder {
	b.actions = append(b.actions, func(f *FieldDefinition) error {
		f.CustomErrorMessage = value
		return nil
	})
	return b
}

func (b *fieldDefinitionBuilder) WithLegacySettings(value []byte) *fieldDefinitionBuilder {
	b.actions = append(b.actions, func(f *FieldDefinition) error {
		f.LegacySettings = value
		return nil
	})
	return b
}

func (b *fieldDefinitionBuilder) Build() (FieldDefinition, error) {
	result := FieldDefinition{
		ID:         ID(utils.GenerateUUID()),
		Kind:       KindText,
		ShowOnLoad: true,
		Stage:      StageDraft,
	}
	for _, a := range b.actions {
		if err := a(&result); err != nil {
			return FieldDefinition{}, err
		}
	}

	if result.ParentID == "" {
		return FieldDefinition{}, ErrMissingParent
	}

	if _, err := SpecFor(result.Kind); err != nil {
		return FieldDefinition{}, err
	}

	return result, nil
}
