package domain

import (
	"errors"

	"formfield-server/internal/infra/utils"
)

// OptionValue is a selectable choice owned by a multi-option field. It is
// stage-transitioned and deleted as part of the owner's cascade, never
// orphaned.
type OptionValue struct {
	ID        ID
	FieldID   ID
	Label     string
	IsDefault bool
	SortOrder int

	Stage   Stage
	Version int
}

var (
	ErrMissingOptionOwner = errors.New("option requires an owning field")
	ErrMissingOptionLabel = errors.New("option requires a label")
)

func NewOptionValueBuilder() *optionValueBuilder {
	return &optionValueBuilder{}
}

type optionValueBuilder struct {
	actions []optionValueHandler
}

type optionValueHandler func(v *OptionValue) error

func (b *optionValueBuilder) WithField(value ID) *optionValueBuilder {
	b.actions = append(b.actions, func(o *OptionValue) error {
		o.FieldID = value
		return nil
	})
	return b
}

func (b *optionValueBuilder) WithLabel(value string) *optionValueBuilder {
	b.actions = append(b.actions, func(o *OptionValue) error {
		o.Label = value
		return nil
	})
	return b
}

func (b *optionValueBuilder) WithIsDefault(value bool) *optionValueBuilder {
	b.actions = append(b.actions, func(o *OptionValue) error {
		o.IsDefault = value
		return nil
	})
	return b
}

func (b *optionValueBuilder) Build() (OptionValue, error) {
	result := OptionValue{
		ID:    ID(utils.GenerateUUID()),
		Stage: StageDraft,
	}
	for _, a := range b.actions {
		if err := a(&result); err != nil {
			return OptionValue{}, err
		}
	}

	if result.FieldID == "" {
		return OptionValue{}, ErrMissingOptionOwner
	}

	if result.Label == "" {
		return OptionValue{}, ErrMissingOptionLabel
	}

	return result, nil
}
