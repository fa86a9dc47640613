package domain

import (
	"errors"

	"formfield-server/internal/infra/utils"
)

// Form is the parent record fields hang off. The core only needs its
// existence and ownership; everything else about forms lives in the CMS.
type Form struct {
	ID      ID
	Title   string
	OwnerID string
}

// CanEdit reports whether the actor may mutate fields under this form. Forms
// without a recorded owner are editable by anyone with authoring access.
func (f Form) CanEdit(actor string) bool {
	return f.OwnerID == "" || f.OwnerID == actor
}

var ErrMissingFormTitle = errors.New("form requires a title")

func NewFormBuilder() *formBuilder {
	return &formBuilder{}
}

type formBuilder struct {
	actions []formHandler
}

type formHandler func(v *Form) error

func (b *formBuilder) WithTitle(value string) *formBuilder {
	b.actions = append(b.actions, func(f *Form) error {
		f.Title = value
		return nil
	})
	return b
}

func (b *formBuilder) WithOwner(value string) *formBuilder {
	b.actions = append(b.actions, func(f *Form) error {
		f.OwnerID = value
		return nil
	})
	return b
}

func (b *formBuilder) Build() (Form, error) {
	result := Form{
		ID: ID(utils.GenerateUUID()),
	}
	for _, a := range b.actions {
		if err := a(&result); err != nil {
			return Form{}, err
		}
	}

	if result.Title == "" {
		return Form{}, ErrMissingFormTitle
	}

	return result, nil
}
