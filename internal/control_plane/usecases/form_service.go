package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"formfield-server/internal/control_plane/domain"
)

func NewFormService(forms FormDirectory) *SimpleFormService {
	return &SimpleFormService{
		forms: forms,
	}
}

var _ FormService = (*SimpleFormService)(nil)

// SimpleFormService exposes the form directory the fields hang off. Forms are
// owned by the surrounding CMS; this service only keeps the minimal record
// the field layer needs.
type SimpleFormService struct {
	forms FormDirectory
}

func (s *SimpleFormService) CreateForm(ctx context.Context, form domain.Form) error {
	if err := s.forms.CreateForm(ctx, form); err != nil {
		slog.Error("creating form", slog.String("error", err.Error()))
		return fmt.Errorf("creating form: %w", err)
	}

	slog.Info("form created", slog.String("form_id", form.ID.String()))
	return nil
}

func (s *SimpleFormService) GetForm(ctx context.Context, id domain.ID) (domain.Form, error) {
	return s.forms.GetForm(ctx, id)
}

func (s *SimpleFormService) AllForms(ctx context.Context) ([]domain.Form, error) {
	return s.forms.AllForms(ctx)
}

func (s *SimpleFormService) CanEditForm(ctx context.Context, id domain.ID, actor string) (bool, error) {
	form, err := s.forms.GetForm(ctx, id)
	if err != nil {
		return false, fmt.Errorf("getting form: %w", err)
	}

	return form.CanEdit(actor), nil
}
