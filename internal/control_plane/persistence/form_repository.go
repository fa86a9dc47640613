package persistence

import (
	"context"
	"errors"
	"fmt"

	"formfield-server/internal/control_plane/domain"
	"formfield-server/internal/control_plane/persistence/internal"
	"formfield-server/internal/control_plane/usecases"
	"formfield-server/internal/infra/sql"
)

func NewFormRepository(orm sql.ORM) (*SimpleFormRepository, error) {
	err := orm.AutoMigrate(&internal.Form{})
	if err != nil {
		return nil, fmt.Errorf("auto migrating: %w", err)
	}

	return &SimpleFormRepository{orm: orm}, nil
}

var _ usecases.FormDirectory = (*SimpleFormRepository)(nil)

type SimpleFormRepository struct {
	orm sql.ORM
}

func (s *SimpleFormRepository) CreateForm(ctx context.Context, form domain.Form) error {
	entity := internal.FromForm(form)
	err := s.orm.WithContext(ctx).Create(&entity).Error()
	if err != nil {
		return fmt.Errorf("database insert: %w", err)
	}

	return nil
}

func (s *SimpleFormRepository) GetForm(ctx context.Context, id domain.ID) (domain.Form, error) {
	var entity internal.Form
	err := s.orm.
		WithContext(ctx).
		First(&entity, "id = ?", id.String()).
		Error()

	if errors.Is(err, sql.ErrRecordNotFound) {
		return domain.Form{}, usecases.ErrFormNotFound
	}
	if err != nil {
		return domain.Form{}, fmt.Errorf("database query: %w", err)
	}

	return entity.ToDomain(), nil
}

func (s *SimpleFormRepository) AllForms(ctx context.Context) ([]domain.Form, error) {
	var entities []internal.Form
	err := s.orm.
		WithContext(ctx).
		Find(&entities).
		Error()

	if err != nil {
		return nil, fmt.Errorf("database query: %w", err)
	}

	result := make([]domain.Form, len(entities))
	for i, entity := range entities {
		result[i] = entity.ToDomain()
	}

	return result, nil
}

func (s *SimpleFormRepository) ParentExists(ctx context.Context, id domain.ID) (bool, error) {
	var count int64
	err := s.orm.
		WithContext(ctx).
		Model(&internal.Form{}).
		Where("id = ?", id.String()).
		Count(&count).
		Error()

	if err != nil {
		return false, fmt.Errorf("database query: %w", err)
	}

	return count > 0, nil
}
