package internal

import (
	"time"

	"formfield-server/internal/control_plane/domain"
)

type Form struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Form) TableName() string {
	return "forms"
}

func (s Form) ToDomain() domain.Form {
	return domain.Form{
		ID:      domain.ID(s.ID),
		Title:   s.Title,
		OwnerID: s.OwnerID,
	}
}

func FromForm(value domain.Form) Form {
	return Form{
		ID:        value.ID.String(),
		Title:     value.Title,
		OwnerID:   value.OwnerID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}
