package internal

import "formfield-server/internal/control_plane/domain"

type FormCreateRequest struct {
	Title   string `json:"title"`
	OwnerID string `json:"owner_id"`
}

type FormResponse struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	OwnerID string `json:"owner_id,omitempty"`
}

func FromForm(value domain.Form) FormResponse {
	return FormResponse{
		ID:      value.ID.String(),
		Title:   value.Title,
		OwnerID: value.OwnerID,
	}
}

type FormListResponse struct {
	Data []FormResponse `json:"data"`
}
