package httpapi

import (
	"net/http"

	"formfield-server/internal/control_plane/domain"
	"formfield-server/internal/control_plane/httpapi/internal"
	"formfield-server/internal/control_plane/usecases"
	"formfield-server/internal/infra/httpserver"
)

func NewSubmissionController(service usecases.ValidationService) *SubmissionController {
	return &SubmissionController{
		service,
	}
}

var _ httpserver.Controller = &SubmissionController{}

type SubmissionController struct {
	service usecases.ValidationService
}

func (c *SubmissionController) AddRoutes(router *http.ServeMux) {
	router.Handle("POST /v1/forms/{formID}/submissions/validate", c.validateSubmission())
}

func (c *SubmissionController) validateSubmission() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.SubmissionValidateRequest
		err := httpserver.DecodeJSONBody(r, &body)
		if err != nil {
			http.Error(w, "failed to validate submission", http.StatusBadRequest)
			return
		}

		outcome, err := c.service.ValidateSubmission(r.Context(), domain.ID(r.PathValue("formID")), body.Values)
		if err != nil {
			replyDomainError(w, err)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, outcome)
	}
}
