package httpapi

import (
	"errors"
	"net/http"

	"formfield-server/internal/control_plane/domain"
	"formfield-server/internal/control_plane/httpapi/internal"
	"formfield-server/internal/control_plane/usecases"
	"formfield-server/internal/infra/httpserver"
)

const (
	createFormErrMessage = "failed to create form"
)

func NewFormController(service usecases.FormService) *FormController {
	return &FormController{
		service,
	}
}

var _ httpserver.Controller = &FormController{}

type FormController struct {
	service usecases.FormService
}

func (c *FormController) AddRoutes(router *http.ServeMux) {
	router.Handle("GET /v1/forms", c.listForms())
	router.Handle("POST /v1/forms", c.createForm())
	router.Handle("GET /v1/forms/{formID}", c.getForm())
}

func (c *FormController) listForms() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		forms, err := c.service.AllForms(r.Context())
		if err != nil {
			http.Error(w, "failed to list forms", http.StatusInternalServerError)
			return
		}

		response := internal.FormListResponse{Data: make([]internal.FormResponse, len(forms))}
		for i, form := range forms {
			response.Data[i] = internal.FromForm(form)
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, response)
	}
}

func (c *FormController) createForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.FormCreateRequest
		err := httpserver.DecodeJSONBody(r, &body)
		if err != nil {
			http.Error(w, createFormErrMessage, http.StatusBadRequest)
			return
		}

		form, err := domain.NewFormBuilder().
			WithTitle(body.Title).
			WithOwner(body.OwnerID).
			Build()
		if err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := c.service.CreateForm(r.Context(), form); err != nil {
			http.Error(w, createFormErrMessage, http.StatusInternalServerError)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusCreated, internal.FromForm(form))
	}
}

func (c *FormController) getForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := c.service.GetForm(r.Context(), domain.ID(r.PathValue("formID")))
		if errors.Is(err, usecases.ErrFormNotFound) {
			httpserver.ReplyWithError(w, http.StatusNotFound, "form not found")
			return
		}
		if err != nil {
			http.Error(w, "failed to get form", http.StatusInternalServerError)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.FromForm(form))
	}
}
