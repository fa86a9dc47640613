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
	createFieldErrMessage = "failed to create field"
	updateFieldErrMessage = "failed to update field"
)

func NewFieldController(
	fieldService usecases.FieldService,
	cascadeService usecases.CascadeService,
	migrationService usecases.MigrationService,
) *FieldController {
	return &FieldController{
		fieldService:     fieldService,
		cascadeService:   cascadeService,
		migrationService: migrationService,
	}
}

var _ httpserver.Controller = &FieldController{}

type FieldController struct {
	fieldService     usecases.FieldService
	cascadeService   usecases.CascadeService
	migrationService usecases.MigrationService
}

func (c *FieldController) AddRoutes(router *http.ServeMux) {
	router.Handle("POST /v1/forms/{formID}/fields", c.createField())
	router.Handle("GET /v1/forms/{formID}/fields", c.listFields())
	router.Handle("GET /v1/fields/{fieldID}", c.getField())
	router.Handle("PATCH /v1/fields/{fieldID}", c.updateField())
	router.Handle("DELETE /v1/fields/{fieldID}", c.deleteField())
	router.Handle("GET /v1/fields/{fieldID}/status", c.fieldStatus())
	router.Handle("POST /v1/fields/{fieldID}/publish", c.publishField())
	router.Handle("POST /v1/fields/{fieldID}/unpublish", c.unpublishField())
	router.Handle("POST /v1/fields/{fieldID}/duplicate", c.duplicateField())
	router.Handle("POST /v1/fields/{fieldID}/migrate", c.migrateField())
	router.Handle("POST /v1/migrations", c.migrateAll())
	router.Handle("POST /v1/fields/{fieldID}/options", c.createOption())
	router.Handle("GET /v1/fields/{fieldID}/options", c.listOptions())
	router.Handle("POST /v1/fields/{fieldID}/rules", c.createRule())
	router.Handle("GET /v1/fields/{fieldID}/rules", c.listRules())
}

// stageFromRequest resolves the ?stage= query parameter, defaulting to draft
// for the editing surface.
func stageFromRequest(r *http.Request) domain.Stage {
	stage := domain.Stage(httpserver.GetQueryParam(r, "stage"))
	if stage == "" {
		return domain.StageDraft
	}
	return stage
}

// replyDomainError maps the service error taxonomy onto HTTP statuses.
func replyDomainError(w http.ResponseWriter, err error) {
	var partial *usecases.PartialCascadeError

	switch {
	case errors.Is(err, usecases.ErrFieldNotFound),
		errors.Is(err, usecases.ErrFormNotFound):
		httpserver.ReplyWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, usecases.ErrParentFormNotFound),
		errors.Is(err, usecases.ErrStageInvalid),
		errors.Is(err, usecases.ErrConditionFieldInvalid),
		errors.Is(err, usecases.ErrOptionsNotSupported),
		errors.Is(err, domain.ErrUnknownKind),
		errors.Is(err, domain.ErrUnknownRuleOperator),
		errors.Is(err, domain.ErrSelfReferencingRule),
		errors.Is(err, domain.ErrMissingOptionLabel):
		httpserver.ReplyWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, usecases.ErrFieldHasChildren),
		errors.Is(err, usecases.ErrDuplicateFieldName):
		httpserver.ReplyWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, usecases.ErrMalformedSettings):
		httpserver.ReplyWithError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &partial):
		httpserver.ReplyWithError(w, http.StatusConflict, partial.Error())
	default:
		httpserver.ReplyWithError(w, http.StatusInternalServerError, "internal error")
	}
}

func (c *FieldController) createField() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.FieldCreateRequest
		err := httpserver.DecodeJSONBody(r, &body)
		if err != nil {
			http.Error(w, createFieldErrMessage, http.StatusBadRequest)
			return
		}

		field, err := domain.NewFieldDefinitionBuilder().
			WithParent(domain.ID(r.PathValue("formID"))).
			WithKind(domain.Kind(body.Kind)).
			WithName(body.Name).
			WithTitle(body.Title).
			WithDefault(body.Default).
			WithRequired(body.Required).
			WithCustomErrorMessage(body.CustomErrorMessage).
			WithLegacySettings(body.LegacySettings).
			Build()
		if err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		created, err := c.fieldService.CreateField(r.Context(), field)
		if err != nil {
			replyDomainError(w, err)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusCreated, internal.FromFieldDefinition(created))
	}
}

func (c *FieldController) listFields() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, err := c.fieldService.FieldsByParent(r.Context(), domain.ID(r.PathValue("formID")), stageFromRequest(r))
		if err != nil {
			replyDomainError(w, err)
			return
		}

		response := internal.FieldListResponse{Data: make([]internal.FieldResponse, len(fields))}
		for i, field := range fields {
			response.Data[i] = internal.FromFieldDefinition(field)
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, response)
	}
}

func (c *FieldController) getField() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		field, err := c.fieldService.GetField(r.Context(), domain.ID(r.PathValue("fieldID")), stageFromRequest(r))
		if err != nil {
			replyDomainError(w, err)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.FromFieldDefinition(field))
	}
}

func (c *FieldController) updateField() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.FieldUpdateRequest
		err := httpserver.DecodeJSONBody(r, &body)
		if err != nil {
			http.Error(w, updateFieldErrMessage, http.StatusBadRequest)
			return
		}

		current, err := c.fieldService.GetField(r.Context(), domain.ID(r.PathValue("fieldID")), domain.StageDraft)
		if err != nil {
			replyDomainError(w, err)
			return
		}

		updated, err := c.fieldService.UpdateField(r.Context(), body.Apply(current))
		if err != nil {
			replyDomainError(w, err)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.FromFieldDefinition(updated))
	}
}

func (c *FieldController) deleteField() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := c.cascadeService.Delete(r.Context(), domain.ID(r.PathValue("fieldID")))
		if err != nil {
			replyDomainError(w, err)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusNoContent, nil)
	}
}

func (c *FieldController) fieldStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		modified, err := c.fieldService.IsModifiedOnStage(r.Context(), domain.ID(r.PathValue("fieldID")))
		if err != nil {
			replyDomainError(w, err)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.FieldStatusResponse{Modified: modified})
	}
}

func (c *FieldController) publishField() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := c.cascadeService.Publish(r.Context(), domain.ID(r.PathValue("fieldID")))
		if err != nil {
			replyDomainError(w, err)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusNoContent, nil)
	}
}

func (c *FieldController) unpublishField() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stage := domain.Stage(httpserver.GetQueryParam(r, "stage"))
		if stage == "" {
			stage = domain.StageLive
		}

		err := c.cascadeService.Unpublish(r.Context(), domain.ID(r.PathValue("fieldID")), stage)
		if err != nil {
			replyDomainError(w, err)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusNoContent, nil)
	}
}

func (c *FieldController) duplicateField() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		copied, err := c.cascadeService.Duplicate(r.Context(), domain.ID(r.PathValue("fieldID")))
		if err != nil {
			replyDomainError(w, err)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusCreated, internal.FromFieldDefinition(copied))
	}
}

func (c *FieldController) migrateField() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		field, err := c.migrationService.Migrate(r.Context(), domain.ID(r.PathValue("fieldID")))
		if err != nil {
			replyDomainError(w, err)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.FromFieldDefinition(field))
	}
}

func (c *FieldController) migrateAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := c.migrationService.MigrateAll(r.Context())
		if err != nil {
			replyDomainError(w, err)
			return
		}

		response := internal.MigrationReportResponse{
			Scanned:   report.Scanned,
			Migrated:  report.Migrated,
			Skipped:   report.Skipped,
			Malformed: make([]string, len(report.Malformed)),
		}
		for i, id := range report.Malformed {
			response.Malformed[i] = id.String()
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, response)
	}
}

func (c *FieldController) createOption() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.OptionCreateRequest
		err := httpserver.DecodeJSONBody(r, &body)
		if err != nil {
			http.Error(w, "failed to create option", http.StatusBadRequest)
			return
		}

		option, err := domain.NewOptionValueBuilder().
			WithField(domain.ID(r.PathValue("fieldID"))).
			WithLabel(body.Label).
			WithIsDefault(body.IsDefault).
			Build()
		if err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		created, err := c.fieldService.AddOption(r.Context(), option)
		if err != nil {
			replyDomainError(w, err)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusCreated, internal.FromOptionValue(created))
	}
}

func (c *FieldController) listOptions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		options, err := c.fieldService.OptionsByField(r.Context(), domain.ID(r.PathValue("fieldID")), stageFromRequest(r))
		if err != nil {
			replyDomainError(w, err)
			return
		}

		response := internal.OptionListResponse{Data: make([]internal.OptionResponse, len(options))}
		for i, option := range options {
			response.Data[i] = internal.FromOptionValue(option)
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, response)
	}
}

func (c *FieldController) createRule() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.RuleCreateRequest
		err := httpserver.DecodeJSONBody(r, &body)
		if err != nil {
			http.Error(w, "failed to create rule", http.StatusBadRequest)
			return
		}

		builder := domain.NewDisplayRuleBuilder().
			WithField(domain.ID(r.PathValue("fieldID"))).
			WithConditionField(domain.ID(body.ConditionFieldID)).
			WithValue(body.Value)
		if body.Operator != "" {
			builder = builder.WithOperator(domain.RuleOperator(body.Operator))
		}

		rule, err := builder.Build()
		if err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		created, err := c.fieldService.AddRule(r.Context(), rule)
		if err != nil {
			replyDomainError(w, err)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusCreated, internal.FromDisplayRule(created))
	}
}

func (c *FieldController) listRules() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rules, err := c.fieldService.RulesByField(r.Context(), domain.ID(r.PathValue("fieldID")), stageFromRequest(r))
		if err != nil {
			replyDomainError(w, err)
			return
		}

		response := internal.RuleListResponse{Data: make([]internal.RuleResponse, len(rules))}
		for i, rule := range rules {
			response.Data[i] = internal.FromDisplayRule(rule)
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, response)
	}
}
