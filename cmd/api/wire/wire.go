//go:build wireinject
// +build wireinject

package wire

import (
	"formfield-server/internal/control_plane/httpapi"
	"formfield-server/internal/control_plane/persistence"
	"formfield-server/internal/control_plane/usecases"
	"formfield-server/internal/infra/async"

	"github.com/google/wire"
)

func InitializeFormController() (*httpapi.FormController, error) {
	wire.Build(
		provideAppConfig,
		provideORM,
		persistence.NewFormRepository,
		wire.Bind(new(usecases.FormDirectory), new(*persistence.SimpleFormRepository)),
		usecases.NewFormService,
		wire.Bind(new(usecases.FormService), new(*usecases.SimpleFormService)),
		httpapi.NewFormController,
	)
	return nil, nil
}

func InitializeFieldController(broker async.InternalBroker) (*httpapi.FieldController, error) {
	wire.Build(
		provideAppConfig,
		provideORM,
		persistence.NewFieldRepository,
		wire.Bind(new(usecases.FieldRepository), new(*persistence.SimpleFieldRepository)),
		persistence.NewFormRepository,
		wire.Bind(new(usecases.FormDirectory), new(*persistence.SimpleFormRepository)),
		usecases.NewFieldService,
		wire.Bind(new(usecases.FieldService), new(*usecases.SimpleFieldService)),
		usecases.NewCascadeService,
		wire.Bind(new(usecases.CascadeService), new(*usecases.SimpleCascadeService)),
		usecases.NewMigrationService,
		wire.Bind(new(usecases.MigrationService), new(*usecases.SimpleMigrationService)),
		httpapi.NewFieldController,
	)
	return nil, nil
}

func InitializeSubmissionController() (*httpapi.SubmissionController, error) {
	wire.Build(
		provideAppConfig,
		provideORM,
		persistence.NewFieldRepository,
		wire.Bind(new(usecases.FieldRepository), new(*persistence.SimpleFieldRepository)),
		usecases.NewValidationService,
		wire.Bind(new(usecases.ValidationService), new(*usecases.SimpleValidationService)),
		httpapi.NewSubmissionController,
	)
	return nil, nil
}

func InitializeFieldEventsWebSocketController(broker async.InternalBroker) (*httpapi.FieldEventsWebSocketController, error) {
	wire.Build(
		httpapi.NewFieldEventsWebSocketController,
	)
	return nil, nil
}

func InitializeMigrationWorker(broker async.InternalBroker) (*usecases.MigrationWorker, error) {
	wire.Build(
		provideAppConfig,
		provideORM,
		provideMigrationTicker,
		provideMigrationSchedule,
		persistence.NewFieldRepository,
		wire.Bind(new(usecases.FieldRepository), new(*persistence.SimpleFieldRepository)),
		usecases.NewMigrationService,
		wire.Bind(new(usecases.MigrationService), new(*usecases.SimpleMigrationService)),
		usecases.NewMigrationWorker,
	)
	return nil, nil
}
