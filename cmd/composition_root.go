package cmd

import (
	"log/slog"

	"gorm.io/gorm"

	"fieldwork/internal/adapters/out/geo"
	"fieldwork/internal/adapters/out/notify"
	"fieldwork/internal/adapters/out/postgres"
	"fieldwork/internal/core/application/usecases/commands"
	"fieldwork/internal/core/application/usecases/queries"
	"fieldwork/internal/core/ports"
	"fieldwork/internal/jobs"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	geocoder   ports.Geocoder
	notifier   ports.Notifier
	logger     *slog.Logger
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	geocoder, err := geo.NewNominatimGeocoder(configs.GeocoderBaseURL, configs.GeocoderUserAgent)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		geocoder:   geocoder,
		notifier:   notify.NewWebhookNotifier(configs.NotifierWebhookURL, logger),
		logger:     logger,
	}, nil
}

func (c *CompositionRoot) CreateCreateWorkerCommandHandler() commands.CreateWorkerCommandHandler {
	var f commands.WorkerUoWFactory = FuncWorkerUoWFactory(func() commands.WorkerUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateWorkerCommandHandler(f)
}

func (c *CompositionRoot) CreateCreateJobCommandHandler() commands.CreateJobCommandHandler {
	return commands.NewCreateJobCommandHandler(c.fullUoWFactory(), c.geocoder)
}

func (c *CompositionRoot) CreateStartJobCommandHandler() commands.StartJobCommandHandler {
	return commands.NewStartJobCommandHandler(c.jobUoWFactory())
}

func (c *CompositionRoot) CreateCompleteJobCommandHandler() commands.CompleteJobCommandHandler {
	return commands.NewCompleteJobCommandHandler(c.fullUoWFactory(), c.notifier)
}

func (c *CompositionRoot) CreateCancelJobCommandHandler() commands.CancelJobCommandHandler {
	return commands.NewCancelJobCommandHandler(c.jobUoWFactory())
}

func (c *CompositionRoot) CreateDeleteJobCommandHandler() commands.DeleteJobCommandHandler {
	return commands.NewDeleteJobCommandHandler(c.jobUoWFactory())
}

func (c *CompositionRoot) CreateImportJobsCommandHandler() commands.ImportJobsCommandHandler {
	return commands.NewImportJobsCommandHandler(c.fullUoWFactory(), c.geocoder, c.notifier)
}

func (c *CompositionRoot) CreateGetWorkerRouteQueryHandler() queries.GetWorkerRouteQueryHandler {
	return queries.NewGetWorkerRouteQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateWageReportQueryHandler() queries.WageReportQueryHandler {
	return queries.NewWageReportQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateMileageReportQueryHandler() queries.MileageReportQueryHandler {
	return queries.NewMileageReportQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager(configs Config) *jobs.JobManager {
	return jobs.NewJobManager(c.gormDB, c.notifier, configs.BroadcastSchedule, c.logger)
}

func (c *CompositionRoot) jobUoWFactory() commands.JobUoWFactory {
	return FuncJobUoWFactory(func() commands.JobUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) fullUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

type FuncJobUoWFactory func() commands.JobUoW

func (f FuncJobUoWFactory) Create() commands.JobUoW {
	return f()
}

type FuncWorkerUoWFactory func() commands.WorkerUoW

func (f FuncWorkerUoWFactory) Create() commands.WorkerUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
