package directory

import (
	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/acq-directory/modules/directory/infrastructure/source"
	"github.com/iota-uz/acq-directory/modules/directory/presentation/controllers"
	"github.com/iota-uz/acq-directory/modules/directory/services"
	"github.com/iota-uz/acq-directory/pkg/application"
	"github.com/iota-uz/acq-directory/pkg/configuration"
)

type ModuleOptions struct {
	Directory configuration.DirectoryOptions
	// Source overrides the source derived from Directory.DataDir and Directory.SourceURL.
	Source services.DirectorySource
}

func NewModule(opts *ModuleOptions) application.Module {
	if opts == nil {
		opts = &ModuleOptions{}
	}
	return &Module{options: opts}
}

type Module struct {
	options *ModuleOptions
}

func (m *Module) Register(app application.Application) error {
	dirOpts := m.options.Directory

	src := m.options.Source
	if src == nil {
		base, err := source.New(dirOpts.DataDir, dirOpts.SourceURL)
		if err != nil {
			return errors.Wrap(err, "directory source")
		}
		src = source.NewLoader(base, source.LoaderOptions{
			PersonsFile:       dirOpts.PersonsFile,
			RelationshipsFile: dirOpts.RelationshipsFile,
			Persons: source.PersonOptions{
				Deduplicate:       dirOpts.Deduplicate,
				InferMissionAreas: dirOpts.InferMissionAreas,
				StrictEnums:       dirOpts.StrictEnums,
				Logger:            app.Logger().WithField("component", "directory.ingest"),
			},
		})
	}

	directoryService := services.NewDirectoryService(
		src,
		services.DirectoryServiceOptions{LoadTimeout: dirOpts.LoadTimeout},
		app.EventPublisher(),
		app.Logger(),
	)
	app.RegisterServices(directoryService)

	if dirOpts.ReloadSchedule != "" {
		scheduler, err := services.NewReloadScheduler(dirOpts.ReloadSchedule, directoryService, dirOpts.LoadTimeout, app.Logger())
		if err != nil {
			return err
		}
		app.RegisterServices(scheduler)
		scheduler.Start()
		app.RegisterShutdownHooks(scheduler.Stop)
	}

	subscribeLoadEvents(app)

	app.RegisterControllers(
		controllers.NewDirectoryAPIController(app),
	)
	app.QuickLinks().Add(QuickLinks...)
	app.Spotlight().Register(newOrganizationDataSource(directoryService))
	return nil
}

func (m *Module) Name() string {
	return "directory"
}

func subscribeLoadEvents(app application.Application) {
	log := app.Logger().WithField("component", "directory.events")
	app.EventPublisher().Subscribe(func(e *services.DirectoryLoadedEvent) {
		log.WithFields(logrus.Fields{
			"event_id": e.EventID.String(),
			"source":   e.Source,
			"persons":  e.Persons,
		}).Debug("snapshot swapped")
	})
	app.EventPublisher().Subscribe(func(e *services.DirectoryLoadFailedEvent) {
		log.WithFields(logrus.Fields{
			"event_id": e.EventID.String(),
			"source":   e.Source,
			"table":    e.Table,
		}).Debug("snapshot cleared after failed load")
	})
}
