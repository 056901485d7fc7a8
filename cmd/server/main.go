package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/iota-uz/acq-directory/internal/server"
	"github.com/iota-uz/acq-directory/modules"
	"github.com/iota-uz/acq-directory/modules/directory/services"
	"github.com/iota-uz/acq-directory/pkg/application"
	"github.com/iota-uz/acq-directory/pkg/configuration"
	"github.com/iota-uz/acq-directory/pkg/eventbus"
	"github.com/iota-uz/acq-directory/pkg/logging"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()
	defer conf.Unload()

	if conf.OpenTelemetry.Enabled {
		tracingCleanup := logging.SetupTracing(
			context.Background(),
			conf.OpenTelemetry.ServiceName,
			conf.OpenTelemetry.TempoURL,
		)
		defer tracingCleanup()
		logger.Info("OpenTelemetry tracing enabled, exporting to Tempo at " + conf.OpenTelemetry.TempoURL)
	}

	app := application.New(&application.ApplicationOptions{
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	defer app.Shutdown()

	if err := modules.Load(app, modules.BuiltInModules(conf)...); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}

	serverInstance, err := server.Default(&server.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
	})
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Data endpoints answer 503 and /health reports the state until a load
	// succeeds, here or through POST /directory/api/reload and the schedule.
	directory := app.Service(services.DirectoryService{}).(*services.DirectoryService)
	go func() {
		if _, err := directory.Load(ctx); err != nil {
			logger.WithError(err).Warn("initial directory load failed")
		}
	}()

	log.Printf("Listening on: %s\n", conf.Origin)
	if err := serverInstance.Serve(ctx, conf.SocketAddress); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
