package server

import (
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/acq-directory/pkg/application"
	"github.com/iota-uz/acq-directory/pkg/configuration"
	"github.com/iota-uz/acq-directory/pkg/httpapi"
	"github.com/iota-uz/acq-directory/pkg/metrics"
	"github.com/iota-uz/acq-directory/pkg/middleware"
	"github.com/iota-uz/acq-directory/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
}

func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application
	conf := options.Configuration

	loggerOpts := middleware.DefaultLoggerOptions()
	loggerOpts.RequestIDHeader = conf.RequestIDHeader
	loggerOpts.RealIPHeader = conf.RealIPHeader

	// WithLogger creates the root span for each request.
	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(options.Logger, loggerOpts),
		middleware.TracedMiddleware("cors"),
		middleware.Cors(conf.Cors.AllowedOrigins...),
	}

	if conf.RateLimit.Enabled {
		middlewares = append(middlewares,
			middleware.TracedMiddleware("rateLimit"),
			middleware.RateLimit(middleware.RateLimitConfig{
				RequestsPerPeriod: conf.RateLimit.GlobalRPS,
				Store:             middleware.NewMemoryStore(),
			}),
		)
	}
	app.RegisterMiddleware(middlewares...)

	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	return server.NewHTTPServer(
		app,
		httpapi.NotFoundHandler(),
		httpapi.MethodNotAllowedHandler(),
	), nil
}
