package application

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/acq-directory/pkg/eventbus"
	"github.com/iota-uz/acq-directory/pkg/spotlight"
)

type ApplicationOptions struct {
	EventBus eventbus.EventBus
	Logger   *logrus.Logger
}

func New(opts *ApplicationOptions) Application {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	bus := opts.EventBus
	if bus == nil {
		bus = eventbus.NewEventPublisher(logger)
	}

	sl := spotlight.New()
	quickLinks := &spotlight.QuickLinks{}
	sl.Register(quickLinks)

	return &application{
		logger:         logger,
		eventPublisher: bus,
		controllers:    make(map[string]Controller),
		services:       make(map[reflect.Type]interface{}),
		quickLinks:     quickLinks,
		spotlight:      sl,
	}
}

// application with a dynamically extendable service registry
type application struct {
	logger         *logrus.Logger
	eventPublisher eventbus.EventBus
	services       map[reflect.Type]interface{}
	controllers    map[string]Controller
	middleware     []mux.MiddlewareFunc
	spotlight      spotlight.Spotlight
	quickLinks     *spotlight.QuickLinks

	shutdownOnce sync.Once
	shutdown     []func()
}

func (app *application) Logger() *logrus.Logger {
	return app.logger
}

func (app *application) Spotlight() spotlight.Spotlight {
	return app.spotlight
}

func (app *application) QuickLinks() *spotlight.QuickLinks {
	return app.quickLinks
}

func (app *application) Middleware() []mux.MiddlewareFunc {
	return app.middleware
}

func (app *application) EventPublisher() eventbus.EventBus {
	return app.eventPublisher
}

// Controllers returns the registered controllers ordered by key.
func (app *application) Controllers() []Controller {
	keys := make([]string, 0, len(app.controllers))
	for k := range app.controllers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	controllers := make([]Controller, 0, len(app.controllers))
	for _, k := range keys {
		controllers = append(controllers, app.controllers[k])
	}
	return controllers
}

func (app *application) RegisterControllers(controllers ...Controller) {
	for _, c := range controllers {
		app.controllers[c.Key()] = c
	}
}

func (app *application) RegisterMiddleware(middleware ...mux.MiddlewareFunc) {
	app.middleware = append(app.middleware, middleware...)
}

// RegisterServices registers a new service in the application by its type
func (app *application) RegisterServices(services ...interface{}) {
	for _, service := range services {
		serviceType := reflect.TypeOf(service).Elem()
		app.services[serviceType] = service
	}
}

// Service retrieves a service by its type
func (app *application) Service(service interface{}) interface{} {
	serviceType := reflect.TypeOf(service)
	svc, exists := app.services[serviceType]
	if !exists {
		panic(fmt.Sprintf("service %s not found", serviceType.Name()))
	}
	return svc
}

func (app *application) Services() map[reflect.Type]interface{} {
	return app.services
}

func (app *application) RegisterShutdownHooks(hooks ...func()) {
	app.shutdown = append(app.shutdown, hooks...)
}

// Shutdown runs the registered hooks in reverse order, once.
func (app *application) Shutdown() {
	app.shutdownOnce.Do(func() {
		for i := len(app.shutdown) - 1; i >= 0; i-- {
			app.shutdown[i]()
		}
	})
}
