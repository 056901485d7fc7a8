package application

import (
	"reflect"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/acq-directory/pkg/eventbus"
	"github.com/iota-uz/acq-directory/pkg/spotlight"
)

// Controller mounts a group of routes.
type Controller interface {
	Register(r *mux.Router)
	Key() string
}

// Module wires services and controllers into an Application.
type Module interface {
	Register(app Application) error
	Name() string
}

// Application is the registry shared by modules, the HTTP server and the CLI.
type Application interface {
	Logger() *logrus.Logger
	EventPublisher() eventbus.EventBus
	Spotlight() spotlight.Spotlight
	QuickLinks() *spotlight.QuickLinks
	Controllers() []Controller
	Middleware() []mux.MiddlewareFunc
	RegisterControllers(controllers ...Controller)
	RegisterMiddleware(middleware ...mux.MiddlewareFunc)
	RegisterServices(services ...interface{})
	Service(service interface{}) interface{}
	Services() map[reflect.Type]interface{}
	RegisterShutdownHooks(hooks ...func())
	Shutdown()
}
