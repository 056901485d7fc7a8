package modules

import (
	"github.com/iota-uz/acq-directory/modules/directory"
	"github.com/iota-uz/acq-directory/pkg/application"
	"github.com/iota-uz/acq-directory/pkg/configuration"
)

func BuiltInModules(conf *configuration.Configuration) []application.Module {
	return []application.Module{
		directory.NewModule(&directory.ModuleOptions{
			Directory: conf.Directory,
		}),
	}
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
