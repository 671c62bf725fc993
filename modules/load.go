package modules

import (
	"github.com/fullcircle-hr/fullcircle/modules/feedback"
	"github.com/fullcircle-hr/fullcircle/pkg/application"
)

var BuiltInModules = []application.Module{
	feedback.NewModule(),
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
