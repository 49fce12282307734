package aircraft

import (
	"go.uber.org/fx"

	"github.com/skyharborlabs/skyharbor/internal/aircraft/service"
)

var Module = fx.Module("aircraft.service",
	fx.Provide(service.NewService),
)
