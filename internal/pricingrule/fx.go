package pricingrule

import (
	"go.uber.org/fx"

	"github.com/skyharborlabs/skyharbor/internal/pricingrule/service"
)

var Module = fx.Module("pricingrule.service",
	fx.Provide(service.NewService),
)
