package route

import (
	"go.uber.org/fx"

	routedomain "github.com/skyharborlabs/skyharbor/internal/route/domain"
	"github.com/skyharborlabs/skyharbor/internal/route/service"
)

var Module = fx.Module("route.service",
	fx.Provide(
		service.NewService,
		func(s *service.Service) routedomain.Resolver { return s },
	),
)
