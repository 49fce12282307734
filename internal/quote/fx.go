package quote

import (
	"go.uber.org/fx"

	notificationservice "github.com/skyharborlabs/skyharbor/internal/notification/service"
	pricingruleservice "github.com/skyharborlabs/skyharbor/internal/pricingrule/service"
	"github.com/skyharborlabs/skyharbor/internal/quote/service"
)

var Module = fx.Module("quote.service",
	fx.Provide(
		service.NewService,
		func(s *pricingruleservice.Service) service.RuleSource { return s },
		func(n *notificationservice.Notifier) service.Notifier { return n },
	),
)
