package booking

import (
	"go.uber.org/fx"

	"github.com/skyharborlabs/skyharbor/internal/booking/service"
	notificationservice "github.com/skyharborlabs/skyharbor/internal/notification/service"
)

var Module = fx.Module("booking.service",
	fx.Provide(
		service.NewService,
		func(n *notificationservice.Notifier) service.Notifier { return n },
	),
)
