package notification

import (
	"go.uber.org/fx"

	"github.com/skyharborlabs/skyharbor/internal/notification/service"
)

var Module = fx.Module("notification.service",
	fx.Provide(service.NewNotifier),
)
