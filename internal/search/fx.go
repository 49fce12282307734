package search

import (
	"go.uber.org/fx"

	"github.com/skyharborlabs/skyharbor/internal/search/service"
)

var Module = fx.Module("search.service",
	fx.Provide(service.NewService),
)
