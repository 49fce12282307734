package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/skyharborlabs/skyharbor/internal/aircraft"
	"github.com/skyharborlabs/skyharbor/internal/booking"
	"github.com/skyharborlabs/skyharbor/internal/clock"
	"github.com/skyharborlabs/skyharbor/internal/config"
	"github.com/skyharborlabs/skyharbor/internal/migration"
	"github.com/skyharborlabs/skyharbor/internal/notification"
	"github.com/skyharborlabs/skyharbor/internal/observability"
	"github.com/skyharborlabs/skyharbor/internal/pricingrule"
	"github.com/skyharborlabs/skyharbor/internal/quote"
	"github.com/skyharborlabs/skyharbor/internal/redis"
	"github.com/skyharborlabs/skyharbor/internal/route"
	"github.com/skyharborlabs/skyharbor/internal/scheduler"
	"github.com/skyharborlabs/skyharbor/internal/search"
	"github.com/skyharborlabs/skyharbor/internal/seed"
	"github.com/skyharborlabs/skyharbor/internal/server"
	"github.com/skyharborlabs/skyharbor/pkg/db"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		redis.Module,
		migration.Module,
		seed.Module,

		// Functional domains
		route.Module,
		pricingrule.Module,
		aircraft.Module,
		notification.Module,
		quote.Module,
		booking.Module,
		search.Module,
		scheduler.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
