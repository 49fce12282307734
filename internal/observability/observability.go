// Package observability provides the root logger for the application.
package observability

import (
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewLogger() (*zap.Logger, error) {
	if os.Getenv("SKYHARBOR_ENV") == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

var Module = fx.Module("observability",
	fx.Provide(NewLogger),
)
