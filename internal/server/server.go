// Package server exposes the HTTP surface: search, the quote and booking
// lifecycle, and the operator-facing catalog endpoints.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	aircraftservice "github.com/skyharborlabs/skyharbor/internal/aircraft/service"
	bookingservice "github.com/skyharborlabs/skyharbor/internal/booking/service"
	"github.com/skyharborlabs/skyharbor/internal/config"
	pricingruleservice "github.com/skyharborlabs/skyharbor/internal/pricingrule/service"
	"github.com/skyharborlabs/skyharbor/internal/principal"
	quoteservice "github.com/skyharborlabs/skyharbor/internal/quote/service"
	routeservice "github.com/skyharborlabs/skyharbor/internal/route/service"
	searchservice "github.com/skyharborlabs/skyharbor/internal/search/service"
	userdomain "github.com/skyharborlabs/skyharbor/internal/user/domain"
	userrepo "github.com/skyharborlabs/skyharbor/internal/user/repository"
)

type Server struct {
	log *zap.Logger
	db  *gorm.DB

	users userdomain.Repository

	searchSvc   *searchservice.Service
	quoteSvc    *quoteservice.Service
	bookingSvc  *bookingservice.Service
	routeSvc    *routeservice.Service
	aircraftSvc *aircraftservice.Service
	ruleSvc     *pricingruleservice.Service
}

type NewServerParam struct {
	fx.In

	Log *zap.Logger
	DB  *gorm.DB

	SearchSvc   *searchservice.Service
	QuoteSvc    *quoteservice.Service
	BookingSvc  *bookingservice.Service
	RouteSvc    *routeservice.Service
	AircraftSvc *aircraftservice.Service
	RuleSvc     *pricingruleservice.Service
}

func NewServer(p NewServerParam) *Server {
	return &Server{
		log:         p.Log.Named("server"),
		db:          p.DB,
		users:       userrepo.NewRepository(p.DB),
		searchSvc:   p.SearchSvc,
		quoteSvc:    p.QuoteSvc,
		bookingSvc:  p.BookingSvc,
		routeSvc:    p.RouteSvc,
		aircraftSvc: p.AircraftSvc,
		ruleSvc:     p.RuleSvc,
	}
}

func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())
	router.Use(s.metricsMiddleware())

	router.GET("/healthz", s.Healthz)
	router.GET("/readyz", s.Readyz)
	router.GET("/metrics", metricsHandler())

	v1 := router.Group("/api/v1")

	// Search is anonymous: prospective customers browse before signing up.
	v1.POST("/search", s.SearchAircraft)
	v1.GET("/search/route-distance", s.GetRouteDistance)

	authed := v1.Group("", s.AuthRequired())
	{
		authed.GET("/quotes/:id", s.GetQuote)
		authed.POST("/quotes/:id/accept", s.RequireRole(principal.RoleCustomer), s.AcceptQuote)

		authed.POST("/bookings", s.RequireRole(principal.RoleCustomer), s.CreateBooking)
		authed.GET("/bookings/:id", s.GetBooking)
		authed.POST("/bookings/:id/reschedule", s.RequireRole(principal.RoleCustomer), s.RequestReschedule)
	}

	operator := v1.Group("", s.AuthRequired(), s.RequireRole(principal.RoleOperator))
	{
		operator.POST("/quotes", s.CreateQuote)
		operator.POST("/quotes/:id/send", s.SendQuote)

		operator.PATCH("/bookings/:id/reschedule/:requestId", s.DecideReschedule)

		operator.GET("/routes", s.ListRoutes)
		operator.PUT("/routes", s.UpsertRoute)

		operator.POST("/aircraft", s.CreateAircraft)
		operator.GET("/aircraft", s.ListAircraft)
		operator.GET("/aircraft/:id", s.GetAircraft)
		operator.PATCH("/aircraft/:id/availability", s.SetAircraftAvailability)

		operator.POST("/pricing-rules", s.CreatePricingRule)
		operator.GET("/pricing-rules", s.ListPricingRules)
		operator.GET("/pricing-rules/active", s.GetActivePricingRule)
		operator.GET("/pricing-rules/:id", s.GetPricingRule)
		operator.POST("/pricing-rules/:id/activate", s.ActivatePricingRule)
	}

	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// RunHTTP binds the router to the configured address and ties the listener's
// lifetime to the fx application.
func RunHTTP(lc fx.Lifecycle, s *Server, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(RunHTTP),
)
