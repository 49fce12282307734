package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	routedomain "github.com/skyharborlabs/skyharbor/internal/route/domain"
	"github.com/skyharborlabs/skyharbor/internal/route/repository"
)

const cacheTTL = time.Hour

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  routedomain.Repository
	cache *redis.Client
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node `optional:"true"`
	Cache *redis.Client   `optional:"true"`
}

func NewService(p ServiceParam) *Service {
	return &Service{
		log:   p.Log.Named("route.service"),
		genID: p.GenID,
		repo:  repository.NewRepository(p.DB),
		cache: p.Cache,
	}
}

// Resolve looks up the directed distance between two location codes. Codes
// are normalized to upper case before lookup. A miss yields ErrRouteNotFound;
// no coordinate-based fallback is ever computed.
func (s *Service) Resolve(ctx context.Context, origin, destination string) (*routedomain.Distance, error) {
	origin = strings.ToUpper(strings.TrimSpace(origin))
	destination = strings.ToUpper(strings.TrimSpace(destination))
	if origin == "" || destination == "" {
		return nil, routedomain.ErrInvalidRoute
	}

	if cached := s.fromCache(ctx, origin, destination); cached != nil {
		return cached, nil
	}

	route, err := s.repo.FindByPair(ctx, origin, destination)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, routedomain.ErrRouteNotFound
	}

	dist := &routedomain.Distance{
		Origin:         route.Origin,
		Destination:    route.Destination,
		DistanceKM:     route.DistanceKM,
		EstimatedHours: route.EstimatedHours,
	}
	s.toCache(ctx, dist)
	return dist, nil
}

func (s *Service) Upsert(ctx context.Context, route *routedomain.Route) error {
	route.Origin = strings.ToUpper(strings.TrimSpace(route.Origin))
	route.Destination = strings.ToUpper(strings.TrimSpace(route.Destination))
	if route.Origin == "" || route.Destination == "" || route.DistanceKM <= 0 {
		return routedomain.ErrInvalidRoute
	}
	if route.ID == 0 && s.genID != nil {
		route.ID = s.genID.Generate()
	}
	if err := s.repo.Upsert(ctx, route); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, cacheKey(route.Origin, route.Destination)).Err()
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]routedomain.Route, error) {
	return s.repo.List(ctx)
}

// Cache failures are never allowed to fail a lookup.
func (s *Service) fromCache(ctx context.Context, origin, destination string) *routedomain.Distance {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, cacheKey(origin, destination)).Bytes()
	if err != nil {
		return nil
	}
	var dist routedomain.Distance
	if err := json.Unmarshal(raw, &dist); err != nil {
		return nil
	}
	return &dist
}

func (s *Service) toCache(ctx context.Context, dist *routedomain.Distance) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(dist)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(dist.Origin, dist.Destination), raw, cacheTTL).Err(); err != nil {
		s.log.Debug("route cache write failed", zap.Error(err))
	}
}

func cacheKey(origin, destination string) string {
	return "route:" + origin + ":" + destination
}
