package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	routedomain "github.com/skyharborlabs/skyharbor/internal/route/domain"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&routedomain.Route{}))
	return NewService(ServiceParam{DB: db, Log: zap.NewNop()})
}

func seedRoute(t *testing.T, s *Service, origin, destination string, km, hours float64) {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	require.NoError(t, s.Upsert(context.Background(), &routedomain.Route{
		ID:             node.Generate(),
		Origin:         origin,
		Destination:    destination,
		DistanceKM:     km,
		EstimatedHours: hours,
	}))
}

func TestResolveNormalizesCase(t *testing.T) {
	s := newTestService(t)
	seedRoute(t, s, "vie", "LHR", 1275, 2.1)

	dist, err := s.Resolve(context.Background(), "Vie", "lhr")
	require.NoError(t, err)
	assert.Equal(t, "VIE", dist.Origin)
	assert.Equal(t, "LHR", dist.Destination)
	assert.Equal(t, 1275.0, dist.DistanceKM)
	assert.Equal(t, 2.1, dist.EstimatedHours)
}

func TestResolveIsDirectional(t *testing.T) {
	s := newTestService(t)
	seedRoute(t, s, "VIE", "LHR", 1275, 2.1)

	_, err := s.Resolve(context.Background(), "LHR", "VIE")
	assert.ErrorIs(t, err, routedomain.ErrRouteNotFound)
}

func TestResolveMiss(t *testing.T) {
	s := newTestService(t)
	_, err := s.Resolve(context.Background(), "AAA", "BBB")
	assert.ErrorIs(t, err, routedomain.ErrRouteNotFound)
}

func TestResolveRejectsEmptyCodes(t *testing.T) {
	s := newTestService(t)
	_, err := s.Resolve(context.Background(), "", "LHR")
	assert.ErrorIs(t, err, routedomain.ErrInvalidRoute)
}

func TestUpsertOverwritesExistingPair(t *testing.T) {
	s := newTestService(t)
	seedRoute(t, s, "VIE", "LHR", 1275, 2.1)
	seedRoute(t, s, "VIE", "LHR", 1300, 2.2)

	dist, err := s.Resolve(context.Background(), "VIE", "LHR")
	require.NoError(t, err)
	assert.Equal(t, 1300.0, dist.DistanceKM)

	routes, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, routes, 1)
}
