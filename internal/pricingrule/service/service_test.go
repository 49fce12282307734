package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/skyharborlabs/skyharbor/internal/clock"
	ruledomain "github.com/skyharborlabs/skyharbor/internal/pricingrule/domain"
)

func newTestService(t *testing.T, c clock.Clock) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&ruledomain.PricingRule{}))
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	if c == nil {
		c = clock.SystemClock{}
	}
	return NewService(ServiceParam{DB: db, Log: zap.NewNop(), Clock: c, GenID: node})
}

func TestActiveDefaultsToZeroRule(t *testing.T) {
	s := newTestService(t, nil)
	rule, err := s.Active(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, rule.MarginPercent)
	assert.Equal(t, 0.0, rule.Fees.GroundHandling)
	assert.Equal(t, "USD", rule.Currency)
}

func TestActivateKeepsSingleActiveRule(t *testing.T) {
	s := newTestService(t, nil)
	ctx := context.Background()

	first, err := s.Create(ctx, &ruledomain.PricingRule{Name: "standard", MarginPercent: 20})
	require.NoError(t, err)
	second, err := s.Create(ctx, &ruledomain.PricingRule{Name: "summer", MarginPercent: 25})
	require.NoError(t, err)

	_, err = s.Activate(ctx, first.ID.String())
	require.NoError(t, err)
	_, err = s.Activate(ctx, second.ID.String())
	require.NoError(t, err)

	rules, err := s.List(ctx)
	require.NoError(t, err)
	active := 0
	for _, r := range rules {
		if r.IsActive {
			active++
			assert.Equal(t, second.ID, r.ID)
		}
	}
	assert.Equal(t, 1, active)

	snapshot, err := s.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25.0, snapshot.MarginPercent)
}

func TestActivateUnknownRule(t *testing.T) {
	s := newTestService(t, nil)
	_, err := s.Activate(context.Background(), "123456789")
	assert.ErrorIs(t, err, ruledomain.ErrRuleNotFound)
}

func TestActiveRespectsValidityWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestService(t, clock.Fixed{T: now})
	ctx := context.Background()

	expired := now.Add(-time.Hour)
	rule, err := s.Create(ctx, &ruledomain.PricingRule{Name: "old", MarginPercent: 30, ValidTo: &expired})
	require.NoError(t, err)
	_, err = s.Activate(ctx, rule.ID.String())
	require.NoError(t, err)

	snapshot, err := s.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.0, snapshot.MarginPercent)
}
