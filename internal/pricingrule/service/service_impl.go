package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/skyharborlabs/skyharbor/internal/clock"
	"github.com/skyharborlabs/skyharbor/internal/pricing"
	ruledomain "github.com/skyharborlabs/skyharbor/internal/pricingrule/domain"
	"github.com/skyharborlabs/skyharbor/internal/pricingrule/repository"
)

type Service struct {
	log   *zap.Logger
	clock clock.Clock

	genID *snowflake.Node
	repo  ruledomain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	GenID *snowflake.Node
}

func NewService(p ServiceParam) *Service {
	return &Service{
		log:   p.Log.Named("pricingrule.service"),
		clock: p.Clock,
		genID: p.GenID,
		repo:  repository.NewRepository(p.DB),
	}
}

// Active returns the snapshot of the currently active rule. When no rule is
// active, or the active rule is outside its validity window, the hard-coded
// zero-cost default applies.
func (s *Service) Active(ctx context.Context) (pricing.Rule, error) {
	rule, err := s.repo.FindActive(ctx)
	if err != nil {
		return pricing.Rule{}, err
	}
	if rule == nil || !rule.EffectiveAt(s.clock.Now(ctx)) {
		return pricing.ZeroRule(""), nil
	}
	return rule.Snapshot(), nil
}

func (s *Service) Create(ctx context.Context, rule *ruledomain.PricingRule) (*ruledomain.PricingRule, error) {
	rule.Name = strings.TrimSpace(rule.Name)
	if rule.Name == "" {
		return nil, ruledomain.ErrInvalidRule
	}
	if rule.ApplyDiscountAfterLegs <= 0 {
		rule.ApplyDiscountAfterLegs = pricing.DefaultDiscountLegThreshold
	}
	if rule.DefaultCurrency == "" {
		rule.DefaultCurrency = "USD"
	}

	rule.ID = s.genID.Generate()
	rule.IsActive = false
	if err := s.repo.Insert(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *Service) Activate(ctx context.Context, id string) (*ruledomain.PricingRule, error) {
	ruleID, err := parseID(id)
	if err != nil {
		return nil, ruledomain.ErrInvalidID
	}
	if err := s.repo.Activate(ctx, ruleID); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, ruleID)
}

func (s *Service) Get(ctx context.Context, id string) (*ruledomain.PricingRule, error) {
	ruleID, err := parseID(id)
	if err != nil {
		return nil, ruledomain.ErrInvalidID
	}
	rule, err := s.repo.FindByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ruledomain.ErrRuleNotFound
	}
	return rule, nil
}

func (s *Service) List(ctx context.Context) ([]ruledomain.PricingRule, error) {
	return s.repo.List(ctx)
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
