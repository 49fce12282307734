package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	aircraftdomain "github.com/skyharborlabs/skyharbor/internal/aircraft/domain"
	aircraftrepo "github.com/skyharborlabs/skyharbor/internal/aircraft/repository"
	"github.com/skyharborlabs/skyharbor/internal/pricing"
	quoteservice "github.com/skyharborlabs/skyharbor/internal/quote/service"
	routedomain "github.com/skyharborlabs/skyharbor/internal/route/domain"
	searchdomain "github.com/skyharborlabs/skyharbor/internal/search/domain"
)

// Service is a pure read/compute surface: it filters the eligible fleet and
// prices every surviving candidate against the active rule. No side effects.
type Service struct {
	log      *zap.Logger
	aircraft aircraftdomain.Repository
	resolver routedomain.Resolver
	rules    quoteservice.RuleSource
}

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Resolver routedomain.Resolver
	Rules    quoteservice.RuleSource
}

func NewService(p ServiceParam) *Service {
	return &Service{
		log:      p.Log.Named("search.service"),
		aircraft: aircraftrepo.NewRepository(p.DB),
		resolver: p.Resolver,
		rules:    p.Rules,
	}
}

func (s *Service) Search(ctx context.Context, req searchdomain.Request) (*searchdomain.Response, error) {
	if len(req.Legs) == 0 {
		return nil, searchdomain.ErrInvalidLegs
	}
	for _, leg := range req.Legs {
		if strings.TrimSpace(leg.Origin) == "" || strings.TrimSpace(leg.Destination) == "" {
			return nil, searchdomain.ErrInvalidLegs
		}
	}

	fleet, err := s.aircraft.ListEligible(ctx)
	if err != nil {
		return nil, err
	}

	// Distances are aircraft-independent, resolve each leg once. A missing
	// route is a "no offer" condition for every candidate, not a failure.
	inputs, resolvable := s.resolveLegs(ctx, req.Legs)

	rule, err := s.rules.Active(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]searchdomain.Result, 0, len(fleet))
	if resolvable {
		for i := range fleet {
			candidate := &fleet[i]
			if !matchesFilters(candidate, req.Filters) {
				continue
			}

			bd, err := pricing.Calculate(candidate.CostProfile(), inputs, rule)
			if err != nil {
				// Unpriceable candidates are excluded, never errored.
				continue
			}
			if !withinPriceRange(bd.TotalCost, req.Filters) {
				continue
			}

			results = append(results, searchdomain.Result{
				Aircraft: searchdomain.AircraftSummary{
					ID:                candidate.ID,
					TailNumber:        candidate.TailNumber,
					Category:          candidate.Category,
					Type:              candidate.Type,
					CruiseSpeed:       candidate.CruiseSpeed,
					PassengerCapacity: candidate.PassengerCapacity,
					Amenities:         candidate.Amenities,
				},
				Pricing:  bd,
				Currency: bd.Currency,
			})
		}
	}

	sortResults(results, req.Filters.SortBy)

	return &searchdomain.Response{
		Results:  results,
		Count:    len(results),
		TripType: req.TripType,
		Legs:     req.Legs,
		Filters:  req.Filters,
	}, nil
}

func (s *Service) resolveLegs(ctx context.Context, legs []searchdomain.Leg) ([]pricing.LegInput, bool) {
	inputs := make([]pricing.LegInput, 0, len(legs))
	for _, leg := range legs {
		dist, err := s.resolver.Resolve(ctx, leg.Origin, leg.Destination)
		if err != nil {
			s.log.Debug("leg not resolvable, no offers for this itinerary",
				zap.String("origin", leg.Origin),
				zap.String("destination", leg.Destination),
			)
			return nil, false
		}
		inputs = append(inputs, pricing.LegInput{
			Origin:      dist.Origin,
			Destination: dist.Destination,
			DistanceKM:  dist.DistanceKM,
		})
	}
	return inputs, true
}

func matchesFilters(a *aircraftdomain.Aircraft, f searchdomain.Filters) bool {
	if f.AircraftClass != "" && !strings.EqualFold(a.Category, f.AircraftClass) {
		return false
	}
	if f.MinCapacity > 0 && a.PassengerCapacity < f.MinCapacity {
		return false
	}
	return a.HasAmenities(f.Amenities)
}

func withinPriceRange(total float64, f searchdomain.Filters) bool {
	if f.MinPrice != nil && total < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && total > *f.MaxPrice {
		return false
	}
	return true
}

// sortResults orders by the requested key: price ascending (the default),
// capacity and speed descending.
func sortResults(results []searchdomain.Result, sortBy string) {
	switch sortBy {
	case searchdomain.SortByCapacity:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Aircraft.PassengerCapacity > results[j].Aircraft.PassengerCapacity
		})
	case searchdomain.SortBySpeed:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Aircraft.CruiseSpeed > results[j].Aircraft.CruiseSpeed
		})
	default:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Pricing.TotalCost < results[j].Pricing.TotalCost
		})
	}
}
