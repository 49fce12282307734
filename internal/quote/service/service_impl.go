package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	aircraftdomain "github.com/skyharborlabs/skyharbor/internal/aircraft/domain"
	aircraftrepo "github.com/skyharborlabs/skyharbor/internal/aircraft/repository"
	"github.com/skyharborlabs/skyharbor/internal/clock"
	"github.com/skyharborlabs/skyharbor/internal/config"
	inquirydomain "github.com/skyharborlabs/skyharbor/internal/inquiry/domain"
	inquiryrepo "github.com/skyharborlabs/skyharbor/internal/inquiry/repository"
	"github.com/skyharborlabs/skyharbor/internal/pricing"
	quotedomain "github.com/skyharborlabs/skyharbor/internal/quote/domain"
	"github.com/skyharborlabs/skyharbor/internal/quote/repository"
	routedomain "github.com/skyharborlabs/skyharbor/internal/route/domain"
	userdomain "github.com/skyharborlabs/skyharbor/internal/user/domain"
	userrepo "github.com/skyharborlabs/skyharbor/internal/user/repository"
)

// RuleSource yields the pricing rule snapshot in effect right now. Callers
// fetch it once per operation and hand it to the pure pricing engine.
type RuleSource interface {
	Active(ctx context.Context) (pricing.Rule, error)
}

// Notifier is the best-effort outbound mail hook.
type Notifier interface {
	QuoteSent(ctx context.Context, to, quoteID, currency string, total float64, validUntil time.Time)
}

type GenerateRequest struct {
	InquiryID  string
	AircraftID string
	Notes      string
	Terms      string
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock

	genID    *snowflake.Node
	repo     quotedomain.Repository
	inquiries inquirydomain.Repository
	aircraft aircraftdomain.Repository
	users    userdomain.Repository
	resolver routedomain.Resolver
	rules    RuleSource
	notifier Notifier

	validity time.Duration
}

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	GenID    *snowflake.Node
	Config   config.Config
	Resolver routedomain.Resolver
	Rules    RuleSource
	Notifier Notifier `optional:"true"`
}

func NewService(p ServiceParam) *Service {
	days := p.Config.QuoteValidityDays
	if days <= 0 {
		days = 7
	}
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("quote.service"),
		clock:     p.Clock,
		genID:     p.GenID,
		repo:      repository.NewRepository(p.DB),
		inquiries: inquiryrepo.NewRepository(p.DB),
		aircraft:  aircraftrepo.NewRepository(p.DB),
		users:     userrepo.NewRepository(p.DB),
		resolver:  p.Resolver,
		rules:     p.Rules,
		notifier:  p.Notifier,
		validity:  time.Duration(days) * 24 * time.Hour,
	}
}

// Generate prices an inquiry against one aircraft and issues a pending quote
// holding its own pricing snapshot. The source inquiry moves to "quoted".
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*quotedomain.Quote, error) {
	inquiryID, err := parseID(req.InquiryID)
	if err != nil {
		return nil, quotedomain.ErrInvalidID
	}
	aircraftID, err := parseID(req.AircraftID)
	if err != nil {
		return nil, quotedomain.ErrInvalidID
	}

	inquiry, err := s.inquiries.FindByID(ctx, inquiryID)
	if err != nil {
		return nil, err
	}
	if inquiry == nil {
		return nil, inquirydomain.ErrInquiryNotFound
	}

	aircraft, err := s.aircraft.FindByID(ctx, aircraftID)
	if err != nil {
		return nil, err
	}
	if aircraft == nil {
		return nil, aircraftdomain.ErrAircraftNotFound
	}

	tripLegs, err := buildTripLegs(inquiry)
	if err != nil {
		return nil, err
	}

	inputs := make([]pricing.LegInput, 0, len(tripLegs))
	for _, leg := range tripLegs {
		dist, err := s.resolver.Resolve(ctx, leg.Origin, leg.Destination)
		if err != nil {
			if err == routedomain.ErrRouteNotFound {
				// Fail the whole quote; a partially priced quote is worse
				// than none.
				return nil, &pricing.MissingDistanceError{Origin: leg.Origin, Destination: leg.Destination}
			}
			return nil, err
		}
		inputs = append(inputs, pricing.LegInput{
			Origin:      dist.Origin,
			Destination: dist.Destination,
			DistanceKM:  dist.DistanceKM,
		})
	}

	rule, err := s.rules.Active(ctx)
	if err != nil {
		return nil, err
	}

	bd, err := pricing.Calculate(aircraft.CostProfile(), inputs, rule)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now(ctx)
	quote := &quotedomain.Quote{
		ID:         s.genID.Generate(),
		InquiryID:  inquiry.ID,
		AircraftID: aircraft.ID,
		UserID:     inquiry.UserID,
		Legs:       mergeLegs(tripLegs, bd.Legs),
		Pricing:    quotedomain.SnapshotOf(bd),
		Status:     quotedomain.StatusPending,
		ValidUntil: now.Add(s.validity),
		Notes:      strings.TrimSpace(req.Notes),
		Terms:      strings.TrimSpace(req.Terms),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewRepository(tx).Insert(ctx, quote); err != nil {
			return err
		}
		return inquiryrepo.NewRepository(tx).UpdateStatus(ctx, inquiry.ID, inquirydomain.StatusQuoted)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("quote generated",
		zap.String("quote_id", quote.ID.String()),
		zap.String("inquiry_id", inquiry.ID.String()),
		zap.Float64("total_cost", quote.Pricing.TotalCost),
	)
	return quote, nil
}

// Send marks the quote sent and emails the customer. The email is resolved
// from the inquiry's contact address, falling back to the owning user.
func (s *Service) Send(ctx context.Context, id string) (*quotedomain.Quote, error) {
	quote, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	email, err := s.contactEmail(ctx, quote)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now(ctx)
	applied, err := s.repo.Transition(ctx, quote.ID,
		[]quotedomain.Status{quotedomain.StatusPending, quotedomain.StatusSent},
		map[string]any{"status": quotedomain.StatusSent, "sent_at": now},
	)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, quotedomain.ErrQuoteNotAcceptable
	}

	if s.notifier != nil {
		s.notifier.QuoteSent(ctx, email, quote.ID.String(), quote.Pricing.Currency, quote.Pricing.TotalCost, quote.ValidUntil)
	}

	return s.repo.FindByID(ctx, quote.ID)
}

// Accept transitions a pending or sent quote to accepted on behalf of its
// owning customer. Expired or foreign quotes are rejected, never coerced.
func (s *Service) Accept(ctx context.Context, userID snowflake.ID, id string) (*quotedomain.Quote, error) {
	quote, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if quote.UserID != 0 && quote.UserID != userID {
		return nil, quotedomain.ErrNotQuoteOwner
	}
	if !acceptable(quote.Status) {
		return nil, quotedomain.ErrQuoteNotAcceptable
	}

	now := s.clock.Now(ctx)
	if now.After(quote.ValidUntil) {
		return nil, quotedomain.ErrQuoteExpired
	}

	applied, err := s.repo.Transition(ctx, quote.ID,
		quotedomain.AcceptableFrom,
		map[string]any{"status": quotedomain.StatusAccepted, "accepted_at": now},
	)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Lost a race against a concurrent transition.
		return nil, quotedomain.ErrQuoteNotAcceptable
	}

	return s.repo.FindByID(ctx, quote.ID)
}

func (s *Service) Get(ctx context.Context, id string) (*quotedomain.Quote, error) {
	quoteID, err := parseID(id)
	if err != nil {
		return nil, quotedomain.ErrInvalidID
	}
	quote, err := s.repo.FindByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, quotedomain.ErrQuoteNotFound
	}
	return quote, nil
}

func (s *Service) contactEmail(ctx context.Context, quote *quotedomain.Quote) (string, error) {
	inquiry, err := s.inquiries.FindByID(ctx, quote.InquiryID)
	if err != nil {
		return "", err
	}
	if inquiry != nil && strings.TrimSpace(inquiry.ContactEmail) != "" {
		return strings.TrimSpace(inquiry.ContactEmail), nil
	}

	if quote.UserID != 0 {
		user, err := s.users.FindByID(ctx, quote.UserID)
		if err != nil {
			return "", err
		}
		if user != nil && strings.TrimSpace(user.Email) != "" {
			return strings.TrimSpace(user.Email), nil
		}
	}

	return "", quotedomain.ErrNoContactEmail
}

// buildTripLegs expands the inquiry's trip-type-specific shape into the
// ordered legs to price: a single leg, the outbound leg plus its mirror, or
// the inquiry's own leg list.
func buildTripLegs(inquiry *inquirydomain.Inquiry) ([]inquirydomain.TripLeg, error) {
	legs := []inquirydomain.TripLeg(inquiry.Legs)
	if len(legs) == 0 {
		return nil, inquirydomain.ErrInvalidInquiry
	}

	switch inquiry.TripType {
	case inquirydomain.TripOneWay:
		return legs[:1], nil
	case inquirydomain.TripRoundTrip:
		out := legs[0]
		back := inquirydomain.TripLeg{
			Origin:        out.Destination,
			Destination:   out.Origin,
			DepartureDate: out.ReturnDate,
			DepartureTime: out.ReturnTime,
		}
		if back.DepartureDate == "" {
			back.DepartureDate = out.DepartureDate
		}
		return []inquirydomain.TripLeg{out, back}, nil
	case inquirydomain.TripMultiCity:
		return legs, nil
	default:
		return nil, inquirydomain.ErrInvalidInquiry
	}
}

func mergeLegs(tripLegs []inquirydomain.TripLeg, priced []pricing.LegBreakdown) []quotedomain.Leg {
	legs := make([]quotedomain.Leg, 0, len(priced))
	for i, lb := range priced {
		leg := quotedomain.Leg{
			Origin:         lb.Origin,
			Destination:    lb.Destination,
			DistanceKM:     lb.DistanceKM,
			FlightHours:    lb.FlightHours,
			BaseFlyingCost: lb.BaseFlyingCost,
			FuelSurcharge:  lb.FuelSurcharge,
			AirportFee:     lb.AirportFee,
			CrewExpense:    lb.CrewExpense,
			Subtotal:       lb.Subtotal,
		}
		if i < len(tripLegs) {
			leg.DepartureDate = tripLegs[i].DepartureDate
			leg.DepartureTime = tripLegs[i].DepartureTime
		}
		legs = append(legs, leg)
	}
	return legs
}

func acceptable(status quotedomain.Status) bool {
	for _, from := range quotedomain.AcceptableFrom {
		if status == from {
			return true
		}
	}
	return false
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
