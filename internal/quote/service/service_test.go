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

	aircraftdomain "github.com/skyharborlabs/skyharbor/internal/aircraft/domain"
	"github.com/skyharborlabs/skyharbor/internal/clock"
	"github.com/skyharborlabs/skyharbor/internal/config"
	inquirydomain "github.com/skyharborlabs/skyharbor/internal/inquiry/domain"
	"github.com/skyharborlabs/skyharbor/internal/pricing"
	quotedomain "github.com/skyharborlabs/skyharbor/internal/quote/domain"
	routedomain "github.com/skyharborlabs/skyharbor/internal/route/domain"
	routeservice "github.com/skyharborlabs/skyharbor/internal/route/service"
	userdomain "github.com/skyharborlabs/skyharbor/internal/user/domain"
)

type stubRules struct {
	rule pricing.Rule
}

func (s stubRules) Active(context.Context) (pricing.Rule, error) { return s.rule, nil }

type recordingNotifier struct {
	sentTo []string
}

func (r *recordingNotifier) QuoteSent(_ context.Context, to, _, _ string, _ float64, _ time.Time) {
	r.sentTo = append(r.sentTo, to)
}

type fixture struct {
	db       *gorm.DB
	svc      *Service
	node     *snowflake.Node
	notifier *recordingNotifier
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&routedomain.Route{},
		&aircraftdomain.Aircraft{},
		&inquirydomain.Inquiry{},
		&quotedomain.Quote{},
		&userdomain.User{},
	))

	node, err := snowflake.NewNode(3)
	require.NoError(t, err)
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	notifier := &recordingNotifier{}

	resolver := routeservice.NewService(routeservice.ServiceParam{DB: db, Log: zap.NewNop()})
	svc := NewService(ServiceParam{
		DB:       db,
		Log:      zap.NewNop(),
		Clock:    clock.Fixed{T: now},
		GenID:    node,
		Config:   config.Config{QuoteValidityDays: 7},
		Resolver: resolver,
		Rules: stubRules{rule: pricing.Rule{
			MarginPercent:    20,
			TaxRate:          10,
			FlightTimeBuffer: 0.5,
			Currency:         "USD",
			Fees: pricing.Fees{
				FuelSurchargePerKm: 0.1,
				AirportFeePerLeg:   200,
				GroundHandling:     100,
				CrewExpensePerHour: 150,
			},
		}},
		Notifier: notifier,
	})

	f := &fixture{db: db, svc: svc, node: node, notifier: notifier, now: now}
	f.seedRoute(t, "VIE", "LHR", 1000)
	f.seedRoute(t, "LHR", "VIE", 1000)
	return f
}

func (f *fixture) seedRoute(t *testing.T, origin, destination string, km float64) {
	t.Helper()
	require.NoError(t, f.db.Create(&routedomain.Route{
		ID: f.node.Generate(), Origin: origin, Destination: destination,
		DistanceKM: km, EstimatedHours: km / 500,
	}).Error)
}

func (f *fixture) seedAircraft(t *testing.T) *aircraftdomain.Aircraft {
	t.Helper()
	a := &aircraftdomain.Aircraft{
		ID: f.node.Generate(), TailNumber: "OE-LEM", Category: "light_jet", Type: "Citation CJ3",
		CruiseSpeed: 500, HourlyOperatingCost: 1000, HourlyRate: 4200, PassengerCapacity: 7,
	}
	require.NoError(t, f.db.Create(a).Error)
	return a
}

func (f *fixture) seedInquiry(t *testing.T, tripType inquirydomain.TripType, legs []inquirydomain.TripLeg, userID snowflake.ID) *inquirydomain.Inquiry {
	t.Helper()
	inq := &inquirydomain.Inquiry{
		ID: f.node.Generate(), UserID: userID, ContactEmail: "pax@example.com",
		TripType: tripType, Legs: legs, Status: inquirydomain.StatusNew,
	}
	require.NoError(t, f.db.Create(inq).Error)
	return inq
}

func TestGenerateSingleLegQuote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	aircraft := f.seedAircraft(t)
	userID := f.node.Generate()
	inq := f.seedInquiry(t, inquirydomain.TripOneWay, []inquirydomain.TripLeg{
		{Origin: "vie", Destination: "lhr", DepartureDate: "2026-06-01", DepartureTime: "09:00"},
	}, userID)

	quote, err := f.svc.Generate(ctx, GenerateRequest{
		InquiryID: inq.ID.String(), AircraftID: aircraft.ID.String(),
	})
	require.NoError(t, err)

	assert.Equal(t, quotedomain.StatusPending, quote.Status)
	assert.Equal(t, f.now.Add(7*24*time.Hour), quote.ValidUntil)
	assert.Equal(t, userID, quote.UserID)
	require.Len(t, quote.Legs, 1)
	assert.Equal(t, "VIE", quote.Legs[0].Origin)
	assert.Equal(t, "2026-06-01", quote.Legs[0].DepartureDate)
	assert.Equal(t, 2.5, quote.Legs[0].FlightHours)

	// Reference figures from the cost-plus model.
	assert.Equal(t, 4323.0, quote.Pricing.TotalCost)
	assert.Equal(t, "USD", quote.Pricing.Currency)

	var stored inquirydomain.Inquiry
	require.NoError(t, f.db.First(&stored, "id = ?", inq.ID).Error)
	assert.Equal(t, inquirydomain.StatusQuoted, stored.Status)
}

func TestGenerateRoundTripMirrorsOutboundLeg(t *testing.T) {
	f := newFixture(t)
	aircraft := f.seedAircraft(t)
	inq := f.seedInquiry(t, inquirydomain.TripRoundTrip, []inquirydomain.TripLeg{
		{Origin: "VIE", Destination: "LHR", DepartureDate: "2026-06-01", ReturnDate: "2026-06-05"},
	}, f.node.Generate())

	quote, err := f.svc.Generate(context.Background(), GenerateRequest{
		InquiryID: inq.ID.String(), AircraftID: aircraft.ID.String(),
	})
	require.NoError(t, err)

	require.Len(t, quote.Legs, 2)
	assert.Equal(t, "LHR", quote.Legs[1].Origin)
	assert.Equal(t, "VIE", quote.Legs[1].Destination)
	assert.Equal(t, "2026-06-05", quote.Legs[1].DepartureDate)
}

func TestGenerateMissingRouteFailsWholeQuote(t *testing.T) {
	f := newFixture(t)
	aircraft := f.seedAircraft(t)
	inq := f.seedInquiry(t, inquirydomain.TripMultiCity, []inquirydomain.TripLeg{
		{Origin: "VIE", Destination: "LHR", DepartureDate: "2026-06-01"},
		{Origin: "LHR", Destination: "XXX", DepartureDate: "2026-06-02"},
	}, f.node.Generate())

	_, err := f.svc.Generate(context.Background(), GenerateRequest{
		InquiryID: inq.ID.String(), AircraftID: aircraft.ID.String(),
	})
	var missing *pricing.MissingDistanceError
	require.ErrorAs(t, err, &missing)

	var count int64
	require.NoError(t, f.db.Model(&quotedomain.Quote{}).Count(&count).Error)
	assert.Zero(t, count, "no partial quote may be stored")
}

func TestGenerateUnknownInquiry(t *testing.T) {
	f := newFixture(t)
	aircraft := f.seedAircraft(t)
	_, err := f.svc.Generate(context.Background(), GenerateRequest{
		InquiryID: "987654321", AircraftID: aircraft.ID.String(),
	})
	assert.ErrorIs(t, err, inquirydomain.ErrInquiryNotFound)
}

func TestSendStampsStatusAndNotifies(t *testing.T) {
	f := newFixture(t)
	aircraft := f.seedAircraft(t)
	inq := f.seedInquiry(t, inquirydomain.TripOneWay, []inquirydomain.TripLeg{
		{Origin: "VIE", Destination: "LHR", DepartureDate: "2026-06-01"},
	}, f.node.Generate())

	quote, err := f.svc.Generate(context.Background(), GenerateRequest{
		InquiryID: inq.ID.String(), AircraftID: aircraft.ID.String(),
	})
	require.NoError(t, err)

	sent, err := f.svc.Send(context.Background(), quote.ID.String())
	require.NoError(t, err)
	assert.Equal(t, quotedomain.StatusSent, sent.Status)
	require.NotNil(t, sent.SentAt)
	assert.Equal(t, []string{"pax@example.com"}, f.notifier.sentTo)
}

func TestSendWithoutResolvableEmail(t *testing.T) {
	f := newFixture(t)
	aircraft := f.seedAircraft(t)
	inq := f.seedInquiry(t, inquirydomain.TripOneWay, []inquirydomain.TripLeg{
		{Origin: "VIE", Destination: "LHR", DepartureDate: "2026-06-01"},
	}, 0)
	require.NoError(t, f.db.Model(&inquirydomain.Inquiry{}).Where("id = ?", inq.ID).Update("contact_email", "").Error)

	quote, err := f.svc.Generate(context.Background(), GenerateRequest{
		InquiryID: inq.ID.String(), AircraftID: aircraft.ID.String(),
	})
	require.NoError(t, err)

	_, err = f.svc.Send(context.Background(), quote.ID.String())
	assert.ErrorIs(t, err, quotedomain.ErrNoContactEmail)
}

func TestAcceptFromPendingAndSent(t *testing.T) {
	f := newFixture(t)
	aircraft := f.seedAircraft(t)
	userID := f.node.Generate()

	for _, send := range []bool{false, true} {
		inq := f.seedInquiry(t, inquirydomain.TripOneWay, []inquirydomain.TripLeg{
			{Origin: "VIE", Destination: "LHR", DepartureDate: "2026-06-01"},
		}, userID)
		quote, err := f.svc.Generate(context.Background(), GenerateRequest{
			InquiryID: inq.ID.String(), AircraftID: aircraft.ID.String(),
		})
		require.NoError(t, err)
		if send {
			_, err = f.svc.Send(context.Background(), quote.ID.String())
			require.NoError(t, err)
		}

		accepted, err := f.svc.Accept(context.Background(), userID, quote.ID.String())
		require.NoError(t, err)
		assert.Equal(t, quotedomain.StatusAccepted, accepted.Status)
		require.NotNil(t, accepted.AcceptedAt)
		assert.Equal(t, f.now, accepted.AcceptedAt.UTC())
	}
}

func TestAcceptRejectsForeignOwner(t *testing.T) {
	f := newFixture(t)
	aircraft := f.seedAircraft(t)
	owner := f.node.Generate()
	inq := f.seedInquiry(t, inquirydomain.TripOneWay, []inquirydomain.TripLeg{
		{Origin: "VIE", Destination: "LHR", DepartureDate: "2026-06-01"},
	}, owner)

	quote, err := f.svc.Generate(context.Background(), GenerateRequest{
		InquiryID: inq.ID.String(), AircraftID: aircraft.ID.String(),
	})
	require.NoError(t, err)

	stranger := f.node.Generate()
	_, err = f.svc.Accept(context.Background(), stranger, quote.ID.String())
	assert.ErrorIs(t, err, quotedomain.ErrNotQuoteOwner)
}

func TestAcceptRejectsExpiredQuote(t *testing.T) {
	f := newFixture(t)
	aircraft := f.seedAircraft(t)
	userID := f.node.Generate()
	inq := f.seedInquiry(t, inquirydomain.TripOneWay, []inquirydomain.TripLeg{
		{Origin: "VIE", Destination: "LHR", DepartureDate: "2026-06-01"},
	}, userID)

	quote, err := f.svc.Generate(context.Background(), GenerateRequest{
		InquiryID: inq.ID.String(), AircraftID: aircraft.ID.String(),
	})
	require.NoError(t, err)

	// Push validUntil into the past; the quote is still pending.
	expired := f.now.Add(-time.Minute)
	require.NoError(t, f.db.Model(&quotedomain.Quote{}).Where("id = ?", quote.ID).Update("valid_until", expired).Error)

	_, err = f.svc.Accept(context.Background(), userID, quote.ID.String())
	assert.ErrorIs(t, err, quotedomain.ErrQuoteExpired)
}

func TestAcceptIsNotRepeatable(t *testing.T) {
	f := newFixture(t)
	aircraft := f.seedAircraft(t)
	userID := f.node.Generate()
	inq := f.seedInquiry(t, inquirydomain.TripOneWay, []inquirydomain.TripLeg{
		{Origin: "VIE", Destination: "LHR", DepartureDate: "2026-06-01"},
	}, userID)

	quote, err := f.svc.Generate(context.Background(), GenerateRequest{
		InquiryID: inq.ID.String(), AircraftID: aircraft.ID.String(),
	})
	require.NoError(t, err)

	_, err = f.svc.Accept(context.Background(), userID, quote.ID.String())
	require.NoError(t, err)

	_, err = f.svc.Accept(context.Background(), userID, quote.ID.String())
	assert.ErrorIs(t, err, quotedomain.ErrQuoteNotAcceptable)
}
