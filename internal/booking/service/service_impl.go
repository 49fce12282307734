package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	bookingdomain "github.com/skyharborlabs/skyharbor/internal/booking/domain"
	"github.com/skyharborlabs/skyharbor/internal/booking/repository"
	"github.com/skyharborlabs/skyharbor/internal/clock"
	inquirydomain "github.com/skyharborlabs/skyharbor/internal/inquiry/domain"
	inquiryrepo "github.com/skyharborlabs/skyharbor/internal/inquiry/repository"
	quotedomain "github.com/skyharborlabs/skyharbor/internal/quote/domain"
	quoterepo "github.com/skyharborlabs/skyharbor/internal/quote/repository"
)

// Notifier is the best-effort outbound mail hook.
type Notifier interface {
	BookingConfirmed(ctx context.Context, to, bookingID, currency string, total float64)
}

type CreateRequest struct {
	QuoteID         string
	SpecialRequests string
	ContactInfo     string
}

type RescheduleRequest struct {
	NewDate string
	NewTime string
	Reason  string
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock

	genID     *snowflake.Node
	repo      bookingdomain.Repository
	quotes    quotedomain.Repository
	inquiries inquirydomain.Repository
	notifier  Notifier
}

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	GenID    *snowflake.Node
	Notifier Notifier `optional:"true"`
}

func NewService(p ServiceParam) *Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("booking.service"),
		clock:     p.Clock,
		genID:     p.GenID,
		repo:      repository.NewRepository(p.DB),
		quotes:    quoterepo.NewRepository(p.DB),
		inquiries: inquiryrepo.NewRepository(p.DB),
		notifier:  p.Notifier,
	}
}

// Create turns an accepted quote owned by the caller into a confirmed
// booking. Legs and total cost are copied verbatim from the quote's
// snapshot; nothing is re-priced. The source inquiry moves to "converted".
func (s *Service) Create(ctx context.Context, userID snowflake.ID, contactEmail string, req CreateRequest) (*bookingdomain.Booking, error) {
	quoteID, err := parseID(req.QuoteID)
	if err != nil {
		return nil, bookingdomain.ErrInvalidID
	}

	quote, err := s.quotes.FindByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, quotedomain.ErrQuoteNotFound
	}
	if quote.UserID != 0 && quote.UserID != userID {
		return nil, bookingdomain.ErrNotBookingOwner
	}
	if quote.Status != quotedomain.StatusAccepted {
		return nil, bookingdomain.ErrQuoteNotAccepted
	}

	legs := []quotedomain.Leg(quote.Legs)
	booking := &bookingdomain.Booking{
		ID:              s.genID.Generate(),
		QuoteID:         quote.ID,
		InquiryID:       quote.InquiryID,
		UserID:          userID,
		TripType:        bookingdomain.InferTripType(legs),
		Legs:            legs,
		TotalAmount:     quote.Pricing.TotalCost,
		Currency:        quote.Pricing.Currency,
		Status:          bookingdomain.StatusConfirmed,
		PaymentStatus:   bookingdomain.PaymentPending,
		SpecialRequests: strings.TrimSpace(req.SpecialRequests),
		ContactInfo:     strings.TrimSpace(req.ContactInfo),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewRepository(tx).Insert(ctx, booking); err != nil {
			return err
		}
		if quote.InquiryID != 0 {
			return inquiryrepo.NewRepository(tx).UpdateStatus(ctx, quote.InquiryID, inquirydomain.StatusConverted)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil && contactEmail != "" {
		s.notifier.BookingConfirmed(ctx, contactEmail, booking.ID.String(), booking.Currency, booking.TotalAmount)
	}

	s.log.Info("booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("quote_id", quote.ID.String()),
		zap.Float64("total_amount", booking.TotalAmount),
	)
	return booking, nil
}

// RequestReschedule appends a pending entry to the booking's history. The
// original date captured is the booking's current first-leg departure.
func (s *Service) RequestReschedule(ctx context.Context, userID snowflake.ID, id string, req RescheduleRequest) (*bookingdomain.Booking, error) {
	if strings.TrimSpace(req.NewDate) == "" || strings.TrimSpace(req.Reason) == "" {
		return nil, bookingdomain.ErrInvalidReschedule
	}

	bookingID, err := parseID(id)
	if err != nil {
		return nil, bookingdomain.ErrInvalidID
	}

	var booking *bookingdomain.Booking
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repoTx := repository.NewRepository(tx)
		booking, err = repoTx.FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return bookingdomain.ErrBookingNotFound
		}
		if booking.UserID != userID {
			return bookingdomain.ErrNotBookingOwner
		}

		originalDate := ""
		if len(booking.Legs) > 0 {
			originalDate = booking.Legs[0].DepartureDate
		}

		booking.RescheduleHistory = append(booking.RescheduleHistory, bookingdomain.RescheduleRequest{
			ID:            s.genID.Generate(),
			OriginalDate:  originalDate,
			RequestedDate: strings.TrimSpace(req.NewDate),
			RequestedTime: strings.TrimSpace(req.NewTime),
			Reason:        strings.TrimSpace(req.Reason),
			Status:        bookingdomain.ReschedulePending,
			CreatedAt:     s.clock.Now(ctx),
		})
		return repoTx.Save(ctx, booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// DecideReschedule resolves a pending request. Approval overwrites the
// booking's first-leg departure date (and time when supplied) in place.
// Deciding a non-pending or unknown request is an error, never a no-op.
func (s *Service) DecideReschedule(ctx context.Context, adminID snowflake.ID, id, requestID string, approve bool) (*bookingdomain.Booking, error) {
	bookingID, err := parseID(id)
	if err != nil {
		return nil, bookingdomain.ErrInvalidID
	}
	reqID, err := parseID(requestID)
	if err != nil {
		return nil, bookingdomain.ErrInvalidID
	}

	var booking *bookingdomain.Booking
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repoTx := repository.NewRepository(tx)
		booking, err = repoTx.FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return bookingdomain.ErrBookingNotFound
		}

		idx := -1
		for i, entry := range booking.RescheduleHistory {
			if entry.ID == reqID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return bookingdomain.ErrRescheduleNotFound
		}
		entry := booking.RescheduleHistory[idx]
		if entry.Status != bookingdomain.ReschedulePending {
			return bookingdomain.ErrRescheduleNotPending
		}

		now := s.clock.Now(ctx)
		entry.AdminID = &adminID
		entry.ProcessedAt = &now
		if approve {
			entry.Status = bookingdomain.RescheduleApproved
			if len(booking.Legs) > 0 {
				legs := []quotedomain.Leg(booking.Legs)
				legs[0].DepartureDate = entry.RequestedDate
				if entry.RequestedTime != "" {
					legs[0].DepartureTime = entry.RequestedTime
				}
				booking.Legs = legs
			}
		} else {
			entry.Status = bookingdomain.RescheduleRejected
		}
		booking.RescheduleHistory[idx] = entry

		return repoTx.Save(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("reschedule decided",
		zap.String("booking_id", booking.ID.String()),
		zap.String("request_id", reqID.String()),
		zap.Bool("approved", approve),
	)
	return booking, nil
}

func (s *Service) Get(ctx context.Context, id string) (*bookingdomain.Booking, error) {
	bookingID, err := parseID(id)
	if err != nil {
		return nil, bookingdomain.ErrInvalidID
	}
	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, bookingdomain.ErrBookingNotFound
	}
	return booking, nil
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
