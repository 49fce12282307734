// Package domain defines confirmed bookings and their reschedule workflow.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"

	quotedomain "github.com/skyharborlabs/skyharbor/internal/quote/domain"
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

type RescheduleStatus string

const (
	ReschedulePending  RescheduleStatus = "pending"
	RescheduleApproved RescheduleStatus = "approved"
	RescheduleRejected RescheduleStatus = "rejected"
)

// RescheduleRequest lives inside the booking's append-only history. Only
// pending entries may change status; approved/rejected are terminal.
type RescheduleRequest struct {
	ID            snowflake.ID     `json:"id"`
	OriginalDate  string           `json:"original_date"`
	RequestedDate string           `json:"requested_date"`
	RequestedTime string           `json:"requested_time,omitempty"`
	Reason        string           `json:"reason"`
	Status        RescheduleStatus `json:"status"`
	AdminID       *snowflake.ID    `json:"admin_id,omitempty"`
	ProcessedAt   *time.Time       `json:"processed_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

type Booking struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	QuoteID   snowflake.ID `gorm:"not null;uniqueIndex" json:"quote_id"`
	InquiryID snowflake.ID `gorm:"index" json:"inquiry_id"`
	UserID    snowflake.ID `gorm:"index" json:"user_id"`

	TripType string                               `gorm:"type:text;not null" json:"trip_type"`
	Legs     datatypes.JSONSlice[quotedomain.Leg] `json:"legs"`

	TotalAmount float64 `gorm:"not null" json:"total_amount"`
	Currency    string  `gorm:"type:text;not null" json:"currency"`

	Status        Status        `gorm:"type:text;not null;default:confirmed;index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:text;not null;default:pending" json:"payment_status"`

	SpecialRequests string `gorm:"type:text" json:"special_requests,omitempty"`
	ContactInfo     string `gorm:"type:text" json:"contact_info,omitempty"`

	RescheduleHistory datatypes.JSONSlice[RescheduleRequest] `json:"reschedule_history"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Booking) TableName() string { return "bookings" }

var (
	ErrBookingNotFound      = errors.New("booking_not_found")
	ErrNotBookingOwner      = errors.New("not_booking_owner")
	ErrQuoteNotAccepted     = errors.New("quote_not_accepted")
	ErrRescheduleNotFound   = errors.New("reschedule_request_not_found")
	ErrRescheduleNotPending = errors.New("reschedule_request_not_pending")
	ErrInvalidReschedule    = errors.New("invalid_reschedule_request")
	ErrInvalidDecision      = errors.New("invalid_reschedule_decision")
	ErrInvalidID            = errors.New("invalid_id")
)

type Repository interface {
	Insert(ctx context.Context, booking *Booking) error
	FindByID(ctx context.Context, id snowflake.ID) (*Booking, error)
	// FindByIDForUpdate takes a row lock so history mutations are serialized.
	FindByIDForUpdate(ctx context.Context, id snowflake.ID) (*Booking, error)
	Save(ctx context.Context, booking *Booking) error
}
