// Package domain holds the customer trip inquiry that quotes are generated
// from. Inquiry intake itself is routine CRUD; the lifecycle engine only
// reads inquiries and advances their status.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusNew       Status = "new"
	StatusQuoted    Status = "quoted"
	StatusConverted Status = "converted"
)

type TripType string

const (
	TripOneWay    TripType = "one_way"
	TripRoundTrip TripType = "round_trip"
	TripMultiCity TripType = "multi_city"
)

// TripLeg is a requested segment, pre-pricing.
type TripLeg struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
	DepartureTime string `json:"departure_time,omitempty"`
	ReturnDate    string `json:"return_date,omitempty"`
	ReturnTime    string `json:"return_time,omitempty"`
}

type Inquiry struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID       snowflake.ID `gorm:"index" json:"user_id"`
	ContactEmail string       `gorm:"type:text" json:"contact_email"`

	TripType   TripType                     `gorm:"type:text;not null" json:"trip_type"`
	Legs       datatypes.JSONSlice[TripLeg] `json:"legs"`
	Passengers int                          `json:"passengers"`

	Status    Status    `gorm:"type:text;not null;default:new;index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Inquiry) TableName() string { return "inquiries" }

var (
	ErrInquiryNotFound = errors.New("inquiry_not_found")
	ErrInvalidInquiry  = errors.New("invalid_inquiry")
)

type Repository interface {
	Insert(ctx context.Context, inquiry *Inquiry) error
	FindByID(ctx context.Context, id snowflake.ID) (*Inquiry, error)
	UpdateStatus(ctx context.Context, id snowflake.ID, status Status) error
}
