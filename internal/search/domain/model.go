// Package domain defines the aircraft search request and result shapes.
package domain

import (
	"errors"

	"github.com/bwmarrin/snowflake"

	"github.com/skyharborlabs/skyharbor/internal/pricing"
)

const (
	SortByPrice    = "price"
	SortByCapacity = "capacity"
	SortBySpeed    = "speed"
)

type Leg struct {
	Origin        string `json:"origin" binding:"required"`
	Destination   string `json:"destination" binding:"required"`
	DepartureDate string `json:"departure_date"`
	DepartureTime string `json:"departure_time"`
}

// Filters are all optional; present filters combine with AND semantics.
type Filters struct {
	AircraftClass string   `json:"aircraft_class"`
	MinCapacity   int      `json:"min_capacity"`
	Amenities     []string `json:"amenities"`
	MinPrice      *float64 `json:"min_price"`
	MaxPrice      *float64 `json:"max_price"`
	SortBy        string   `json:"sort_by"`
}

type Request struct {
	TripType string  `json:"trip_type"`
	Legs     []Leg   `json:"legs"`
	Filters  Filters `json:"filters"`
}

type AircraftSummary struct {
	ID                snowflake.ID `json:"id"`
	TailNumber        string       `json:"tail_number"`
	Category          string       `json:"category"`
	Type              string       `json:"type"`
	CruiseSpeed       float64      `json:"cruise_speed"`
	PassengerCapacity int          `json:"passenger_capacity"`
	Amenities         []string     `json:"amenities"`
}

type Result struct {
	Aircraft AircraftSummary    `json:"aircraft"`
	Pricing  *pricing.Breakdown `json:"pricing"`
	Currency string             `json:"currency"`
}

type Response struct {
	Results  []Result `json:"results"`
	Count    int      `json:"count"`
	TripType string   `json:"trip_type"`
	Legs     []Leg    `json:"legs"`
	Filters  Filters  `json:"filters"`
}

var ErrInvalidLegs = errors.New("invalid_search_legs")
