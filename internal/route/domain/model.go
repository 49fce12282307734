// Package domain contains the route distance records and repository contract.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Route is a known directed distance between two location codes. Entries are
// directional; A->B existing says nothing about B->A.
type Route struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	Origin         string       `gorm:"type:text;not null;uniqueIndex:idx_routes_pair,priority:1" json:"origin"`
	Destination    string       `gorm:"type:text;not null;uniqueIndex:idx_routes_pair,priority:2" json:"destination"`
	DistanceKM     float64      `gorm:"not null" json:"distance_km"`
	EstimatedHours float64      `gorm:"not null" json:"estimated_time_hours"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (Route) TableName() string { return "routes" }

// Distance is the resolver output consumed by pricing and search.
type Distance struct {
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination"`
	DistanceKM     float64 `json:"distance_km"`
	EstimatedHours float64 `json:"estimated_time_hours"`
}

var (
	ErrRouteNotFound = errors.New("route_not_found")
	ErrInvalidRoute  = errors.New("invalid_route")
)

type Repository interface {
	FindByPair(ctx context.Context, origin, destination string) (*Route, error)
	Upsert(ctx context.Context, route *Route) error
	List(ctx context.Context) ([]Route, error)
}

// Resolver is the lookup contract consumed by quote generation and search.
// A miss is reported as ErrRouteNotFound, never as a fabricated distance.
type Resolver interface {
	Resolve(ctx context.Context, origin, destination string) (*Distance, error)
}
