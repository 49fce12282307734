// Package seed installs a demo dataset for local development: two users, a
// handful of routes and aircraft, and one activated pricing rule. Every
// helper is idempotent so restarts never duplicate rows.
package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	aircraftdomain "github.com/skyharborlabs/skyharbor/internal/aircraft/domain"
	ruledomain "github.com/skyharborlabs/skyharbor/internal/pricingrule/domain"
	"github.com/skyharborlabs/skyharbor/internal/principal"
	routedomain "github.com/skyharborlabs/skyharbor/internal/route/domain"
	userdomain "github.com/skyharborlabs/skyharbor/internal/user/domain"
)

const (
	demoOperatorEmail = "ops@skyharbor.local"
	demoOperatorToken = "dev-operator-token"
	demoCustomerEmail = "customer@skyharbor.local"
	demoCustomerToken = "dev-customer-token"
)

// EnsureDemoData seeds the development dataset. Intended for local use only;
// production deployments manage the catalog through the API.
func EnsureDemoData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(9)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUserTx(ctx, tx, node, demoOperatorEmail, "SkyHarbor Ops", principal.RoleOperator, demoOperatorToken); err != nil {
			return err
		}
		if err := ensureUserTx(ctx, tx, node, demoCustomerEmail, "Demo Customer", principal.RoleCustomer, demoCustomerToken); err != nil {
			return err
		}
		if err := ensureRoutesTx(ctx, tx, node); err != nil {
			return err
		}
		if err := ensureFleetTx(ctx, tx, node); err != nil {
			return err
		}
		return ensureDefaultRuleTx(ctx, tx, node)
	})
}

func ensureUserTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, email, name string, role principal.Role, token string) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&userdomain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&userdomain.User{
		ID:        node.Generate(),
		Email:     email,
		Name:      name,
		Role:      role,
		TokenHash: userdomain.HashToken(token),
	}).Error
}

func ensureRoutesTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	routes := []routedomain.Route{
		{Origin: "VIE", Destination: "LHR", DistanceKM: 1275, EstimatedHours: 2.1},
		{Origin: "LHR", Destination: "VIE", DistanceKM: 1275, EstimatedHours: 2.0},
		{Origin: "VIE", Destination: "CDG", DistanceKM: 1034, EstimatedHours: 1.8},
		{Origin: "CDG", Destination: "VIE", DistanceKM: 1034, EstimatedHours: 1.7},
		{Origin: "LHR", Destination: "JFK", DistanceKM: 5541, EstimatedHours: 7.5},
		{Origin: "JFK", Destination: "LHR", DistanceKM: 5541, EstimatedHours: 6.9},
	}
	for _, route := range routes {
		var count int64
		err := tx.WithContext(ctx).Model(&routedomain.Route{}).
			Where("origin = ? AND destination = ?", route.Origin, route.Destination).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		route.ID = node.Generate()
		if err := tx.WithContext(ctx).Create(&route).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureFleetTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	fleet := []aircraftdomain.Aircraft{
		{TailNumber: "OE-LGT", Category: "light", Type: "Embraer Phenom 300",
			CruiseSpeed: 750, HourlyOperatingCost: 2400, PassengerCapacity: 7,
			Amenities: datatypes.JSONSlice[string]{"wifi"}},
		{TailNumber: "OE-MID", Category: "midsize", Type: "Cessna Citation XLS+",
			CruiseSpeed: 780, HourlyOperatingCost: 3300, PassengerCapacity: 9,
			Amenities: datatypes.JSONSlice[string]{"wifi", "galley"}},
		{TailNumber: "OE-HVY", Category: "heavy", Type: "Gulfstream G650",
			CruiseSpeed: 900, HourlyOperatingCost: 7800, PassengerCapacity: 14,
			Amenities: datatypes.JSONSlice[string]{"wifi", "galley", "bed"}},
	}
	for _, aircraft := range fleet {
		var count int64
		err := tx.WithContext(ctx).Model(&aircraftdomain.Aircraft{}).
			Where("tail_number = ?", aircraft.TailNumber).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		aircraft.ID = node.Generate()
		if err := tx.WithContext(ctx).Create(&aircraft).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureDefaultRuleTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&ruledomain.PricingRule{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&ruledomain.PricingRule{
		ID:                     node.Generate(),
		Name:                   "standard",
		MarginPercent:          20,
		TaxRate:                10,
		TaxName:                "VAT",
		FuelSurchargePerKm:     0.1,
		AirportFeePerLeg:       200,
		GroundHandling:         100,
		CrewExpensePerHour:     150,
		ApplyDiscountAfterLegs: 3,
		MultiLegDiscount:       5,
		FlightTimeBuffer:       0.5,
		DefaultCurrency:        "USD",
		IsActive:               true,
	}).Error
}
