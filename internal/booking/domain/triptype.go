package domain

import quotedomain "github.com/skyharborlabs/skyharbor/internal/quote/domain"

const (
	TripOneWay    = "one_way"
	TripRoundTrip = "round_trip"
	TripMultiCity = "multi_city"
)

// InferTripType derives the trip shape from the legs: exactly two legs where
// the second reverses the first is a round trip, more than two is multi-city,
// anything else is one-way.
func InferTripType(legs []quotedomain.Leg) string {
	switch {
	case len(legs) == 2 && legs[1].Origin == legs[0].Destination && legs[1].Destination == legs[0].Origin:
		return TripRoundTrip
	case len(legs) > 2:
		return TripMultiCity
	default:
		return TripOneWay
	}
}
