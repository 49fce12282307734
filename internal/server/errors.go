package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	aircraftdomain "github.com/skyharborlabs/skyharbor/internal/aircraft/domain"
	bookingdomain "github.com/skyharborlabs/skyharbor/internal/booking/domain"
	inquirydomain "github.com/skyharborlabs/skyharbor/internal/inquiry/domain"
	"github.com/skyharborlabs/skyharbor/internal/pricing"
	ruledomain "github.com/skyharborlabs/skyharbor/internal/pricingrule/domain"
	quotedomain "github.com/skyharborlabs/skyharbor/internal/quote/domain"
	routedomain "github.com/skyharborlabs/skyharbor/internal/route/domain"
	searchdomain "github.com/skyharborlabs/skyharbor/internal/search/domain"
	userdomain "github.com/skyharborlabs/skyharbor/internal/user/domain"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

type apiError struct {
	status  int
	code    string
	message string
}

func (e *apiError) Error() string { return e.code }

func invalidRequestError() error {
	return &apiError{status: http.StatusBadRequest, code: "invalid_request", message: "request body could not be parsed"}
}

func newValidationError(code, message string) error {
	return &apiError{status: http.StatusBadRequest, code: code, message: message}
}

// statusByError maps domain sentinels onto HTTP statuses. State and
// validation failures are client errors; ownership failures are forbidden;
// an unresolvable route inside quote generation is an operator data problem
// and surfaces as a server error.
var statusByError = map[error]int{
	ErrUnauthorized: http.StatusUnauthorized,
	ErrForbidden:    http.StatusForbidden,

	quotedomain.ErrQuoteNotFound:      http.StatusNotFound,
	quotedomain.ErrQuoteNotAcceptable: http.StatusBadRequest,
	quotedomain.ErrQuoteExpired:       http.StatusBadRequest,
	quotedomain.ErrNotQuoteOwner:      http.StatusForbidden,
	quotedomain.ErrNoContactEmail:     http.StatusBadRequest,
	quotedomain.ErrInvalidID:          http.StatusBadRequest,

	bookingdomain.ErrBookingNotFound:      http.StatusNotFound,
	bookingdomain.ErrNotBookingOwner:      http.StatusForbidden,
	bookingdomain.ErrQuoteNotAccepted:     http.StatusBadRequest,
	bookingdomain.ErrRescheduleNotFound:   http.StatusNotFound,
	bookingdomain.ErrRescheduleNotPending: http.StatusBadRequest,
	bookingdomain.ErrInvalidReschedule:    http.StatusBadRequest,
	bookingdomain.ErrInvalidDecision:      http.StatusBadRequest,
	bookingdomain.ErrInvalidID:            http.StatusBadRequest,

	inquirydomain.ErrInquiryNotFound: http.StatusBadRequest,
	inquirydomain.ErrInvalidInquiry:  http.StatusBadRequest,

	aircraftdomain.ErrAircraftNotFound: http.StatusNotFound,
	aircraftdomain.ErrInvalidAircraft:  http.StatusBadRequest,
	aircraftdomain.ErrInvalidID:        http.StatusBadRequest,

	routedomain.ErrRouteNotFound: http.StatusNotFound,
	routedomain.ErrInvalidRoute:  http.StatusBadRequest,

	ruledomain.ErrRuleNotFound: http.StatusNotFound,
	ruledomain.ErrInvalidRule:  http.StatusBadRequest,
	ruledomain.ErrInvalidID:    http.StatusBadRequest,

	searchdomain.ErrInvalidLegs: http.StatusBadRequest,

	userdomain.ErrUserNotFound: http.StatusNotFound,

	pricing.ErrNoLegs: http.StatusBadRequest,
}

// AbortWithError writes the canonical error envelope for err and aborts the
// request. Unrecognized errors become opaque 500s.
func AbortWithError(c *gin.Context, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.status, gin.H{"error": gin.H{
			"code":    apiErr.code,
			"message": apiErr.message,
		}})
		return
	}

	var missing *pricing.MissingDistanceError
	if errors.As(err, &missing) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": gin.H{
			"code":    "route_distance_unavailable",
			"message": missing.Error(),
		}})
		return
	}

	for sentinel, status := range statusByError {
		if errors.Is(err, sentinel) {
			c.AbortWithStatusJSON(status, gin.H{"error": gin.H{
				"code":    sentinel.Error(),
				"message": err.Error(),
			}})
			return
		}
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": gin.H{
		"code":    "internal_error",
		"message": "internal error",
	}})
}
