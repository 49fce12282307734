package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	aircraftdomain "github.com/skyharborlabs/skyharbor/internal/aircraft/domain"
	aircraftservice "github.com/skyharborlabs/skyharbor/internal/aircraft/service"
	bookingdomain "github.com/skyharborlabs/skyharbor/internal/booking/domain"
	bookingservice "github.com/skyharborlabs/skyharbor/internal/booking/service"
	"github.com/skyharborlabs/skyharbor/internal/clock"
	"github.com/skyharborlabs/skyharbor/internal/config"
	inquirydomain "github.com/skyharborlabs/skyharbor/internal/inquiry/domain"
	ruledomain "github.com/skyharborlabs/skyharbor/internal/pricingrule/domain"
	pricingruleservice "github.com/skyharborlabs/skyharbor/internal/pricingrule/service"
	"github.com/skyharborlabs/skyharbor/internal/principal"
	quotedomain "github.com/skyharborlabs/skyharbor/internal/quote/domain"
	quoteservice "github.com/skyharborlabs/skyharbor/internal/quote/service"
	routedomain "github.com/skyharborlabs/skyharbor/internal/route/domain"
	routeservice "github.com/skyharborlabs/skyharbor/internal/route/service"
	searchservice "github.com/skyharborlabs/skyharbor/internal/search/service"
	userdomain "github.com/skyharborlabs/skyharbor/internal/user/domain"
)

const (
	operatorToken = "op-token"
	customerToken = "cust-token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type harness struct {
	router   *gin.Engine
	db       *gorm.DB
	node     *snowflake.Node
	operator *userdomain.User
	customer *userdomain.User
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&userdomain.User{},
		&routedomain.Route{},
		&aircraftdomain.Aircraft{},
		&ruledomain.PricingRule{},
		&inquirydomain.Inquiry{},
		&quotedomain.Quote{},
		&bookingdomain.Booking{},
	))

	node, err := snowflake.NewNode(7)
	require.NoError(t, err)
	clk := clock.Fixed{T: time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)}
	log := zap.NewNop()
	cfg := config.Config{QuoteValidityDays: 7}

	routeSvc := routeservice.NewService(routeservice.ServiceParam{DB: db, Log: log, GenID: node})
	ruleSvc := pricingruleservice.NewService(pricingruleservice.ServiceParam{DB: db, Log: log, Clock: clk, GenID: node})
	aircraftSvc := aircraftservice.NewService(aircraftservice.ServiceParam{DB: db, Log: log, GenID: node})
	quoteSvc := quoteservice.NewService(quoteservice.ServiceParam{
		DB: db, Log: log, Clock: clk, GenID: node, Config: cfg,
		Resolver: routeSvc, Rules: ruleSvc,
	})
	bookingSvc := bookingservice.NewService(bookingservice.ServiceParam{DB: db, Log: log, Clock: clk, GenID: node})
	searchSvc := searchservice.NewService(searchservice.ServiceParam{DB: db, Log: log, Resolver: routeSvc, Rules: ruleSvc})

	srv := NewServer(NewServerParam{
		Log: log, DB: db,
		SearchSvc: searchSvc, QuoteSvc: quoteSvc, BookingSvc: bookingSvc,
		RouteSvc: routeSvc, AircraftSvc: aircraftSvc, RuleSvc: ruleSvc,
	})

	h := &harness{router: srv.Router(), db: db, node: node}
	h.operator = h.seedUser(t, "ops@skyharbor.test", principal.RoleOperator, operatorToken)
	h.customer = h.seedUser(t, "pax@skyharbor.test", principal.RoleCustomer, customerToken)
	return h
}

func (h *harness) seedUser(t *testing.T, email string, role principal.Role, token string) *userdomain.User {
	t.Helper()
	user := &userdomain.User{
		ID:        h.node.Generate(),
		Email:     email,
		Role:      role,
		TokenHash: userdomain.HashToken(token),
	}
	require.NoError(t, h.db.Create(user).Error)
	return user
}

func (h *harness) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h *harness) seedRoute(t *testing.T, origin, destination string, km float64) {
	t.Helper()
	rec := h.do(t, http.MethodPut, "/api/v1/routes", operatorToken, gin.H{
		"origin": origin, "destination": destination, "distance_km": km, "estimated_time_hours": km / 800,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func (h *harness) seedAircraft(t *testing.T) string {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/api/v1/aircraft", operatorToken, gin.H{
		"tail_number": "N500SH", "category": "midsize", "type": "Citation XLS",
		"cruise_speed": 500, "hourly_operating_cost": 1000, "passenger_capacity": 8,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return dataField(t, rec, "id")
}

func (h *harness) seedInquiry(t *testing.T, userID snowflake.ID, legs []inquirydomain.TripLeg) string {
	t.Helper()
	inq := &inquirydomain.Inquiry{
		ID:           h.node.Generate(),
		UserID:       userID,
		ContactEmail: "pax@skyharbor.test",
		TripType:     inquirydomain.TripOneWay,
		Legs:         legs,
		Status:       inquirydomain.StatusNew,
	}
	require.NoError(t, h.db.Create(inq).Error)
	return inq.ID.String()
}

func dataField(t *testing.T, rec *httptest.ResponseRecorder, field string) string {
	t.Helper()
	var payload struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	value, ok := payload.Data[field].(string)
	require.True(t, ok, "field %q missing in %s", field, rec.Body.String())
	return value
}

func TestAuthRequired(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/api/v1/quotes/123", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/v1/quotes/123", "bogus", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOperatorEndpointsRejectCustomers(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/v1/quotes", customerToken, gin.H{"inquiry_id": "1", "aircraft_id": "2"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/v1/pricing-rules", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCustomerEndpointsRejectOperators(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/v1/bookings", operatorToken, gin.H{"quote_id": "1"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestQuoteToBookingLifecycle(t *testing.T) {
	h := newHarness(t)
	h.seedRoute(t, "VIE", "LHR", 1000)
	aircraftID := h.seedAircraft(t)
	inquiryID := h.seedInquiry(t, h.customer.ID, []inquirydomain.TripLeg{
		{Origin: "VIE", Destination: "LHR", DepartureDate: "2026-06-01", DepartureTime: "09:00"},
	})

	rec := h.do(t, http.MethodPost, "/api/v1/quotes", operatorToken, gin.H{
		"inquiry_id": inquiryID, "aircraft_id": aircraftID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	quoteID := dataField(t, rec, "id")

	rec = h.do(t, http.MethodPost, "/api/v1/quotes/"+quoteID+"/send", operatorToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.do(t, http.MethodPost, "/api/v1/quotes/"+quoteID+"/accept", customerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.do(t, http.MethodPost, "/api/v1/bookings", customerToken, gin.H{"quote_id": quoteID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	bookingID := dataField(t, rec, "id")

	rec = h.do(t, http.MethodGet, "/api/v1/bookings/"+bookingID, customerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Reschedule round trip: customer asks, operator approves.
	rec = h.do(t, http.MethodPost, "/api/v1/bookings/"+bookingID+"/reschedule", customerToken, gin.H{
		"new_date": "2026-06-10", "reason": "meeting moved",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var payload struct {
		Data bookingdomain.Booking `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Data.RescheduleHistory, 1)
	requestID := payload.Data.RescheduleHistory[0].ID.String()

	rec = h.do(t, http.MethodPatch, "/api/v1/bookings/"+bookingID+"/reschedule/"+requestID, operatorToken, gin.H{
		"status": "approved",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "2026-06-10", payload.Data.Legs[0].DepartureDate)
}

func TestCreateQuoteDanglingReferencesAreBadRequests(t *testing.T) {
	h := newHarness(t)
	aircraftID := h.seedAircraft(t)
	inquiryID := h.seedInquiry(t, h.customer.ID, []inquirydomain.TripLeg{
		{Origin: "VIE", Destination: "LHR", DepartureDate: "2026-06-01"},
	})

	rec := h.do(t, http.MethodPost, "/api/v1/quotes", operatorToken, gin.H{
		"inquiry_id": "123456789", "aircraft_id": aircraftID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/v1/quotes", operatorToken, gin.H{
		"inquiry_id": inquiryID, "aircraft_id": "123456789",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/v1/quotes", operatorToken, gin.H{"inquiry_id": inquiryID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateQuoteUnresolvableRouteIsServerError(t *testing.T) {
	h := newHarness(t)
	aircraftID := h.seedAircraft(t)
	inquiryID := h.seedInquiry(t, h.customer.ID, []inquirydomain.TripLeg{
		{Origin: "VIE", Destination: "NRT", DepartureDate: "2026-06-01"},
	})

	rec := h.do(t, http.MethodPost, "/api/v1/quotes", operatorToken, gin.H{
		"inquiry_id": inquiryID, "aircraft_id": aircraftID,
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "route_distance_unavailable")
}

func TestGetQuoteHidesForeignQuotes(t *testing.T) {
	h := newHarness(t)
	h.seedRoute(t, "VIE", "LHR", 1000)
	aircraftID := h.seedAircraft(t)

	stranger := h.seedUser(t, "other@skyharbor.test", principal.RoleCustomer, "stranger-token")
	inquiryID := h.seedInquiry(t, stranger.ID, []inquirydomain.TripLeg{
		{Origin: "VIE", Destination: "LHR", DepartureDate: "2026-06-01"},
	})

	rec := h.do(t, http.MethodPost, "/api/v1/quotes", operatorToken, gin.H{
		"inquiry_id": inquiryID, "aircraft_id": aircraftID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	quoteID := dataField(t, rec, "id")

	rec = h.do(t, http.MethodGet, "/api/v1/quotes/"+quoteID, customerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/v1/quotes/"+quoteID, operatorToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/v1/quotes/"+quoteID+"/accept", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUnknownQuoteIsNotFound(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/api/v1/quotes/123456789", operatorToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchIsAnonymous(t *testing.T) {
	h := newHarness(t)
	h.seedRoute(t, "VIE", "LHR", 1000)
	h.seedAircraft(t)

	rec := h.do(t, http.MethodPost, "/api/v1/search", "", gin.H{
		"trip_type": "one_way",
		"legs":      []gin.H{{"origin": "VIE", "destination": "LHR", "departure_date": "2026-06-01"}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var payload struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, 1, payload.Data.Count)
}

func TestRouteDistanceLookup(t *testing.T) {
	h := newHarness(t)
	h.seedRoute(t, "VIE", "LHR", 1275)

	rec := h.do(t, http.MethodGet, "/api/v1/search/route-distance?origin=vie&destination=lhr", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1275")

	rec = h.do(t, http.MethodGet, "/api/v1/search/route-distance?origin=AAA&destination=BBB", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndReadiness(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "active_pricing_rule")
}

func TestActivatePricingRuleOverHTTP(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/v1/pricing-rules", operatorToken, gin.H{
		"name": "standard", "margin_percent": 20, "tax_rate": 10,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	ruleID := dataField(t, rec, "id")

	rec = h.do(t, http.MethodPost, "/api/v1/pricing-rules/"+ruleID+"/activate", operatorToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.do(t, http.MethodGet, "/api/v1/pricing-rules/active", operatorToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"margin_percent":20`)
}
