package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	bookingservice "github.com/skyharborlabs/skyharbor/internal/booking/service"
	"github.com/skyharborlabs/skyharbor/internal/principal"
)

type createBookingRequest struct {
	QuoteID         string `json:"quote_id"`
	SpecialRequests string `json:"special_requests"`
	ContactInfo     string `json:"contact_info"`
}

type rescheduleRequest struct {
	NewDate string `json:"new_date"`
	NewTime string `json:"new_time"`
	Reason  string `json:"reason"`
}

type rescheduleDecisionRequest struct {
	Status string `json:"status"`
}

func (s *Server) CreateBooking(c *gin.Context) {
	p, ok := s.currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	contactEmail := ""
	if user := s.currentUser(c); user != nil {
		contactEmail = user.Email
	}

	booking, err := s.bookingSvc.Create(c.Request.Context(), p.ID, contactEmail, bookingservice.CreateRequest{
		QuoteID:         req.QuoteID,
		SpecialRequests: req.SpecialRequests,
		ContactInfo:     req.ContactInfo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondCreated(c, booking)
}

func (s *Server) GetBooking(c *gin.Context) {
	p, ok := s.currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	booking, err := s.bookingSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if p.Role != principal.RoleOperator && booking.UserID != p.ID {
		AbortWithError(c, ErrForbidden)
		return
	}

	respondData(c, booking)
}

func (s *Server) RequestReschedule(c *gin.Context) {
	p, ok := s.currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	booking, err := s.bookingSvc.RequestReschedule(c.Request.Context(), p.ID, c.Param("id"), bookingservice.RescheduleRequest{
		NewDate: req.NewDate,
		NewTime: req.NewTime,
		Reason:  req.Reason,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, booking)
}

// DecideReschedule approves or rejects one pending request. The target
// status is explicit; anything but approved or rejected is a validation
// error.
func (s *Server) DecideReschedule(c *gin.Context) {
	p, ok := s.currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req rescheduleDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var approve bool
	switch strings.ToLower(strings.TrimSpace(req.Status)) {
	case "approved":
		approve = true
	case "rejected":
		approve = false
	default:
		AbortWithError(c, newValidationError("invalid_status", "status must be approved or rejected"))
		return
	}

	booking, err := s.bookingSvc.DecideReschedule(c.Request.Context(), p.ID, c.Param("id"), c.Param("requestId"), approve)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, booking)
}
