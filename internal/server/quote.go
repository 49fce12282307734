package server

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	aircraftdomain "github.com/skyharborlabs/skyharbor/internal/aircraft/domain"
	"github.com/skyharborlabs/skyharbor/internal/principal"
	quoteservice "github.com/skyharborlabs/skyharbor/internal/quote/service"
)

type createQuoteRequest struct {
	InquiryID  string `json:"inquiry_id"`
	AircraftID string `json:"aircraft_id"`
	Notes      string `json:"notes"`
	Terms      string `json:"terms"`
}

func (s *Server) CreateQuote(c *gin.Context) {
	var req createQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.InquiryID) == "" || strings.TrimSpace(req.AircraftID) == "" {
		AbortWithError(c, newValidationError("missing_reference", "inquiry_id and aircraft_id are required"))
		return
	}

	quote, err := s.quoteSvc.Generate(c.Request.Context(), quoteservice.GenerateRequest{
		InquiryID:  req.InquiryID,
		AircraftID: req.AircraftID,
		Notes:      req.Notes,
		Terms:      req.Terms,
	})
	if err != nil {
		// A dangling aircraft reference is a bad request here, not a 404:
		// the quote itself does not exist to be found.
		if errors.Is(err, aircraftdomain.ErrAircraftNotFound) {
			AbortWithError(c, newValidationError("aircraft_not_found", "referenced aircraft does not exist"))
			return
		}
		AbortWithError(c, err)
		return
	}

	respondCreated(c, quote)
}

func (s *Server) SendQuote(c *gin.Context) {
	quote, err := s.quoteSvc.Send(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, quote)
}

func (s *Server) AcceptQuote(c *gin.Context) {
	p, ok := s.currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	quote, err := s.quoteSvc.Accept(c.Request.Context(), p.ID, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, quote)
}

// GetQuote serves both roles: operators see every quote, customers only
// their own.
func (s *Server) GetQuote(c *gin.Context) {
	p, ok := s.currentPrincipal(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	quote, err := s.quoteSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if p.Role != principal.RoleOperator && quote.UserID != 0 && quote.UserID != p.ID {
		AbortWithError(c, ErrForbidden)
		return
	}

	respondData(c, quote)
}
