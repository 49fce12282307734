package server

import (
	"github.com/gin-gonic/gin"

	searchdomain "github.com/skyharborlabs/skyharbor/internal/search/domain"
)

func (s *Server) SearchAircraft(c *gin.Context) {
	var req searchdomain.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.searchSvc.Search(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, resp)
}

func (s *Server) GetRouteDistance(c *gin.Context) {
	origin := c.Query("origin")
	destination := c.Query("destination")

	dist, err := s.routeSvc.Resolve(c.Request.Context(), origin, destination)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, dist)
}
