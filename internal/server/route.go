package server

import (
	"github.com/gin-gonic/gin"

	routedomain "github.com/skyharborlabs/skyharbor/internal/route/domain"
)

type upsertRouteRequest struct {
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination"`
	DistanceKM     float64 `json:"distance_km"`
	EstimatedHours float64 `json:"estimated_time_hours"`
}

// UpsertRoute creates or overwrites the directed distance for one pair.
func (s *Server) UpsertRoute(c *gin.Context) {
	var req upsertRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	route := &routedomain.Route{
		Origin:         req.Origin,
		Destination:    req.Destination,
		DistanceKM:     req.DistanceKM,
		EstimatedHours: req.EstimatedHours,
	}
	if err := s.routeSvc.Upsert(c.Request.Context(), route); err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, route)
}

func (s *Server) ListRoutes(c *gin.Context) {
	routes, err := s.routeSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondList(c, routes)
}
