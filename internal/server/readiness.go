package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ReadinessCheck struct {
	ID     string `json:"id"`
	Ready  bool   `json:"ready"`
	Detail string `json:"detail,omitempty"`
}

type ReadinessResponse struct {
	Ready  bool             `json:"ready"`
	Checks []ReadinessCheck `json:"checks"`
}

func (s *Server) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz verifies the database connection and reports whether an operator
// has activated a pricing rule. A missing rule does not gate readiness since
// the engine falls back to zero-cost defaults.
func (s *Server) Readyz(c *gin.Context) {
	ctx := c.Request.Context()
	checks := []ReadinessCheck{}
	ready := true

	sqlDB, err := s.db.WithContext(ctx).DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		ready = false
		checks = append(checks, ReadinessCheck{ID: "database", Detail: err.Error()})
	} else {
		checks = append(checks, ReadinessCheck{ID: "database", Ready: true})
	}

	rules, err := s.ruleSvc.List(ctx)
	activeRules := 0
	for _, r := range rules {
		if r.IsActive {
			activeRules++
		}
	}
	if err != nil || activeRules == 0 {
		checks = append(checks, ReadinessCheck{ID: "active_pricing_rule", Detail: "no active rule, zero-cost default applies"})
	} else {
		checks = append(checks, ReadinessCheck{ID: "active_pricing_rule", Ready: true})
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, ReadinessResponse{Ready: ready, Checks: checks})
}
