package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// handleHealth reports overall service health plus per-provider detail.
// "degraded" means at least one configured provider is down but requests
// can still be served.
func (s *Server) handleHealth(c *gin.Context) {
	status := s.service.Status()

	overall := "healthy"
	code := http.StatusOK
	if !s.service.Healthy() {
		overall = "unhealthy"
		code = http.StatusServiceUnavailable
	} else {
		for _, p := range status.Providers {
			if !p.Available {
				overall = "degraded"
				break
			}
		}
	}

	c.JSON(code, gin.H{
		"status":    overall,
		"service":   "glint",
		"version":   serviceVersion,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"providers": status.Providers,
		"primary":   status.Primary,
		"fallback":  status.Fallback,
	})
}

// handleReady gates readiness on the orchestrator having at least one
// usable provider. Load balancers should route traffic only when this
// returns 200.
func (s *Server) handleReady(c *gin.Context) {
	if !s.service.Healthy() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ready": true})
}

func (s *Server) handleLive(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"alive": true})
}
