package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// setupRoutes configures the middleware stack and HTTP routes
func (s *Server) setupRoutes() {
	s.router.Use(
		s.recovery(),
		requestID(),
		s.requestLogger(),
		cors(s.cfg.AllowedOrigins),
		rateLimit(s.cfg.RateLimit, s.cfg.RateBurst),
	)

	s.router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/health")
	})
	s.router.GET("/health", s.health)

	s.router.POST("/record", s.addRecord)
	s.router.GET("/record", s.getRecord)
	s.router.DELETE("/record", s.deleteRecord)
	s.router.GET("/records", s.listRecords)
	s.router.GET("/records/export", s.exportRecords)
	s.router.POST("/track", s.addTrack)

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "route not found"})
	})
}
