package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/desertthunder/discos/internal/shared"
)

// statusFor maps a catalog error kind to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrBadRequest), errors.Is(err, shared.ErrInvalidFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as an [ErrorResponse]. Only catalog errors expose their message.
func (s *Server) respondError(c *gin.Context, err error) {
	status := statusFor(err)

	var catalogErr *shared.CatalogError
	switch {
	case errors.As(err, &catalogErr):
		c.JSON(status, ErrorResponse{Message: catalogErr.Message})
	case status == http.StatusInternalServerError:
		s.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(status, ErrorResponse{Message: "internal server error"})
	default:
		c.JSON(status, ErrorResponse{Message: err.Error()})
	}
}
