package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/desertthunder/discos/internal/formatter"
)

// health handles health check requests
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   "discos",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// addRecord handles POST /record
func (s *Server) addRecord(c *gin.Context) {
	var req RecordRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	record, err := s.catalog.AddRecord(c.Request.Context(), req.fields())
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, formatter.PresentRecord(record))
}

// listRecords handles GET /records
func (s *Server) listRecords(c *gin.Context) {
	records, err := s.catalog.ListRecords(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, formatter.PresentRecords(records))
}

// getRecord handles GET /record?title=
func (s *Server) getRecord(c *gin.Context) {
	var q TitleQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "title is required"})
		return
	}

	record, err := s.catalog.GetRecord(c.Request.Context(), q.Title)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, formatter.PresentRecord(record))
}

// deleteRecord handles DELETE /record?title=
func (s *Server) deleteRecord(c *gin.Context) {
	var q TitleQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "title is required"})
		return
	}

	deletion, err := s.catalog.DeleteRecord(c.Request.Context(), unescapeTitle(q.Title))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, formatter.PresentDeletion(deletion))
}

// addTrack handles POST /track
func (s *Server) addTrack(c *gin.Context) {
	var req TrackRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	record, err := s.catalog.AddTrack(c.Request.Context(), *req.RecordID, req.fields())
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, formatter.PresentRecord(record))
}

// exportRecords handles GET /records/export?format=
func (s *Server) exportRecords(c *gin.Context) {
	var q ExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	format, err := formatter.ParseFormat(q.Format)
	if err != nil {
		s.respondError(c, err)
		return
	}

	records, err := s.catalog.ExportCatalog(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	data, err := formatter.Export(format, records)
	if err != nil {
		s.respondError(c, err)
		return
	}

	filename := fmt.Sprintf("discos-%s.%s", time.Now().UTC().Format("20060102-150405"), format.Extension())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, format.ContentType(), data)
}

// unescapeTitle undoes up to two extra rounds of percent-encoding left by clients that encode twice.
func unescapeTitle(title string) string {
	for range 2 {
		if !strings.Contains(title, "%") {
			break
		}
		title = unquote(title)
	}
	return title
}

// unquote decodes every valid %XX sequence and keeps malformed ones as they are.
// Bytes that do not form UTF-8 after decoding become U+FFFD.
func unquote(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return strings.ToValidUTF8(b.String(), "\uFFFD")
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
