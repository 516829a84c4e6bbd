package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/02loveslollipop/Shizuku-riverflow-map/internal/markerfeed"
)

// handleV1Config returns the map configuration
// GET /api/v1/core/config
func (s *Server) handleV1Config(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	feed, err := s.loadFeed(ctx)
	if err != nil {
		feedError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": feed.Config(),
	})
}

// handleV1ListMarkers returns all site markers, optionally of one type
// GET /api/v1/core/markers?type=W|S
func (s *Server) handleV1ListMarkers(c *gin.Context) {
	var siteType markerfeed.SiteType
	if typeStr := c.Query("type"); typeStr != "" {
		siteType = markerfeed.SiteType(strings.ToUpper(typeStr))
		if !siteType.Known() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid type"})
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	feed, err := s.loadFeed(ctx)
	if err != nil {
		feedError(c, err)
		return
	}

	markers := feed.Markers()
	if siteType != "" {
		markers = lo.Filter(markers, func(m markerfeed.SiteMarker, _ int) bool {
			return m.Type == siteType
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"data": markers,
		"meta": gin.H{
			"count": len(markers),
			"total": feed.Len(),
		},
	})
}

// handleV1GetMarker returns the marker of a single site
// GET /api/v1/core/markers/:site_number
func (s *Server) handleV1GetMarker(c *gin.Context) {
	siteNumber := c.Param("site_number")
	if siteNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "site number is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	feed, err := s.loadFeed(ctx)
	if err != nil {
		feedError(c, err)
		return
	}

	marker, ok := lo.Find(feed.Markers(), func(m markerfeed.SiteMarker) bool {
		return m.SiteNumber == siteNumber
	})
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "site not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": marker,
		"meta": gin.H{
			"link": feed.Config().SiteLink(marker.SiteNumber),
			"kind": marker.Kind(),
		},
	})
}

// handleV1ListGauges returns the markers as harvestable gauges
// GET /api/v1/core/gauges
func (s *Server) handleV1ListGauges(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	feed, err := s.loadFeed(ctx)
	if err != nil {
		feedError(c, err)
		return
	}

	gauges := feed.Gauges(s.cfg.FeedKey)
	c.JSON(http.StatusOK, gin.H{
		"data": gauges,
		"meta": gin.H{
			"count": len(gauges),
		},
	})
}
