package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/Shizuku-riverflow-map/internal/markerfeed"
)

// handleV1RealtimeNow returns the latest reading of every site
// GET /api/v1/realtime/now
func (s *Server) handleV1RealtimeNow(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	readings, err := s.latestReadings(ctx)
	if err != nil {
		feedError(c, err)
		return
	}

	var latest *time.Time
	for i := range readings {
		if latest == nil || readings[i].Timestamp.After(*latest) {
			latest = &readings[i].Timestamp
		}
	}

	meta := gin.H{
		"script":       s.cfg.FeedKey,
		"count":        len(readings),
		"generated_at": time.Now().UTC().Format(time.RFC3339),
	}
	if latest != nil {
		meta["timestamp"] = latest.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, gin.H{
		"data": readings,
		"meta": meta,
	})
}

func (s *Server) latestReadings(ctx context.Context) ([]markerfeed.Measurement, error) {
	if rs, ok := s.source.(ReadingSource); ok {
		return rs.LatestReadings(ctx)
	}
	feed, err := s.source.Feed(ctx)
	if err != nil {
		return nil, err
	}
	return feed.Measurements(s.cfg.FeedKey, time.Now().UTC().Truncate(time.Second)), nil
}
