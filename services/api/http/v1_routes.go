package http

// registerV1Routes sets up the v1 API structure
// Groups: /api/v1/core, /api/v1/realtime
func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware())

	// Core endpoints - map configuration and site markers
	core := v1.Group("/core")
	{
		core.GET("/config", s.handleV1Config)
		core.GET("/markers", s.handleV1ListMarkers)
		core.GET("/markers/:site_number", s.handleV1GetMarker)
		core.GET("/gauges", s.handleV1ListGauges)
	}

	// Realtime endpoints - latest readings
	realtime := v1.Group("/realtime")
	{
		realtime.GET("/now", s.handleV1RealtimeNow)
	}
}
