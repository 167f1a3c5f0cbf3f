package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dvsacheck/pkg/response"
	"dvsacheck/pkg/scheduler"
)

// ServiceName and Version are reported by the health endpoint
const (
	ServiceName = "dvsacheck"
	Version     = "1.0.0"
)

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string                 `json:"status" example:"healthy"`
	Service   string                 `json:"service" example:"dvsacheck"`
	Version   string                 `json:"version" example:"1.0.0"`
	Timestamp time.Time              `json:"timestamp"`
	Uptime    string                 `json:"uptime" example:"1.5h"`
	Config    map[string]interface{} `json:"config"`
}

// WatchStatusResponse is the body of GET /api/watch/status
type WatchStatusResponse struct {
	Enabled bool                 `json:"enabled"`
	Jobs    []scheduler.JobState `json:"jobs"`
}

// HealthCheck reports liveness and a sanitized configuration summary
// @Summary Health check
// @Description Returns service liveness and the non-secret configuration in effect
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HandlerService) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Service:   ServiceName,
		Version:   Version,
		Timestamp: getCurrentTimestamp(),
		Uptime:    formatDuration(time.Since(h.startedAt)),
		Config:    h.sanitizeConfig(),
	})
}

// WatchStatus lists the scheduled watch jobs and their last results
// @Summary Watch job status
// @Description Returns every configured watch job with its schedule, last run and last slot count
// @Tags Watch
// @Produce json
// @Success 200 {object} WatchStatusResponse
// @Router /api/watch/status [get]
func (h *HandlerService) WatchStatus(c *gin.Context) {
	if h.watcher == nil {
		c.JSON(http.StatusOK, WatchStatusResponse{Enabled: false, Jobs: []scheduler.JobState{}})
		return
	}
	c.JSON(http.StatusOK, WatchStatusResponse{Enabled: true, Jobs: h.watcher.Jobs()})
}

// NotFound answers unmatched routes
func (h *HandlerService) NotFound(c *gin.Context) {
	response.NotFound(c)
}
