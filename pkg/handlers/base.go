package handlers

import (
	"time"

	"dvsacheck/pkg/config"
	"dvsacheck/pkg/dvsa"
	"dvsacheck/pkg/logger"
	"dvsacheck/pkg/scheduler"
)

// HandlerService provides HTTP handlers for the API
type HandlerService struct {
	config    *config.Config
	checker   dvsa.Checker
	watcher   *scheduler.Watcher
	startedAt time.Time
}

// NewHandlerService creates a new handler service
func NewHandlerService(cfg *config.Config, checker dvsa.Checker) *HandlerService {
	logger.Info("Initializing handler service")

	return &HandlerService{
		config:    cfg,
		checker:   checker,
		startedAt: time.Now(),
	}
}

// SetWatcher sets the watcher reference (called after the watcher is created)
func (h *HandlerService) SetWatcher(w *scheduler.Watcher) {
	h.watcher = w
}

// GetConfig returns the handler service configuration
func (h *HandlerService) GetConfig() *config.Config {
	return h.config
}
