package dvsa

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"dvsacheck/pkg/config"
	"dvsacheck/pkg/logger"
	"dvsacheck/pkg/metrics"
)

// SessionFactory creates an uninitialized session for one check
type SessionFactory func(ctx context.Context) Session

// Checker runs checks; implemented by CheckService
type Checker interface {
	Check(ctx context.Context, req CheckRequest) (*CheckResult, error)
}

// CheckService validates a request and drives one session through the fixed pipeline.
// It keeps no state between checks.
type CheckService struct {
	newSession SessionFactory
}

// NewCheckService creates a service backed by real Chrome sessions
func NewCheckService(browser *config.BrowserConfig, site *config.SiteConfig) *CheckService {
	return NewCheckServiceWithFactory(func(ctx context.Context) Session {
		return NewBrowserSession(ctx, browser, site, LaunchChrome)
	})
}

// NewCheckServiceWithFactory creates a service using newSession for every check
func NewCheckServiceWithFactory(newSession SessionFactory) *CheckService {
	return &CheckService{newSession: newSession}
}

// Validation messages returned to API callers
const (
	MissingFieldsMessage = "All fields are required"
	EmptyLocationMessage = "Location must not be empty"
)

// Validate checks required fields. A nil Location skips the centre search, but a
// supplied blank location is rejected.
func Validate(req CheckRequest) error {
	if strings.TrimSpace(req.Credentials.LicenceNumber) == "" {
		return &ValidationError{Field: "licenseNumber", Message: MissingFieldsMessage}
	}
	if strings.TrimSpace(req.Credentials.SecondaryIdentifier) == "" {
		return &ValidationError{Field: "secondNumber", Message: MissingFieldsMessage}
	}
	if req.Location != nil && strings.TrimSpace(*req.Location) == "" {
		return &ValidationError{Field: "location", Message: EmptyLocationMessage}
	}
	return nil
}

// Check runs initialize, submit, block detection, the optional location search and
// slot extraction in order. The first failing step ends the check. The session is
// disposed exactly once whatever happens.
func (cs *CheckService) Check(ctx context.Context, req CheckRequest) (result *CheckResult, err error) {
	start := time.Now()
	log := logger.FromContext(ctx)

	if err := Validate(req); err != nil {
		log.Info("Rejected check request", zap.Error(err))
		metrics.ObserveCheck(metrics.OutcomeValidation, time.Since(start), 0)
		return nil, err
	}
	req.Credentials = normalizeCredentials(req.Credentials)

	session := cs.newSession(ctx)
	defer session.Dispose()

	log = log.With(zap.String("session_id", session.ID()))
	defer func() {
		duration := time.Since(start)
		if err != nil {
			log.Error("Check failed", zap.Error(err), logger.DurationField(duration.Milliseconds()))
			metrics.ObserveCheck(OutcomeOf(err), duration, 0)
			return
		}
		result.Duration = duration
		log.Info("Check completed",
			zap.Int("slots", len(result.Slots)),
			zap.Int("centres", len(result.Centres)),
			logger.DurationField(duration.Milliseconds()))
		metrics.ObserveCheck(metrics.OutcomeSuccess, duration, len(result.Slots))
	}()

	if err := session.Initialize(ctx); err != nil {
		return nil, err
	}
	if err := session.SubmitCredentials(ctx, req.Credentials); err != nil {
		return nil, err
	}
	if err := session.DetectBlocking(ctx); err != nil {
		return nil, err
	}

	result = &CheckResult{}
	if req.Location != nil {
		location := strings.TrimSpace(*req.Location)
		if err := session.RefineByLocation(ctx, location); err != nil {
			return nil, err
		}
		if result.Centres, err = session.ExtractCentres(ctx); err != nil {
			return nil, err
		}
	}

	if result.Slots, err = session.ExtractSlots(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

func normalizeCredentials(c Credentials) Credentials {
	c.LicenceNumber = strings.ToUpper(strings.TrimSpace(c.LicenceNumber))
	c.SecondaryIdentifier = strings.TrimSpace(c.SecondaryIdentifier)
	return c
}

// OutcomeOf classifies a check error for metrics
func OutcomeOf(err error) string {
	var (
		blocked *BlockedError
		timeout *TimeoutError
		launch  *LaunchError
	)
	switch {
	case IsValidationError(err):
		return metrics.OutcomeValidation
	case errors.As(err, &blocked):
		return metrics.OutcomeBlocked
	case errors.As(err, &timeout):
		return metrics.OutcomeTimeout
	case errors.As(err, &launch):
		return metrics.OutcomeLaunch
	default:
		return metrics.OutcomeError
	}
}
