package dvsa

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dvsacheck/pkg/config"
	"dvsacheck/pkg/logger"
	"dvsacheck/pkg/metrics"
)

// Session is one browser lifecycle driven through the check pipeline
type Session interface {
	ID() string
	Initialize(ctx context.Context) error
	SubmitCredentials(ctx context.Context, creds Credentials) error
	DetectBlocking(ctx context.Context) error
	RefineByLocation(ctx context.Context, location string) error
	ExtractCentres(ctx context.Context) ([]TestCentreResult, error)
	ExtractSlots(ctx context.Context) ([]TestSlot, error)
	Dispose()
}

// BrowserSession owns one browser and its single page
type BrowserSession struct {
	id      string
	browser *config.BrowserConfig
	site    *config.SiteConfig
	launch  Launcher
	wait    *WaitStrategy
	human   *Humanizer
	log     *zap.Logger

	page        Page
	disposeOnce sync.Once
}

// NewBrowserSession creates a session; nothing is launched until Initialize.
// A nil launch defaults to LaunchChrome. Logs carry the request fields found in ctx.
func NewBrowserSession(ctx context.Context, browser *config.BrowserConfig, site *config.SiteConfig, launch Launcher) *BrowserSession {
	if launch == nil {
		launch = LaunchChrome
	}
	id := uuid.New().String()
	return &BrowserSession{
		id:      id,
		browser: browser,
		site:    site,
		launch:  launch,
		wait:    NewWaitStrategy(),
		human:   NewHumanizer(browser),
		log:     logger.FromContext(ctx).With(zap.String("session_id", id)),
	}
}

// ID returns the session identifier used in logs
func (s *BrowserSession) ID() string {
	return s.id
}

// Initialize launches the browser. Launch failures are not retried.
func (s *BrowserSession) Initialize(ctx context.Context) error {
	start := time.Now()
	page, err := s.launch(ctx, s.browser)
	if err != nil {
		var le *LaunchError
		if !errors.As(err, &le) {
			err = &LaunchError{Err: err}
		}
		return err
	}
	s.page = page
	metrics.SessionOpened()

	s.log.Debug("Browser launched",
		zap.Bool("headless", s.browser.Headless),
		zap.Bool("stealth", s.browser.Stealth),
		logger.DurationField(time.Since(start).Milliseconds()))
	return nil
}

// SubmitCredentials fills the login form and waits for the page that follows it
func (s *BrowserSession) SubmitCredentials(ctx context.Context, creds Credentials) error {
	if err := s.ready(); err != nil {
		return err
	}
	sel := s.site.Selectors
	navTimeout := s.browser.NavigationTimeoutDuration()

	loginURL := s.site.LoginURL()
	s.log.Info("Opening login page", zap.String("url", loginURL))
	if err := s.withTimeout(ctx, navTimeout, "loading login page", func(ctx context.Context) error {
		if err := s.page.Navigate(ctx, loginURL); err != nil {
			return err
		}
		return s.page.WaitNetworkIdle(ctx)
	}); err != nil {
		return err
	}

	if err := s.fill(ctx, sel.LicenceNumber, creds.LicenceNumber); err != nil {
		return fmt.Errorf("licence number field: %w", err)
	}
	if err := s.human.RandomDelay(ctx); err != nil {
		return err
	}

	identifierSelectors := sel.ApplicationReference
	if creds.IdentifierKind == TheoryPassNumber {
		identifierSelectors = sel.TheoryPassNumber
	}
	if err := s.fill(ctx, identifierSelectors, creds.SecondaryIdentifier); err != nil {
		return fmt.Errorf("%s field: %w", creds.IdentifierKind, err)
	}
	if err := s.human.RandomDelay(ctx); err != nil {
		return err
	}

	submit, err := s.wait.WaitForAnyElement(ctx, s.page, sel.Submit, s.browser.SelectorTimeoutDuration())
	if err != nil {
		return fmt.Errorf("submit button: %w", err)
	}
	if err := s.human.MoveToElement(ctx, s.page, submit); err != nil {
		s.log.Debug("Mouse movement failed, clicking directly", zap.Error(err))
	}

	s.log.Info("Submitting credentials", zap.Stringer("identifier_kind", creds.IdentifierKind))
	return s.withTimeout(ctx, navTimeout, "submitting credentials", func(ctx context.Context) error {
		return s.page.ClickAndWaitNavigation(ctx, submit)
	})
}

// DetectBlocking fails with a *BlockedError when the current page is a block page,
// a challenge or shows an error banner
func (s *BrowserSession) DetectBlocking(ctx context.Context) error {
	html, err := s.html(ctx, "reading page for block detection")
	if err != nil {
		return err
	}
	blocked, err := DetectBlock(html, s.site)
	if err != nil {
		return err
	}
	if blocked != nil {
		s.log.Warn("Blocked by site", zap.String("message", blocked.Message))
		return blocked
	}
	return nil
}

// RefineByLocation searches test centres near location and expands the result list
func (s *BrowserSession) RefineByLocation(ctx context.Context, location string) error {
	if err := s.ready(); err != nil {
		return err
	}
	sel := s.site.Selectors

	if err := s.openCentreSearch(ctx); err != nil {
		return err
	}
	if err := s.fill(ctx, sel.CentreSearchInput, location); err != nil {
		return fmt.Errorf("test centre search field: %w", err)
	}
	if err := s.human.RandomDelay(ctx); err != nil {
		return err
	}

	submit, err := s.wait.WaitForAnyElement(ctx, s.page, sel.CentreSearchSubmit, s.browser.SelectorTimeoutDuration())
	if err != nil {
		return fmt.Errorf("test centre search button: %w", err)
	}
	s.log.Info("Searching test centres", zap.String("location", location))
	if err := s.withTimeout(ctx, s.browser.NavigationTimeoutDuration(), "searching test centres", func(ctx context.Context) error {
		return s.page.ClickAndWaitNavigation(ctx, submit)
	}); err != nil {
		return err
	}

	return s.expandResults(ctx)
}

// openCentreSearch clicks the change-centre control by selector, falling back to its link text
func (s *BrowserSession) openCentreSearch(ctx context.Context) error {
	sel := s.site.Selectors
	timeout := s.browser.SelectorTimeoutDuration()

	if control, err := s.wait.WaitForAnyElement(ctx, s.page, sel.ChangeCentre, timeout); err == nil {
		if err := s.human.ClickLikeHuman(ctx, s.page, control); err != nil {
			return fmt.Errorf("clicking change test centre: %w", err)
		}
	} else {
		if ctx.Err() != nil {
			return asTimeout(ctx.Err(), "opening test centre search", timeout)
		}
		s.log.Debug("Change centre selectors missed, trying link text", zap.String("text", sel.ChangeCentreText))
		clicked, err := s.clickText(ctx, sel.ChangeCentreText, timeout)
		if err != nil {
			return err
		}
		if !clicked {
			return fmt.Errorf("change test centre control: %w", ErrSelectorNotFound)
		}
	}

	if _, err := s.wait.WaitForAnyElement(ctx, s.page, sel.CentreSearchInput, s.browser.NavigationTimeoutDuration()); err != nil {
		return fmt.Errorf("test centre search page: %w", err)
	}
	return nil
}

func (s *BrowserSession) clickText(ctx context.Context, text string, timeout time.Duration) (bool, error) {
	if text == "" {
		return false, nil
	}
	var clicked bool
	err := s.withTimeout(ctx, timeout, "clicking "+text, func(ctx context.Context) error {
		var err error
		clicked, err = s.page.ClickText(ctx, text)
		return err
	})
	return clicked, err
}

// expandResults clicks "show more" until it has been absent for MaxMissingProbes
// consecutive probes or MaxPaginationAttempts probes have run
func (s *BrowserSession) expandResults(ctx context.Context) error {
	probe := s.browser.PaginationProbeDuration()
	missing := 0
	clicks := 0

	for attempt := 1; attempt <= s.browser.MaxPaginationAttempts; attempt++ {
		control, err := s.wait.WaitForAnyElement(ctx, s.page, s.site.Selectors.ShowMore, probe)
		if err != nil {
			if ctx.Err() != nil {
				return asTimeout(ctx.Err(), "expanding test centre results", probe)
			}
			missing++
			if missing >= s.browser.MaxMissingProbes {
				break
			}
			continue
		}

		missing = 0
		if err := s.human.ClickLikeHuman(ctx, s.page, control); err != nil {
			s.log.Debug("Show more click failed", zap.Int("attempt", attempt), zap.Error(err))
			continue
		}
		clicks++
		if err := s.human.RandomDelay(ctx); err != nil {
			return err
		}
	}

	s.log.Debug("Finished expanding results", zap.Int("clicks", clicks))
	return nil
}

// ExtractSlots scrapes available slots from the current page
func (s *BrowserSession) ExtractSlots(ctx context.Context) ([]TestSlot, error) {
	html, err := s.html(ctx, "reading slots")
	if err != nil {
		return nil, err
	}
	slots, err := ParseSlots(html, s.site.Selectors)
	if err != nil {
		return nil, err
	}
	s.log.Info("Extracted slots", logger.CountField(len(slots)))
	return slots, nil
}

// ExtractCentres scrapes the test-centre search results from the current page
func (s *BrowserSession) ExtractCentres(ctx context.Context) ([]TestCentreResult, error) {
	html, err := s.html(ctx, "reading test centres")
	if err != nil {
		return nil, err
	}
	centres, err := ParseCentres(html, s.site.Selectors)
	if err != nil {
		return nil, err
	}
	s.log.Info("Extracted test centres", logger.CountField(len(centres)))
	return centres, nil
}

// Dispose closes the browser. Safe to call more than once and before Initialize.
func (s *BrowserSession) Dispose() {
	s.disposeOnce.Do(func() {
		if s.page == nil {
			return
		}
		if err := s.page.Close(); err != nil {
			s.log.Warn("Failed to close browser", zap.Error(err))
		}
		metrics.SessionClosed()
		s.log.Debug("Browser closed")
	})
}

// fill waits for the first present selector and types value into it
func (s *BrowserSession) fill(ctx context.Context, selectors []string, value string) error {
	field, err := s.wait.WaitForAnyElement(ctx, s.page, selectors, s.browser.SelectorTimeoutDuration())
	if err != nil {
		return err
	}
	return s.human.TypeLikeHuman(ctx, s.page, field, value)
}

func (s *BrowserSession) html(ctx context.Context, step string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	var html string
	err := s.withTimeout(ctx, s.browser.SelectorTimeoutDuration(), step, func(ctx context.Context) error {
		var err error
		html, err = s.page.HTML(ctx)
		return err
	})
	return html, err
}

// withTimeout runs fn under timeout and reports an exceeded budget as *TimeoutError
func (s *BrowserSession) withTimeout(ctx context.Context, timeout time.Duration, step string, fn func(context.Context) error) error {
	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return asTimeout(fn(stepCtx), step, timeout)
}

func (s *BrowserSession) ready() error {
	if s.page == nil {
		return errors.New("browser session not initialized")
	}
	return nil
}
