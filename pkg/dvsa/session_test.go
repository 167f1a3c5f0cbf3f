package dvsa

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dvsacheck/pkg/config"
)

func TestSubmitCredentialsPicksFieldByKind(t *testing.T) {
	tests := []struct {
		name      string
		kind      IdentifierKind
		wantField string
	}{
		{name: "theory pass number", kind: TheoryPassNumber, wantField: "#theory-test-pass-number"},
		{name: "application reference", kind: ApplicationReferenceNumber, wantField: "#application-reference-number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			// older markup: only the second licence selector exists
			page := newFakePage("#drivinglicence", "#theory-test-pass-number", "#application-reference-number", "#booking-login")
			s := newTestSession(t, cfg, page)

			err := s.SubmitCredentials(context.Background(), Credentials{
				LicenceNumber:       "AB123456CD7EF",
				SecondaryIdentifier: "123456",
				IdentifierKind:      tt.kind,
			})
			require.NoError(t, err)

			assert.Equal(t, []string{cfg.Site.LoginURL()}, page.navigated)
			assert.Equal(t, "AB123456CD7EF", page.typed["#drivinglicence"])
			assert.Equal(t, "123456", page.typed[tt.wantField])
			assert.Len(t, page.typed, 2)
			assert.Equal(t, []string{"#booking-login"}, page.submits)
		})
	}
}

func TestSubmitCredentialsMissingFieldTimesOut(t *testing.T) {
	cfg := testConfig()
	page := newFakePage()
	s := newTestSession(t, cfg, page)

	err := s.SubmitCredentials(context.Background(), Credentials{LicenceNumber: "X", SecondaryIdentifier: "1"})
	require.Error(t, err)

	var te *TimeoutError
	assert.True(t, errors.As(err, &te))
	assert.ErrorIs(t, err, ErrSelectorNotFound)
	assert.Empty(t, page.submits)
}

func TestSubmitCredentialsNavigationTimeout(t *testing.T) {
	cfg := testConfig()
	page := newFakePage()
	page.navErr = context.DeadlineExceeded
	s := newTestSession(t, cfg, page)

	err := s.SubmitCredentials(context.Background(), Credentials{LicenceNumber: "X", SecondaryIdentifier: "1"})

	var te *TimeoutError
	require.True(t, errors.As(err, &te), "got %v", err)
	assert.Equal(t, cfg.Browser.NavigationTimeoutDuration(), te.Timeout)
	assert.Equal(t, "loading login page", te.Step)
}

func TestDetectBlocking(t *testing.T) {
	cfg := testConfig()
	page := newFakePage()
	page.html = `<html><body><h1>Access Denied</h1></body></html>`
	s := newTestSession(t, cfg, page)

	err := s.DetectBlocking(context.Background())

	var blocked *BlockedError
	require.True(t, errors.As(err, &blocked))
	assert.Equal(t, "Access denied by DVSA security. Please try again later.", blocked.Message)

	page.html = `<html><body><ul><li class="slot-list-item">x</li></ul></body></html>`
	assert.NoError(t, s.DetectBlocking(context.Background()))
}

func TestExpandResultsIsBounded(t *testing.T) {
	cfg := testConfig()
	cfg.Browser.MaxPaginationAttempts = 4
	// the control never goes away
	page := newFakePage("#fetch-more-centres")
	s := newTestSession(t, cfg, page)

	require.NoError(t, s.expandResults(context.Background()))
	assert.Equal(t, 4, page.clickCount("#fetch-more-centres"))
}

func TestExpandResultsStopsAfterConsecutiveMisses(t *testing.T) {
	cfg := testConfig()
	cfg.Browser.MaxPaginationAttempts = 10
	cfg.Browser.MaxMissingProbes = 3
	page := newFakePage()
	s := newTestSession(t, cfg, page)

	require.NoError(t, s.expandResults(context.Background()))
	assert.Equal(t, 3, page.existsCalls["#fetch-more-centres"])
	assert.Empty(t, page.clicks)
}

func TestExpandResultsUntilControlDisappears(t *testing.T) {
	cfg := testConfig()
	cfg.Browser.MaxPaginationAttempts = 10
	cfg.Browser.MaxMissingProbes = 2
	page := newFakePage("#fetch-more-centres")
	page.onClick = func(selector string) {
		if selector == "#fetch-more-centres" && page.clickCount(selector) == 2 {
			delete(page.present, selector)
		}
	}
	s := newTestSession(t, cfg, page)

	require.NoError(t, s.expandResults(context.Background()))
	assert.Equal(t, 2, page.clickCount("#fetch-more-centres"))
	// two hits followed by two misses
	assert.Equal(t, 4, page.existsCalls["#fetch-more-centres"])
}

func TestRefineByLocation(t *testing.T) {
	t.Run("selector control", func(t *testing.T) {
		cfg := testConfig()
		page := newFakePage("#test-centre-change", "#test-centres-input", "#test-centres-submit")
		s := newTestSession(t, cfg, page)

		require.NoError(t, s.RefineByLocation(context.Background(), "Leeds"))
		assert.Equal(t, 1, page.clickCount("#test-centre-change"))
		assert.Equal(t, "Leeds", page.typed["#test-centres-input"])
		assert.Equal(t, []string{"#test-centres-submit"}, page.submits)
	})

	t.Run("falls back to link text", func(t *testing.T) {
		cfg := testConfig()
		page := newFakePage("#test-centres-input", "#test-centres-submit")
		page.textLinks["Change"] = true
		s := newTestSession(t, cfg, page)

		require.NoError(t, s.RefineByLocation(context.Background(), "Leeds"))
		assert.Equal(t, 1, page.clickCount("text=Change"))
		assert.Equal(t, "Leeds", page.typed["#test-centres-input"])
	})

	t.Run("no control at all", func(t *testing.T) {
		cfg := testConfig()
		page := newFakePage()
		s := newTestSession(t, cfg, page)

		err := s.RefineByLocation(context.Background(), "Leeds")
		assert.ErrorIs(t, err, ErrSelectorNotFound)
		assert.Empty(t, page.typed)
	})
}

func TestExtractFromSession(t *testing.T) {
	cfg := testConfig()
	page := newFakePage()
	page.html = `<html><body>
		<ul class="test-centre-results"><li><h4>Leeds</h4><address>1 Road</address><h5>Available tests</h5></li></ul>
		<div class="SlotPicker-slot"><span class="date">12 March</span><span class="time">09:00</span></div>
	</body></html>`
	s := newTestSession(t, cfg, page)

	slots, err := s.ExtractSlots(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []TestSlot{{Date: "12 March", Time: "09:00", Location: LocationNotFound}}, slots)

	centres, err := s.ExtractCentres(context.Background())
	require.NoError(t, err)
	require.Len(t, centres, 1)
	assert.Equal(t, "Leeds", centres[0].Name)
	assert.True(t, centres[0].HasTests)
}

func TestInitializeWrapsLaunchFailure(t *testing.T) {
	cfg := testConfig()
	launch := func(context.Context, *config.BrowserConfig) (Page, error) {
		return nil, errors.New("exec: chrome not found")
	}
	s := NewBrowserSession(context.Background(), cfg.Browser, cfg.Site, launch)

	err := s.Initialize(context.Background())

	var le *LaunchError
	require.True(t, errors.As(err, &le))
	assert.Contains(t, err.Error(), "failed to launch browser")
	assert.NotPanics(t, s.Dispose)
}

func TestDisposeClosesOnce(t *testing.T) {
	cfg := testConfig()
	page := newFakePage()
	s := NewBrowserSession(context.Background(), cfg.Browser, cfg.Site, launcherFor(page))
	require.NoError(t, s.Initialize(context.Background()))

	s.Dispose()
	s.Dispose()

	assert.Equal(t, 1, page.closed)
}

func TestOperationsBeforeInitialize(t *testing.T) {
	cfg := testConfig()
	s := NewBrowserSession(context.Background(), cfg.Browser, cfg.Site, launcherFor(newFakePage()))

	_, err := s.ExtractSlots(context.Background())
	assert.Error(t, err)
	assert.Error(t, s.SubmitCredentials(context.Background(), Credentials{}))
}
