package dvsa

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"dvsacheck/pkg/config"
)

// fakePage is an in-memory Page. Selectors listed in present exist; everything else does not.
type fakePage struct {
	present      map[string]bool
	html         string
	htmlOnSubmit string
	textLinks    map[string]bool

	navigated   []string
	typed       map[string]string
	clicks      []string
	submits     []string
	existsCalls map[string]int
	closed      int

	onClick  func(selector string)
	navErr   error
	closeErr error
}

func newFakePage(present ...string) *fakePage {
	p := &fakePage{
		present:     map[string]bool{},
		textLinks:   map[string]bool{},
		typed:       map[string]string{},
		existsCalls: map[string]int{},
	}
	for _, s := range present {
		p.present[s] = true
	}
	return p
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	if p.navErr != nil {
		return p.navErr
	}
	p.navigated = append(p.navigated, url)
	return ctx.Err()
}

func (p *fakePage) WaitNetworkIdle(ctx context.Context) error { return ctx.Err() }

func (p *fakePage) Exists(ctx context.Context, selector string) (bool, error) {
	p.existsCalls[selector]++
	return p.present[selector], ctx.Err()
}

func (p *fakePage) SendKeys(_ context.Context, selector, text string) error {
	p.typed[selector] += text
	return nil
}

func (p *fakePage) Click(_ context.Context, selector string) error {
	p.clicks = append(p.clicks, selector)
	if p.onClick != nil {
		p.onClick(selector)
	}
	return nil
}

func (p *fakePage) ClickAndWaitNavigation(_ context.Context, selector string) error {
	p.submits = append(p.submits, selector)
	if p.htmlOnSubmit != "" {
		p.html = p.htmlOnSubmit
	}
	return nil
}

func (p *fakePage) ClickText(_ context.Context, text string) (bool, error) {
	if !p.textLinks[text] {
		return false, nil
	}
	p.clicks = append(p.clicks, "text="+text)
	return true, nil
}

func (p *fakePage) ElementCenter(context.Context, string) (float64, float64, error) {
	return 100, 50, nil
}

func (p *fakePage) MoveMouse(context.Context, float64, float64) error { return nil }

func (p *fakePage) HTML(context.Context) (string, error) { return p.html, nil }

func (p *fakePage) Close() error {
	p.closed++
	return p.closeErr
}

func (p *fakePage) clickCount(selector string) int {
	n := 0
	for _, c := range p.clicks {
		if c == selector {
			n++
		}
	}
	return n
}

// testConfig returns default settings with every delay removed and short waits
func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Browser.MinDelayMs = 0
	cfg.Browser.MaxDelayMs = 0
	cfg.Browser.KeyDelayMs = 0
	cfg.Browser.SelectorTimeout = 1
	cfg.Browser.PaginationProbeTimeout = 0
	return cfg
}

func launcherFor(p *fakePage) Launcher {
	return func(context.Context, *config.BrowserConfig) (Page, error) {
		return p, nil
	}
}

func newTestSession(t *testing.T, cfg *config.Config, p *fakePage) *BrowserSession {
	t.Helper()
	s := NewBrowserSession(context.Background(), cfg.Browser, cfg.Site, launcherFor(p))
	require.NoError(t, s.Initialize(context.Background()))
	t.Cleanup(s.Dispose)
	return s
}
