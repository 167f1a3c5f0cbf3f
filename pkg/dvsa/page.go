package dvsa

import (
	"context"

	"dvsacheck/pkg/config"
)

// Page is the single browser tab a session drives.
// Every method honours the deadline carried by ctx.
type Page interface {
	Navigate(ctx context.Context, url string) error
	WaitNetworkIdle(ctx context.Context) error
	// Exists reports whether selector currently matches at least one node, without waiting
	Exists(ctx context.Context, selector string) (bool, error)
	SendKeys(ctx context.Context, selector, text string) error
	Click(ctx context.Context, selector string) error
	// ClickAndWaitNavigation clicks selector and blocks until the resulting page load finishes
	ClickAndWaitNavigation(ctx context.Context, selector string) error
	// ClickText clicks the first link or button whose text contains text; false when none exists
	ClickText(ctx context.Context, text string) (bool, error)
	ElementCenter(ctx context.Context, selector string) (x, y float64, err error)
	MoveMouse(ctx context.Context, x, y float64) error
	HTML(ctx context.Context) (string, error)
	Close() error
}

// Launcher starts a browser and returns its page
type Launcher func(ctx context.Context, cfg *config.BrowserConfig) (Page, error)
