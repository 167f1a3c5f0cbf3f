package dvsa

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"

	"dvsacheck/pkg/config"
	"dvsacheck/pkg/logger"
)

// networkIdlePeriod is the quiet time required after the document reports complete
const networkIdlePeriod = 500 * time.Millisecond

// chromePage drives one Chrome tab through chromedp
type chromePage struct {
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc
}

// LaunchChrome starts a dedicated Chrome process and prepares its first tab.
// The browser lives until Close, independently of ctx, which only bounds tab setup.
func LaunchChrome(ctx context.Context, cfg *config.BrowserConfig) (Page, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), BrowserOptions(cfg)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(logger.Logger.Sugar().Debugf))

	p := &chromePage{
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
		allocCancel: allocCancel,
	}

	// the first Run allocates the browser and must not carry a timeout, or the timeout
	// would tear the whole browser down when it fires
	if err := chromedp.Run(tabCtx); err != nil {
		p.Close()
		return nil, &LaunchError{Err: err}
	}
	if err := p.run(ctx, setupActions(cfg)...); err != nil {
		p.Close()
		return nil, &LaunchError{Err: err}
	}
	return p, nil
}

// run executes actions on the tab, bounded by ctx's deadline and cancellation
func (p *chromePage) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := p.bind(ctx)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

// bind derives a tab context that also ends when ctx ends
func (p *chromePage) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithCancel(p.tabCtx)
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		prev := cancel
		cancel = func() {
			cancelDeadline()
			prev()
		}
	}
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

func (p *chromePage) Navigate(ctx context.Context, url string) error {
	return p.run(ctx, chromedp.Navigate(url))
}

func (p *chromePage) WaitNetworkIdle(ctx context.Context) error {
	return p.run(ctx, networkIdle(networkIdlePeriod))
}

func (p *chromePage) Exists(ctx context.Context, selector string) (bool, error) {
	var nodes []*cdp.Node
	if err := p.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))); err != nil {
		return false, err
	}
	return len(nodes) > 0, nil
}

func (p *chromePage) SendKeys(ctx context.Context, selector, text string) error {
	return p.run(ctx, chromedp.SendKeys(selector, text, chromedp.ByQuery))
}

func (p *chromePage) Click(ctx context.Context, selector string) error {
	return p.run(ctx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible))
}

func (p *chromePage) ClickAndWaitNavigation(ctx context.Context, selector string) error {
	runCtx, cancel := p.bind(ctx)
	defer cancel()
	_, err := chromedp.RunResponse(runCtx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible))
	return err
}

func (p *chromePage) ClickText(ctx context.Context, text string) (bool, error) {
	xpath := clickTextXPath(text)

	var nodes []*cdp.Node
	if err := p.run(ctx, chromedp.Nodes(xpath, &nodes, chromedp.BySearch, chromedp.AtLeast(0))); err != nil {
		return false, err
	}
	if len(nodes) == 0 {
		return false, nil
	}
	if err := p.run(ctx, chromedp.MouseClickNode(nodes[0])); err != nil {
		return false, err
	}
	return true, nil
}

// clickTextXPath matches links and buttons whose normalized text contains text
func clickTextXPath(text string) string {
	lit := xpathLiteral(text)
	return fmt.Sprintf(`//a[contains(normalize-space(.), %s)] | //button[contains(normalize-space(.), %s)]`, lit, lit)
}

// xpathLiteral quotes s as an XPath 1.0 string literal. XPath has no escapes, so a
// value holding both quote kinds is assembled with concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	args := make([]string, 0, 2*len(parts)-1)
	for i, part := range parts {
		if i > 0 {
			args = append(args, `"'"`)
		}
		if part != "" {
			args = append(args, "'"+part+"'")
		}
	}
	return "concat(" + strings.Join(args, ", ") + ")"
}

func (p *chromePage) ElementCenter(ctx context.Context, selector string) (float64, float64, error) {
	var box *dom.BoxModel
	if err := p.run(ctx, chromedp.Dimensions(selector, &box, chromedp.ByQuery)); err != nil {
		return 0, 0, err
	}
	if box == nil || len(box.Content) < 8 {
		return 0, 0, fmt.Errorf("no box model for %s", selector)
	}
	q := box.Content
	return (q[0] + q[2] + q[4] + q[6]) / 4, (q[1] + q[3] + q[5] + q[7]) / 4, nil
}

func (p *chromePage) MoveMouse(ctx context.Context, x, y float64) error {
	return p.run(ctx, input.DispatchMouseEvent(input.MouseMoved, x, y))
}

func (p *chromePage) HTML(ctx context.Context) (string, error) {
	var html string
	if err := p.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

// Close shuts the browser down; further calls are no-ops
func (p *chromePage) Close() error {
	err := chromedp.Cancel(p.tabCtx)
	p.tabCancel()
	p.allocCancel()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
