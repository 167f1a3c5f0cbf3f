package dvsa

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// WaitStrategy polls a page until one of several selectors shows up
type WaitStrategy struct {
	Interval time.Duration
}

// NewWaitStrategy creates a new wait strategy with defaults
func NewWaitStrategy() *WaitStrategy {
	return &WaitStrategy{
		Interval: 200 * time.Millisecond,
	}
}

// WaitForAnyElement waits for any of the given selectors and returns the first present one,
// in list order. A zero timeout checks once. Exhausting the budget returns a *TimeoutError
// wrapping ErrSelectorNotFound.
func (ws *WaitStrategy) WaitForAnyElement(ctx context.Context, page Page, selectors []string, timeout time.Duration) (string, error) {
	step := "waiting for " + strings.Join(selectors, ", ")

	waitCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	interval := ws.Interval
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		for _, selector := range selectors {
			if selector == "" {
				continue
			}
			ok, err := page.Exists(waitCtx, selector)
			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
					break
				}
				return "", asTimeout(err, step, timeout)
			}
			if ok {
				return selector, nil
			}
		}

		if timeout <= 0 {
			return "", &TimeoutError{Step: step, Timeout: timeout, Err: ErrSelectorNotFound}
		}

		select {
		case <-ctx.Done():
			return "", asTimeout(ctx.Err(), step, timeout)
		case <-waitCtx.Done():
			return "", &TimeoutError{Step: step, Timeout: timeout, Err: ErrSelectorNotFound}
		case <-ticker.C:
		}
	}
}

// networkIdle waits for the document to finish loading, then for a quiet period
func networkIdle(idle time.Duration) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if err := chromedp.WaitReady(`body`, chromedp.ByQuery).Do(ctx); err != nil {
			return err
		}

		var readyState string
		if err := chromedp.Evaluate(`document.readyState`, &readyState).Do(ctx); err != nil {
			return err
		}
		if readyState != "complete" {
			if err := chromedp.Poll(`document.readyState === "complete"`, nil).Do(ctx); err != nil {
				return err
			}
		}

		return sleepContext(ctx, idle)
	})
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
