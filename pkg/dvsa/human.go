package dvsa

import (
	"context"
	"math"
	"math/rand"
	"time"

	"dvsacheck/pkg/config"
)

// Humanizer injects randomized timing and mouse movement between page actions.
// Best effort only; it is not safe for concurrent use.
type Humanizer struct {
	minDelay time.Duration
	maxDelay time.Duration
	keyDelay time.Duration
	rnd      *rand.Rand

	mouseX, mouseY float64
}

// NewHumanizer builds a humanizer from the browser delay settings
func NewHumanizer(cfg *config.BrowserConfig) *Humanizer {
	minDelay, maxDelay := cfg.DelayRange()
	return &Humanizer{
		minDelay: minDelay,
		maxDelay: maxDelay,
		keyDelay: cfg.KeyDelay(),
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NextDelay returns a duration uniformly drawn from [min, max]
func (h *Humanizer) NextDelay() time.Duration {
	if h.maxDelay <= h.minDelay {
		return h.minDelay
	}
	return h.minDelay + time.Duration(h.rnd.Int63n(int64(h.maxDelay-h.minDelay)+1))
}

// RandomDelay sleeps for NextDelay or until ctx is done
func (h *Humanizer) RandomDelay(ctx context.Context) error {
	return sleepContext(ctx, h.NextDelay())
}

// keyPause jitters the per-key delay between 50% and 150% of its base value
func (h *Humanizer) keyPause() time.Duration {
	if h.keyDelay <= 0 {
		return 0
	}
	return time.Duration(float64(h.keyDelay) * (0.5 + h.rnd.Float64()))
}

// TypeLikeHuman sends text one character at a time with jittered pauses
func (h *Humanizer) TypeLikeHuman(ctx context.Context, page Page, selector, text string) error {
	if err := h.ClickLikeHuman(ctx, page, selector); err != nil {
		return err
	}
	for _, r := range text {
		if err := page.SendKeys(ctx, selector, string(r)); err != nil {
			return err
		}
		if err := sleepContext(ctx, h.keyPause()); err != nil {
			return err
		}
	}
	return nil
}

// MoveToElement moves the mouse along a jittered curve to the centre of selector
func (h *Humanizer) MoveToElement(ctx context.Context, page Page, selector string) error {
	x, y, err := page.ElementCenter(ctx, selector)
	if err != nil {
		return err
	}
	for _, p := range h.mousePath(h.mouseX, h.mouseY, x, y, 12) {
		if err := page.MoveMouse(ctx, p[0], p[1]); err != nil {
			return err
		}
		if err := sleepContext(ctx, h.keyPause()/5); err != nil {
			return err
		}
	}
	h.mouseX, h.mouseY = x, y
	return nil
}

// ClickLikeHuman moves to the element before clicking it
func (h *Humanizer) ClickLikeHuman(ctx context.Context, page Page, selector string) error {
	if err := h.MoveToElement(ctx, page, selector); err != nil {
		return err
	}
	return page.Click(ctx, selector)
}

// mousePath returns steps points on a quadratic curve whose control point is offset
// perpendicular to the straight line. The last point is always the target.
func (h *Humanizer) mousePath(fromX, fromY, toX, toY float64, steps int) [][2]float64 {
	if steps < 1 {
		steps = 1
	}
	dx, dy := toX-fromX, toY-fromY
	dist := math.Hypot(dx, dy)

	ctrlX, ctrlY := (fromX+toX)/2, (fromY+toY)/2
	if dist > 0 {
		offset := (h.rnd.Float64() - 0.5) * dist * 0.4
		ctrlX += -dy / dist * offset
		ctrlY += dx / dist * offset
	}

	points := make([][2]float64, 0, steps)
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		u := 1 - t
		x := u*u*fromX + 2*u*t*ctrlX + t*t*toX
		y := u*u*fromY + 2*u*t*ctrlY + t*t*toY
		if i < steps {
			x += h.rnd.Float64()*2 - 1
			y += h.rnd.Float64()*2 - 1
		}
		points = append(points, [2]float64{x, y})
	}
	return points
}
