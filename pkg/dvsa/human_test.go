package dvsa

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dvsacheck/pkg/config"
)

func TestNextDelayWithinRange(t *testing.T) {
	cfg := config.NewBrowserConfig()
	cfg.MinDelayMs, cfg.MaxDelayMs = 500, 2000
	h := NewHumanizer(cfg)

	for i := 0; i < 1000; i++ {
		d := h.NextDelay()
		assert.GreaterOrEqual(t, d, 500*time.Millisecond)
		assert.LessOrEqual(t, d, 2000*time.Millisecond)
	}
}

func TestNextDelayFixed(t *testing.T) {
	cfg := config.NewBrowserConfig()
	cfg.MinDelayMs, cfg.MaxDelayMs = 300, 300
	h := NewHumanizer(cfg)

	assert.Equal(t, 300*time.Millisecond, h.NextDelay())
}

func TestRandomDelayHonoursContext(t *testing.T) {
	cfg := config.NewBrowserConfig()
	cfg.MinDelayMs, cfg.MaxDelayMs = 10000, 10000
	h := NewHumanizer(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := h.RandomDelay(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestMousePathEndsOnTarget(t *testing.T) {
	h := NewHumanizer(config.NewBrowserConfig())

	path := h.mousePath(0, 0, 300, 120, 12)
	require.Len(t, path, 12)

	last := path[len(path)-1]
	assert.InDelta(t, 300, last[0], 1e-9)
	assert.InDelta(t, 120, last[1], 1e-9)

	// intermediate points stay near the segment's bounding box
	maxOffset := math.Hypot(300, 120)*0.2 + 1
	for _, p := range path {
		assert.GreaterOrEqual(t, p[0], -maxOffset)
		assert.LessOrEqual(t, p[0], 300+maxOffset)
		assert.GreaterOrEqual(t, p[1], -maxOffset)
		assert.LessOrEqual(t, p[1], 120+maxOffset)
	}
}

func TestTypeLikeHumanSendsEveryCharacter(t *testing.T) {
	cfg := testConfig()
	h := NewHumanizer(cfg.Browser)
	page := newFakePage("#field")

	require.NoError(t, h.TypeLikeHuman(context.Background(), page, "#field", "AB12 é"))

	assert.Equal(t, "AB12 é", page.typed["#field"])
	assert.Equal(t, []string{"#field"}, page.clicks)
}
