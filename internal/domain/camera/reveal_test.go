package camera

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var endTime = time.Date(2026, 6, 20, 23, 0, 0, 0, time.UTC)

func TestRevealInstant_Delays(t *testing.T) {
	c12 := &Camera{EndTime: endTime, RevealPolicy: RevealAfter12h}
	assert.Equal(t, endTime.Add(12*time.Hour), c12.RevealInstant())

	c24 := &Camera{EndTime: endTime, RevealPolicy: RevealAfter24h}
	assert.Equal(t, endTime.Add(24*time.Hour), c24.RevealInstant())
}

func TestRevealInstant_CustomVerbatim(t *testing.T) {
	at := endTime.Add(90 * time.Hour)
	c := &Camera{EndTime: endTime, RevealPolicy: RevealCustom, CustomRevealAt: &at}
	assert.Equal(t, at, c.RevealInstant())
}

func TestRevealInstant_CustomMissingFallsBackTo24h(t *testing.T) {
	c := &Camera{EndTime: endTime, RevealPolicy: RevealCustom}
	assert.Equal(t, endTime.Add(24*time.Hour), c.RevealInstant())
}

func TestIsRevealedAt_ImmediateAlwaysTrue(t *testing.T) {
	c := &Camera{EndTime: endTime, RevealPolicy: RevealImmediate}
	assert.True(t, c.IsRevealedAt(endTime.Add(-100*time.Hour)))
	assert.True(t, c.IsRevealedAt(endTime.Add(100*time.Hour)))
}

func TestIsRevealedAt_24hBoundary(t *testing.T) {
	c := &Camera{EndTime: endTime, RevealPolicy: RevealAfter24h}
	assert.False(t, c.IsRevealedAt(endTime.Add(23*time.Hour+59*time.Minute)))
	assert.True(t, c.IsRevealedAt(endTime.Add(24*time.Hour)))
}

func TestIsRevealedAt_Monotonic(t *testing.T) {
	c := &Camera{EndTime: endTime, RevealPolicy: RevealAfter12h}
	revealed := false
	for now := endTime; now.Before(endTime.Add(14 * time.Hour)); now = now.Add(7 * time.Minute) {
		cur := c.IsRevealedAt(now)
		if revealed {
			assert.True(t, cur, "reveal flipped back to hidden at %s", now)
		}
		revealed = cur
	}
	assert.True(t, revealed)
}

func TestIsActiveAt(t *testing.T) {
	c := &Camera{EndTime: endTime}
	assert.True(t, c.IsActiveAt(endTime.Add(-time.Second)))
	assert.False(t, c.IsActiveAt(endTime))
}
