package camera

import "time"

// RevealInstant returns the instant this camera's photos become visible.
// immediate cameras have no reveal boundary; the zero time is returned and
// IsRevealedAt treats them as always revealed. A custom policy without a
// custom instant falls back to end time + 24h.
func (c *Camera) RevealInstant() time.Time {
	switch c.RevealPolicy {
	case RevealImmediate:
		return time.Time{}
	case RevealAfter12h:
		return c.EndTime.Add(12 * time.Hour)
	case RevealCustom:
		if c.CustomRevealAt != nil {
			return *c.CustomRevealAt
		}
		return c.EndTime.Add(24 * time.Hour)
	default:
		return c.EndTime.Add(24 * time.Hour)
	}
}

// IsRevealedAt reports whether photos are visible at the given instant.
// Never cached: callers recompute at every read so a reveal boundary is
// crossed exactly once.
func (c *Camera) IsRevealedAt(now time.Time) bool {
	if c.RevealPolicy == RevealImmediate {
		return true
	}
	return !now.Before(c.RevealInstant())
}

// IsRevealedNow is IsRevealedAt against the wall clock.
func (c *Camera) IsRevealedNow() bool {
	return c.IsRevealedAt(time.Now())
}
