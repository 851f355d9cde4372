package loop

import "time"

// Combo counts consecutive hits landed within Timeout of each other.
type Combo struct {
	Timeout       time.Duration
	MaxMultiplier int

	count int
	last  time.Duration
}

// Hit records a hit at now and returns the multiplier it earns. A hit that
// arrives Timeout or later after the previous one starts a new combo.
func (c *Combo) Hit(now time.Duration) int {
	if c.count > 0 && now-c.last >= c.Timeout {
		c.count = 0
	}
	c.count++
	c.last = now
	return c.Multiplier()
}

// Expire resets the combo if it has timed out at now. Reports whether it did.
func (c *Combo) Expire(now time.Duration) bool {
	if c.count == 0 || now-c.last < c.Timeout {
		return false
	}
	c.count = 0
	return true
}

// Count returns the hits in the current combo.
func (c *Combo) Count() int {
	return c.count
}

// Multiplier returns min(count, MaxMultiplier), at least 1.
func (c *Combo) Multiplier() int {
	return max(1, min(c.count, c.MaxMultiplier))
}

// Reset clears the combo.
func (c *Combo) Reset() {
	c.count = 0
	c.last = 0
}
