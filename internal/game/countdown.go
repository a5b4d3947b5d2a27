package game

// Countdown is the single shared session clock, bounded to [0, maxTime].
// The session loop drives it; it carries no goroutines of its own.
type Countdown struct {
	remaining int
	maxTime   int
}

// NewCountdown creates a full countdown.
func NewCountdown(maxTime int) Countdown {
	return Countdown{remaining: maxTime, maxTime: maxTime}
}

// Tick consumes one time unit and reports whether the clock just reached
// zero. Zero is one-way: a spent countdown stays at zero.
func (c *Countdown) Tick() bool {
	if c.remaining > 0 {
		c.remaining--
	}
	return c.remaining == 0
}

// Bonus adds seconds, clamped at the maximum, and returns the new value.
func (c *Countdown) Bonus(seconds int) int {
	c.remaining += seconds
	if c.remaining > c.maxTime {
		c.remaining = c.maxTime
	}
	return c.remaining
}

// Remaining returns the seconds left.
func (c *Countdown) Remaining() int {
	return c.remaining
}

// Expired reports whether the clock has reached zero.
func (c *Countdown) Expired() bool {
	return c.remaining == 0
}
