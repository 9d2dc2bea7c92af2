package domain

import "github.com/jonboulle/clockwork"

// clock is the package time source the plausibility checks compare event
// times against. Tests freeze it via SetClock for deterministic warnings.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
