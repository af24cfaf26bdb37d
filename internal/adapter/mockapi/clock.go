package mockapi

import "github.com/jonboulle/clockwork"

// clock bounds the synthetic series at the current date. Tests freeze it
// with SetClock so generated series have a fixed length.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
