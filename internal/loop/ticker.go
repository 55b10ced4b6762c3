package loop

import "time"

// Ticker delivers gravity ticks. The driver only reads C and calls Stop, so
// tests can substitute a ticker they fire by hand.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a running ticker with the given period.
type TickerFunc func(d time.Duration) Ticker

type timeTicker struct {
	ticker *time.Ticker
}

// NewTimeTicker wraps a time.Ticker.
func NewTimeTicker(d time.Duration) Ticker {
	return &timeTicker{ticker: time.NewTicker(d)}
}

func (t *timeTicker) C() <-chan time.Time { return t.ticker.C }
func (t *timeTicker) Stop()               { t.ticker.Stop() }
