package kmac

import (
	"fmt"
	"time"

	"code.cloudfoundry.org/clock"
)

// EntropyTick is the time unit the wait timer and prescaler are scaled by.
const EntropyTick = time.Microsecond

// A Source models one endpoint of the entropy distribution network. Request
// issues a single-word request; the returned channel delivers at most one
// word. A closed channel reports an exhausted source.
//
// A Source's capacity is finite and replenished by an external process; the
// engine only ever consumes it one word at a time.
type Source interface {
	Request() <-chan uint32
}

// gate mediates every entropy draw the engine makes, applying the configured
// entropy mode and the wait-timer budget.
type gate struct {
	mode    EntropyMode
	src     Source
	clk     clock.Clock
	timeout time.Duration
	prng    uint64
}

func newGate(cfg *Config, src Source, clk clock.Clock) *gate {
	g := &gate{
		mode:    cfg.EntropyMode,
		src:     src,
		clk:     clk,
		timeout: time.Duration(cfg.WaitTimer) * time.Duration(cfg.Prescaler+1) * EntropyTick,
	}
	for _, w := range cfg.EntropySeed {
		g.prng = (g.prng ^ uint64(w)) * 0x9E3779B97F4A7C15
	}
	return g
}

// draw obtains one entropy word. In EDN mode it blocks for up to the
// wait-timer budget and reports ErrEntropyTimeout if the source does not
// answer in time; a timed-out word is never substituted with filler data.
func (g *gate) draw() (uint32, error) {
	switch g.mode {
	case EntropyModeNone:
		return 0, nil
	case EntropyModeSoftware:
		return g.next(), nil
	}

	ch := g.src.Request()
	if g.timeout <= 0 {
		w, ok := <-ch
		if !ok {
			return 0, fmt.Errorf("%w: source exhausted", ErrEntropyTimeout)
		}
		return w, nil
	}

	timer := g.clk.NewTimer(g.timeout)
	defer timer.Stop()
	select {
	case w, ok := <-ch:
		if !ok {
			return 0, fmt.Errorf("%w: source exhausted", ErrEntropyTimeout)
		}
		return w, nil
	case <-timer.C():
		return 0, fmt.Errorf("%w: no response within %v", ErrEntropyTimeout, g.timeout)
	}
}

// next steps the software-mode PRNG (splitmix64, truncated).
func (g *gate) next() uint32 {
	g.prng += 0x9E3779B97F4A7C15
	z := g.prng
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return uint32(z ^ (z >> 31))
}
