package timex

import (
	"time"

	"mcuperiph-go/errcode"
)

// DefaultBound is the handshake budget, in ticks, used when a driver is not
// given one.
const DefaultBound uint32 = 400

// TickSource is a monotonic tick counter. Differences are taken modulo 2^32
// so a wrapping counter is fine.
type TickSource interface {
	Now() uint32
}

// SysTick counts milliseconds since it was created.
type SysTick struct{ boot time.Time }

func NewSysTick() *SysTick { return &SysTick{boot: time.Now()} }

func (s *SysTick) Now() uint32 { return uint32(time.Since(s.boot).Milliseconds()) }

// Budget bounds one hardware handshake.
type Budget struct {
	Ticks uint32
	Src   TickSource
}

// Await spins on cond until it reports true or more than b.Ticks ticks have
// elapsed. It never sleeps or yields. A zero budget is already expired and
// cond is not sampled.
func (b Budget) Await(cond func() bool) error {
	if b.Ticks == 0 || b.Src == nil {
		return errcode.Timeout
	}
	start := b.Src.Now()
	for {
		if b.Src.Now()-start > b.Ticks {
			return errcode.Timeout
		}
		if cond() {
			return nil
		}
	}
}

// Or returns b, or a DefaultBound budget on src when b has no tick source.
func (b Budget) Or(src TickSource) Budget {
	if b.Src != nil {
		return b
	}
	t := b.Ticks
	if t == 0 {
		t = DefaultBound
	}
	return Budget{Ticks: t, Src: src}
}

// ManualClock is a TickSource that advances by Step on every Now call.
type ManualClock struct {
	t    uint32
	Step uint32
}

func NewManualClock(start uint32) *ManualClock { return &ManualClock{t: start, Step: 1} }

func (c *ManualClock) Now() uint32 {
	c.t += c.Step
	return c.t
}

// Peek returns the last value handed out by Now without advancing.
func (c *ManualClock) Peek() uint32 { return c.t }

// Advance moves the clock forward by d ticks.
func (c *ManualClock) Advance(d uint32) { c.t += d }

