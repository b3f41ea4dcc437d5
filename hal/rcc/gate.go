// Package rcc arbitrates peripheral clock-enable bits.
//
// A clock is held by a set of owners. The first owner to acquire a clock
// sets its enable bit; the last owner to release it clears the bit.
// Acquiring a clock the owner already holds is a no-op, so repeated
// activation never double-counts and a release by one owner never turns
// off a sibling's clock.
//
// Holds live in a fixed table sized at build time; acquiring never
// allocates.
package rcc

import (
	"mcuperiph-go/errcode"
	"mcuperiph-go/hal/regmap"
	"mcuperiph-go/x/mmio"
	"mcuperiph-go/x/timex"
)

// MaxHolds bounds the number of (owner, clock) holds at any time: every
// peripheral plus one per claimed pin.
const MaxHolds = 48

type hold struct {
	owner string
	clock regmap.Clock
}

// Gate is the shared clock gate of one RCC block.
type Gate struct {
	regs  *regmap.RCCBlock
	holds [MaxHolds]hold
	n     int
}

func New(regs *regmap.RCCBlock) *Gate {
	return &Gate{regs: regs}
}

func (g *Gate) enableReg(b regmap.Bus) mmio.Register32 {
	switch b {
	case regmap.AHB:
		return g.regs.AHBENR
	case regmap.APB1:
		return g.regs.APB1ENR
	case regmap.APB2:
		return g.regs.APB2ENR
	}
	return nil
}

func (g *Gate) find(c regmap.Clock, owner string) int {
	for i := 0; i < g.n; i++ {
		if g.holds[i].clock == c && g.holds[i].owner == owner {
			return i
		}
	}
	return -1
}

func (g *Gate) held(c regmap.Clock, owner string) bool { return g.find(c, owner) >= 0 }

// Acquire makes owner a holder of clock c, enabling it if needed. The
// enable bit is read back; a bit that does not stick, or a full hold
// table, reports ResourceUnavailable and leaves the holder set unchanged.
func (g *Gate) Acquire(owner string, c regmap.Clock) error {
	reg := g.enableReg(c.Bus)
	if reg == nil || c.Bit == 0 {
		return errcode.Op("rcc.acquire", errcode.Unsupported)
	}
	if g.held(c, owner) {
		return nil
	}
	if g.n == MaxHolds {
		return errcode.Op("rcc.acquire", errcode.ResourceUnavailable)
	}
	if g.Holders(c) == 0 {
		reg.SetBits(c.Bit)
		if !reg.HasBits(c.Bit) {
			return errcode.Op("rcc.acquire", errcode.ResourceUnavailable)
		}
	}
	g.holds[g.n] = hold{owner: owner, clock: c}
	g.n++
	return nil
}

// Release drops owner's hold on c. Releasing a clock the owner does not
// hold is a no-op.
func (g *Gate) Release(owner string, c regmap.Clock) {
	i := g.find(c, owner)
	if i < 0 {
		return
	}
	g.n--
	g.holds[i] = g.holds[g.n]
	g.holds[g.n] = hold{}
	if g.Holders(c) == 0 {
		if reg := g.enableReg(c.Bus); reg != nil {
			reg.ClearBits(c.Bit)
		}
	}
}

// Holders reports how many owners hold c.
func (g *Gate) Holders(c regmap.Clock) int {
	n := 0
	for i := 0; i < g.n; i++ {
		if g.holds[i].clock == c {
			n++
		}
	}
	return n
}

// Held reports whether owner holds c.
func (g *Gate) Held(owner string, c regmap.Clock) bool { return g.held(c, owner) }

// Enabled reports the enable bit of c as the hardware sees it.
func (g *Gate) Enabled(c regmap.Clock) bool {
	reg := g.enableReg(c.Bus)
	return reg != nil && reg.HasBits(c.Bit)
}

// StartHSI14 switches on the dedicated 14 MHz ADC oscillator and waits,
// within b, for it to report ready.
func (g *Gate) StartHSI14(b timex.Budget) error {
	g.regs.CR2.SetBits(regmap.RCC_CR2_HSI14ON)
	if err := b.Await(func() bool { return g.regs.CR2.HasBits(regmap.RCC_CR2_HSI14RDY) }); err != nil {
		return errcode.Op("rcc.hsi14", errcode.Timeout)
	}
	return nil
}
