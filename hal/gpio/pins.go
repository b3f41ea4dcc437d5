// Package gpio claims pins for peripherals and sets their electrical mode.
//
// Every claimed pin holds its port clock through the rcc gate under its own
// key, so releasing one pin never stops the clock of another pin on the
// same port. The hold key is the pin name; a pin has one owner at a time.
package gpio

import (
	"mcuperiph-go/errcode"
	"mcuperiph-go/hal/rcc"
	"mcuperiph-go/hal/regmap"
	"mcuperiph-go/x/conv"
)

// Pin is a port and a pin number (0..15).
type Pin struct {
	Port regmap.Port
	Num  uint8
}

const numPorts = int(regmap.PortF) + 1

// pinNames holds "PA0".."PF15", built once so claims never format strings.
var pinNames = func() (n [numPorts][maxPin + 1]string) {
	for port := range n {
		for num := range n[port] {
			n[port][num] = string(conv.AppendUint([]byte{'P', byte('A' + port)}, uint64(num)))
		}
	}
	return n
}()

func (p Pin) valid() bool { return int(p.Port) < numPorts && p.Num <= maxPin }

func (p Pin) String() string {
	if p.valid() {
		return pinNames[p.Port][p.Num]
	}
	return "P?"
}

type Pull uint8

const (
	PullNone Pull = 0x0
	PullUp   Pull = 0x1
	PullDown Pull = 0x2
)

type OutputType uint8

const (
	PushPull  OutputType = 0
	OpenDrain OutputType = 1
)

type Speed uint8

const (
	SpeedLow    Speed = 0x0
	SpeedMedium Speed = 0x1
	SpeedHigh   Speed = 0x3
)

const maxPin = 15
const maxAF = 7

// Pins is the pin-configuration service of one MCU.
type Pins struct {
	m      regmap.Map
	gate   *rcc.Gate
	owners [numPorts][maxPin + 1]string // "" is free
}

func New(m regmap.Map, gate *rcc.Gate) *Pins {
	return &Pins{m: m, gate: gate}
}

func (ps *Pins) owner(p Pin) (string, bool) {
	if !p.valid() {
		return "", false
	}
	o := ps.owners[p.Port][p.Num]
	return o, o != ""
}

// claim records owner for p and holds the port clock. Re-claiming a pin the
// owner already has succeeds without side effects.
func (ps *Pins) claim(owner string, p Pin) (*regmap.GPIOBlock, error) {
	if p.Num > maxPin {
		return nil, errcode.Op("gpio.claim", errcode.OutOfRange)
	}
	blk, ok := ps.m.GPIO(p.Port)
	if !ok || !p.valid() {
		return nil, errcode.Op("gpio.claim", errcode.UnknownPin)
	}
	if owner == "" {
		return nil, errcode.Op("gpio.claim", errcode.Precondition)
	}
	if cur, taken := ps.owner(p); taken {
		if cur != owner {
			return nil, errcode.Op("gpio.claim", errcode.PinInUse)
		}
		return blk, nil
	}
	clk, ok := ps.m.PortClock(p.Port)
	if !ok {
		return nil, errcode.Op("gpio.claim", errcode.UnknownPin)
	}
	if err := ps.gate.Acquire(p.String(), clk); err != nil {
		return nil, errcode.Wrap("gpio.claim", errcode.ResourceUnavailable, err)
	}
	ps.owners[p.Port][p.Num] = owner
	return blk, nil
}

// ClaimAF claims p for owner and routes it to alternate function af.
func (ps *Pins) ClaimAF(owner string, p Pin, af uint8) error {
	if af > maxAF {
		return errcode.Op("gpio.af", errcode.OutOfRange)
	}
	blk, err := ps.claim(owner, p)
	if err != nil {
		return err
	}
	if p.Num < 8 {
		blk.AFRL.ReplaceBits(uint32(af), 0xF, p.Num*4)
	} else {
		blk.AFRH.ReplaceBits(uint32(af), 0xF, (p.Num-8)*4)
	}
	blk.MODER.ReplaceBits(regmap.GPIO_MODE_AF, 0x3, p.Num*2)
	return nil
}

// ClaimAnalog claims p for owner in analog mode.
func (ps *Pins) ClaimAnalog(owner string, p Pin) error {
	blk, err := ps.claim(owner, p)
	if err != nil {
		return err
	}
	blk.PUPDR.ReplaceBits(uint32(PullNone), 0x3, p.Num*2)
	blk.MODER.ReplaceBits(regmap.GPIO_MODE_ANALOG, 0x3, p.Num*2)
	return nil
}

// SetOutputParams sets pull, output type and speed of a pin owner holds.
func (ps *Pins) SetOutputParams(owner string, p Pin, pull Pull, typ OutputType, speed Speed) error {
	if cur, ok := ps.owner(p); !ok || cur != owner {
		return errcode.Op("gpio.output", errcode.Precondition)
	}
	blk, _ := ps.m.GPIO(p.Port)
	blk.PUPDR.ReplaceBits(uint32(pull), 0x3, p.Num*2)
	blk.OTYPER.ReplaceBits(uint32(typ), 0x1, p.Num)
	blk.OSPEEDR.ReplaceBits(uint32(speed), 0x3, p.Num*2)
	return nil
}

// Release returns p to input mode and drops its port clock hold. Pins owned
// by someone else are left alone.
func (ps *Pins) Release(owner string, p Pin) {
	if cur, ok := ps.owner(p); !ok || cur != owner {
		return
	}
	blk, _ := ps.m.GPIO(p.Port)
	blk.MODER.ReplaceBits(regmap.GPIO_MODE_INPUT, 0x3, p.Num*2)
	blk.PUPDR.ReplaceBits(uint32(PullNone), 0x3, p.Num*2)
	ps.owners[p.Port][p.Num] = ""
	if clk, ok := ps.m.PortClock(p.Port); ok {
		ps.gate.Release(p.String(), clk)
	}
}

// Owner reports who holds p.
func (ps *Pins) Owner(p Pin) (string, bool) { return ps.owner(p) }
