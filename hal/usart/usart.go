// Package usart drives the on-chip USART in interrupt-driven receive,
// polled transmit mode.
//
// Start claims both pins, enables the peripheral clock and arms the
// receive interrupt. When any step fails, everything Start already
// acquired is released again before it returns.
package usart

import (
	"mcuperiph-go/errcode"
	"mcuperiph-go/hal/gpio"
	"mcuperiph-go/hal/internal/critical"
	"mcuperiph-go/hal/nvic"
	"mcuperiph-go/hal/rcc"
	"mcuperiph-go/hal/regmap"
	"mcuperiph-go/x/mathx"
	"mcuperiph-go/x/timex"
)

// BRR must hold at least 16 with 16x oversampling.
const minDivider = 16

// PinAF is a pin routed to a peripheral through an alternate function.
type PinAF struct {
	Pin gpio.Pin
	AF  uint8
}

// Config wires a Device to its register map and shared services.
type Config struct {
	ID     regmap.Periph
	Map    regmap.Map
	Gate   *rcc.Gate
	Pins   *gpio.Pins
	NVIC   nvic.Controller
	Budget timex.Budget
}

// Params are the per-session settings passed to Start.
type Params struct {
	TX, RX    PinAF
	Baud      uint32
	OnReceive func(byte) // called from interrupt context, one byte at a time
}

type Device struct {
	id     regmap.Periph
	name   string
	regs   *regmap.USARTBlock
	irq    regmap.IRQ
	clock  regmap.Clock
	coreHz uint32

	gate   *rcc.Gate
	pins   *gpio.Pins
	nvic   nvic.Controller
	budget timex.Budget

	active  bool
	params  Params
	onRecv  func(byte)
	overrun uint32
}

func New(cfg Config) (*Device, error) {
	if cfg.Map == nil || cfg.Gate == nil || cfg.Pins == nil || cfg.NVIC == nil {
		return nil, errcode.Op("usart.new", errcode.Precondition)
	}
	regs, ok := cfg.Map.USART(cfg.ID)
	if !ok {
		return nil, errcode.Op("usart.new", errcode.Unsupported)
	}
	irq, ok := cfg.Map.IRQ(cfg.ID)
	if !ok {
		return nil, errcode.Op("usart.new", errcode.Unsupported)
	}
	clk, ok := cfg.Map.Clock(cfg.ID)
	if !ok {
		return nil, errcode.Op("usart.new", errcode.Unsupported)
	}
	budget := cfg.Budget
	if budget.Src == nil {
		budget = budget.Or(timex.NewSysTick())
	}
	return &Device{
		id:     cfg.ID,
		name:   cfg.ID.String(),
		regs:   regs,
		irq:    irq,
		clock:  clk,
		coreHz: cfg.Map.SystemClockHz(),
		gate:   cfg.Gate,
		pins:   cfg.Pins,
		nvic:   cfg.NVIC,
		budget: budget,
	}, nil
}

func (d *Device) ID() regmap.Periph { return d.id }
func (d *Device) Active() bool      { return d.active }

// Overruns counts receive overruns seen since Start.
func (d *Device) Overruns() uint32 { return d.overrun }

func validate(p Params, coreHz uint32) error {
	for _, pa := range [...]PinAF{p.TX, p.RX} {
		if pa.Pin.Num > 15 || pa.AF > 7 {
			return errcode.Op("usart.start", errcode.OutOfRange)
		}
	}
	if p.TX.Pin == p.RX.Pin {
		return errcode.Op("usart.start", errcode.OutOfRange)
	}
	if p.Baud == 0 || mathx.RoundDiv(coreHz, p.Baud) < minDivider {
		return errcode.Op("usart.start", errcode.OutOfRange)
	}
	return nil
}

// Start activates the port. On an active port it returns nil and changes
// nothing.
func (d *Device) Start(p Params) error {
	if d.active {
		return nil
	}
	if err := validate(p, d.coreHz); err != nil {
		return err
	}

	var claimed [2]gpio.Pin
	n := 0
	for _, pa := range [...]PinAF{p.TX, p.RX} {
		if err := d.pins.ClaimAF(d.name, pa.Pin, pa.AF); err != nil {
			d.releasePins(claimed[:n])
			return errcode.Wrap("usart.start", errcode.ResourceUnavailable, err)
		}
		claimed[n] = pa.Pin
		n++
		if err := d.pins.SetOutputParams(d.name, pa.Pin, gpio.PullUp, gpio.PushPull, gpio.SpeedHigh); err != nil {
			d.releasePins(claimed[:n])
			return errcode.Wrap("usart.start", errcode.ResourceUnavailable, err)
		}
	}
	if err := d.gate.Acquire(d.name, d.clock); err != nil {
		d.releasePins(claimed[:n])
		return errcode.Wrap("usart.start", errcode.ResourceUnavailable, err)
	}

	d.regs.BRR.Set(mathx.RoundDiv(d.coreHz, p.Baud))

	st := critical.Disable()
	d.onRecv = p.OnReceive
	critical.Restore(st)

	d.regs.CR1.SetBits(regmap.USART_CR1_RE | regmap.USART_CR1_TE | regmap.USART_CR1_UE | regmap.USART_CR1_RXNEIE)
	d.nvic.SetPriority(d.irq, nvic.PeripheralPriority)
	d.nvic.Enable(d.irq)

	d.params = p
	d.overrun = 0
	d.active = true
	return nil
}

// releasePins undoes pin claims in reverse order.
func (d *Device) releasePins(ps []gpio.Pin) {
	for i := len(ps) - 1; i >= 0; i-- {
		d.pins.Release(d.name, ps[i])
	}
}

// Send waits, within the budget, for the transmit register to empty and
// writes b to it.
func (d *Device) Send(b byte) error {
	if !d.active {
		return errcode.Op("usart.send", errcode.Precondition)
	}
	if err := d.budget.Await(func() bool { return d.regs.ISR.HasBits(regmap.USART_ISR_TXE) }); err != nil {
		return errcode.Op("usart.send", errcode.Timeout)
	}
	d.regs.TDR.Set(uint32(b))
	return nil
}

// Write sends p byte by byte and stops at the first failure.
func (d *Device) Write(p []byte) (int, error) {
	for i, b := range p {
		if err := d.Send(b); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// WriteString is Write for strings.
func (d *Device) WriteString(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if err := d.Send(s[i]); err != nil {
			return i, err
		}
	}
	return len(s), nil
}

// Stop disarms the receive interrupt, disables the port and releases its
// clock and pins.
func (d *Device) Stop() error {
	if !d.active {
		return errcode.Op("usart.stop", errcode.Precondition)
	}
	d.regs.CR1.ClearBits(regmap.USART_CR1_RXNEIE)
	d.nvic.Disable(d.irq)
	d.regs.CR1.ClearBits(regmap.USART_CR1_RE | regmap.USART_CR1_TE | regmap.USART_CR1_UE)

	st := critical.Disable()
	d.onRecv = nil
	critical.Restore(st)

	d.gate.Release(d.name, d.clock)
	d.pins.Release(d.name, d.params.RX.Pin)
	d.pins.Release(d.name, d.params.TX.Pin)
	d.params = Params{}
	d.active = false
	return nil
}
