// Package adc drives the on-chip analog-to-digital converter.
//
// A Device walks a fixed lifecycle:
//
//	Uninitialized → Calibrating → Calibrated → Active → ChannelConfigured → Sampling → Stopping
//
// Every wait on a hardware status bit is bounded by the device's
// timex.Budget. Operations called in the wrong state fail with
// errcode.Precondition and touch no register.
//
// Interrupt context only calls HandleInterrupt, which reads and clears
// status bits and invokes callbacks. All lifecycle transitions happen in
// the main flow.
package adc

import (
	"mcuperiph-go/errcode"
	"mcuperiph-go/hal/gpio"
	"mcuperiph-go/hal/internal/critical"
	"mcuperiph-go/hal/nvic"
	"mcuperiph-go/hal/rcc"
	"mcuperiph-go/hal/regmap"
	"mcuperiph-go/x/timex"
)

// Mode selects single or continuous conversion.
type Mode uint8

const (
	Single Mode = iota
	Continuous
)

// State is the externally visible lifecycle state.
type State uint8

const (
	Uninitialized State = iota
	Calibrating
	Calibrated
	Active
	ChannelConfigured
	Sampling
	Stopping
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Calibrating:
		return "calibrating"
	case Calibrated:
		return "calibrated"
	case Active:
		return "active"
	case ChannelConfigured:
		return "channel_configured"
	case Sampling:
		return "sampling"
	case Stopping:
		return "stopping"
	}
	return "unknown"
}

// Config wires a Device to its register map and shared services.
type Config struct {
	ID     regmap.Periph
	Map    regmap.Map
	Gate   *rcc.Gate
	Pins   *gpio.Pins
	NVIC   nvic.Controller
	Budget timex.Budget // zero value: timex.DefaultBound on a SysTick
}

// Device is one ADC instance. It exclusively owns its register block.
type Device struct {
	id     regmap.Periph
	name   string
	regs   *regmap.ADCBlock
	common *regmap.ADCCommonBlock
	irq    regmap.IRQ
	clock  regmap.Clock
	nchan  uint8
	inputs regmap.Map

	gate   *rcc.Gate
	pins   *gpio.Pins
	nvic   nvic.Controller
	budget timex.Budget

	calibrating bool
	calibrated  bool
	active      bool
	enabled     bool
	sampling    bool
	stopping    bool
	mode        Mode
	channels    uint32
	internal    uint32 // CCR enable bits this device set

	cbs Callbacks
}

// New binds a Device to the register block of cfg.ID. It touches no
// register.
func New(cfg Config) (*Device, error) {
	if cfg.Map == nil || cfg.Gate == nil || cfg.Pins == nil || cfg.NVIC == nil {
		return nil, errcode.Op("adc.new", errcode.Precondition)
	}
	regs, ok := cfg.Map.ADC(cfg.ID)
	if !ok {
		return nil, errcode.Op("adc.new", errcode.Unsupported)
	}
	irq, ok := cfg.Map.IRQ(cfg.ID)
	if !ok {
		return nil, errcode.Op("adc.new", errcode.Unsupported)
	}
	clk, ok := cfg.Map.Clock(cfg.ID)
	if !ok {
		return nil, errcode.Op("adc.new", errcode.Unsupported)
	}
	budget := cfg.Budget
	if budget.Src == nil {
		budget = budget.Or(timex.NewSysTick())
	}
	return &Device{
		id:     cfg.ID,
		name:   cfg.ID.String(),
		regs:   regs,
		common: cfg.Map.ADCCommon(),
		irq:    irq,
		clock:  clk,
		nchan:  cfg.Map.ADCChannels(),
		inputs: cfg.Map,
		gate:   cfg.Gate,
		pins:   cfg.Pins,
		nvic:   cfg.NVIC,
		budget: budget,
	}, nil
}

func (d *Device) ID() regmap.Periph { return d.id }

// State reports where the device is in its lifecycle.
func (d *Device) State() State {
	switch {
	case d.stopping:
		return Stopping
	case d.sampling:
		return Sampling
	case d.active && d.channels != 0:
		return ChannelConfigured
	case d.active:
		return Active
	case d.calibrating:
		return Calibrating
	case d.calibrated:
		return Calibrated
	}
	return Uninitialized
}

func (d *Device) Calibrated() bool { return d.calibrated }
func (d *Device) Mode() Mode       { return d.mode }

// Calibrate runs the hardware self-calibration. The converter must not be
// active. It holds the ADC clock and, if the converter is still enabled,
// disables it first. A timeout leaves the registers as they are.
func (d *Device) Calibrate() error {
	if d.active || d.sampling {
		return errcode.Op("adc.calibrate", errcode.Precondition)
	}
	if err := d.gate.Acquire(d.name, d.clock); err != nil {
		return errcode.Wrap("adc.calibrate", errcode.ResourceUnavailable, err)
	}
	return d.calibrate()
}

func (d *Device) calibrate() error {
	d.calibrating = true
	defer func() { d.calibrating = false }()

	if d.regs.CR.HasBits(regmap.ADC_CR_ADEN) {
		d.regs.CR.SetBits(regmap.ADC_CR_ADDIS)
		if err := d.budget.Await(func() bool { return !d.regs.CR.HasBits(regmap.ADC_CR_ADEN) }); err != nil {
			return errcode.Op("adc.calibrate", errcode.Timeout)
		}
	}
	d.regs.CFGR1.ClearBits(regmap.ADC_CFGR1_DMAEN)

	// Hardware clears ADCAL when calibration completes.
	d.regs.CR.SetBits(regmap.ADC_CR_ADCAL)
	if err := d.budget.Await(func() bool { return !d.regs.CR.HasBits(regmap.ADC_CR_ADCAL) }); err != nil {
		return errcode.Op("adc.calibrate", errcode.Timeout)
	}
	d.calibrated = true
	return nil
}

// Configure brings the device to Active in the given conversion mode,
// calibrating first if needed. On an already active device it returns nil
// and writes nothing; a device left Stopping by a timed-out Stop must be
// stopped again first. On failure the device stays in its previous state and
// a clock acquired by this call is released.
func (d *Device) Configure(mode Mode) error {
	if d.stopping {
		return errcode.Op("adc.configure", errcode.Precondition)
	}
	if d.active {
		return nil
	}
	heldBefore := d.gate.Held(d.name, d.clock)
	if err := d.gate.Acquire(d.name, d.clock); err != nil {
		return errcode.Wrap("adc.configure", errcode.ResourceUnavailable, err)
	}
	rollback := func() {
		if !heldBefore {
			d.gate.Release(d.name, d.clock)
		}
	}
	if !d.calibrated {
		if err := d.calibrate(); err != nil {
			rollback()
			return err
		}
	}

	// Asynchronous clock: CKMODE=00 selects the dedicated 14 MHz oscillator.
	d.regs.CFGR2.ReplaceBits(0, regmap.ADC_CFGR2_CKMODE_Msk, regmap.ADC_CFGR2_CKMODE_Pos)
	if err := d.gate.StartHSI14(d.budget); err != nil {
		rollback()
		return errcode.Wrap("adc.configure", errcode.Timeout, err)
	}

	if mode == Continuous {
		d.regs.CFGR1.SetBits(regmap.ADC_CFGR1_CONT)
	} else {
		d.regs.CFGR1.ClearBits(regmap.ADC_CFGR1_CONT)
	}
	d.mode = mode
	d.active = true
	return nil
}

// Start enables the converter and waits for ADRDY. On timeout ADEN stays
// set; call Stop before retrying.
func (d *Device) Start() error {
	if !d.active || !d.calibrated || d.stopping {
		return errcode.Op("adc.start", errcode.Precondition)
	}
	// ISR is write-1-to-clear: never read-modify-write it.
	if d.regs.ISR.HasBits(regmap.ADC_ISR_ADRDY) {
		d.regs.ISR.Set(regmap.ADC_ISR_ADRDY)
	}
	d.regs.CR.SetBits(regmap.ADC_CR_ADEN)
	if err := d.budget.Await(func() bool { return d.regs.ISR.HasBits(regmap.ADC_ISR_ADRDY) }); err != nil {
		return errcode.Op("adc.start", errcode.Timeout)
	}
	d.enabled = true
	return nil
}

// StartSampling starts a conversion and returns immediately. Only one
// sampling request may be outstanding.
func (d *Device) StartSampling() error {
	if !d.active || !d.calibrated || d.stopping {
		return errcode.Op("adc.start_sampling", errcode.Precondition)
	}
	if d.sampling {
		return errcode.Op("adc.start_sampling", errcode.Busy)
	}
	d.regs.CR.SetBits(regmap.ADC_CR_ADSTART)
	d.sampling = true
	return nil
}

// GetValue waits for end of conversion and reads the data register once.
// On timeout the device stays Sampling.
func (d *Device) GetValue() (uint16, error) {
	if !d.active || !d.sampling {
		return 0, errcode.Op("adc.get_value", errcode.Precondition)
	}
	if err := d.budget.Await(func() bool { return d.regs.ISR.HasBits(regmap.ADC_ISR_EOC) }); err != nil {
		return 0, errcode.Op("adc.get_value", errcode.Timeout)
	}
	v := d.regs.DR.Get()
	d.sampling = false
	return uint16(v), nil
}

// Stop halts any conversion and disables the converter, each step with its
// own budget. A timeout aborts without undoing writes already issued; the
// device reports Stopping and Stop may be called again. On success the
// pins and clock of the session are released and Configure starts a new
// session.
func (d *Device) Stop() error {
	if !d.active || !d.calibrated {
		return errcode.Op("adc.stop", errcode.Precondition)
	}
	d.stopping = true

	if d.regs.CR.HasBits(regmap.ADC_CR_ADSTART) {
		d.regs.CR.SetBits(regmap.ADC_CR_ADSTP)
		if err := d.budget.Await(func() bool { return !d.regs.CR.HasBits(regmap.ADC_CR_ADSTP) }); err != nil {
			return errcode.Op("adc.stop", errcode.Timeout)
		}
	}
	d.sampling = false

	if d.regs.CR.HasBits(regmap.ADC_CR_ADEN) {
		d.regs.CR.SetBits(regmap.ADC_CR_ADDIS)
		if err := d.budget.Await(func() bool { return !d.regs.CR.HasBits(regmap.ADC_CR_ADEN) }); err != nil {
			return errcode.Op("adc.stop", errcode.Timeout)
		}
	}
	d.enabled = false

	d.regs.CHSELR.Set(0)
	if d.internal != 0 {
		d.common.CCR.ClearBits(d.internal)
		d.internal = 0
	}
	d.releaseInputs()
	d.channels = 0
	d.gate.Release(d.name, d.clock)

	d.active = false
	d.stopping = false
	return nil
}

// EnableInterrupt installs cbs and sets one interrupt-enable bit per
// present callback, then arms the interrupt line at PeripheralPriority.
func (d *Device) EnableInterrupt(cbs Callbacks) error {
	if d.sampling {
		return errcode.Op("adc.enable_interrupt", errcode.Precondition)
	}
	mask := cbs.enableMask()
	if mask == 0 {
		return errcode.Op("adc.enable_interrupt", errcode.Precondition)
	}
	st := critical.Disable()
	d.cbs = cbs
	d.regs.IER.Set(mask)
	critical.Restore(st)

	d.nvic.SetPriority(d.irq, nvic.PeripheralPriority)
	d.nvic.Enable(d.irq)
	return nil
}

// DisableInterrupts disarms the interrupt line, clears every enable bit
// and drops the callbacks. It may be called any number of times.
func (d *Device) DisableInterrupts() error {
	if d.sampling {
		return errcode.Op("adc.disable_interrupts", errcode.Precondition)
	}
	d.nvic.Disable(d.irq)
	st := critical.Disable()
	d.regs.IER.Set(0)
	d.cbs = Callbacks{}
	critical.Restore(st)
	return nil
}
