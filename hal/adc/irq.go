package adc

import "mcuperiph-go/hal/regmap"

// Callbacks are invoked from interrupt context. A nil entry leaves its
// interrupt disabled.
type Callbacks struct {
	Watchdog        func()
	Overrun         func()
	EndOfSequence   func()
	EndOfConversion func()
	EndOfSampling   func()
	Ready           func()
}

func (c Callbacks) enableMask() uint32 {
	var m uint32
	if c.Watchdog != nil {
		m |= regmap.ADC_IER_AWDIE
	}
	if c.Overrun != nil {
		m |= regmap.ADC_IER_OVRIE
	}
	if c.EndOfSequence != nil {
		m |= regmap.ADC_IER_EOSEQIE
	}
	if c.EndOfConversion != nil {
		m |= regmap.ADC_IER_EOCIE
	}
	if c.EndOfSampling != nil {
		m |= regmap.ADC_IER_EOSMPIE
	}
	if c.Ready != nil {
		m |= regmap.ADC_IER_ADRDYIE
	}
	return m
}

// HandleInterrupt services one interrupt. It reads the status register
// once and handles only the highest-priority pending event:
//
//	watchdog > overrun > end of sequence > end of conversion > end of sampling > ready
//
// The event's flag is cleared even when no callback is registered. The
// end-of-conversion flag is cleared only if it is still set after the
// callback, since reading DR inside the callback clears it in hardware.
func (d *Device) HandleInterrupt() {
	isr := d.regs.ISR.Get()
	switch {
	case isr&regmap.ADC_ISR_AWD != 0:
		call(d.cbs.Watchdog)
		d.regs.ISR.Set(regmap.ADC_ISR_AWD)
	case isr&regmap.ADC_ISR_OVR != 0:
		call(d.cbs.Overrun)
		d.regs.ISR.Set(regmap.ADC_ISR_OVR)
	case isr&regmap.ADC_ISR_EOSEQ != 0:
		call(d.cbs.EndOfSequence)
		d.regs.ISR.Set(regmap.ADC_ISR_EOSEQ)
	case isr&regmap.ADC_ISR_EOC != 0:
		call(d.cbs.EndOfConversion)
		if d.regs.ISR.HasBits(regmap.ADC_ISR_EOC) {
			d.regs.ISR.Set(regmap.ADC_ISR_EOC)
		}
	case isr&regmap.ADC_ISR_EOSMP != 0:
		call(d.cbs.EndOfSampling)
		d.regs.ISR.Set(regmap.ADC_ISR_EOSMP)
	case isr&regmap.ADC_ISR_ADRDY != 0:
		call(d.cbs.Ready)
		d.regs.ISR.Set(regmap.ADC_ISR_ADRDY)
	}
}

// ReadData returns the data register. It is meant for end-of-conversion
// callbacks; it does not touch lifecycle state.
func (d *Device) ReadData() uint16 { return uint16(d.regs.DR.Get()) }

func call(f func()) {
	if f != nil {
		f()
	}
}
