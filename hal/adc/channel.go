package adc

import (
	"mcuperiph-go/errcode"
	"mcuperiph-go/hal/gpio"
	"mcuperiph-go/hal/regmap"
)

// Source is an ADC input: an external pin or an internal reference.
type Source struct {
	Channel uint8
	Pin     gpio.Pin
	pinned  bool
}

// External is channel ch sampled through pin p, which is claimed in
// analog mode when the channel is selected. p must be the pin wired to ch;
// channels 16 and up are internal and have no pin.
func External(ch uint8, p gpio.Pin) Source { return Source{Channel: ch, Pin: p, pinned: true} }

// Internal inputs. They need no pin.
var (
	TempSensor = Source{Channel: 16}
	VRefInt    = Source{Channel: 17}
	VBat       = Source{Channel: 18}
)

// MaxSampleTime is the largest 3-bit sample-time code (239.5 ADC cycles).
const MaxSampleTime = 7

// Selection is one channel plus its sample time.
type Selection struct {
	Source     Source
	SampleTime uint8
}

func (s Source) ccrBit() uint32 {
	if s.pinned {
		return 0
	}
	switch s.Channel {
	case TempSensor.Channel:
		return regmap.ADC_CCR_TSEN
	case VRefInt.Channel:
		return regmap.ADC_CCR_VREFEN
	case VBat.Channel:
		return regmap.ADC_CCR_VBATEN
	}
	return 0
}

// Channel adds sel to the conversion sequence. It requires an active
// device that is not sampling. Range violations fail before any register
// or pin is touched.
func (d *Device) Channel(sel Selection) error {
	if d.sampling || !d.active || d.stopping {
		return errcode.Op("adc.channel", errcode.Precondition)
	}
	src := sel.Source
	if sel.SampleTime > MaxSampleTime || src.Channel >= d.nchan {
		return errcode.Op("adc.channel", errcode.OutOfRange)
	}
	ccr := src.ccrBit()
	if !src.pinned && ccr == 0 {
		return errcode.Op("adc.channel", errcode.OutOfRange)
	}
	if src.pinned && !d.wired(src) {
		return errcode.Op("adc.channel", errcode.OutOfRange)
	}

	time := uint32(sel.SampleTime)
	if src.pinned {
		if err := d.pins.ClaimAnalog(d.name, src.Pin); err != nil {
			return errcode.Wrap("adc.channel", errcode.ResourceUnavailable, err)
		}
	} else {
		d.common.CCR.SetBits(ccr)
		d.internal |= ccr
		// The temperature sensor needs the longest sampling time.
		if ccr == regmap.ADC_CCR_TSEN {
			time = MaxSampleTime
		}
	}
	d.regs.CHSELR.SetBits(1 << src.Channel)
	d.regs.SMPR.ReplaceBits(time, regmap.ADC_SMPR_SMP_Msk, 0)
	d.channels |= 1 << src.Channel
	return nil
}

// Channels reports the selected channel mask.
func (d *Device) Channels() uint32 { return d.channels }

func (d *Device) wired(src Source) bool {
	port, num, ok := d.inputs.ADCInput(src.Channel)
	return ok && port == src.Pin.Port && num == src.Pin.Num
}

// releaseInputs releases the pin of every selected external channel. The
// channel mask is the record of which pins this device claimed.
func (d *Device) releaseInputs() {
	for ch := uint8(0); ch < 32; ch++ {
		if d.channels&(1<<ch) == 0 {
			continue
		}
		if port, num, ok := d.inputs.ADCInput(ch); ok {
			d.pins.Release(d.name, gpio.Pin{Port: port, Num: num})
		}
	}
}
