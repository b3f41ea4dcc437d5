// Package ads1115 provides a minimal TinyGo driver for the TI ADS1115
// 16-bit delta-sigma ADC with programmable gain.
//
// Design notes (datasheet SBAS444):
// • I2C, 16-bit registers, pointer byte then MSB, LSB.
// • Config is read-modify-write: every setter fetches it, replaces one
//   field and writes it back, so the other fields survive.
// • In continuous mode a mux, gain or rate change is followed by one
//   single-shot conversion before continuous mode is restored, so no
//   conversion straddles the change.
// • Conversion-ready is polled a bounded number of times.
package ads1115

import (
	"tinygo.org/x/drivers"

	"mcuperiph-go/errcode"
	"mcuperiph-go/x/mathx"
)

const defaultReadyRetries = 100

type Config struct {
	Address      uint16 // 0: AddressDefault
	ReadyRetries int    // 0: 100 polls of the OS bit
}

type Device struct {
	i2c     drivers.I2C
	addr    uint16
	retries int

	gain Gain

	// Register cache: last addressed register and its value.
	reg    byte
	val    uint16
	cached bool

	// Fixed buffers to avoid per-call heap allocations.
	w [3]byte
	r [2]byte
}

func New(i2c drivers.I2C, cfg Config) *Device {
	addr := cfg.Address
	if addr == 0 {
		addr = AddressDefault
	}
	retries := cfg.ReadyRetries
	if retries <= 0 {
		retries = defaultReadyRetries
	}
	return &Device{i2c: i2c, addr: addr, retries: retries, gain: Gain2048mV}
}

func (d *Device) Address() uint16 { return d.addr }

// Initialize writes single-ended AIN0, ±2.048 V, continuous conversion at
// 128 SPS with the comparator disabled.
func (d *Device) Initialize() error {
	if err := d.writeWord(RegConfig, configInit); err != nil {
		return err
	}
	d.gain = Gain(mathx.Field[uint16](configInit, fieldGain.high, fieldGain.length))
	return nil
}

func (d *Device) getField(reg byte, f field) (uint16, error) {
	v, err := d.readWord(reg)
	if err != nil {
		return 0, err
	}
	return mathx.Field(v, f.high, f.length), nil
}

// setField replaces one field of reg. The config register's OS bit is
// written as 0 so that a setter never starts a conversion.
func (d *Device) setField(reg byte, f field, v uint16) error {
	if v > f.max() {
		return errcode.Op("ads1115.set", errcode.OutOfRange)
	}
	cur, err := d.readWord(reg)
	if err != nil {
		return err
	}
	next := mathx.Insert(cur, f.high, f.length, v)
	if reg == RegConfig {
		next = mathx.Insert(next, fieldOS.high, fieldOS.length, 0)
	}
	return d.writeWord(reg, next)
}

// setSettled is setField on the config register followed by settle.
func (d *Device) setSettled(f field, v uint16) error {
	if err := d.setField(RegConfig, f, v); err != nil {
		return err
	}
	return d.settle()
}

// settle runs one dummy single-shot conversion when the device is in
// continuous mode, so that no in-flight conversion straddles a config
// change. d.val holds the config register after setField.
func (d *Device) settle() error {
	if Mode(mathx.Field(d.val, fieldMode.high, fieldMode.length)) != ModeContinuous {
		return nil
	}
	if err := d.SetMode(ModeSingleShot); err != nil {
		return err
	}
	if _, err := d.ReadConversion(); err != nil {
		return err
	}
	return d.SetMode(ModeContinuous)
}

// ---- Operational status ----

// IsConversionReady reports the OS bit: 1 when no conversion is running.
func (d *Device) IsConversionReady() (bool, error) {
	v, err := d.getField(RegConfig, fieldOS)
	return v == 1, err
}

// TriggerConversion starts a single-shot conversion.
func (d *Device) TriggerConversion() error {
	cur, err := d.readWord(RegConfig)
	if err != nil {
		return err
	}
	return d.writeWord(RegConfig, mathx.Insert(cur, fieldOS.high, fieldOS.length, 1))
}

// PollConversion checks IsConversionReady up to the configured retry count.
func (d *Device) PollConversion() error {
	return d.PollConversionN(d.retries)
}

// PollConversionN checks IsConversionReady up to n times.
func (d *Device) PollConversionN(n int) error {
	for i := 0; i < n; i++ {
		ok, err := d.IsConversionReady()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return errcode.Op("ads1115.poll", errcode.Timeout)
}

// Conversion reads the conversion register as is.
func (d *Device) Conversion() (int16, error) {
	v, err := d.readWord(RegConversion)
	return int16(v), err
}

// ReadConversion returns a fresh conversion. In single-shot mode it
// triggers one and polls for completion first.
func (d *Device) ReadConversion() (int16, error) {
	mode, err := d.GetMode()
	if err != nil {
		return 0, err
	}
	if mode == ModeSingleShot {
		if err := d.TriggerConversion(); err != nil {
			return 0, err
		}
		if err := d.PollConversion(); err != nil {
			return 0, err
		}
	}
	return d.Conversion()
}

// ---- Config fields ----

func (d *Device) GetMultiplexer() (Mux, error) {
	v, err := d.getField(RegConfig, fieldMux)
	return Mux(v), err
}

func (d *Device) SetMultiplexer(m Mux) error { return d.setSettled(fieldMux, uint16(m)) }

func (d *Device) GetGain() (Gain, error) {
	v, err := d.getField(RegConfig, fieldGain)
	if err == nil {
		d.gain = Gain(v)
	}
	return Gain(v), err
}

// SetGain changes the PGA range. The cached gain follows the register as
// soon as the field is written, even if settling fails afterwards.
func (d *Device) SetGain(g Gain) error {
	if err := d.setField(RegConfig, fieldGain, uint16(g)); err != nil {
		return err
	}
	d.gain = g
	return d.settle()
}

func (d *Device) GetMode() (Mode, error) {
	v, err := d.getField(RegConfig, fieldMode)
	return Mode(v), err
}

func (d *Device) SetMode(m Mode) error { return d.setField(RegConfig, fieldMode, uint16(m)) }

func (d *Device) GetRate() (Rate, error) {
	v, err := d.getField(RegConfig, fieldRate)
	return Rate(v), err
}

func (d *Device) SetRate(r Rate) error { return d.setSettled(fieldRate, uint16(r)) }

// ---- Comparator ----

func (d *Device) GetComparatorMode() (uint8, error) {
	v, err := d.getField(RegConfig, fieldCompMode)
	return uint8(v), err
}

func (d *Device) SetComparatorMode(m uint8) error {
	return d.setSettled(fieldCompMode, uint16(m))
}

func (d *Device) GetComparatorPolarity() (uint8, error) {
	v, err := d.getField(RegConfig, fieldCompPol)
	return uint8(v), err
}

func (d *Device) SetComparatorPolarity(p uint8) error {
	return d.setSettled(fieldCompPol, uint16(p))
}

func (d *Device) GetComparatorLatch() (uint8, error) {
	v, err := d.getField(RegConfig, fieldCompLat)
	return uint8(v), err
}

func (d *Device) SetComparatorLatch(l uint8) error {
	return d.setSettled(fieldCompLat, uint16(l))
}

func (d *Device) GetComparatorQueue() (uint8, error) {
	v, err := d.getField(RegConfig, fieldCompQue)
	return uint8(v), err
}

func (d *Device) SetComparatorQueue(q uint8) error {
	return d.setSettled(fieldCompQue, uint16(q))
}

// ---- Thresholds ----

func (d *Device) GetLowThreshold() (int16, error) {
	v, err := d.readWord(RegLoThresh)
	return int16(v), err
}

func (d *Device) SetLowThreshold(t int16) error { return d.writeWord(RegLoThresh, uint16(t)) }

func (d *Device) GetHighThreshold() (int16, error) {
	v, err := d.readWord(RegHiThresh)
	return int16(v), err
}

func (d *Device) SetHighThreshold(t int16) error { return d.writeWord(RegHiThresh, uint16(t)) }

// SetConversionReadyPinMode turns ALERT/RDY into a conversion-ready
// output: threshold MSBs hi=1 lo=0, active low, assert after one
// conversion.
func (d *Device) SetConversionReadyPinMode() error {
	if err := d.setField(RegHiThresh, fieldThreshHi, 1); err != nil {
		return err
	}
	if err := d.setField(RegLoThresh, fieldThreshHi, 0); err != nil {
		return err
	}
	if err := d.SetComparatorPolarity(CompActiveLow); err != nil {
		return err
	}
	return d.SetComparatorQueue(CompQueue1)
}
