package ads1115

import "mcuperiph-go/errcode"

// FullScaleMilliVolts returns the full-scale range of g.
func FullScaleMilliVolts(g Gain) (int32, error) {
	switch g {
	case Gain6144mV:
		return 6144, nil
	case Gain4096mV:
		return 4096, nil
	case Gain2048mV:
		return 2048, nil
	case Gain1024mV:
		return 1024, nil
	case Gain512mV:
		return 512, nil
	case Gain256mV, Gain256mVB, Gain256mVC:
		return 256, nil
	}
	return 0, errcode.Op("ads1115.fsr", errcode.OutOfRange)
}

// ToMicroVolts scales a conversion result at gain g.
func ToMicroVolts(raw int16, g Gain) (int32, error) {
	fsr, err := FullScaleMilliVolts(g)
	if err != nil {
		return 0, err
	}
	return int32(int64(raw) * int64(fsr) * 1000 / 32768), nil
}

// ToMilliVolts scales a conversion result at gain g, truncating toward zero.
func ToMilliVolts(raw int16, g Gain) (int32, error) {
	fsr, err := FullScaleMilliVolts(g)
	if err != nil {
		return 0, err
	}
	return int32(raw) * fsr / 32768, nil
}

// MilliVolts scales raw by the gain last set, read or initialised.
func (d *Device) MilliVolts(raw int16) (int32, error) { return ToMilliVolts(raw, d.gain) }

// ReadMilliVolts takes a fresh conversion and scales it.
func (d *Device) ReadMilliVolts() (int32, error) {
	raw, err := d.ReadConversion()
	if err != nil {
		return 0, err
	}
	return d.MilliVolts(raw)
}
