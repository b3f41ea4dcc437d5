package adc

import (
	"mcuperiph-go/errcode"
	"mcuperiph-go/x/mathx"
)

// TemperatureMilliC converts a temperature-sensor sample to milli-degrees
// Celsius through the factory calibration points taken at 30 °C and
// 110 °C (VDDA = 3.3 V). On STM32F0 the sensor voltage falls with
// temperature, so cal110 is normally below cal30.
func TemperatureMilliC(raw, cal30, cal110 uint16) (int32, error) {
	if cal110 == cal30 {
		return 0, errcode.Op("adc.temperature", errcode.OutOfRange)
	}
	return mathx.MapI32(int32(raw), int32(cal30), int32(cal110), 30000, 110000), nil
}

// FactoryTemperature converts raw using the calibration values burned into
// this chip.
func FactoryTemperature(raw uint16) (int32, error) {
	c30, c110 := tempCalibration()
	return TemperatureMilliC(raw, c30, c110)
}
