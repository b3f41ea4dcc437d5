//go:build tinygo

// Command i2c-ads1115 reads AIN0 of an ADS1115 on the default I2C bus once a
// second and prints the result in millivolts.
package main

import (
	"machine"
	"time"

	"mcuperiph-go/drivers/ads1115"
	"mcuperiph-go/internal/telemetry"
)

var line [64]byte

func main() {
	time.Sleep(1500 * time.Millisecond)
	println("[main] boot")

	if err := machine.I2C0.Configure(machine.I2CConfig{Frequency: 400 * machine.KHz}); err != nil {
		halt("i2c configure", err)
	}

	dev := ads1115.New(machine.I2C0, ads1115.Config{})
	if err := dev.Initialize(); err != nil {
		halt("ads1115 init", err)
	}
	println("[ads1115] ready at", dev.Address())

	for {
		raw, err := dev.ReadConversion()
		if err != nil {
			halt("ads1115 read", err)
		}
		mv, err := dev.MilliVolts(raw)
		if err != nil {
			halt("ads1115 scale", err)
		}
		print(string(telemetry.NewLine(line[:], "ads1115").
			Int("raw", int64(raw)).
			Int("mv", int64(mv)).
			Bytes()))
		time.Sleep(time.Second)
	}
}

func halt(what string, err error) {
	println("[main] FAIL:", what+":", err.Error())
	for {
	}
}
