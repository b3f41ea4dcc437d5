//go:build tinygo && stm32f0

// Command adc-uart-temp samples the internal temperature sensor every five
// seconds and prints each reading on the board's console USART.
package main

import (
	"time"

	"mcuperiph-go/hal/adc"
	"mcuperiph-go/hal/board"
	"mcuperiph-go/hal/usart"
	"mcuperiph-go/internal/telemetry"
)

const period = 5 * time.Second

var line [64]byte

func main() {
	println("[main] boot")
	b := board.Default

	console, err := b.StartConsole(board.SelectedPlan, nil)
	if err != nil {
		halt("console start", err)
	}
	if console == nil {
		halt("console start", errNoConsole)
	}

	a := b.ADC1
	if err := a.Configure(adc.Single); err != nil {
		fail(console, "adc configure", err)
	}
	if err := a.Channel(adc.Selection{Source: adc.TempSensor, SampleTime: adc.MaxSampleTime}); err != nil {
		fail(console, "adc channel", err)
	}
	if err := a.Start(); err != nil {
		fail(console, "adc start", err)
	}
	println("[adc] ready")

	for {
		if err := a.StartSampling(); err != nil {
			fail(console, "adc sample", err)
		}
		raw, err := a.GetValue()
		if err != nil {
			fail(console, "adc read", err)
		}
		mc, err := adc.FactoryTemperature(raw)
		if err != nil {
			fail(console, "adc temperature", err)
		}
		out := telemetry.NewLine(line[:], "adc").
			Int("raw", int64(raw)).
			Milli("temp", int64(mc)).
			Bytes()
		if _, err := console.Write(out); err != nil {
			halt("console write", err)
		}
		time.Sleep(period)
	}
}

type consoleError string

func (e consoleError) Error() string { return string(e) }

const errNoConsole = consoleError("no console in board plan")

// fail reports err on the console as well as the debug output, then halts.
func fail(console *usart.Device, what string, err error) {
	out := telemetry.NewLine(line[:], "err").Text("op", what).Text("msg", err.Error()).Bytes()
	_, _ = console.Write(out)
	halt(what, err)
}

func halt(what string, err error) {
	println("[main] FAIL:", what+":", err.Error())
	for {
	}
}
