// Package board builds the peripheral instances of one MCU exactly once and
// hands them out for the life of the program.
//
// Every instance shares one clock gate and one pin service, so two drivers
// can never fight over a register block, a clock bit or a pin.
package board

import (
	"mcuperiph-go/hal/adc"
	"mcuperiph-go/hal/gpio"
	"mcuperiph-go/hal/nvic"
	"mcuperiph-go/hal/rcc"
	"mcuperiph-go/hal/regmap"
	"mcuperiph-go/hal/usart"
	"mcuperiph-go/x/timex"
)

// Board owns every compile-time-enabled peripheral instance.
type Board struct {
	Map  regmap.Map
	Gate *rcc.Gate
	Pins *gpio.Pins
	NVIC nvic.Controller

	ADC1   *adc.Device
	USART1 *usart.Device
	USART2 *usart.Device
}

// Default is the board of the running MCU. It is built during package
// initialisation on firmware targets and is nil on the host.
var Default *Board

// New binds every instance m provides. budget is shared by all of them.
func New(m regmap.Map, nv nvic.Controller, budget timex.Budget) (*Board, error) {
	g := rcc.New(m.RCC())
	b := &Board{Map: m, Gate: g, Pins: gpio.New(m, g), NVIC: nv}

	var err error
	if b.ADC1, err = adc.New(adc.Config{ID: regmap.ADC1, Map: m, Gate: g, Pins: b.Pins, NVIC: nv, Budget: budget}); err != nil {
		return nil, err
	}
	if b.USART1, err = usart.New(usart.Config{ID: regmap.USART1, Map: m, Gate: g, Pins: b.Pins, NVIC: nv, Budget: budget}); err != nil {
		return nil, err
	}
	if b.USART2, err = usart.New(usart.Config{ID: regmap.USART2, Map: m, Gate: g, Pins: b.Pins, NVIC: nv, Budget: budget}); err != nil {
		return nil, err
	}
	return b, nil
}

// USART returns the instance bound to id, or nil.
func (b *Board) USART(id regmap.Periph) *usart.Device {
	switch id {
	case regmap.USART1:
		return b.USART1
	case regmap.USART2:
		return b.USART2
	}
	return nil
}

// StartConsole starts every USART in plan. It stops at the first failure
// and returns the console port, the first one listed.
func (b *Board) StartConsole(plan Plan, onReceive func(byte)) (*usart.Device, error) {
	var console *usart.Device
	for _, up := range plan.USART {
		u := b.USART(up.ID)
		if u == nil {
			return nil, errUnknownPort(up.ID)
		}
		if err := u.Start(usart.Params{TX: up.TX, RX: up.RX, Baud: up.Baud, OnReceive: onReceive}); err != nil {
			return nil, err
		}
		if console == nil {
			console = u
		}
	}
	return console, nil
}
