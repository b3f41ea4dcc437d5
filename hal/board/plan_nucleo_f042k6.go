//go:build nucleo_f042k6

package board

import (
	"mcuperiph-go/hal/gpio"
	"mcuperiph-go/hal/regmap"
	"mcuperiph-go/hal/usart"
)

// USART2 is wired to the ST-LINK virtual COM port.
func init() {
	SelectedPlan = Plan{
		USART: []USARTPlan{
			{
				ID:   regmap.USART2,
				TX:   usart.PinAF{Pin: gpio.Pin{Port: regmap.PortA, Num: 2}, AF: 1},
				RX:   usart.PinAF{Pin: gpio.Pin{Port: regmap.PortA, Num: 15}, AF: 1},
				Baud: 9600,
			},
		},
	}
}
