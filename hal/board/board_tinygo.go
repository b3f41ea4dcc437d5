//go:build tinygo && stm32f0

package board

import (
	"runtime/interrupt"

	"mcuperiph-go/hal/nvic"
	"mcuperiph-go/hal/regmap"
	"mcuperiph-go/x/timex"
)

func init() {
	if err := SelectedPlan.Validate(); err != nil {
		panic("board: " + err.Error())
	}
	b, err := New(regmap.Selected, nvic.ARM{}, timex.Budget{})
	if err != nil {
		panic("board: " + err.Error())
	}
	Default = b

	// One handler per interrupt line; line numbers must be constants.
	interrupt.New(12, func(interrupt.Interrupt) { Default.ADC1.HandleInterrupt() })
	interrupt.New(27, func(interrupt.Interrupt) { Default.USART1.HandleInterrupt() })
	interrupt.New(28, func(interrupt.Interrupt) { Default.USART2.HandleInterrupt() })
}
