package board

import (
	"mcuperiph-go/errcode"
	"mcuperiph-go/hal/regmap"
	"mcuperiph-go/hal/usart"
)

// Plan specifies wiring and operating parameters chosen for a board.
type Plan struct {
	USART []USARTPlan
}

type USARTPlan struct {
	ID     regmap.Periph
	TX, RX usart.PinAF
	Baud   uint32
}

// SelectedPlan is assigned by exactly one plan_*.go file.
var SelectedPlan Plan

// Validate rejects a plan that binds one instance twice.
func (p Plan) Validate() error {
	seen := make(map[regmap.Periph]bool, len(p.USART))
	for _, u := range p.USART {
		if seen[u.ID] {
			return &errcode.E{C: errcode.Busy, Op: "board.plan", Msg: u.ID.String() + " bound twice"}
		}
		seen[u.ID] = true
	}
	return nil
}

func errUnknownPort(id regmap.Periph) error {
	return &errcode.E{C: errcode.Unsupported, Op: "board.console", Msg: id.String()}
}
