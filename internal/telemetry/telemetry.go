// Package telemetry defines the line format firmware prints on its console
// UART and the host monitor reads back:
//
//	<source> key=value key=value ...
//
// Values are integers or fixed-point numbers with three decimals. Free
// text is double-quoted. Lines end in "\n".
package telemetry

import "mcuperiph-go/x/conv"

// Line builds one telemetry line in a caller-owned buffer.
type Line struct {
	b []byte
}

// NewLine starts a line for source in buf[:0].
func NewLine(buf []byte, source string) *Line {
	l := &Line{b: append(buf[:0], source...)}
	return l
}

func (l *Line) key(k string) {
	l.b = append(l.b, ' ')
	l.b = append(l.b, k...)
	l.b = append(l.b, '=')
}

// Int appends k=v.
func (l *Line) Int(k string, v int64) *Line {
	l.key(k)
	l.b = conv.AppendInt(l.b, v)
	return l
}

// Milli appends k=v/1000 with three decimals.
func (l *Line) Milli(k string, v int64) *Line {
	l.key(k)
	l.b = conv.AppendMilli(l.b, v)
	return l
}

// Hex appends k=0xNNNN.
func (l *Line) Hex(k string, v uint16) *Line {
	l.key(k)
	l.b = append(l.b, '0', 'x')
	l.b = conv.AppendHex16(l.b, v)
	return l
}

// Text appends k="s". s must not contain a double quote.
func (l *Line) Text(k, s string) *Line {
	l.key(k)
	l.b = append(l.b, '"')
	l.b = append(l.b, s...)
	l.b = append(l.b, '"')
	return l
}

// Bytes terminates the line and returns it.
func (l *Line) Bytes() []byte {
	l.b = append(l.b, '\n')
	return l.b
}
