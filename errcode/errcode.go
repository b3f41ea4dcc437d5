package errcode

// Code is a stable error identifier shared by every driver in the module.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Lifecycle and argument checks.
	Precondition Code = "precondition"
	OutOfRange   Code = "out_of_range"

	// Bounded handshake never observed the expected status bit.
	Timeout Code = "timeout"

	// Clock or pin acquisition failed.
	ResourceUnavailable Code = "resource_unavailable"
	UnknownPin          Code = "unknown_pin"
	PinInUse            Code = "pin_in_use"
	UnknownBus          Code = "unknown_bus"

	Busy        Code = "busy"
	Unsupported Code = "unsupported"

	Error Code = "error" // generic fallback
)

// E keeps the failing operation and an optional cause next to a Code.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is match an *E against its bare Code.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// Op builds an *E for operation op.
func Op(op string, c Code) *E { return &E{C: c, Op: op} }

// Wrap builds an *E for operation op carrying cause err. The code is taken
// from err when it has one, otherwise c.
func Wrap(op string, c Code, err error) *E {
	if k := Of(err); k != Error && k != OK {
		c = k
	}
	return &E{C: c, Op: op, Err: err}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
