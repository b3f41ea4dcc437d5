//go:build !tinygo

package telemetry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// Field is one key=value pair. Num holds integers as is and decimals
// scaled by 1000; Text holds the value as written.
type Field struct {
	Key   string
	Text  string
	Num   int64
	Milli bool
	IsNum bool
}

// Reading is one parsed line.
type Reading struct {
	Source string
	Fields []Field
}

// Get returns the field named k.
func (r Reading) Get(k string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Key == k {
			return f, true
		}
	}
	return Field{}, false
}

// Parse splits a line into its source and fields. Tokens without '=' are
// rejected.
func Parse(line string) (Reading, error) {
	toks, err := shlex.Split(strings.TrimSpace(line))
	if err != nil {
		return Reading{}, fmt.Errorf("telemetry: %w", err)
	}
	if len(toks) == 0 {
		return Reading{}, fmt.Errorf("telemetry: empty line")
	}
	r := Reading{Source: toks[0]}
	for _, t := range toks[1:] {
		k, v, ok := strings.Cut(t, "=")
		if !ok || k == "" {
			return Reading{}, fmt.Errorf("telemetry: bad field %q", t)
		}
		r.Fields = append(r.Fields, parseValue(k, v))
	}
	return r, nil
}

func parseValue(k, v string) Field {
	f := Field{Key: k, Text: v}
	if strings.HasPrefix(v, "0x") {
		if n, err := strconv.ParseUint(v[2:], 16, 32); err == nil {
			f.Num, f.IsNum = int64(n), true
		}
		return f
	}
	whole, frac, dec := strings.Cut(v, ".")
	if !dec {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.Num, f.IsNum = n, true
		}
		return f
	}
	if len(frac) != 3 {
		return f
	}
	neg := strings.HasPrefix(whole, "-")
	w, err1 := strconv.ParseInt(strings.TrimPrefix(whole, "-"), 10, 64)
	m, err2 := strconv.ParseInt(frac, 10, 64)
	if err1 != nil || err2 != nil || m < 0 {
		return f
	}
	n := w*1000 + m
	if neg {
		n = -n
	}
	f.Num, f.Milli, f.IsNum = n, true, true
	return f
}

// String formats a field value for humans.
func (f Field) String() string {
	if f.Milli {
		return strconv.FormatFloat(float64(f.Num)/1000, 'f', 3, 64)
	}
	return f.Text
}
