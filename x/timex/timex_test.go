package timex

import (
	"testing"

	"mcuperiph-go/errcode"
)

// readyAt returns a predicate that turns true once clk has reached at
// ticks past base.
func readyAt(clk *ManualClock, base, at uint32) func() bool {
	return func() bool { return clk.Peek()-base >= at }
}

func TestAwaitBoundary(t *testing.T) {
	cases := []struct {
		name  string
		at    uint32
		bound uint32
		ok    bool
	}{
		{"immediate", 0, 400, true},
		{"early", 50, 400, true},
		{"at bound", 400, 400, true},
		{"one past bound", 401, 400, false},
		{"late", 450, 400, false},
		{"zero bound", 0, 0, false},
		{"tiny bound", 1, 1, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			clk := NewManualClock(0)
			b := Budget{Ticks: c.bound, Src: clk}
			err := b.Await(readyAt(clk, 1, c.at))
			if c.ok && err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if !c.ok && err != errcode.Timeout {
				t.Fatalf("expected timeout, got %v", err)
			}
		})
	}
}

func TestAwaitZeroBoundDoesNotSample(t *testing.T) {
	calls := 0
	b := Budget{Ticks: 0, Src: NewManualClock(0)}
	if err := b.Await(func() bool { calls++; return true }); err != errcode.Timeout {
		t.Fatalf("got %v", err)
	}
	if calls != 0 {
		t.Fatalf("predicate sampled %d times", calls)
	}
}

func TestAwaitAcrossWrap(t *testing.T) {
	clk := NewManualClock(^uint32(0) - 10)
	b := Budget{Ticks: 400, Src: clk}
	base := clk.Peek() + 1
	if err := b.Await(readyAt(clk, base, 100)); err != nil {
		t.Fatalf("wrap broke the budget: %v", err)
	}
}

func TestBudgetOr(t *testing.T) {
	clk := NewManualClock(0)
	b := Budget{}.Or(clk)
	if b.Ticks != DefaultBound || b.Src != clk {
		t.Fatalf("unexpected default budget %+v", b)
	}
	b = Budget{Ticks: 7}.Or(clk)
	if b.Ticks != 7 {
		t.Fatalf("explicit ticks lost: %+v", b)
	}
	other := NewManualClock(5)
	b = Budget{Ticks: 3, Src: other}.Or(clk)
	if b.Src != other {
		t.Fatal("explicit source replaced")
	}
}

