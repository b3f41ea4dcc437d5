package mathx

import "testing"

func TestRoundDiv(t *testing.T) {
	cases := []struct {
		a, b, want uint32
	}{
		{8_000_000, 9600, 833},
		{8_000_000, 115200, 69},
		{8_000_000, 500_000, 16},
		{5, 2, 3},
		{4, 3, 1},
		{7, 0, 0},
	}
	for _, c := range cases {
		if got := RoundDiv(c.a, c.b); got != c.want {
			t.Errorf("RoundDiv(%d, %d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}
