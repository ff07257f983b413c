package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRound2(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"1.005", "1.01"},
		{"1.004", "1"},
		{"-1.005", "-1.01"},
		{"3.50", "3.5"},
		{"0.333333", "0.33"},
		{"10", "10"},
	}
	for _, c := range cases {
		in := decimal.RequireFromString(c.input)
		got := Round2(in)
		if got.String() != c.want {
			t.Errorf("Round2(%s) = %s, want %s", c.input, got, c.want)
		}
	}
}
