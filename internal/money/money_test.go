package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1.234,56", 1234.56},
		{"1,234.56", 1234.56},
		{"$500", 500},
		{"", 0},
		{"  $ 1.234,50 ", 1234.5},
		{"12,5", 12.5},
		{"350", 350},
		{"0", 0},
		{"n/a", 0},
		{"-120", 0}, // investment is never negative
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ParseAmount(c.in), "input %q", c.in)
	}
}
