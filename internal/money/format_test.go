package money

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatIDR(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		want   string
	}{
		{"zero", 0, "Rp. 0"},
		{"under one group", 950, "Rp. 950"},
		{"exactly one thousand", 1000, "Rp. 1.000"},
		{"hundred thousand", 100000, "Rp. 100.000"},
		{"two hundred forty thousand", 240000, "Rp. 240.000"},
		{"three hundred thousand", 300000, "Rp. 300.000"},
		{"millions", 1234567, "Rp. 1.234.567"},
		{"billions", 2500000000, "Rp. 2.500.000.000"},
		{"negative", -15000, "Rp. -15.000"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, FormatIDR(tc.amount))
		})
	}
}
