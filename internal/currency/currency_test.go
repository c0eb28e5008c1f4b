package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatIDR(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "Rp0"},
		{5, "Rp5"},
		{1000, "Rp1.000"},
		{5000, "Rp5.000"},
		{250000, "Rp250.000"},
		{500000, "Rp500.000"},
		{1234567, "Rp1.234.567"},
		{12.5, "Rp12,50"},
		{1000.05, "Rp1.000,05"},
		{9.999, "Rp10"},
		{-1500, "-Rp1.500"},
		{90_000_000_000_000, "Rp90.000.000.000.000"},
		{1e17, "Rp100.000.000.000.000.000"},
		{1e20, "Rp100.000.000.000.000.000.000"},
		{-1e20, "-Rp100.000.000.000.000.000.000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatIDR(tt.amount), "amount %v", tt.amount)
	}
}
