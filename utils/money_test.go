package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBRL(t *testing.T) {
	cases := []struct {
		centavos int64
		want     string
	}{
		{0, "R$ 0,00"},
		{5, "R$ 0,05"},
		{99, "R$ 0,99"},
		{100, "R$ 1,00"},
		{3000, "R$ 30,00"},
		{9650, "R$ 96,50"},
		{123456, "R$ 1.234,56"},
		{100000000, "R$ 1.000.000,00"},
		{-2500, "-R$ 25,00"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatBRL(tc.centavos), "centavos=%d", tc.centavos)
	}
}
