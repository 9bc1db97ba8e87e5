package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByName(t *testing.T) {
	th, ok := ByName("tokyo-night")
	assert.True(t, ok)
	assert.Equal(t, "tokyo-night", th.Name)

	th, ok = ByName("nope")
	assert.False(t, ok)
	assert.Equal(t, FlexokiDark.Name, th.Name, "unknown names fall back")
}

func TestSetActive(t *testing.T) {
	defer SetActive(FlexokiDark.Name)
	SetActive("terminal")
	assert.Equal(t, "terminal", Active.Name)
}

func TestFuelColor(t *testing.T) {
	th := FlexokiDark
	tests := []struct {
		frac float64
		want string
	}{
		{0, string(th.Red)},
		{0.09, string(th.Red)},
		{0.10, string(th.Orange)},
		{0.24, string(th.Orange)},
		{0.25, string(th.Green)},
		{1, string(th.Green)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, string(th.FuelColor(tt.frac)), "FuelColor(%v)", tt.frac)
	}
}
