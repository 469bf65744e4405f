package rpio

import (
	"testing"

	"github.com/stianeikeland/go-rpio/v4"
	"github.com/stretchr/testify/assert"

	"github.com/comalice/keypadx"
)

// Register access needs /dev/gpiomem, so only the pure parts are covered.

func TestState(t *testing.T) {
	assert.Equal(t, rpio.High, state(keypadx.High))
	assert.Equal(t, rpio.Low, state(keypadx.Low))
}

func TestDriverIsPinIO(t *testing.T) {
	var _ keypadx.PinIO = (*Driver)(nil)
}
