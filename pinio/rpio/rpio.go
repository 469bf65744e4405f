// Package rpio drives a keypad straight through the Raspberry Pi GPIO
// registers via /dev/gpiomem. Pins are BCM numbers.
package rpio

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"

	"github.com/comalice/keypadx"
)

// Driver implements keypadx.PinIO with go-rpio. Only one Driver should be
// open at a time; go-rpio maps the registers process-wide.
type Driver struct{}

// Open maps the GPIO registers.
func Open() (*Driver, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("rpio: open: %w", err)
	}
	return &Driver{}, nil
}

// Close unmaps the registers.
func (d *Driver) Close() error {
	if err := rpio.Close(); err != nil {
		return fmt.Errorf("rpio: close: %w", err)
	}
	return nil
}

func (d *Driver) SetMode(pin keypadx.Pin, mode keypadx.PinMode) {
	p := rpio.Pin(pin)
	switch mode {
	case keypadx.Output:
		p.Output()
	case keypadx.InputPullup:
		p.Input()
		p.PullUp()
	default:
		p.Input()
		p.PullOff()
	}
}

func (d *Driver) Write(pin keypadx.Pin, level bool) {
	rpio.Pin(pin).Write(state(level))
}

func (d *Driver) Read(pin keypadx.Pin) bool {
	return rpio.Pin(pin).Read() == rpio.High
}

func state(level bool) rpio.State {
	if level {
		return rpio.High
	}
	return rpio.Low
}
