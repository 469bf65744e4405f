// Package shiftin reads matrix columns through parallel-in/serial-out shift
// registers such as the CD4021, so a wide keypad needs only three pins for
// its columns.
//
// The Register sits between a Keypad and the real PinIO. Column pins handed
// to the Keypad are virtual; reads of them are served from the register
// chain, and everything else passes through untouched.
//
//	io := ...                        // GPIO for rows and the register lines
//	reg := shiftin.New(io, dataPin, clockPin, latchPin, 200, 16)
//	kp := keypadx.New(rows, reg.Columns(), len(rows), 16, reg)
package shiftin

import "github.com/comalice/keypadx"

// Register implements keypadx.PinIO for a chain of 8-bit shift registers.
// Register 0 holds columns 0-7, register 1 columns 8-15, and so on.
type Register struct {
	io      keypadx.PinIO
	data    keypadx.Pin
	clock   keypadx.Pin
	latch   keypadx.Pin
	base    keypadx.Pin
	columns int

	buf byte
}

// New creates a Register whose virtual column pins are base..base+columns-1.
// Those pins must not collide with real ones.
func New(io keypadx.PinIO, data, clock, latch, base keypadx.Pin, columns int) *Register {
	r := &Register{
		io:      io,
		data:    data,
		clock:   clock,
		latch:   latch,
		base:    base,
		columns: columns,
	}
	r.io.Write(r.latch, keypadx.Low)
	r.io.Write(r.clock, keypadx.High)
	return r
}

// Columns returns the virtual column pins in order.
func (r *Register) Columns() []keypadx.Pin {
	pins := make([]keypadx.Pin, r.columns)
	for i := range pins {
		pins[i] = r.base + keypadx.Pin(i)
	}
	return pins
}

// Registers returns how many chained chips the columns span.
func (r *Register) Registers() int {
	return (r.columns + 7) / 8
}

func (r *Register) column(pin keypadx.Pin) int {
	c := int(pin - r.base)
	if c < 0 || c >= r.columns {
		return -1
	}
	return c
}

// SetMode configures the register lines in place of the first column and
// ignores the other virtual columns.
func (r *Register) SetMode(pin keypadx.Pin, mode keypadx.PinMode) {
	switch c := r.column(pin); {
	case c < 0:
		r.io.SetMode(pin, mode)
	case c == 0:
		r.io.SetMode(r.data, keypadx.Input)
		r.io.SetMode(r.clock, keypadx.Output)
		r.io.SetMode(r.latch, keypadx.Output)

		r.io.Write(r.latch, keypadx.Low)
		r.io.Write(r.clock, keypadx.High)
	}
}

func (r *Register) Write(pin keypadx.Pin, level bool) {
	if r.column(pin) >= 0 {
		return
	}
	r.io.Write(pin, level)
}

// Read serves virtual columns from the chain. The scanner reads columns in
// order, so column 0 latches the inputs and every eighth column clocks in
// the next chip.
func (r *Register) Read(pin keypadx.Pin) bool {
	c := r.column(pin)
	if c < 0 {
		return r.io.Read(pin)
	}

	if c == 0 {
		r.io.Write(r.latch, keypadx.High)
		r.io.Write(r.latch, keypadx.Low)
	}

	bit := c % 8
	if bit == 0 {
		r.buf = r.shiftIn()
	}

	return r.buf&(1<<bit) != 0
}

// shiftIn clocks in one byte, MSB first. The data line is sampled while the
// clock is low and the register advances on the rising edge.
func (r *Register) shiftIn() byte {
	var value byte
	for i := 0; i < 8; i++ {
		r.io.Write(r.clock, keypadx.Low)

		if r.io.Read(r.data) {
			value |= 1 << (7 - i)
		}

		r.io.Write(r.clock, keypadx.High)
	}
	return value
}
