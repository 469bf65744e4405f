// Package layout describes a keypad's wiring and keymap as a config file.
// Validation ensures pins are present, the grid fits the scanner and the
// keymap covers every cell.

package layout

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/comalice/keypadx"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid layout")

// Supported drivers.
const (
	DriverSim    = "sim"
	DriverPeriph = "periph"
	DriverRPIO   = "rpio"
)

// Config defines one keypad.
type Config struct {
	Name       string         `json:"name" yaml:"name" toml:"name"`
	Driver     string         `json:"driver,omitempty" yaml:"driver,omitempty" toml:"driver,omitempty"`
	RowPins    []int          `json:"rowPins" yaml:"rowPins" toml:"rowPins"`
	ColumnPins []int          `json:"columnPins,omitempty" yaml:"columnPins,omitempty" toml:"columnPins,omitempty"`
	Keymap     string         `json:"keymap" yaml:"keymap" toml:"keymap"`
	DebounceMS uint32         `json:"debounceMs,omitempty" yaml:"debounceMs,omitempty" toml:"debounceMs,omitempty"`
	HoldMS     uint32         `json:"holdMs,omitempty" yaml:"holdMs,omitempty" toml:"holdMs,omitempty"`
	ShiftIn    *ShiftInConfig `json:"shiftIn,omitempty" yaml:"shiftIn,omitempty" toml:"shiftIn,omitempty"`
}

// ShiftInConfig reads columns through shift registers instead of ColumnPins.
type ShiftInConfig struct {
	DataPin  int `json:"dataPin" yaml:"dataPin" toml:"dataPin"`
	ClockPin int `json:"clockPin" yaml:"clockPin" toml:"clockPin"`
	LatchPin int `json:"latchPin" yaml:"latchPin" toml:"latchPin"`
	Columns  int `json:"columns" yaml:"columns" toml:"columns"`
}

// Default returns the common 4x4 membrane keypad on the simulator.
func Default() *Config {
	return &Config{
		Name:       "4x4",
		Driver:     DriverSim,
		RowPins:    []int{9, 8, 7, 6},
		ColumnPins: []int{5, 4, 3, 2},
		Keymap:     "123A456B789C*0#D",
		DebounceMS: keypadx.DefaultDebounceTime,
		HoldMS:     keypadx.DefaultHoldTime,
	}
}

// Rows returns the row count.
func (c *Config) Rows() int {
	return len(c.RowPins)
}

// Columns returns the column count, from the shift registers if configured.
func (c *Config) Columns() int {
	if c.ShiftIn != nil {
		return c.ShiftIn.Columns
	}
	return len(c.ColumnPins)
}

// Validate checks the layout:
// - at least one row and column, within the scanner limits
// - a known driver
// - a keymap with a character for every cell
// - no pin used twice
func (c *Config) Validate() error {
	rows, cols := c.Rows(), c.Columns()
	if rows == 0 {
		return fmt.Errorf("%w: no row pins", ErrInvalid)
	}
	if rows > keypadx.MaxRows {
		return fmt.Errorf("%w: %d rows exceeds %d", ErrInvalid, rows, keypadx.MaxRows)
	}
	if cols == 0 {
		return fmt.Errorf("%w: no columns", ErrInvalid)
	}
	if cols > keypadx.MaxColumns {
		return fmt.Errorf("%w: %d columns exceeds %d", ErrInvalid, cols, keypadx.MaxColumns)
	}
	if c.ShiftIn != nil && len(c.ColumnPins) > 0 {
		return fmt.Errorf("%w: columnPins and shiftIn are exclusive", ErrInvalid)
	}

	switch c.Driver {
	case "", DriverSim, DriverPeriph, DriverRPIO:
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalid, c.Driver)
	}

	if n := utf8.RuneCountInString(c.Keymap); n < rows*cols {
		return fmt.Errorf("%w: keymap has %d keys, grid needs %d", ErrInvalid, n, rows*cols)
	}

	seen := make(map[int]bool)
	for _, p := range c.pins() {
		if seen[p] {
			return fmt.Errorf("%w: pin %d used twice", ErrInvalid, p)
		}
		seen[p] = true
	}
	return nil
}

func (c *Config) pins() []int {
	pins := append([]int{}, c.RowPins...)
	pins = append(pins, c.ColumnPins...)
	if c.ShiftIn != nil {
		pins = append(pins, c.ShiftIn.DataPin, c.ShiftIn.ClockPin, c.ShiftIn.LatchPin)
	}
	return pins
}

// HardwarePins returns every physical pin the layout uses.
func (c *Config) HardwarePins() []keypadx.Pin {
	return toPins(c.pins())
}

// RowPinIDs converts RowPins for keypadx.New.
func (c *Config) RowPinIDs() []keypadx.Pin {
	return toPins(c.RowPins)
}

// ColumnPinIDs converts ColumnPins for keypadx.New.
func (c *Config) ColumnPinIDs() []keypadx.Pin {
	return toPins(c.ColumnPins)
}

// Options returns the timing options. Zero values keep the keypad defaults.
func (c *Config) Options() []keypadx.Option {
	var opts []keypadx.Option
	if c.DebounceMS != 0 {
		opts = append(opts, keypadx.WithDebounceTime(c.DebounceMS))
	}
	if c.HoldMS != 0 {
		opts = append(opts, keypadx.WithHoldTime(c.HoldMS))
	}
	return opts
}

// Apply pushes the timing fields onto a running keypad. The keymap and
// pins are fixed once the keypad has begun.
func (c *Config) Apply(k *keypadx.Keypad) {
	for _, opt := range c.Options() {
		opt(k)
	}
}

func toPins(ids []int) []keypadx.Pin {
	pins := make([]keypadx.Pin, len(ids))
	for i, id := range ids {
		pins[i] = keypadx.Pin(id)
	}
	return pins
}
