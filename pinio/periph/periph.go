// Package periph drives a keypad through periph.io GPIO, which covers the
// Raspberry Pi, BeagleBone, Allwinner boards and the generic Linux sysfs and
// character device interfaces.
package periph

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/comalice/keypadx"
)

// ErrUnknownPin is returned when a pin number has no registered GPIO.
var ErrUnknownPin = errors.New("periph: unknown pin")

// Driver implements keypadx.PinIO over periph GPIO lines.
//
// periph reports failures from In and Out, which PinIO cannot return. The
// first one is kept and available from Err.
type Driver struct {
	pins map[keypadx.Pin]gpio.PinIO

	mu  sync.Mutex
	err error
}

// Open initializes the host drivers and resolves each pin by its GPIO
// number.
func Open(pins ...keypadx.Pin) (*Driver, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph: host init: %w", err)
	}

	lines := make(map[keypadx.Pin]gpio.PinIO, len(pins))
	for _, p := range pins {
		line := gpioreg.ByName(strconv.Itoa(int(p)))
		if line == nil {
			return nil, fmt.Errorf("%w: %d", ErrUnknownPin, p)
		}
		lines[p] = line
	}
	return New(lines), nil
}

// New wraps already resolved lines.
func New(lines map[keypadx.Pin]gpio.PinIO) *Driver {
	return &Driver{pins: lines}
}

func (d *Driver) SetMode(pin keypadx.Pin, mode keypadx.PinMode) {
	line, ok := d.line(pin)
	if !ok {
		return
	}

	var err error
	switch mode {
	case keypadx.Output:
		err = line.Out(gpio.High)
	case keypadx.InputPullup:
		err = line.In(gpio.PullUp, gpio.NoEdge)
	default:
		err = line.In(gpio.Float, gpio.NoEdge)
	}
	if err != nil {
		d.fail(fmt.Errorf("periph: set %s %v: %w", line.Name(), mode, err))
	}
}

func (d *Driver) Write(pin keypadx.Pin, level bool) {
	line, ok := d.line(pin)
	if !ok {
		return
	}
	if err := line.Out(gpio.Level(level)); err != nil {
		d.fail(fmt.Errorf("periph: write %s: %w", line.Name(), err))
	}
}

func (d *Driver) Read(pin keypadx.Pin) bool {
	line, ok := d.line(pin)
	if !ok {
		return keypadx.High
	}
	return bool(line.Read())
}

// Err returns the first I/O failure, if any.
func (d *Driver) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Close releases every line.
func (d *Driver) Close() error {
	var errs []error
	for _, line := range d.pins {
		if err := line.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("periph: halt %s: %w", line.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (d *Driver) line(pin keypadx.Pin) (gpio.PinIO, bool) {
	line, ok := d.pins[pin]
	if !ok {
		d.fail(fmt.Errorf("%w: %d", ErrUnknownPin, pin))
	}
	return line, ok
}

func (d *Driver) fail(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err == nil {
		d.err = err
	}
}
