package main

import (
	"context"
	"fmt"
	"time"

	"github.com/comalice/keypadx"
	"github.com/comalice/keypadx/layout"
	"github.com/comalice/keypadx/pinio/periph"
	"github.com/comalice/keypadx/pinio/rpio"
	"github.com/comalice/keypadx/pinio/shiftin"
	"github.com/comalice/keypadx/pinio/sim"
)

// shiftInBase numbers the virtual column pins behind a shift register,
// clear of any real GPIO.
const shiftInBase keypadx.Pin = 1000

type hardware struct {
	driver  string
	io      keypadx.PinIO
	columns []keypadx.Pin
	matrix  *sim.Matrix // sim driver only
	close   func() error
}

func openHardware(cfg *layout.Config) (*hardware, error) {
	hw := &hardware{
		driver:  cfg.Driver,
		columns: cfg.ColumnPinIDs(),
		close:   func() error { return nil },
	}
	if hw.driver == "" {
		hw.driver = layout.DriverSim
	}

	switch hw.driver {
	case layout.DriverSim:
		// The simulator models the switches directly, so shift-in columns
		// are read as plain virtual pins.
		if cfg.ShiftIn != nil {
			hw.columns = virtualColumns(cfg.ShiftIn.Columns)
		}
		hw.matrix = sim.NewMatrix(cfg.RowPinIDs(), hw.columns)
		hw.io = hw.matrix
		return hw, nil

	case layout.DriverPeriph:
		d, err := periph.Open(cfg.HardwarePins()...)
		if err != nil {
			return nil, err
		}
		hw.io = d
		hw.close = d.Close

	case layout.DriverRPIO:
		d, err := rpio.Open()
		if err != nil {
			return nil, err
		}
		hw.io = d
		hw.close = d.Close

	default:
		return nil, fmt.Errorf("unknown driver %q", hw.driver)
	}

	if s := cfg.ShiftIn; s != nil {
		reg := shiftin.New(hw.io,
			keypadx.Pin(s.DataPin), keypadx.Pin(s.ClockPin), keypadx.Pin(s.LatchPin),
			shiftInBase, s.Columns)
		hw.io = reg
		hw.columns = reg.Columns()
	}
	return hw, nil
}

func virtualColumns(n int) []keypadx.Pin {
	pins := make([]keypadx.Pin, n)
	for i := range pins {
		pins[i] = shiftInBase + keypadx.Pin(i)
	}
	return pins
}

// typeKeys presses each character of text on the simulated matrix in turn.
// Characters missing from the keymap are skipped.
func typeKeys(ctx context.Context, m *sim.Matrix, cfg *layout.Config, text string, press time.Duration) {
	keymap := []rune(cfg.Keymap)
	cols := cfg.Columns()

	for _, ch := range text {
		code := -1
		for i, k := range keymap[:cfg.Rows()*cols] {
			if k == ch {
				code = i
				break
			}
		}
		if code < 0 {
			continue
		}

		row, col := code/cols, code%cols
		m.Press(row, col)
		if !sleep(ctx, press) {
			m.Release(row, col)
			return
		}
		m.Release(row, col)
		if !sleep(ctx, press) {
			return
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
