// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"fmt"

	"github.com/comalice/keypadx"
	"github.com/comalice/keypadx/layout"
	"github.com/comalice/keypadx/testutil"
)

// GenKeymap returns a keymap with one distinct character per cell.
func GenKeymap(rows, cols int) string {
	keys := make([]rune, rows*cols)
	for i := range keys {
		keys[i] = rune(0x4e00 + i) // CJK block, never collides
	}
	return string(keys)
}

// GenRig builds a simulated keypad of the given size.
func GenRig(rows, cols int, opts ...keypadx.Option) *testutil.Rig {
	return testutil.NewRig(rows, cols, GenKeymap(rows, cols), opts...)
}

// PressN closes n switches spread across the grid.
func PressN(rig *testutil.Rig, n int) {
	rows, cols := len(rig.Rows), len(rig.Cols)
	for i := 0; i < n && i < rows*cols; i++ {
		code := i * (rows * cols) / n
		rig.Matrix.Press(code/cols, code%cols)
	}
}

// GenLayout returns a valid layout of the given size.
func GenLayout(rows, cols int) *layout.Config {
	cfg := &layout.Config{
		Name:       fmt.Sprintf("bench_%dx%d", rows, cols),
		Driver:     layout.DriverSim,
		Keymap:     GenKeymap(rows, cols),
		DebounceMS: keypadx.DefaultDebounceTime,
		HoldMS:     keypadx.DefaultHoldTime,
	}
	for r := 0; r < rows; r++ {
		cfg.RowPins = append(cfg.RowPins, r)
	}
	for c := 0; c < cols; c++ {
		cfg.ColumnPins = append(cfg.ColumnPins, 100+c)
	}
	return cfg
}
