// Package sim is an electrical model of a switch matrix and a manual clock,
// for running a Keypad without hardware.
package sim

import (
	"sync"
	"sync/atomic"

	"github.com/comalice/keypadx"
)

// Matrix implements keypadx.PinIO over a simulated rows x columns switch
// matrix. A column reads low while a closed switch joins it to a row that is
// configured as an output and driven low. Otherwise the pull-up wins.
//
// Matrix is safe for concurrent use, so tests may press keys while a runner
// scans.
type Matrix struct {
	mu     sync.Mutex
	rows   []keypadx.Pin
	cols   []keypadx.Pin
	closed [][]bool
	modes  map[keypadx.Pin]keypadx.PinMode
	levels map[keypadx.Pin]bool

	reads  int
	writes int
}

// NewMatrix creates a matrix with every switch open.
func NewMatrix(rows, cols []keypadx.Pin) *Matrix {
	closed := make([][]bool, len(rows))
	for r := range closed {
		closed[r] = make([]bool, len(cols))
	}
	return &Matrix{
		rows:   rows,
		cols:   cols,
		closed: closed,
		modes:  make(map[keypadx.Pin]keypadx.PinMode),
		levels: make(map[keypadx.Pin]bool),
	}
}

// Press closes the switch at (row, col).
func (m *Matrix) Press(row, col int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed[row][col] = true
}

// Release opens the switch at (row, col).
func (m *Matrix) Release(row, col int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed[row][col] = false
}

// ReleaseAll opens every switch.
func (m *Matrix) ReleaseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for r := range m.closed {
		for c := range m.closed[r] {
			m.closed[r][c] = false
		}
	}
}

func (m *Matrix) SetMode(pin keypadx.Pin, mode keypadx.PinMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modes[pin] = mode
}

func (m *Matrix) Write(pin keypadx.Pin, level bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	m.levels[pin] = level
}

func (m *Matrix) Read(pin keypadx.Pin) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++

	col := indexOf(m.cols, pin)
	if col < 0 {
		return m.levels[pin]
	}
	for r, rp := range m.rows {
		if m.modes[rp] != keypadx.Output || m.levels[rp] != keypadx.Low {
			continue
		}
		if m.closed[r][col] {
			return keypadx.Low
		}
	}
	return keypadx.High
}

// Mode returns the last mode set on pin.
func (m *Matrix) Mode(pin keypadx.Pin) keypadx.PinMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.modes[pin]
}

// Level returns the last level written to pin.
func (m *Matrix) Level(pin keypadx.Pin) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.levels[pin]
}

// Reads returns how many times any pin was read.
func (m *Matrix) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// Writes returns how many times any pin was written.
func (m *Matrix) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func indexOf(pins []keypadx.Pin, pin keypadx.Pin) int {
	for i, p := range pins {
		if p == pin {
			return i
		}
	}
	return -1
}

// Clock is a keypadx.Clock that only moves when told to.
type Clock struct {
	ms atomic.Uint32
}

// NewClock returns a clock reading start.
func NewClock(start uint32) *Clock {
	c := &Clock{}
	c.ms.Store(start)
	return c
}

func (c *Clock) Millis() uint32 {
	return c.ms.Load()
}

// Advance moves the clock forward, wrapping like a hardware counter.
func (c *Clock) Advance(ms uint32) {
	c.ms.Add(ms)
}

func (c *Clock) Set(ms uint32) {
	c.ms.Store(ms)
}
