package production

import (
	"bytes"
	"fmt"

	"github.com/comalice/keypadx"
)

// DefaultVisualizer renders keypad state as text.
type DefaultVisualizer struct{}

// ExportDOT generates Graphviz DOT source for the debounce state machine,
// filling in every state some tracked key is currently in.
func (v *DefaultVisualizer) ExportDOT(transitions []keypadx.Transition, keys []keypadx.Key) string {
	var buf bytes.Buffer
	buf.WriteString(`digraph Debounce {
  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)

	active := getActiveStates(keys)
	for _, s := range []keypadx.KeyState{keypadx.Idle, keypadx.Pressed, keypadx.Hold, keypadx.Released} {
		style := ""
		if active[s] {
			style = ` style=filled fillcolor=lightgreen`
		}
		buf.WriteString(fmt.Sprintf("  %q [label=%q%s];\n", s.String(), s.String(), style))
	}

	for _, t := range transitions {
		label := t.When.String()
		if t.Anchor {
			label += " / start hold timer"
		}
		buf.WriteString(fmt.Sprintf("  %q -> %q [label=%q];\n", t.From.String(), t.To.String(), label))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// getActiveStates returns the set of states held by occupied slots.
func getActiveStates(keys []keypadx.Key) map[keypadx.KeyState]bool {
	active := make(map[keypadx.KeyState]bool)
	for _, k := range keys {
		if !k.Empty() {
			active[k.State] = true
		}
	}
	return active
}

// RenderGrid draws the last scan as a grid, bracketing closed cells, followed
// by one line per occupied slot. A '*' marks a key that changed on the last
// update.
//
//	 1  [2]  3   A
//	 4   5   6   B
//	slot 0: '2' code 1 PRESSED*
func (v *DefaultVisualizer) RenderGrid(size keypadx.KeySize, keymap string, bitmap keypadx.Bitmap, keys []keypadx.Key) string {
	var buf bytes.Buffer
	chars := []rune(keymap)

	for r := 0; r < size.Rows; r++ {
		for c := 0; c < size.Columns; c++ {
			if c > 0 {
				buf.WriteByte(' ')
			}
			ch := '?'
			if code := r*size.Columns + c; code < len(chars) {
				ch = chars[code]
			}
			if bitmap.Closed(r, c) {
				buf.WriteString(fmt.Sprintf("[%c]", ch))
			} else {
				buf.WriteString(fmt.Sprintf(" %c ", ch))
			}
		}
		buf.WriteByte('\n')
	}

	for i, k := range keys {
		if k.Empty() {
			continue
		}
		mark := ""
		if k.StateChanged {
			mark = "*"
		}
		buf.WriteString(fmt.Sprintf("slot %d: %q code %d %s%s\n", i, k.Char, k.Code, k.State, mark))
	}
	return buf.String()
}
