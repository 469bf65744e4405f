package keypadx_test

import (
	"testing"

	. "github.com/comalice/keypadx"
	"github.com/comalice/keypadx/testutil"
)

func TestScanBitmap(t *testing.T) {
	rig := testutil.NewRig(4, 4, testutil.Keymap4x4)
	rig.Matrix.Press(0, 0)
	rig.Matrix.Press(1, 0) // shares a column with (0,0)
	rig.Matrix.Press(3, 2)
	rig.Step()

	bm := rig.Keypad.Bitmap()
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			want := (r == 0 && c == 0) || (r == 1 && c == 0) || (r == 3 && c == 2)
			if got := bm.Closed(r, c); got != want {
				t.Errorf("Closed(%d,%d) = %v, want %v", r, c, got, want)
			}
		}
	}
	if bm.Row(3) != 1<<2 {
		t.Errorf("Row(3) = %b, want 100", bm.Row(3))
	}
}

func TestScanRestoresRows(t *testing.T) {
	rig := testutil.NewRig(4, 4, testutil.Keymap4x4)
	rig.Matrix.Press(2, 2)
	before := rig.Matrix.Writes()
	rig.Step()

	if got := rig.Matrix.Writes() - before; got != 8 {
		t.Errorf("scan wrote %d times, want 8 (low and high per row)", got)
	}
	for _, p := range rig.Rows {
		if rig.Matrix.Level(p) != High {
			t.Errorf("row pin %d left low after scan", p)
		}
	}
}

func TestScanOverwritesBitmap(t *testing.T) {
	rig := testutil.NewRig(2, 2, "abcd")
	rig.Matrix.Press(1, 1)
	rig.Step()
	rig.Matrix.Release(1, 1)
	rig.Step()

	bm := rig.Keypad.Bitmap()
	if bm.Closed(1, 1) {
		t.Error("released cell still closed in bitmap")
	}
}

func TestKeySizeCells(t *testing.T) {
	if got := (KeySize{Rows: 4, Columns: 3}).Cells(); got != 12 {
		t.Errorf("Cells = %d, want 12", got)
	}
}
