package keypadx

// Grid limits.
const (
	MaxRows    = 16
	MaxColumns = 32
)

// KeySize is the grid geometry fixed at construction.
type KeySize struct {
	Rows    int
	Columns int
}

// Cells returns rows*columns, the number of key codes.
func (s KeySize) Cells() int {
	return s.Rows * s.Columns
}

// Bitmap is one scan's raw closure sample, one word per row and one bit per
// column. A set bit means the contact was closed.
type Bitmap [MaxRows]uint32

// Closed reports whether the cell at (row, col) was closed.
func (b *Bitmap) Closed(row, col int) bool {
	return b[row]&(1<<uint(col)) != 0
}

// Row returns the raw word for a row.
func (b *Bitmap) Row(row int) uint32 {
	return b[row]
}

func (b *Bitmap) set(row, col int, closed bool) {
	if closed {
		b[row] |= 1 << uint(col)
	} else {
		b[row] &^= 1 << uint(col)
	}
}

// scan pulses each row low in turn and samples every column. Columns are
// pulled up, so a low read is a closed switch. The row goes back high before
// the next one is driven so two keys sharing a column never short two rows.
func (k *Keypad) scan() {
	for r := 0; r < k.size.Rows; r++ {
		k.io.Write(k.rowPins[r], Low)

		for c := 0; c < k.size.Columns; c++ {
			k.bitmap.set(r, c, !k.io.Read(k.colPins[c]))
		}

		k.io.Write(k.rowPins[r], High)
	}
}
