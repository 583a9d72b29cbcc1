// Package tetris contains the logic of the game
// based on https://tetris.wiki/Super_Rotation_System
package tetris

const (
	// Matrix dimensions, including the out of bounds buffer around the playfield.
	Rows = 44
	Cols = 18

	// The real playfield is columns [Left, Right) and rows [Bottom, Top).
	Left   = 4
	Right  = 14
	Bottom = 4
	Top    = 44

	// VisibleRows are shown, starting at Bottom.
	VisibleRows = 20
	Width       = Right - Left
)

// Matrix is the playing field.
//
// Cells are indexed [y][x]. Columns grow left to right and rows grow upwards,
// row Bottom is the floor of the playfield. A 4 cell buffer surrounds the
// playfield on the left, right and bottom so 4x4 templates can always be
// scanned; placements into the buffer are rejected as collisions.
//
// .		  4 5 6 7 8 9 10 11 12 13
// 43		  . . . . . . .  .  .  .
// ..
// 23		  . . . . . . .  .  .  .	<- top visible row
// ..
// 4		  . . . . . . .  .  .  .	<- floor
type Matrix struct {
	cells [Rows][Cols]Tetrimino
}

// At returns the content of the cell x, y. Cells outside the matrix are empty.
func (m *Matrix) At(x, y int) Tetrimino {
	if x < 0 || x >= Cols || y < 0 || y >= Rows {
		return None
	}
	return m.cells[y][x]
}

// Set overwrites the cell x, y. Out of range cells are ignored.
func (m *Matrix) Set(x, y int, t Tetrimino) {
	if x < 0 || x >= Cols || y < 0 || y >= Rows {
		return
	}
	m.cells[y][x] = t
}

// Place tests, writes or deletes p in the matrix.
//
// In test mode it returns true as soon as one cell of p is out of the
// playfield or taken by a solid piece, without mutating the matrix.
// Otherwise every cell of p is written (or cleared when del is set)
// following the ghost rules and false is returned.
func (m *Matrix) Place(p Piece, del, test bool) bool {
	for _, c := range p.Kind.Cells(p.Rot) {
		if m.draw(p, p.X+c[0], p.Y-c[1], del, test) {
			return true
		}
	}
	return false
}

// Collides reports whether p can't stand where it is.
func (m *Matrix) Collides(p Piece) bool { return m.Place(p, false, true) }

// Put writes p into the matrix.
func (m *Matrix) Put(p Piece) { m.Place(p, false, false) }

// Remove clears p from the matrix.
func (m *Matrix) Remove(p Piece) { m.Place(p, true, false) }

func (m *Matrix) draw(p Piece, x, y int, del, test bool) bool {
	if test {
		return x < Left || x >= Right || y < Bottom || y >= Top || m.cells[y][x].Solid()
	}
	if x < 0 || x >= Cols || y < 0 || y >= Rows {
		return false
	}
	cell := &m.cells[y][x]
	switch {
	case del && !p.ghost:
		*cell = None
	case del:
		// a ghost never erases a solid cell
		if !cell.Solid() {
			*cell = None
		}
	case !cell.Solid():
		*cell = p.mark()
	}
	return false
}

// RowFull reports whether every playfield cell of row y is taken by a solid piece.
func (m *Matrix) RowFull(y int) bool {
	if y < Bottom || y >= Top {
		return false
	}
	for x := Left; x < Right; x++ {
		if !m.cells[y][x].Solid() {
			return false
		}
	}
	return true
}

// RowEmpty reports whether row y holds no solid piece.
func (m *Matrix) RowEmpty(y int) bool {
	if y < 0 || y >= Rows {
		return true
	}
	for x := Left; x < Right; x++ {
		if m.cells[y][x].Solid() {
			return false
		}
	}
	return true
}

// ClearLines removes every full row, shifting the rows above down, and
// returns how many rows were cleared.
func (m *Matrix) ClearLines() int {
	cleared := 0
	for y := Bottom; y < Top; {
		if !m.RowFull(y) {
			y++
			continue
		}
		m.collapse(y)
		cleared++
		// the row that fell into y has to be checked again
	}
	return cleared
}

// collapse copies every row above y one row down. Rows are contiguous from
// the floor, so shifting stops at the first empty row.
func (m *Matrix) collapse(y int) {
	for ; y < Top-1; y++ {
		m.cells[y] = m.cells[y+1]
		if m.RowEmpty(y + 1) {
			return
		}
	}
	m.cells[Top-1] = [Cols]Tetrimino{}
}

// Visible returns the visible part of the playfield, top row first.
func (m *Matrix) Visible() [VisibleRows][Width]Tetrimino {
	var v [VisibleRows][Width]Tetrimino
	for row := range VisibleRows {
		y := Bottom + VisibleRows - 1 - row
		for col := range Width {
			v[row][col] = m.cells[y][Left+col]
		}
	}
	return v
}
