package tetris

// Tetrimino is a piece kind. It doubles as the content of a matrix cell:
// None is an empty cell and Ghost marks the landing preview of the active piece.
type Tetrimino uint8

const (
	None Tetrimino = iota
	O
	I
	T
	L
	J
	S
	Z
	Ghost
)

// Kinds lists the seven playable tetriminos in bag order.
var Kinds = [7]Tetrimino{O, I, T, L, J, S, Z}

func (t Tetrimino) String() string {
	switch t {
	case None:
		return " "
	case O:
		return "O"
	case I:
		return "I"
	case T:
		return "T"
	case L:
		return "L"
	case J:
		return "J"
	case S:
		return "S"
	case Z:
		return "Z"
	case Ghost:
		return "G"
	default:
		return "?"
	}
}

// Solid reports whether the cell content blocks other pieces.
func (t Tetrimino) Solid() bool {
	return t != None && t != Ghost
}

/*
All 4 rotations of a piece packed in a uint64, rotation 0 in the top 16 bits.
Each 16 bit block is a 4x4 grid read row by row, most significant bit first.
The grid's top-left cell is the piece anchor, rows grow downwards.

T, rotations 0 to 3:

.	0x4E00		0x4640		0x0E40		0x4C40

.	. O . .		. O . .		. . . .		. O . .
.	O O O .		. O O .		O O O .		O O . .
.	. . . .		. O . .		. O . .		. O . .
.	. . . .		. . . .		. . . .		. . . .
*/
var rotations = [...]uint64{
	O: 0x6600660066006600,
	I: 0x0F00222200F04444,
	T: 0x4E0046400E404C40,
	L: 0x2E0044600E80C440,
	J: 0x8E0064400E2044C0,
	S: 0x6C00462006C08C40,
	Z: 0xC60026400C604C80,
}

// Block returns the 4x4 bitmap of t at rotation rot.
// None and Ghost have no shape and return 0.
func (t Tetrimino) Block(rot int) uint16 {
	if int(t) >= len(rotations) {
		return 0
	}
	rot = ((rot % 4) + 4) % 4
	return uint16(rotations[t] >> (48 - rot*16))
}

// Cells returns the offsets of the occupied cells of t at rotation rot,
// relative to the top-left anchor. dy grows downwards.
func (t Tetrimino) Cells(rot int) [][2]int {
	block := t.Block(rot)
	cells := make([][2]int, 0, 4)
	for dy := range 4 {
		row := (block >> (12 - dy*4)) & 0xF
		for dx := range 4 {
			if (row>>(3-dx))&1 == 1 {
				cells = append(cells, [2]int{dx, dy})
			}
		}
	}
	return cells
}

// Piece is a tetrimino standing at an anchor with a rotation state.
type Piece struct {
	Kind Tetrimino
	X, Y int
	Rot  int

	ghost bool
}

// Ghost returns a ghost copy of p: same shape and position, drawn as Ghost cells.
func (p Piece) Ghost() Piece {
	p.ghost = true
	return p
}

// Shift returns p moved by dx, dy.
func (p Piece) Shift(dx, dy int) Piece {
	p.X += dx
	p.Y += dy
	return p
}

// mark is the value written into the matrix for p.
func (p Piece) mark() Tetrimino {
	if p.ghost {
		return Ghost
	}
	return p.Kind
}
