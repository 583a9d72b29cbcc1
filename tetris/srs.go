package tetris

// kick is a candidate offset tried when rotating. Y grows upwards.
type kick struct{ x, y int }

type transition struct{ from, to int }

// Wall kicks after the (0, 0) test, from https://tetris.wiki/Super_Rotation_System
// Rotation states are 0 (spawn), 1 (R), 2 and 3 (L).
var kicksJLSTZ = map[transition][4]kick{
	{0, 1}: {{-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
	{2, 1}: {{-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
	{1, 0}: {{1, 0}, {1, -1}, {0, 2}, {1, 2}},
	{1, 2}: {{1, 0}, {1, -1}, {0, 2}, {1, 2}},
	{2, 3}: {{1, 0}, {1, 1}, {0, -2}, {1, -2}},
	{0, 3}: {{1, 0}, {1, 1}, {0, -2}, {1, -2}},
	{3, 2}: {{-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
	{3, 0}: {{-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
}

var kicksI = map[transition][4]kick{
	// the last 0>R test is the guideline (-2, -1); some tables print (-2, 1).
	{0, 1}: {{-2, 0}, {1, 0}, {-2, -1}, {1, 2}},
	{3, 2}: {{-2, 0}, {1, 0}, {-2, -1}, {1, 2}},
	{1, 0}: {{2, 0}, {-1, 0}, {2, 1}, {-1, -2}},
	{2, 3}: {{2, 0}, {-1, 0}, {2, 1}, {-1, -2}},
	{1, 2}: {{-1, 0}, {2, 0}, {-1, 2}, {2, -1}},
	{0, 3}: {{-1, 0}, {2, 0}, {-1, 2}, {2, -1}},
	{2, 1}: {{1, 0}, {-2, 0}, {1, -2}, {-2, 1}},
	{3, 0}: {{1, 0}, {-2, 0}, {1, -2}, {-2, 1}},
}

// kicks returns the ordered offsets to try when t rotates from one state to another.
func kicks(t Tetrimino, from, to int) []kick {
	tests := []kick{{0, 0}}
	table := kicksJLSTZ
	switch t {
	case O:
		// the O shape is the same in every rotation.
		return tests
	case I:
		table = kicksI
	}
	k, ok := table[transition{from, to}]
	if !ok {
		return tests
	}
	return append(tests, k[:]...)
}

// rotate turns p, which must be in m, to rotation state to. The first kick
// that fits is written into m and returned. When none fits m is left as it
// was and ok is false.
func rotate(m *Matrix, p Piece, to int) (Piece, bool) {
	to = ((to % 4) + 4) % 4
	from := ((p.Rot % 4) + 4) % 4
	m.Remove(p)
	for _, k := range kicks(p.Kind, from, to) {
		next := Piece{Kind: p.Kind, X: p.X + k.x, Y: p.Y + k.y, Rot: to}
		if !m.Collides(next) {
			m.Put(next)
			return next, true
		}
	}
	m.Put(p)
	return p, false
}
