package tetris

import "math/rand/v2"

// queuedBags is the minimum number of bags kept ahead so the preview
// can always look past the end of the current bag.
const queuedBags = 2

// Bag is a 7-bag randomizer: every bag holds each tetrimino exactly once.
//
// The generator is seeded once. A seed taken from the clock's seconds has
// very little entropy, which is accepted for a game.
type Bag struct {
	queue [][]Tetrimino
	rng   *rand.Rand
}

func NewBag(seed int64) *Bag {
	b := &Bag{rng: rand.New(rand.NewPCG(uint64(seed), uint64(seed)))}
	b.fill()
	return b
}

// Next draws the next tetrimino.
func (b *Bag) Next() Tetrimino {
	b.fill()
	if len(b.queue[0]) == 0 {
		b.queue = b.queue[1:]
		b.push()
	}
	front := b.queue[0]
	t := front[len(front)-1]
	b.queue[0] = front[:len(front)-1]
	return t
}

// Peek returns up to n tetriminos in the order Next will draw them.
// At least one full bag is always queued behind the current one.
func (b *Bag) Peek(n int) []Tetrimino {
	b.fill()
	next := make([]Tetrimino, 0, n)
	for _, bag := range b.queue {
		for i := len(bag) - 1; i >= 0; i-- {
			if len(next) == n {
				return next
			}
			next = append(next, bag[i])
		}
	}
	return next
}

func (b *Bag) fill() {
	for len(b.queue) < queuedBags {
		b.push()
	}
}

func (b *Bag) push() {
	bag := make([]Tetrimino, len(Kinds))
	copy(bag, Kinds[:])
	b.rng.Shuffle(len(bag), func(i, j int) { bag[i], bag[j] = bag[j], bag[i] })
	b.queue = append(b.queue, bag)
}
