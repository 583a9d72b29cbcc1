package tetris

import (
	"math"
	"time"
)

const (
	LockDelay    = 500 * time.Millisecond
	linesByLevel = 10
	maxLevel     = 20
)

// levelFor returns the level for the cleared lines. The level never drops
// below the one the game started at.
func levelFor(start, lines int) int {
	return max(start, lines/linesByLevel+1)
}

// fallTime sets the duration between two gravity ticks.
// Based on https://tetris.wiki/Marathon
//
// Time = (0.8-((Level-1)*0.007))^(Level-1)
func fallTime(level int) time.Duration {
	switch {
	case level < 1:
		level = 1
	case level > maxLevel:
		level = maxLevel
	}
	seconds := math.Pow(0.8-float64(level-1)*0.007, float64(level-1))

	return time.Duration(seconds * float64(time.Second))
}
