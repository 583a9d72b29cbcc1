package tetris

import "time"

type Action string

const (
	NoAction    Action = ""          // Nothing was pressed.
	MoveLeft    Action = "left"      // Moves the Tetrimino one step to the left.
	MoveRight   Action = "right"     // Moves the Tetrimino one step to the right.
	MoveDown    Action = "down"      // Moves the Tetrimino one step down.
	DropDown    Action = "drop"      // Drops the Tetrimino down the stack and locks it.
	RotateRight Action = "rotatecw"  // Rotates the Tetrimino clockwise.
	RotateLeft  Action = "rotateccw" // Rotates the Tetrimino counter-clockwise.
	Hold        Action = "hold"      // Swaps the Tetrimino with the hold slot.
)

// Input decodes the next key press. Read must not block: it returns
// NoAction when nothing is pending. Unknown keys are returned as any other
// Action value and ignored by the game.
type Input interface {
	Read() (Action, error)
}

type Event int

const (
	Gravity  Event = iota // the active piece falls one row
	Lockdown              // the lock delay expired
)

func (e Event) String() string {
	switch e {
	case Gravity:
		return "gravity"
	case Lockdown:
		return "lockdown"
	default:
		return "unknown"
	}
}

// Timer schedules the gravity and lock delay events.
//
// Arm schedules fire to run once after d, replacing any pending timer for
// the same event. Cancel stops a pending timer without running it. fire may
// run on any goroutine.
type Timer interface {
	Arm(e Event, d time.Duration, fire func())
	Cancel(e Event)
}

// Renderer draws the game. Nothing reaches the screen until Refresh.
type Renderer interface {
	DrawMatrix(m *Matrix) error
	DrawQueue(next []Tetrimino) error
	DrawHold(hold Tetrimino) error
	Refresh() error
}
