package tetris

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// ErrToppedOut is returned once a new piece can't be spawned.
var ErrToppedOut = errors.New("topped out")

type State int

const (
	Spawn State = iota
	Drop
	ClearLines
	Die
)

func (s State) String() string {
	switch s {
	case Spawn:
		return "spawn"
	case Drop:
		return "drop"
	case ClearLines:
		return "clearlines"
	case Die:
		return "die"
	default:
		return "unknown"
	}
}

const (
	// top-left anchor of every new piece, rotation 0.
	spawnX, spawnY = 7, 25

	// how many upcoming pieces the renderer gets.
	PreviewSize = 5

	defaultPollInterval = 2 * time.Millisecond
)

type Options struct {
	Input    Input
	Timer    Timer
	Renderer Renderer
	Logger   *slog.Logger

	// Seed feeds the bag randomizer.
	Seed int64
	// Level the game starts at. Values below 1 mean 1.
	Level int
	// PollInterval is the pause between two iterations of Run.
	PollInterval time.Duration
}

// Game runs the Spawn > Drop > ClearLines loop on a single goroutine.
//
// The gravity and lock delay timers only ever set gravityDue and
// lockdownDue. Everything else is owned by the goroutine calling Step.
type Game struct {
	gravityDue  atomic.Bool
	lockdownDue atomic.Bool

	matrix          Matrix
	bag             *Bag
	active          Piece
	hold            Tetrimino
	holdUsed        bool
	state           State
	waitingLockdown bool
	lines           int
	level           int
	startLevel      int

	input  Input
	timer  Timer
	render Renderer
	logger *slog.Logger
	poll   time.Duration

	onGravity, onLockdown func()
}

func NewGame(o *Options) *Game {
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	poll := o.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}
	level := max(o.Level, 1)
	g := &Game{
		bag:        NewBag(o.Seed),
		state:      Spawn,
		level:      level,
		startLevel: level,
		input:      o.Input,
		timer:      o.Timer,
		render:     o.Renderer,
		logger:     logger,
		poll:       poll,
	}
	g.onGravity = func() { g.gravityDue.Store(true) }
	g.onLockdown = func() { g.lockdownDue.Store(true) }
	g.logger.Info("new game", slog.Int64("seed", o.Seed), slog.Int("level", level))
	return g
}

func (g *Game) State() State        { return g.state }
func (g *Game) Active() Piece       { return g.active }
func (g *Game) HoldSlot() Tetrimino { return g.hold }
func (g *Game) Lines() int          { return g.lines }
func (g *Game) Level() int          { return g.level }
func (g *Game) Matrix() *Matrix     { return &g.matrix }

// Run steps the game until it tops out, a collaborator fails or ctx is done.
func (g *Game) Run(ctx context.Context) error {
	if err := g.render.DrawHold(g.hold); err != nil {
		return fmt.Errorf("unable to draw hold: %w", err)
	}
	ticker := time.NewTicker(g.poll)
	defer ticker.Stop()
	defer g.stopTimers()
	for {
		if err := g.Step(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Step runs a single iteration of the state machine.
func (g *Game) Step() error {
	switch g.state {
	case Spawn:
		return g.spawnStep()
	case Drop:
		return g.dropStep()
	case ClearLines:
		return g.clearLinesStep()
	case Die:
		return ErrToppedOut
	default:
		return fmt.Errorf("unknown game state %d", g.state)
	}
}

func (g *Game) spawnStep() error {
	// nothing pending belongs to the new piece.
	g.gravityDue.Store(false)
	g.lockdownDue.Store(false)
	g.waitingLockdown = false
	t := g.bag.Next()
	if err := g.render.DrawQueue(g.bag.Peek(PreviewSize)); err != nil {
		return fmt.Errorf("unable to draw queue: %w", err)
	}
	if g.spawn(t) {
		g.die()
	} else {
		g.arm(Gravity)
		g.setState(Drop)
	}
	return g.refresh()
}

func (g *Game) dropStep() error {
	if g.gravityDue.Load() {
		g.move(0, -1)
		if err := g.refresh(); err != nil {
			return err
		}
	}

	if g.lockdownDue.Load() {
		g.lock()
		return nil
	}

	a, err := g.input.Read()
	if err != nil {
		return fmt.Errorf("unable to read input: %w", err)
	}
	if a == NoAction {
		return nil
	}
	if err := g.action(a); err != nil {
		return err
	}
	return g.refresh()
}

func (g *Game) clearLinesStep() error {
	if n := g.matrix.ClearLines(); n > 0 {
		g.lines += n
		level := levelFor(g.startLevel, g.lines)
		if level != g.level {
			g.logger.Info("level up", slog.Int("level", level))
			g.level = level
		}
		g.logger.Info("lines cleared", slog.Int("cleared", n), slog.Int("lines", g.lines))
	}
	g.setState(Spawn)
	return g.refresh()
}

func (g *Game) action(a Action) error {
	switch a {
	case MoveLeft:
		g.move(-1, 0)
	case MoveRight:
		g.move(1, 0)
	case MoveDown:
		g.move(0, -1)
	case DropDown:
		for g.move(0, -1) {
		}
		g.lock()
	case RotateRight:
		g.turn(1)
	case RotateLeft:
		g.turn(3)
	case Hold:
		return g.holdPiece()
	}
	return nil
}

// spawn puts a new t at the spawn location and reports whether it collided.
func (g *Game) spawn(t Tetrimino) bool {
	p := Piece{Kind: t, X: spawnX, Y: spawnY}
	collided := g.matrix.Collides(p)
	g.matrix.Put(p)
	g.active = p
	if !collided {
		g.moveGhost(false)
	}
	return collided
}

// move shifts the active piece and reports whether it moved.
// Moving down, even when blocked, restarts the gravity timer.
func (g *Game) move(dx, dy int) bool {
	if dy < 0 {
		g.gravityDue.Store(false)
		defer g.arm(Gravity)
	}
	next := g.active.Shift(dx, dy)
	if !g.fits(next) {
		if dy < 0 && !g.waitingLockdown {
			g.arm(Lockdown)
		}
		return false
	}
	g.moveGhost(true)
	g.matrix.Remove(g.active)
	g.active = next
	g.matrix.Put(next)
	g.settle()
	g.moveGhost(false)
	return true
}

// turn rotates the active piece by drot quarter turns clockwise.
func (g *Game) turn(drot int) bool {
	g.moveGhost(true)
	next, ok := rotate(&g.matrix, g.active, g.active.Rot+drot)
	if ok {
		g.active = next
		g.settle()
	}
	g.moveGhost(false)
	return ok
}

func (g *Game) holdPiece() error {
	if g.holdUsed {
		return nil
	}
	g.moveGhost(true)
	g.matrix.Remove(g.active)
	next := g.hold
	if next == None {
		next = g.bag.Next()
	}
	g.hold = g.active.Kind
	g.holdUsed = true
	g.cancel(Lockdown)
	if g.spawn(next) {
		g.die()
	} else {
		g.arm(Gravity)
	}
	if err := g.render.DrawHold(g.hold); err != nil {
		return fmt.Errorf("unable to draw hold: %w", err)
	}
	if err := g.render.DrawQueue(g.bag.Peek(PreviewSize)); err != nil {
		return fmt.Errorf("unable to draw queue: %w", err)
	}
	return nil
}

// lock leaves the active piece in the matrix for good.
func (g *Game) lock() {
	g.moveGhost(true)
	g.cancel(Gravity)
	g.cancel(Lockdown)
	g.holdUsed = false
	g.logger.Debug("lock",
		slog.String("piece", g.active.Kind.String()),
		slog.Int("x", g.active.X),
		slog.Int("y", g.active.Y),
		slog.Int("rot", g.active.Rot),
	)
	g.setState(ClearLines)
}

func (g *Game) die() {
	g.stopTimers()
	g.logger.Info("topped out", slog.Int("lines", g.lines), slog.Int("level", g.level))
	g.setState(Die)
}

// settle runs after the active piece moved: a grounded piece restarts the
// lock delay, a piece that left the ground cancels it.
func (g *Game) settle() {
	switch {
	case !g.fits(g.active.Shift(0, -1)):
		g.arm(Lockdown)
	case g.waitingLockdown:
		g.cancel(Lockdown)
	}
}

// fits reports whether p can stand in the matrix, ignoring the active piece.
func (g *Game) fits(p Piece) bool {
	g.matrix.Remove(g.active)
	ok := !g.matrix.Collides(p)
	g.matrix.Put(g.active)
	return ok
}

// moveGhost walks a ghost of the active piece down to where it would land,
// clearing the row it leaves. With erase set the whole path is cleared,
// otherwise the ghost is left drawn at the landing row.
func (g *Game) moveGhost(erase bool) {
	g.matrix.Remove(g.active)
	ghost := g.active.Ghost()
	for !g.matrix.Collides(ghost.Shift(0, -1)) {
		g.matrix.Remove(ghost)
		ghost = ghost.Shift(0, -1)
		g.matrix.Place(ghost, erase, false)
	}
	g.matrix.Put(g.active)
}

func (g *Game) arm(e Event) {
	switch e {
	case Gravity:
		g.timer.Arm(Gravity, fallTime(g.level), g.onGravity)
	case Lockdown:
		g.waitingLockdown = true
		g.timer.Arm(Lockdown, LockDelay, g.onLockdown)
	}
}

func (g *Game) cancel(e Event) {
	g.timer.Cancel(e)
	switch e {
	case Gravity:
		g.gravityDue.Store(false)
	case Lockdown:
		g.waitingLockdown = false
		g.lockdownDue.Store(false)
	}
}

func (g *Game) stopTimers() {
	g.cancel(Gravity)
	g.cancel(Lockdown)
}

func (g *Game) setState(s State) {
	g.logger.Debug("state", slog.String("from", g.state.String()), slog.String("to", s.String()))
	g.state = s
}

func (g *Game) refresh() error {
	if err := g.render.DrawMatrix(&g.matrix); err != nil {
		return fmt.Errorf("unable to draw matrix: %w", err)
	}
	if err := g.render.Refresh(); err != nil {
		return fmt.Errorf("unable to refresh: %w", err)
	}
	return nil
}
