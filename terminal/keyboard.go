package terminal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/eiannone/keyboard"

	"srstris/tetris"
)

// ErrInterrupted is returned once the player asked to quit.
var ErrInterrupted = errors.New("interrupted")

// Keyboard decodes key presses into game actions without blocking.
type Keyboard struct {
	events <-chan keyboard.KeyEvent
	logger *slog.Logger
	close  func() error
}

// NewKeyboard puts the terminal in raw mode and starts listening for keys.
// Close must be called to restore the terminal.
func NewKeyboard(l *slog.Logger) (*Keyboard, error) {
	kc, err := keyboard.GetKeys(20)
	if err != nil {
		return nil, fmt.Errorf("unable to open keyboard: %w", err)
	}
	k := newKeyboard(kc, l)
	k.close = keyboard.Close
	return k, nil
}

func newKeyboard(events <-chan keyboard.KeyEvent, l *slog.Logger) *Keyboard {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	return &Keyboard{
		events: events,
		logger: l,
		close:  func() error { return nil },
	}
}

// Read returns the next pending action, or tetris.NoAction when no key is
// waiting.
func (k *Keyboard) Read() (tetris.Action, error) {
	select {
	case event, ok := <-k.events:
		if !ok {
			return tetris.NoAction, errors.New("keyboard events channel closed")
		}
		return k.decode(event)
	default:
		return tetris.NoAction, nil
	}
}

// Wait blocks until any key is pressed.
func (k *Keyboard) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case event, ok := <-k.events:
		if !ok {
			return errors.New("keyboard events channel closed")
		}
		_, err := k.decode(event)
		return err
	}
}

func (k *Keyboard) Close() error {
	if err := k.close(); err != nil {
		return fmt.Errorf("unable to close keyboard: %w", err)
	}
	return nil
}

func (k *Keyboard) decode(event keyboard.KeyEvent) (tetris.Action, error) {
	if event.Err != nil {
		return tetris.NoAction, fmt.Errorf("keysEvents error: %w", event.Err)
	}
	switch {
	case event.Key == keyboard.KeyCtrlC || event.Key == keyboard.KeyEsc:
		return tetris.NoAction, ErrInterrupted
	case event.Key == keyboard.KeyArrowLeft || event.Rune == 'a':
		return tetris.MoveLeft, nil
	case event.Key == keyboard.KeyArrowRight || event.Rune == 'd':
		return tetris.MoveRight, nil
	case event.Key == keyboard.KeyArrowDown || event.Rune == 's':
		return tetris.MoveDown, nil
	case event.Key == keyboard.KeySpace:
		return tetris.DropDown, nil
	case event.Key == keyboard.KeyArrowUp || event.Rune == 'e' || event.Rune == 'w':
		return tetris.RotateRight, nil
	case event.Rune == 'q':
		return tetris.RotateLeft, nil
	case event.Rune == 'f':
		return tetris.Hold, nil
	}
	k.logger.Debug("ignored key", slog.Int("key", int(event.Key)), slog.String("rune", string(event.Rune)))
	return tetris.NoAction, nil
}
