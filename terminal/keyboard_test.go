package terminal

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srstris/tetris"
)

func TestKeyboardRead(t *testing.T) {
	tests := []struct {
		key    keyboard.KeyEvent
		action tetris.Action
	}{
		{key: keyboard.KeyEvent{Rune: 's'}, action: tetris.MoveDown},
		{key: keyboard.KeyEvent{Key: keyboard.KeyArrowDown}, action: tetris.MoveDown},
		{key: keyboard.KeyEvent{Rune: 'a'}, action: tetris.MoveLeft},
		{key: keyboard.KeyEvent{Key: keyboard.KeyArrowLeft}, action: tetris.MoveLeft},
		{key: keyboard.KeyEvent{Rune: 'd'}, action: tetris.MoveRight},
		{key: keyboard.KeyEvent{Key: keyboard.KeyArrowRight}, action: tetris.MoveRight},
		{key: keyboard.KeyEvent{Rune: 'e'}, action: tetris.RotateRight},
		{key: keyboard.KeyEvent{Rune: 'w'}, action: tetris.RotateRight},
		{key: keyboard.KeyEvent{Key: keyboard.KeyArrowUp}, action: tetris.RotateRight},
		{key: keyboard.KeyEvent{Rune: 'q'}, action: tetris.RotateLeft},
		{key: keyboard.KeyEvent{Rune: 'f'}, action: tetris.Hold},
		{key: keyboard.KeyEvent{Key: keyboard.KeySpace}, action: tetris.DropDown},
		{key: keyboard.KeyEvent{Rune: 'x'}, action: tetris.NoAction},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("key %v", tt.key), func(t *testing.T) {
			t.Parallel()
			ch := make(chan keyboard.KeyEvent, 1)
			kb := newKeyboard(ch, nil)
			ch <- tt.key
			got, err := kb.Read()
			require.NoError(t, err)
			assert.Equal(t, tt.action, got)
		})
	}

	t.Run("no key pressed doesn't block", func(t *testing.T) {
		kb := newKeyboard(make(chan keyboard.KeyEvent), nil)
		got, err := kb.Read()
		require.NoError(t, err)
		assert.Equal(t, tetris.NoAction, got)
	})

	t.Run("ctrl+c and esc interrupt", func(t *testing.T) {
		ch := make(chan keyboard.KeyEvent, 2)
		kb := newKeyboard(ch, nil)
		ch <- keyboard.KeyEvent{Key: keyboard.KeyCtrlC}
		ch <- keyboard.KeyEvent{Key: keyboard.KeyEsc}
		_, err := kb.Read()
		assert.ErrorIs(t, err, ErrInterrupted)
		_, err = kb.Read()
		assert.ErrorIs(t, err, ErrInterrupted)
	})

	t.Run("event errors are returned", func(t *testing.T) {
		errDevice := errors.New("device gone")
		ch := make(chan keyboard.KeyEvent, 1)
		kb := newKeyboard(ch, nil)
		ch <- keyboard.KeyEvent{Err: errDevice}
		_, err := kb.Read()
		assert.ErrorIs(t, err, errDevice)
	})

	t.Run("closed channel", func(t *testing.T) {
		ch := make(chan keyboard.KeyEvent)
		close(ch)
		_, err := newKeyboard(ch, nil).Read()
		assert.Error(t, err)
	})
}

func TestKeyboardWait(t *testing.T) {
	t.Run("returns on any key", func(t *testing.T) {
		ch := make(chan keyboard.KeyEvent)
		kb := newKeyboard(ch, nil)
		go func() { ch <- keyboard.KeyEvent{Rune: 'x'} }()
		assert.NoError(t, kb.Wait(context.Background()))
	})

	t.Run("ctrl+c interrupts", func(t *testing.T) {
		ch := make(chan keyboard.KeyEvent, 1)
		kb := newKeyboard(ch, nil)
		ch <- keyboard.KeyEvent{Key: keyboard.KeyCtrlC}
		assert.ErrorIs(t, kb.Wait(context.Background()), ErrInterrupted)
	})

	t.Run("context done", func(t *testing.T) {
		kb := newKeyboard(make(chan keyboard.KeyEvent), nil)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, kb.Wait(ctx), context.DeadlineExceeded)
	})
}
