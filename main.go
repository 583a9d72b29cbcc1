package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/term"

	"srstris/terminal"
	"srstris/tetris"
	"srstris/timer"
)

const (
	hideCursor = "\033[2J\033[?25l" // also clear screen
	showCursor = "\033[24;0H\n\r\033[?25h"

	// room needed by the layout.
	minWidth, minHeight = 42, 23
)

type config struct {
	seed    int64
	level   int
	noGhost bool
	debug   bool
	logPath string
}

func main() {
	var c config
	flag.Int64Var(&c.seed, "seed", int64(time.Now().Second()), "seed of the piece randomizer")
	flag.IntVar(&c.level, "level", 1, "starting level")
	flag.BoolVar(&c.noGhost, "no-ghost", false, "hide the ghost piece")
	flag.BoolVar(&c.debug, "debug", false, "enable debug logging")
	flag.StringVar(&c.logPath, "log", filepath.Join(os.TempDir(), "srstris.log"), "log file")
	flag.Parse()

	if err := run(c); err != nil {
		log.Fatal(err)
	}
}

func run(c config) error {
	if err := checkTerminal(); err != nil {
		return err
	}

	f, err := os.OpenFile(c.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("unable to open log file: %w", err)
	}
	defer f.Close()
	level := slog.LevelInfo
	if c.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})).
		With(slog.String("session", uuid.New().String()))

	render, err := terminal.New(&terminal.Options{NoGhost: c.noGhost})
	if err != nil {
		return err
	}
	kb, err := terminal.NewKeyboard(logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := kb.Close(); err != nil {
			logger.Error("unable to restore the terminal", slog.String("error", err.Error()))
		}
	}()
	fmt.Print(hideCursor)
	defer fmt.Print(showCursor)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := render.Refresh(); err != nil {
		return err
	}
	if err := render.Welcome(); err != nil {
		return err
	}
	if err := kb.Wait(ctx); err != nil {
		return ignoreQuit(err)
	}

	clock := timer.New()
	defer clock.Stop()
	game := tetris.NewGame(&tetris.Options{
		Input:    kb,
		Timer:    clock,
		Renderer: render,
		Logger:   logger,
		Seed:     c.seed,
		Level:    c.level,
	})
	err = game.Run(ctx)
	if !errors.Is(err, tetris.ErrToppedOut) {
		return ignoreQuit(err)
	}
	if err := render.GameOver(game.Lines(), game.Level()); err != nil {
		return err
	}
	return ignoreQuit(kb.Wait(ctx))
}

// ignoreQuit drops the errors that only mean the player is done.
func ignoreQuit(err error) error {
	if errors.Is(err, terminal.ErrInterrupted) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func checkTerminal() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("srstris needs an interactive terminal")
	}
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return fmt.Errorf("unable to read the terminal size: %w", err)
	}
	if w < minWidth || h < minHeight {
		return fmt.Errorf("terminal too small: %dx%d, need %dx%d", w, h, minWidth, minHeight)
	}
	return nil
}
