// Package terminal draws the game on an ANSI terminal and reads its keyboard.
package terminal

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"srstris/tetris"
)

const (
	// ASCII colors.
	Cyan    = "36"
	Blue    = "34"
	Orange  = "38;5;214"
	Yellow  = "33"
	Green   = "32"
	Red     = "31"
	Magenta = "35"

	resetPos = "\033[H" // Reset cursor position to 0,0

	emptyCell = "  "
	ghostCell = "[]"
)

//go:embed "layout.tmpl"
var layout string

var colorMap = map[tetris.Tetrimino]string{
	tetris.I: Cyan,
	tetris.J: Blue,
	tetris.L: Orange,
	tetris.O: Yellow,
	tetris.S: Green,
	tetris.Z: Red,
	tetris.T: Magenta,
}

type frame struct {
	Matrix  [tetris.VisibleRows][tetris.Width]tetris.Tetrimino
	Queue   []tetris.Tetrimino
	Hold    tetris.Tetrimino
	NoGhost bool
}

// Render keeps the last matrix, queue and hold it was given and writes
// them out on Refresh.
type Render struct {
	writer   io.Writer
	template *template.Template
	frame    frame
}

type Options struct {
	Writer  io.Writer
	NoGhost bool
}

func New(o *Options) (*Render, error) {
	tmp, err := loadTemplate()
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	var w io.Writer = os.Stdout
	if o.Writer != nil {
		w = o.Writer
	}
	return &Render{
		writer:   w,
		template: tmp,
		frame:    frame{NoGhost: o.NoGhost},
	}, nil
}

func (r *Render) DrawMatrix(m *tetris.Matrix) error {
	r.frame.Matrix = m.Visible()
	return nil
}

func (r *Render) DrawQueue(next []tetris.Tetrimino) error {
	r.frame.Queue = append(r.frame.Queue[:0], next...)
	return nil
}

func (r *Render) DrawHold(hold tetris.Tetrimino) error {
	r.frame.Hold = hold
	return nil
}

func (r *Render) Refresh() error {
	if _, err := fmt.Fprint(r.writer, resetPos); err != nil {
		return fmt.Errorf("unable to reset the cursor: %w", err)
	}
	if err := r.template.Execute(r.writer, &r.frame); err != nil {
		return fmt.Errorf("unable to execute template: %w", err)
	}
	return nil
}

// Welcome draws the banner shown before the first piece spawns.
func (r *Render) Welcome() error {
	return r.banner("      Welcome to Terminal Tetris      ", "  press any key to play, (esc) quit   ")
}

func (r *Render) GameOver(lines, level int) error {
	return r.banner("             Game Over :)             ", fmt.Sprintf("     lines %-6d level %-6d        ", lines, level))
}

func (r *Render) banner(title, msg string) error {
	lines := []string{
		"+--------------------------------------+",
		"|" + title + "|",
		"|                                      |",
		"|" + msg + "|",
		"+--------------------------------------+",
	}
	for i, l := range lines {
		if _, err := fmt.Fprintf(r.writer, "\033[%d;2H%s", 10+i, l); err != nil {
			return fmt.Errorf("unable to draw banner: %w", err)
		}
	}
	return nil
}

func loadTemplate() (*template.Template, error) {
	funcMap := template.FuncMap{
		"stack": stack,
		"side":  side,
	}

	// we use the console raw so new lines don't automatically transform into carriage return
	// to fix that we add a carriage return to every new line in the layout.
	l := strings.ReplaceAll(layout, "\n", "\r\n")
	l = strings.ReplaceAll(l, "Terminal Tetris", "\033[1mTerminal Tetris\033[0m")
	return template.New("layout").Funcs(funcMap).Parse(l)
}

func cell(t tetris.Tetrimino, noGhost bool) string {
	if t == tetris.Ghost {
		if noGhost {
			return emptyCell
		}
		return ghostCell
	}
	c, ok := colorMap[t]
	if !ok {
		return emptyCell
	}
	return fmt.Sprintf("\x1b[7m\x1b[%sm[]\x1b[0m", c)
}

// stack renders the visible matrix, top row first.
func stack(f *frame) [tetris.VisibleRows]string {
	var rendered [tetris.VisibleRows]string
	for y, row := range f.Matrix {
		var b strings.Builder
		for _, v := range row {
			b.WriteString(cell(v, f.NoGhost))
		}
		rendered[y] = b.String()
	}
	return rendered
}

// preview renders the two top rows of t at rotation 0.
func preview(t tetris.Tetrimino) [2]string {
	rendered := [2]string{}
	block := t.Block(0)
	for y := range rendered {
		var b strings.Builder
		for x := range 4 {
			if block&(0x8000>>(y*4+x)) != 0 {
				b.WriteString(cell(t, false))
			} else {
				b.WriteString(emptyCell)
			}
		}
		rendered[y] = b.String()
	}
	return rendered
}

// side renders the panel next to the matrix: the hold slot then the
// upcoming queue, one line per matrix row.
func side(f *frame) [tetris.VisibleRows]string {
	var lines [tetris.VisibleRows]string
	lines[0] = "HOLD"
	h := preview(f.Hold)
	lines[1], lines[2] = h[0], h[1]
	lines[4] = "NEXT"
	for i := range tetris.PreviewSize {
		p := preview(tetris.None)
		if i < len(f.Queue) {
			p = preview(f.Queue[i])
		}
		lines[5+i*3], lines[6+i*3] = p[0], p[1]
	}
	return lines
}
