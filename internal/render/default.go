package render

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"
)

type cell struct {
	r rune
	c color.NRGBA
}

// DefaultRenderer draws into a cell grid and writes the whole frame to the
// terminal at once. Text from Fill and FillColor is drawn over the grid.
type DefaultRenderer struct {
	buffer       strings.Builder
	restoreState *term.State
	fd           int

	cols, rows int
	cells      []cell
	background color.NRGBA
}

func (r *DefaultRenderer) Init() error {
	r.fd = int(os.Stdout.Fd())
	state, err := term.MakeRaw(r.fd)
	if nil != err {
		return err
	}
	r.restoreState = state
	r.resize()

	fmt.Printf("%s%s%s",
		"\033[?1049h", // Enable alternate buffer
		"\033[?25l",   // Make the cursor invisible
		"\033[J",      // Clear the screen
	)
	return nil
}

func (r *DefaultRenderer) Deinit() error {
	fmt.Printf("%s%s",
		"\033[?1049l", // Disable alternate buffer
		"\033[?25h",   // Make the cursor visible
	)
	return term.Restore(r.fd, r.restoreState)
}

func (r *DefaultRenderer) resize() {
	cols, rows, err := term.GetSize(r.fd)
	if nil != err || cols <= 0 || rows <= 0 {
		cols, rows = 80, 24
	}
	if cols != r.cols || rows != r.rows {
		r.cols, r.rows = cols, rows
		r.cells = make([]cell, cols*rows)
		r.buffer.WriteString("\033[2J")
	}
}

func (r *DefaultRenderer) Size() (int, int) {
	return r.cols, r.rows
}

// SetBackground tints empty cells.
func (r *DefaultRenderer) SetBackground(c color.NRGBA) {
	r.background = c
}

// RenderLoop calls render once per period until it returns false.
func (r *DefaultRenderer) RenderLoop(period time.Duration, render func(now time.Time) bool) {
	for cont := true; cont; {
		now := time.Now()
		deadline := now.Add(period)

		r.resize()
		for i := range r.cells {
			r.cells[i] = cell{r: ' '}
		}
		text := r.buffer.Len()
		cont = render(now)
		r.flush(text)

		time.Sleep(time.Until(deadline))
	}
}

func (r *DefaultRenderer) Set(col, row int, ch rune, c color.NRGBA) {
	if col < 0 || row < 0 || col >= r.cols || row >= r.rows {
		return
	}
	r.cells[row*r.cols+col] = cell{r: ch, c: c}
}

// Fill positions are 1 based, as the terminal's.
func (r *DefaultRenderer) Fill(row, column int, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.Itoa(row))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(column))
	r.buffer.WriteString("H")
	r.buffer.WriteString(message)
}

func (r *DefaultRenderer) FillColor(row, column int, c color.NRGBA, message string) {
	r.Fill(row, column, "")
	writeColor(&r.buffer, c)
	r.buffer.WriteString(message)
	r.buffer.WriteString("\033[0m")
}

func writeColor(b *strings.Builder, c color.NRGBA) {
	// blend towards black by alpha, terminals have no transparency
	b.WriteString("\033[38;2;")
	b.WriteString(strconv.Itoa(int(c.R) * int(c.A) / 255))
	b.WriteString(";")
	b.WriteString(strconv.Itoa(int(c.G) * int(c.A) / 255))
	b.WriteString(";")
	b.WriteString(strconv.Itoa(int(c.B) * int(c.A) / 255))
	b.WriteString("m")
}

// flush writes the grid, then the text queued since the frame started.
func (r *DefaultRenderer) flush(text int) {
	overlay := r.buffer.String()
	var frame strings.Builder
	frame.WriteString(overlay[:text])
	frame.WriteString("\033[H")
	if r.background.A != 0 {
		bg := r.background
		frame.WriteString(fmt.Sprintf("\033[48;2;%v;%v;%vm", bg.R/4, bg.G/4, bg.B/4))
	}
	var last color.NRGBA
	for row := 0; row < r.rows; row++ {
		frame.WriteString("\033[")
		frame.WriteString(strconv.Itoa(row + 1))
		frame.WriteString(";1H")
		for col := 0; col < r.cols; col++ {
			c := r.cells[row*r.cols+col]
			if c.r != ' ' && c.c != last {
				writeColor(&frame, c.c)
				last = c.c
			}
			frame.WriteRune(c.r)
		}
	}
	frame.WriteString("\033[0m")
	frame.WriteString(overlay[text:])
	os.Stdout.WriteString(frame.String())
	r.buffer.Reset()
}
