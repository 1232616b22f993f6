package render

import (
	"image/color"
	"time"
)

type Renderer interface {
	Init() error
	Deinit() error
	Size() (cols, rows int)
	RenderLoop(period time.Duration, render func(now time.Time) bool)
	Set(col, row int, r rune, c color.NRGBA)
	Fill(row, column int, message string)
	FillColor(row, column int, c color.NRGBA, message string)
}
