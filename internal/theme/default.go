package theme

import (
	"image/color"
	"math"

	"git.lost.host/meutraa/judgeline/internal/game"
)

type DefaultTheme struct {
}

func (t *DefaultTheme) NoteSymbol(kind game.NoteKind) rune {
	if s, ok := noteSyms[kind]; ok {
		return s
	}
	return '?'
}

func (t *DefaultTheme) NoteColor(kind game.NoteKind) color.NRGBA {
	if c, ok := noteColors[kind]; ok {
		return c
	}
	return white
}

func (t *DefaultTheme) HoldSymbol() rune {
	return holdSym
}

// LineSymbol picks the box drawing character closest to the line's angle.
func (t *DefaultTheme) LineSymbol(rotation float64) rune {
	a := math.Mod(rotation, 180)
	if a < 0 {
		a += 180
	}
	return lineSyms[int(math.Round(a/45))%len(lineSyms)]
}

func (t *DefaultTheme) JudgementColor(j game.Judgement) color.NRGBA {
	if c, ok := judgementColors[j]; ok {
		return c
	}
	return white
}

func (t *DefaultTheme) JudgementName(j game.Judgement) string {
	return judgementNames[j]
}

const (
	holdSym = '┃'
)

var (
	white = color.NRGBA{255, 255, 255, 255}

	// Rotation is counter-clockwise while terminal rows grow downwards
	lineSyms = [...]rune{'─', '╱', '│', '╲'}
	noteSyms = map[game.NoteKind]rune{
		game.Tap:   '▬',
		game.Drag:  '═',
		game.Hold:  '▬',
		game.Flick: '▲',
	}
	noteColors = map[game.NoteKind]color.NRGBA{
		game.Tap:   {10, 195, 255, 255}, // blue
		game.Drag:  {240, 237, 105, 255}, // yellow
		game.Hold:  {10, 195, 255, 255},
		game.Flick: {254, 67, 101, 255}, // red
	}
	judgementColors = map[game.Judgement]color.NRGBA{
		game.Perfect: {255, 235, 159, 255},
		game.Good:    {171, 230, 238, 255},
		game.Bad:     {236, 30, 0, 255},
		game.Miss:    {106, 106, 106, 255},
	}
	judgementNames = map[game.Judgement]string{
		game.Perfect: "Perfect",
		game.Good:    "   Good",
		game.Bad:     "    Bad",
		game.Miss:    "   Miss",
	}
)
