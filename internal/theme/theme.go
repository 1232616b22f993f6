package theme

import (
	"image/color"

	"git.lost.host/meutraa/judgeline/internal/game"
)

type Theme interface {
	NoteSymbol(kind game.NoteKind) rune
	NoteColor(kind game.NoteKind) color.NRGBA
	HoldSymbol() rune
	LineSymbol(rotation float64) rune
	JudgementColor(j game.Judgement) color.NRGBA
	JudgementName(j game.Judgement) string
}
