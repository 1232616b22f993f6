package judge

import "git.lost.host/meutraa/judgeline/internal/game"

// BadNoteLife is how long a bad note stays on screen, in chart seconds.
const BadNoteLife = 0.5

// BadNote is the feedback residue of a Bad or Miss judgement, or of a stray
// touch that landed on a note's hit region without matching it.
type BadNote struct {
	Line      int // -1 for stray touches
	Kind      game.NoteKind
	X, Y      float64 // Screen position when created
	Rotation  float64
	Judgement game.Judgement
	Created   float64
	Stray     bool
}

func newBadNote(line *game.JudgeLine, n *game.Note, t float64, result game.Judgement) BadNote {
	tr := line.TransformAt(t)
	x, y := line.NotePosition(n, t, tr)
	return BadNote{
		Line:      n.Line,
		Kind:      n.Kind,
		X:         x,
		Y:         y,
		Rotation:  tr.Rotation,
		Judgement: result,
		Created:   t,
	}
}

// Render draws the note with its progress through its life and reports
// whether it is still alive.
func (b *BadNote) Render(now float64, draw func(b *BadNote, progress float64)) bool {
	p := (now - b.Created) / BadNoteLife
	if p >= 1 || p < 0 {
		return false
	}
	if nil != draw {
		draw(b, p)
	}
	return true
}

// Retain renders every bad note and drops the expired ones in place.
func Retain(bad []BadNote, now float64, draw func(b *BadNote, progress float64)) []BadNote {
	kept := bad[:0]
	for i := range bad {
		if bad[i].Render(now, draw) {
			kept = append(kept, bad[i])
		}
	}
	return kept
}
