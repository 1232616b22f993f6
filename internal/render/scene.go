package render

import (
	"fmt"
	"image/color"
	"math"

	"git.lost.host/meutraa/judgeline/internal/game"
	"git.lost.host/meutraa/judgeline/internal/judge"
	"git.lost.host/meutraa/judgeline/internal/score"
	"git.lost.host/meutraa/judgeline/internal/theme"
)

// HUD is the text drawn over the playfield.
type HUD struct {
	Name, Level string
	Autoplay    bool
	Paused      bool
	Countdown   int
	Progress    float64 // 0..1 through the track
	Best        uint64
	HasBest     bool
	Stats       score.Stats
}

// Scene draws a chart in screen space, x and y in [-1, 1] with y up.
type Scene struct {
	R     Renderer
	Theme theme.Theme
	// Width over height of the playfield, 0 fills the terminal. Cells are
	// taken to be twice as tall as they are wide.
	Aspect float64

	cols, rows  int
	left, width int
}

func (s *Scene) layout() {
	s.cols, s.rows = s.R.Size()
	s.left, s.width = 0, s.cols
	if s.Aspect > 0 {
		if w := int(float64(s.rows) * 2 * s.Aspect); w < s.cols {
			s.left, s.width = (s.cols-w)/2, w
		}
	}
}

func (s *Scene) project(x, y float64) (int, int, bool) {
	col := int(math.Floor((x + 1) / 2 * float64(s.width)))
	row := int(math.Floor((1 - y) / 2 * float64(s.rows)))
	return s.left + col, row, col >= 0 && row >= 0 && col < s.width && row < s.rows
}

func fade(c color.NRGBA, alpha float64) color.NRGBA {
	alpha = math.Max(0, math.Min(1, alpha))
	c.A = uint8(math.Round(float64(c.A) * alpha))
	return c
}

// Draw renders one frame and returns the bad notes still alive.
func (s *Scene) Draw(chart *game.Chart, j *judge.Judge, t float64, bad []judge.BadNote, hud *HUD) []judge.BadNote {
	s.layout()
	if s.width == 0 || s.rows == 0 {
		return bad
	}

	chart.Update(t)
	transforms := chart.Transforms()
	lineColor := j.LineColor()
	for l := range chart.Lines {
		tr := transforms[l]
		if tr.Opacity > 0 {
			s.drawLine(tr, fade(lineColor, tr.Opacity))
		}
	}
	for l := range chart.Lines {
		s.drawNotes(chart, j, l, transforms[l], t)
	}

	bad = judge.Retain(bad, t, func(b *judge.BadNote, progress float64) {
		col, row, ok := s.project(b.X, b.Y)
		if !ok {
			return
		}
		c := s.Theme.JudgementColor(b.Judgement)
		sym := s.Theme.NoteSymbol(b.Kind)
		if b.Stray {
			c, sym = s.Theme.JudgementColor(game.Miss), '·'
		}
		s.R.Set(col, row, sym, fade(c, 1-progress))
	})

	s.drawHUD(j, hud)
	return bad
}

func (s *Scene) drawLine(tr game.Transform, c color.NRGBA) {
	sym := s.Theme.LineSymbol(tr.Rotation)
	sin, cos := math.Sincos(tr.Rotation * math.Pi / 180)
	step := 1 / float64(2*s.width+2*s.rows)
	for d := -3.0; d <= 3; d += step {
		if col, row, ok := s.project(tr.X+d*cos, tr.Y+d*sin); ok {
			s.R.Set(col, row, sym, c)
		}
	}
}

func (s *Scene) drawNotes(chart *game.Chart, j *judge.Judge, l int, tr game.Transform, t float64) {
	line := &chart.Lines[l]
	for i := range line.Notes {
		n := &line.Notes[i]
		state := j.State(l, i)
		if n.Fake && n.Time < t {
			continue
		}
		if state != game.Unjudged && state != game.HoldInProgress && !n.Fake {
			continue
		}
		c := s.Theme.NoteColor(n.Kind)
		if n.Kind == game.Hold {
			s.drawHold(line, n, tr, t, c)
		}
		x, y := line.NotePosition(n, t, tr)
		if n.Kind == game.Hold && t > n.Time {
			// the head stays on the line while held
			x, y = tr.Apply(n.X, 0)
		}
		if d := line.FallProgress(n, t); d > 2.5 {
			continue
		}
		if col, row, ok := s.project(x, y); ok {
			s.R.Set(col, row, s.Theme.NoteSymbol(n.Kind), c)
		}
	}
}

func (s *Scene) drawHold(line *game.JudgeLine, n *game.Note, tr game.Transform, t float64, c color.NRGBA) {
	now := line.HeightAt(t)
	from := math.Max(n.Height-now, 0)
	to := math.Min(n.EndHeight-now, 2.5)
	sign := 1.0
	if !n.Above {
		sign = -1
	}
	step := 1 / float64(2*s.rows)
	for d := from; d <= to; d += step {
		if col, row, ok := s.project(tr.Apply(n.X, sign*d)); ok {
			s.R.Set(col, row, s.Theme.HoldSymbol(), fade(c, 0.6))
		}
	}
}

func (s *Scene) drawHUD(j *judge.Judge, hud *HUD) {
	if nil == hud {
		return
	}
	white := color.NRGBA{255, 255, 255, 255}
	s.R.Fill(1, 1, fmt.Sprintf("%s  %s", hud.Name, hud.Level))
	s.R.Fill(1, s.cols-6, fmt.Sprintf("%07d", j.Score()))
	if hud.HasBest {
		s.R.Fill(2, s.cols-11, fmt.Sprintf("best %07d", hud.Best))
	}
	if j.Combo >= 3 {
		s.R.FillColor(2, s.cols/2-3, white, fmt.Sprintf("%4d COMBO", j.Combo))
	}
	if hud.Autoplay {
		s.R.Fill(3, s.cols/2-4, "AUTOPLAY")
	}
	switch {
	case hud.Countdown > 0:
		s.R.Fill(s.rows/2, s.cols/2, fmt.Sprint(hud.Countdown))
	case hud.Paused:
		s.R.Fill(s.rows/2, s.cols/2-3, "PAUSED")
	}

	for i := game.Perfect; i <= game.Miss; i++ {
		s.R.FillColor(4+int(i), 1, s.Theme.JudgementColor(i),
			fmt.Sprintf("%s: %5d", s.Theme.JudgementName(i), j.Counts[i]))
	}
	s.R.Fill(9, 1, fmt.Sprintf("   Mean: %6.1f ms", hud.Stats.Mean*1000))
	s.R.Fill(10, 1, fmt.Sprintf("  Stdev: %6.1f ms", hud.Stats.Stdev*1000))

	bar := int(math.Round(math.Max(0, math.Min(1, hud.Progress)) * float64(s.cols)))
	for col := 0; col < bar; col++ {
		s.R.Set(col, 0, '▔', white)
	}
}
