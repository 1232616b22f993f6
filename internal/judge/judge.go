package judge

import (
	"image/color"
	"math"

	"git.lost.host/meutraa/judgeline/internal/game"
	"git.lost.host/meutraa/judgeline/internal/score"
)

// Acceptance windows in chart seconds. Matching relies on
// PerfectWindow < GoodWindow < BadWindow.
const (
	PerfectWindow = 0.08
	GoodWindow    = 0.18
	BadWindow     = 0.22

	// Half width of a note's hit region, measured along its line
	HitRadius = 0.2
)

type Options struct {
	Autoplay bool
}

// Frame is everything the judge reads in one step.
type Frame struct {
	Time    float64
	Touches []game.Touch
}

// Judge owns the mutable state of one play session over an immutable chart.
type Judge struct {
	Combo    uint32
	MaxCombo uint32
	Counts   game.Counts

	autoplay  bool
	total     int
	lineStart []int // flat index of each line's first note
	first     []int // per line, first note that may still change state

	states    []game.NoteState
	hitTimes  []float64
	holdTouch []int
	holding   []int // flat indices of holds in progress
	offsets   []float64
}

func New(chart *game.Chart, opts Options) *Judge {
	j := &Judge{
		autoplay:  opts.Autoplay,
		total:     chart.NoteCount(),
		lineStart: make([]int, len(chart.Lines)),
		first:     make([]int, len(chart.Lines)),
	}
	n := 0
	for i := range chart.Lines {
		j.lineStart[i] = n
		n += len(chart.Lines[i].Notes)
	}
	j.states = make([]game.NoteState, n)
	j.hitTimes = make([]float64, n)
	j.holdTouch = make([]int, n)
	j.Reset(chart, nil)
	return j
}

// Reset returns every note to Unjudged and clears bad notes, so the same
// chart can be replayed without parsing it again.
func (j *Judge) Reset(chart *game.Chart, bad []BadNote) []BadNote {
	for i := range j.states {
		j.states[i] = game.Unjudged
		j.hitTimes[i] = math.NaN()
		j.holdTouch[i] = -1
	}
	for i := range j.first {
		j.first[i] = 0
	}
	j.holding = j.holding[:0]
	j.offsets = j.offsets[:0]
	j.Combo, j.MaxCombo = 0, 0
	j.Counts = game.Counts{}
	return bad[:0]
}

func (j *Judge) Autoplay() bool {
	return j.autoplay
}

// Total is the number of judgeable notes.
func (j *Judge) Total() int {
	return j.total
}

func (j *Judge) Score() uint64 {
	return score.Score(j.Counts, j.MaxCombo, j.total)
}

func (j *Judge) LineColor() color.NRGBA {
	return score.LineColor(j.Counts)
}

// Stats reports the timing offsets of every touched note.
func (j *Judge) Stats() score.Stats {
	return score.Deviation(j.offsets)
}

func (j *Judge) State(line, index int) game.NoteState {
	return j.states[j.lineStart[line]+index]
}

// HitTime is NaN for notes that were never touched.
func (j *Judge) HitTime(line, index int) float64 {
	return j.hitTimes[j.lineStart[line]+index]
}

func (j *Judge) judge(result game.Judgement) {
	j.Counts[result]++
	if result == game.Perfect || result == game.Good {
		j.Combo++
		if j.Combo > j.MaxCombo {
			j.MaxCombo = j.Combo
		}
		return
	}
	j.Combo = 0
}

func (j *Judge) note(chart *game.Chart, k int) (*game.Note, int) {
	l := 0
	for l+1 < len(j.lineStart) && j.lineStart[l+1] <= k {
		l++
	}
	return &chart.Lines[l].Notes[k-j.lineStart[l]], l
}

// advance moves each line's cursor past notes that can no longer change.
func (j *Judge) advance(chart *game.Chart, l int) {
	notes := chart.Lines[l].Notes
	base := j.lineStart[l]
	for j.first[l] < len(notes) && (notes[j.first[l]].Fake || j.states[base+j.first[l]].Judged()) {
		j.first[l]++
	}
}

// Update runs one frame: the miss sweep, matching of new touches, then hold
// tracking. Bad notes produced by the frame are appended to bad.
func (j *Judge) Update(chart *game.Chart, frame Frame, bad []BadNote) []BadNote {
	t := frame.Time
	if j.autoplay {
		return j.updateAutoplay(chart, t, bad)
	}

	bad = j.sweep(chart, t, bad)

	var transforms []game.Transform
	for _, touch := range frame.Touches {
		if touch.Phase != game.Started {
			continue
		}
		if transforms == nil {
			transforms = make([]game.Transform, len(chart.Lines))
			for l := range chart.Lines {
				transforms[l] = chart.Lines[l].TransformAt(t)
			}
		}
		bad = j.match(chart, transforms, t, touch, bad)
	}

	bad = j.track(chart, t, frame.Touches, bad)
	for l := range chart.Lines {
		j.advance(chart, l)
	}
	return bad
}

// sweep misses every untouched note whose good window has closed.
func (j *Judge) sweep(chart *game.Chart, t float64, bad []BadNote) []BadNote {
	for l := range chart.Lines {
		line := &chart.Lines[l]
		base := j.lineStart[l]
		for i := j.first[l]; i < len(line.Notes); i++ {
			n := &line.Notes[i]
			if n.Time+GoodWindow >= t {
				break
			}
			k := base + i
			if n.Fake || j.states[k] != game.Unjudged {
				continue
			}
			j.states[k] = game.Missed
			j.judge(game.Miss)
			bad = append(bad, newBadNote(line, n, t, game.Miss))
		}
		j.advance(chart, l)
	}
	return bad
}

func (j *Judge) match(chart *game.Chart, transforms []game.Transform, t float64, touch game.Touch, bad []BadNote) []BadNote {
	best, bestLine := -1, -1
	bestDt := math.Inf(1)
	inRegion := false
	for l := range chart.Lines {
		notes := chart.Lines[l].Notes
		base := j.lineStart[l]
		lx, _ := transforms[l].Local(touch.X, touch.Y)
		for i := j.first[l]; i < len(notes); i++ {
			n := &notes[i]
			k := base + i
			if n.Fake || j.states[k] != game.Unjudged || math.Abs(lx-n.X) > HitRadius {
				continue
			}
			inRegion = true
			dt := t - n.Time
			// late touches are left to the miss sweep
			if dt > GoodWindow || dt < -BadWindow {
				continue
			}
			if math.Abs(dt) < bestDt {
				best, bestLine, bestDt = k, l, math.Abs(dt)
			}
		}
	}

	if best == -1 {
		if inRegion {
			bad = append(bad, BadNote{Line: -1, X: touch.X, Y: touch.Y, Created: t, Stray: true})
		}
		return bad
	}

	line := &chart.Lines[bestLine]
	n := &line.Notes[best-j.lineStart[bestLine]]
	j.hitTimes[best] = t
	j.offsets = append(j.offsets, t-n.Time)

	result := game.Bad
	switch {
	case bestDt <= PerfectWindow:
		result = game.Perfect
	case bestDt <= GoodWindow:
		result = game.Good
	}

	switch {
	case result == game.Bad:
		j.states[best] = game.BadHit
		j.judge(game.Bad)
		bad = append(bad, newBadNote(line, n, t, game.Bad))
	case n.Kind == game.Hold:
		j.states[best] = game.HoldInProgress
		j.holdTouch[best] = touch.ID
		j.holding = append(j.holding, best)
	case result == game.Perfect:
		j.states[best] = game.PerfectHit
		j.judge(game.Perfect)
	default:
		j.states[best] = game.GoodHit
		j.judge(game.Good)
	}
	return bad
}

// track completes holds that reached their end and breaks holds whose touch
// lifted early. Completion is checked first so a release past the end counts.
func (j *Judge) track(chart *game.Chart, t float64, touches []game.Touch, bad []BadNote) []BadNote {
	kept := j.holding[:0]
	for _, k := range j.holding {
		n, l := j.note(chart, k)
		if t >= n.End() {
			j.states[k] = game.HoldCompleted
			j.judge(game.Perfect)
			continue
		}
		released := false
		for _, touch := range touches {
			if touch.ID == j.holdTouch[k] && touch.Phase == game.Ended {
				released = true
				break
			}
		}
		if released {
			j.states[k] = game.HoldBroken
			j.judge(game.Bad)
			bad = append(bad, newBadNote(&chart.Lines[l], n, t, game.Bad))
			continue
		}
		kept = append(kept, k)
	}
	j.holding = kept
	return bad
}

// updateAutoplay judges every reached note Perfect at its nominal time and
// never reads input.
func (j *Judge) updateAutoplay(chart *game.Chart, t float64, bad []BadNote) []BadNote {
	for l := range chart.Lines {
		notes := chart.Lines[l].Notes
		base := j.lineStart[l]
		for i := j.first[l]; i < len(notes); i++ {
			n := &notes[i]
			if n.Time > t {
				break
			}
			k := base + i
			if n.Fake || j.states[k] != game.Unjudged {
				continue
			}
			j.hitTimes[k] = n.Time
			if n.Kind == game.Hold {
				j.states[k] = game.HoldInProgress
				j.holding = append(j.holding, k)
				continue
			}
			j.states[k] = game.PerfectHit
			j.judge(game.Perfect)
		}
	}
	bad = j.track(chart, t, nil, bad)
	for l := range chart.Lines {
		j.advance(chart, l)
	}
	return bad
}
