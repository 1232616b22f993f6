package history

import (
	"git.lost.host/meutraa/judgeline/internal/game"
	"git.lost.host/meutraa/judgeline/internal/judge"
)

// TouchEvent is one appearance of a touch in the frame log.
type TouchEvent struct {
	Frame int        `json:"f"`
	Slot  int        `json:"s"` // position within the frame's touches
	Phase game.Phase `json:"p"`
	X     float64    `json:"x"`
	Y     float64    `json:"y"`
}

// TouchCompact groups every event of one touch id.
type TouchCompact struct {
	ID     int          `json:"id"`
	Events []TouchEvent `json:"e"`
}

// Log is the stored form of an attempt's frames. Every frame keeps its
// time, even those without touches, since hold completion and misses
// depend on when frames were stepped.
type Log struct {
	Times   []float64      `json:"t"`
	Touches []TouchCompact `json:"touches"`
}

func compactFrames(frames []judge.Frame) Log {
	l := Log{Times: make([]float64, len(frames)), Touches: []TouchCompact{}}
	groups := map[int]int{}
	for f, frame := range frames {
		l.Times[f] = frame.Time
		for s, t := range frame.Touches {
			g, ok := groups[t.ID]
			if !ok {
				g = len(l.Touches)
				groups[t.ID] = g
				l.Touches = append(l.Touches, TouchCompact{ID: t.ID})
			}
			l.Touches[g].Events = append(l.Touches[g].Events, TouchEvent{
				Frame: f, Slot: s, Phase: t.Phase, X: t.X, Y: t.Y,
			})
		}
	}
	return l
}

func uncompactFrames(l Log) []judge.Frame {
	frames := make([]judge.Frame, len(l.Times))
	sizes := make([]int, len(l.Times))
	for _, g := range l.Touches {
		for _, e := range g.Events {
			if e.Frame < 0 || e.Frame >= len(frames) || e.Slot < 0 {
				continue
			}
			if e.Slot+1 > sizes[e.Frame] {
				sizes[e.Frame] = e.Slot + 1
			}
		}
	}
	for f := range frames {
		frames[f].Time = l.Times[f]
		if sizes[f] > 0 {
			frames[f].Touches = make([]game.Touch, sizes[f])
		}
	}
	for _, g := range l.Touches {
		for _, e := range g.Events {
			if e.Frame < 0 || e.Frame >= len(frames) || e.Slot < 0 {
				continue
			}
			frames[e.Frame].Touches[e.Slot] = game.Touch{ID: g.ID, Phase: e.Phase, X: e.X, Y: e.Y}
		}
	}
	return frames
}
