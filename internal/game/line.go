package game

import (
	"math"
	"sort"
)

type Transform struct {
	X, Y     float64
	Rotation float64 // Degrees, counter clockwise
	Opacity  float64
}

// Apply maps a point in line local space onto the screen.
func (t Transform) Apply(x, y float64) (float64, float64) {
	s, c := math.Sincos(t.Rotation * math.Pi / 180)
	return t.X + x*c - y*s, t.Y + x*s + y*c
}

// Local maps a screen point into line local space.
func (t Transform) Local(x, y float64) (float64, float64) {
	s, c := math.Sincos(t.Rotation * math.Pi / 180)
	dx, dy := x-t.X, y-t.Y
	return dx*c + dy*s, -dx*s + dy*c
}

type JudgeLine struct {
	Notes  []Note
	Layers []Layer
	Speed  SpeedEvents
}

// TransformAt sums every layer's value of each event kind at t.
func (l *JudgeLine) TransformAt(t float64) Transform {
	var tr Transform
	for i := range l.Layers {
		layer := &l.Layers[i]
		tr.X += layer.X.At(t)
		tr.Y += layer.Y.At(t)
		tr.Rotation += layer.Rotation.At(t)
		tr.Opacity += layer.Opacity.At(t)
	}
	return tr
}

func (l *JudgeLine) HeightAt(t float64) float64 {
	return l.Speed.HeightAt(t)
}

// FallProgress is the distance of the note from the line at t, negative once passed.
// Hold heads travel with the floor, other notes are scaled by their own speed.
func (l *JudgeLine) FallProgress(n *Note, t float64) float64 {
	d := n.Height - l.Speed.HeightAt(t)
	if n.Kind != Hold {
		d *= n.Speed
	}
	return d
}

// NotePosition places the note on screen given the line's transform at t.
func (l *JudgeLine) NotePosition(n *Note, t float64, tr Transform) (float64, float64) {
	d := l.FallProgress(n, t)
	if !n.Above {
		d = -d
	}
	return tr.Apply(n.X, d)
}

// Prepare sorts notes by time and fills their floor heights.
func (l *JudgeLine) Prepare(index int) {
	l.Speed.Prepare()
	sort.SliceStable(l.Notes, func(i, j int) bool { return l.Notes[i].Time < l.Notes[j].Time })
	for i := range l.Notes {
		n := &l.Notes[i]
		n.Line = index
		n.Height = l.Speed.HeightAt(n.Time)
		n.EndHeight = l.Speed.HeightAt(n.End())
	}
}
