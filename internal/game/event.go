package game

import (
	"math"
	"sort"
)

// Event is one interval of a piecewise animation. Start and End are chart seconds.
type Event struct {
	Start, End           float64
	StartValue, EndValue float64
	Easing               Easing
}

// Constant returns a single event holding v over every time.
func Constant(v float64) Anim {
	return Anim{{Start: math.Inf(-1), End: math.Inf(1), StartValue: v, EndValue: v, Easing: Linear}}
}

func (e *Event) valueAt(t float64) float64 {
	if e.StartValue == e.EndValue {
		return e.StartValue
	}
	if e.End <= e.Start {
		return e.EndValue
	}
	p := e.Easing.Ease((t - e.Start) / (e.End - e.Start))
	return e.StartValue*(1-p) + e.EndValue*p
}

// Anim is a time sorted, gapless, non-overlapping list of events of one kind.
type Anim []Event

// At clamps to the first start value before the list and the last end value after it.
func (a Anim) At(t float64) float64 {
	if len(a) == 0 {
		return 0
	}
	i := sort.Search(len(a), func(i int) bool { return a[i].End > t })
	if i == len(a) {
		return a[len(a)-1].EndValue
	}
	if t < a[i].Start {
		if i == 0 {
			return a[0].StartValue
		}
		// inside a gap, hold the previous value
		return a[i-1].EndValue
	}
	return a[i].valueAt(t)
}

// Sort orders events by start time.
func (a Anim) Sort() {
	sort.SliceStable(a, func(i, j int) bool { return a[i].Start < a[j].Start })
}

// Gap is the tolerance used when checking that consecutive events touch.
const Gap = 1e-6

// Validate reports the index of the first event that overlaps or leaves a gap
// after its predecessor, or -1 when the list is contiguous.
func (a Anim) Validate(allowGaps bool) int {
	for i := range a {
		if a[i].End < a[i].Start {
			return i
		}
		if i == 0 {
			continue
		}
		prev := a[i-1].End
		if a[i].Start < prev-Gap {
			return i
		}
		if !allowGaps && a[i].Start > prev+Gap {
			return i
		}
	}
	return -1
}

// FillGaps returns a copy of a with a hold event at the previous end value
// inserted into every gap, so Validate(false) accepts the result.
func (a Anim) FillGaps() Anim {
	out := make(Anim, 0, len(a))
	for i, e := range a {
		if i > 0 {
			prev := out[len(out)-1]
			if e.Start > prev.End+Gap {
				out = append(out, Event{Start: prev.End, End: e.Start, StartValue: prev.EndValue, EndValue: prev.EndValue, Easing: Linear})
			}
		}
		out = append(out, e)
	}
	return out
}

// Layer holds one event list per kind. A line's transform is the sum of its layers.
type Layer struct {
	X, Y, Rotation, Opacity Anim
}

// DefaultLayer keeps the line centered, unrotated and fully visible.
func DefaultLayer() Layer {
	return Layer{
		X:        Constant(0),
		Y:        Constant(0),
		Rotation: Constant(0),
		Opacity:  Constant(1),
	}
}
