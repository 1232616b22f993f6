package game

import "sort"

// SpeedEvent changes linearly from StartValue to EndValue over [Start, End).
// Height is the floor position reached at Start.
type SpeedEvent struct {
	Start, End           float64
	StartValue, EndValue float64
	Height               float64
}

func (s *SpeedEvent) speedAt(t float64) float64 {
	if s.End <= s.Start || s.StartValue == s.EndValue {
		return s.StartValue
	}
	p := (t - s.Start) / (s.End - s.Start)
	if p > 1 {
		return s.EndValue
	}
	return s.StartValue + (s.EndValue-s.StartValue)*p
}

// area integrates the speed from Start to t, t >= Start.
func (s *SpeedEvent) area(t float64) float64 {
	if t <= s.Start {
		return 0
	}
	if t <= s.End || s.End <= s.Start {
		return (s.StartValue + s.speedAt(t)) / 2 * (t - s.Start)
	}
	return (s.StartValue+s.EndValue)/2*(s.End-s.Start) + s.EndValue*(t-s.End)
}

// SpeedEvents is sorted by Start with precomputed heights.
type SpeedEvents []SpeedEvent

// Prepare sorts the events and computes the floor height at each start.
// Time before the first event moves at the first event's speed.
func (s SpeedEvents) Prepare() {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Start < s[j].Start })
	h := 0.0
	for i := range s {
		if i > 0 {
			h += s[i-1].area(s[i].Start)
		}
		s[i].Height = h
	}
}

// HeightAt is the floor position at t. Without speed events the floor moves at 1 unit per second.
func (s SpeedEvents) HeightAt(t float64) float64 {
	if len(s) == 0 {
		return t
	}
	i := sort.Search(len(s), func(i int) bool { return s[i].Start > t }) - 1
	if i < 0 {
		return s[0].Height - s[0].StartValue*(s[0].Start-t)
	}
	return s[i].Height + s[i].area(t)
}

// SpeedAt holds the last reached value inside gaps and after the final event.
func (s SpeedEvents) SpeedAt(t float64) float64 {
	if len(s) == 0 {
		return 1
	}
	i := sort.Search(len(s), func(i int) bool { return s[i].Start > t }) - 1
	if i < 0 {
		return s[0].StartValue
	}
	if t >= s[i].End {
		return s[i].EndValue
	}
	return s[i].speedAt(t)
}

// MergeSpeed sums layered speed events into one list of linear segments.
func MergeSpeed(layers ...SpeedEvents) SpeedEvents {
	nonEmpty := []SpeedEvents{}
	for _, l := range layers {
		if len(l) > 0 {
			sort.SliceStable(l, func(i, j int) bool { return l[i].Start < l[j].Start })
			nonEmpty = append(nonEmpty, l)
		}
	}
	switch len(nonEmpty) {
	case 0:
		return nil
	case 1:
		return nonEmpty[0]
	}

	bounds := []float64{}
	for _, l := range nonEmpty {
		for _, e := range l {
			bounds = append(bounds, e.Start, e.End)
		}
	}
	sort.Float64s(bounds)
	sum := func(t float64) float64 {
		v := 0.0
		for _, l := range nonEmpty {
			v += l.SpeedAt(t)
		}
		return v
	}

	merged := SpeedEvents{}
	for i := 0; i+1 < len(bounds); i++ {
		a, b := bounds[i], bounds[i+1]
		if b-a < Gap {
			continue
		}
		start := sum(a)
		// every layer is linear inside (a, b), so the midpoint fixes the left limit at b
		end := 2*sum((a+b)/2) - start
		merged = append(merged, SpeedEvent{Start: a, End: b, StartValue: start, EndValue: end})
	}
	last := bounds[len(bounds)-1]
	merged = append(merged, SpeedEvent{Start: last, End: last, StartValue: sum(last), EndValue: sum(last)})
	return merged
}
