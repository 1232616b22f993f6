package game

import "sort"

type BPM struct {
	StartingBeat float64
	Value        float64
}

// BPMTable converts beats into seconds. Entries are sorted by StartingBeat and
// the first entry is treated as starting at beat 0.
type BPMTable struct {
	bpms    []BPM
	seconds []float64 // seconds at each StartingBeat
}

func NewBPMTable(bpms []BPM) *BPMTable {
	sorted := append([]BPM(nil), bpms...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].StartingBeat < sorted[j].StartingBeat })
	if len(sorted) > 0 {
		sorted[0].StartingBeat = 0
	}
	t := &BPMTable{bpms: sorted, seconds: make([]float64, len(sorted))}
	for i := 1; i < len(sorted); i++ {
		prev := sorted[i-1]
		t.seconds[i] = t.seconds[i-1] + (sorted[i].StartingBeat-prev.StartingBeat)*60/prev.Value
	}
	return t
}

func (t *BPMTable) Len() int {
	return len(t.bpms)
}

// Seconds converts a beat into seconds since beat 0.
func (t *BPMTable) Seconds(beat float64) float64 {
	if len(t.bpms) == 0 {
		return 0
	}
	i := sort.Search(len(t.bpms), func(i int) bool { return t.bpms[i].StartingBeat > beat }) - 1
	if i < 0 {
		i = 0
	}
	return t.seconds[i] + (beat-t.bpms[i].StartingBeat)*60/t.bpms[i].Value
}
