package score

import (
	"image/color"
	"math"

	"git.lost.host/meutraa/judgeline/internal/game"
)

const (
	MaxScore = 1000000

	// Share of MaxScore paid by judgement accuracy, the rest pays for max combo
	accuracyPool = 0.9
	comboPool    = 0.1
	// A Good is worth this fraction of a Perfect in the accuracy pool
	goodRatio = 0.65
)

var (
	PerfectColor = color.NRGBA{R: 0xff, G: 0xeb, B: 0x9f, A: 0xdc}
	GoodColor    = color.NRGBA{R: 0xab, G: 0xe6, B: 0xee, A: 0xbe}
	NeutralColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Score splits MaxScore between an accuracy pool and a max combo pool, each
// note contributing 1/total of both.
func Score(counts game.Counts, maxCombo uint32, total int) uint64 {
	if total <= 0 {
		return 0
	}
	if counts[game.Perfect] == uint32(total) {
		return MaxScore
	}
	accuracy := (float64(counts[game.Perfect]) + float64(counts[game.Good])*goodRatio) / float64(total)
	combo := float64(maxCombo) / float64(total)
	return uint64(math.Round((accuracyPool*accuracy + comboPool*combo) * MaxScore))
}

// LineColor must be derived from the current counts every frame.
func LineColor(counts game.Counts) color.NRGBA {
	if counts[game.Bad]+counts[game.Miss] != 0 {
		return NeutralColor
	}
	if counts[game.Good] != 0 {
		return GoodColor
	}
	return PerfectColor
}

type Stats struct {
	Hits  int
	Mean  float64 // Seconds, negative is early
	Stdev float64
}

// Deviation summarises the timing offsets of every hit note.
func Deviation(offsets []float64) Stats {
	s := Stats{Hits: len(offsets)}
	if s.Hits == 0 {
		return s
	}
	sum := 0.0
	for _, o := range offsets {
		sum += o
	}
	s.Mean = sum / float64(s.Hits)
	if s.Hits < 2 {
		return s
	}
	for _, o := range offsets {
		xi := o - s.Mean
		s.Stdev += xi * xi
	}
	s.Stdev /= float64(s.Hits - 1)
	s.Stdev = math.Sqrt(s.Stdev)
	return s
}
