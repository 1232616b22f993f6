package history

import (
	"testing"

	"git.lost.host/meutraa/judgeline/internal/game"
	"git.lost.host/meutraa/judgeline/internal/judge"
	"git.lost.host/meutraa/judgeline/internal/parser"
	"git.lost.host/meutraa/judgeline/internal/testdata"
)

var compactTests = [][]judge.Frame{
	{},
	{{Time: 0}, {Time: 0.5}},
	{
		{Time: 1, Touches: []game.Touch{{ID: 3, Phase: game.Started, X: 0.1}}},
		{Time: 1.1, Touches: []game.Touch{{ID: 5, Phase: game.Started}, {ID: 3, Phase: game.Moved, X: 0.1}}},
		{Time: 1.2},
		{Time: 1.3, Touches: []game.Touch{{ID: 3, Phase: game.Ended, X: 0.1, Y: -0.2}}},
	},
}

func equalFrames(p, q []judge.Frame) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i].Time != q[i].Time || len(p[i].Touches) != len(q[i].Touches) {
			return false
		}
		for j := range p[i].Touches {
			if p[i].Touches[j] != q[i].Touches[j] {
				return false
			}
		}
	}
	return true
}

func TestCompactFrames(t *testing.T) {
	for _, frames := range compactTests {
		l := compactFrames(frames)
		if len(l.Times) != len(frames) {
			t.Log("times", l.Times)
			t.Fail()
		}
		out := uncompactFrames(l)
		if !equalFrames(out, frames) {
			t.Log("out     ", out)
			t.Log("expected", frames)
			t.Fail()
		}
	}
}

func TestCompactGroupsByTouch(t *testing.T) {
	l := compactFrames(compactTests[2])
	if len(l.Touches) != 2 || l.Touches[0].ID != 3 || l.Touches[1].ID != 5 {
		t.Fatal("unexpected groups", l.Touches)
	}
	if len(l.Touches[0].Events) != 3 || l.Touches[0].Events[1].Slot != 1 {
		t.Error("unexpected events for touch 3", l.Touches[0].Events)
	}
}

func TestUncompactCorrupt(t *testing.T) {
	l := Log{
		Times: []float64{0, 0.5},
		Touches: []TouchCompact{
			{ID: 1, Events: []TouchEvent{{Frame: 0, Slot: -1}, {Frame: 1, Slot: 0, Phase: game.Ended}}},
			{ID: 2, Events: []TouchEvent{{Frame: 7, Slot: 0}, {Frame: -1, Slot: 0}}},
		},
	}
	out := uncompactFrames(l)
	if len(out) != 2 || len(out[0].Touches) != 0 || len(out[1].Touches) != 1 {
		t.Fatal("unexpected frames", out)
	}
	if out[1].Touches[0] != (game.Touch{ID: 1, Phase: game.Ended}) {
		t.Error("unexpected touch", out[1].Touches[0])
	}
}

// play taps every note on line 0 a little late and lets line 1 miss.
func play(t *testing.T, chart *game.Chart, a *Attempt) *judge.Judge {
	j := judge.New(chart, judge.Options{Autoplay: a.Autoplay})
	notes := chart.Lines[0].Notes
	next, id := 0, 0
	for at := 0.0; at < chart.TrackLength; at += 1.0 / 60 {
		f := judge.Frame{Time: at}
		if next < len(notes) && at >= notes[next].Time+0.03 {
			id++
			f.Touches = []game.Touch{{ID: id, Phase: game.Started, X: notes[next].X}}
			next++
		}
		a.Record(f)
		j.Update(chart, f, nil)
	}
	a.Finish(j)
	return j
}

func TestSaveLoadReplay(t *testing.T) {
	chart, err := parser.Parse(game.FormatPgr, testdata.Phigros)
	if nil != err {
		t.Fatal("unable to parse chart", err)
	}
	s, err := Open(t.Name())
	if nil != err {
		t.Fatal(err)
	}
	defer s.Close()

	sum := Sum(testdata.Phigros)
	for _, autoplay := range []bool{false, true} {
		a := NewAttempt(sum, 1, autoplay)
		play(t, chart, a)
		if err := s.Save(a); nil != err {
			t.Fatal(err)
		}
	}

	attempts, err := s.Load(sum)
	if nil != err {
		t.Fatal(err)
	}
	if len(attempts) != 2 {
		t.Fatal("expected two attempts, got", len(attempts))
	}
	for _, a := range attempts {
		j := Replay(chart, &a)
		if j.Score() != a.Score || j.Counts != a.Counts || j.MaxCombo != a.MaxCombo {
			t.Errorf("replay of %v gave %v %v %v, stored %v %v %v",
				a.ID, j.Score(), j.Counts, j.MaxCombo, a.Score, a.Counts, a.MaxCombo)
		}
	}
	if attempts[0].Autoplay || !attempts[1].Autoplay {
		t.Error("attempts out of order")
	}
	if attempts[0].ID == attempts[1].ID {
		t.Error("attempt ids collide")
	}

	best, ok := s.Best(sum)
	if !ok || best != attempts[1].Score {
		t.Errorf("best %v %v, expected the autoplay score %v", best, ok, attempts[1].Score)
	}
}

func TestBestEmpty(t *testing.T) {
	s, err := Open(t.Name())
	if nil != err {
		t.Fatal(err)
	}
	defer s.Close()
	if _, ok := s.Best(Sum("nothing")); ok {
		t.Fail()
	}
	attempts, err := s.Load(Sum("nothing"))
	if nil != err || len(attempts) != 0 {
		t.Fail()
	}
}

func TestSum(t *testing.T) {
	if Sum(testdata.Phigros) == Sum(testdata.RPE) || Sum(testdata.PEC) != Sum(testdata.PEC) {
		t.Fail()
	}
}
