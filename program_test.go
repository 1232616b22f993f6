package main

import (
	"image/color"
	"testing"
	"testing/fstest"
	"time"

	"git.lost.host/meutraa/judgeline/internal/audio"
	"git.lost.host/meutraa/judgeline/internal/config"
	"git.lost.host/meutraa/judgeline/internal/game"
	"git.lost.host/meutraa/judgeline/internal/history"
	"git.lost.host/meutraa/judgeline/internal/input"
	"git.lost.host/meutraa/judgeline/internal/loader"
	"git.lost.host/meutraa/judgeline/internal/render"
	"git.lost.host/meutraa/judgeline/internal/testdata"
	"git.lost.host/meutraa/judgeline/internal/theme"
)

type blankRenderer struct{}

func (blankRenderer) Init() error                                     { return nil }
func (blankRenderer) Deinit() error                                   { return nil }
func (blankRenderer) Size() (int, int)                                { return 80, 24 }
func (blankRenderer) RenderLoop(time.Duration, func(time.Time) bool) {}
func (blankRenderer) Set(int, int, rune, color.NRGBA)                 {}
func (blankRenderer) Fill(int, int, string)                           {}
func (blankRenderer) FillColor(int, int, color.NRGBA, string)         {}

type scripted struct {
	touches  []game.Touch
	controls []input.Control
	resets   int
}

func (s *scripted) Poll() ([]game.Touch, []input.Control) {
	t, c := s.touches, s.controls
	s.touches, s.controls = nil, nil
	return t, c
}

func (s *scripted) Reset() {
	s.resets++
}

type fakeSource struct {
	now float64
}

func (f *fakeSource) read() float64 {
	return f.now
}

func setup(t *testing.T, autoplay bool) (*Program, *scripted, *fakeSource, chan Event) {
	src := &fakeSource{}
	fs := fstest.MapFS{
		"chart.json": {Data: []byte(testdata.Judge)},
		"music.ogg":  {Data: []byte("music")},
	}
	l := loader.Start(loader.Request{
		FS: fs, Chart: "chart.json", Music: "music.ogg", Speed: 1,
		OpenMusic: func(string, []byte, float64) (audio.Clock, error) {
			return audio.NewSilent(src.read, 1, 10), nil
		},
	})
	l.Wait()

	store, err := history.Open(t.Name())
	if nil != err {
		t.Fatal(err)
	}
	t.Cleanup(store.Close)

	touches := &scripted{}
	events := make(chan Event, 1)
	info := &config.Info{Name: "judge", Chart: "chart.json", Speed: 1, Autoplay: autoplay}
	p := NewProgram(info, l, touches, events, store)
	p.Source = src.read
	p.Delay = 1
	p.Scene = render.Scene{R: blankRenderer{}, Theme: &theme.DefaultTheme{}}
	return p, touches, src, events
}

// advance steps frames at 60Hz until the program stops or until is reached.
func advance(p *Program, src *fakeSource, until float64) bool {
	for ; src.now < until; src.now += 1.0 / 60 {
		if !p.Frame(time.Time{}) {
			return false
		}
	}
	return true
}

func TestAutoplaySession(t *testing.T) {
	p, _, src, _ := setup(t, true)
	if advance(p, src, 100) {
		t.Fatal("session never ended")
	}
	// one second of delay, then the track and its padding
	if end := 1 + p.chart.TrackLength + endPadding; src.now < end || src.now > end+0.1 {
		t.Errorf("session ended at %v, expected about %v", src.now, end)
	}
	if p.judge.Counts != (game.Counts{2, 0, 0, 0}) {
		t.Error("unexpected counts", p.judge.Counts)
	}
	attempts, err := p.store.Load(p.sum)
	if nil != err || len(attempts) != 1 || attempts[0].Score != 1000000 {
		t.Fatal("expected the attempt to be saved", err, attempts)
	}
	if p.Summary() == "" {
		t.Error("empty summary")
	}
}

func TestTouchesAndRetry(t *testing.T) {
	p, touches, src, _ := setup(t, false)
	// the hold starts at 2s of chart time, 3s after the delay
	advance(p, src, 2.96)
	touches.touches = []game.Touch{{ID: 1, Phase: game.Started}}
	advance(p, src, 4.2)
	if p.judge.Counts != (game.Counts{1, 0, 0, 0}) || p.judge.Combo != 1 {
		t.Fatal("expected the hold to complete", p.judge.Counts)
	}

	touches.controls = []input.Control{input.Retry}
	advance(p, src, 4.3)
	if p.judge.Counts != (game.Counts{}) || touches.resets != 2 || p.clock.Now() > 0 {
		t.Error("retry should reset the judge, the touches and the clock", p.judge.Counts, p.clock.Now())
	}
	if len(p.attempt.Frames) > 10 {
		t.Error("retry should start a new attempt")
	}
}

func TestPauseAndSuspend(t *testing.T) {
	p, touches, src, events := setup(t, false)
	advance(p, src, 2)
	touches.controls = []input.Control{input.TogglePause}
	advance(p, src, 2.1)
	at := p.clock.Now()
	frames := len(p.attempt.Frames)
	advance(p, src, 30)
	if p.clock.Now() != at || len(p.attempt.Frames) != frames || p.judge.Counts.Sum() != 0 {
		t.Fatal("the session moved while paused")
	}

	touches.controls = []input.Control{input.TogglePause}
	advance(p, src, 30.5)
	if p.clock.Paused() {
		t.Fatal("expected the session to resume")
	}
	events <- Suspended
	advance(p, src, 31)
	if !p.clock.Paused() {
		t.Error("a suspend event should pause")
	}
}

func TestReleaseWhilePaused(t *testing.T) {
	p, touches, src, _ := setup(t, false)
	advance(p, src, 2.96)
	touches.touches = []game.Touch{{ID: 1, Phase: game.Started}}
	advance(p, src, 3.3)
	touches.controls = []input.Control{input.TogglePause}
	advance(p, src, 3.4)
	touches.touches = []game.Touch{{ID: 1, Phase: game.Ended}}
	advance(p, src, 3.5)
	touches.controls = []input.Control{input.TogglePause}
	advance(p, src, 5)
	if p.clock.Paused() {
		t.Fatal("expected the session to resume")
	}
	if p.judge.Counts != (game.Counts{0, 0, 1, 0}) || p.judge.Combo != 0 {
		t.Error("a hold lifted while paused should break", p.judge.Counts)
	}
	if s := p.judge.State(0, 0); s != game.HoldBroken {
		t.Error("expected the hold to be broken, got", s)
	}
	if r := history.Replay(p.chart, p.attempt); r.Counts != p.judge.Counts {
		t.Error("replay disagrees with play", r.Counts, p.judge.Counts)
	}
}

func TestRewind(t *testing.T) {
	p, touches, src, _ := setup(t, false)
	advance(p, src, 5)
	touches.controls = []input.Control{input.Rewind}
	advance(p, src, 5.05)
	at := p.clock.Now()
	if at > 1.1 || p.hud.Countdown != countdown {
		t.Fatal("expected a countdown from three seconds back", at, p.hud.Countdown)
	}
	misses := p.judge.Counts[game.Miss]
	advance(p, src, 7.5)
	if p.clock.Now() != at || p.judge.Counts[game.Miss] != misses {
		t.Error("the clock and judge should hold during the countdown")
	}
	advance(p, src, 8.5)
	if p.clock.Now() <= at || p.hud.Countdown != 0 {
		t.Error("expected play to resume")
	}
}

func TestQuitAndFailure(t *testing.T) {
	p, touches, src, _ := setup(t, false)
	touches.controls = []input.Control{input.Quit}
	if advance(p, src, 1) {
		t.Error("quit should end the session")
	}

	fs := fstest.MapFS{"chart.json": {Data: []byte("{}")}}
	l := loader.Start(loader.Request{FS: fs, Chart: "chart.json"})
	l.Wait()
	p = NewProgram(&config.Info{Speed: 1}, l, &scripted{}, nil, nil)
	p.Scene = render.Scene{R: blankRenderer{}, Theme: &theme.DefaultTheme{}}
	if p.Frame(time.Time{}) || nil == p.Err() {
		t.Error("a failed load should stop the program with an error")
	}
}
