package main

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"strings"
	"time"

	"git.lost.host/meutraa/judgeline/internal/audio"
	"git.lost.host/meutraa/judgeline/internal/config"
	"git.lost.host/meutraa/judgeline/internal/game"
	"git.lost.host/meutraa/judgeline/internal/history"
	"git.lost.host/meutraa/judgeline/internal/input"
	"git.lost.host/meutraa/judgeline/internal/judge"
	"git.lost.host/meutraa/judgeline/internal/loader"
	"git.lost.host/meutraa/judgeline/internal/render"
	"git.lost.host/meutraa/judgeline/internal/timing"
)

// Event is a lifecycle notification from outside the program.
type Event uint8

const (
	Suspended Event = iota // the session lost focus and should pause
)

const (
	rewindSeconds = 3.0
	countdown     = 3
	endPadding    = 0.8 // seconds played past the track before the session ends
)

// Touches polled once per frame.
type TouchSource interface {
	Poll() ([]game.Touch, []input.Control)
	Reset()
}

type Program struct {
	Info   *config.Info
	Scene  render.Scene
	Delay  float64
	Step   float64
	Source timing.Source

	loader *loader.Loader
	touch  TouchSource
	events <-chan Event
	store  *history.Store

	clock *timing.Manager
	err   error

	// Set once loading finishes
	chart   *game.Chart
	judge   *judge.Judge
	music   audio.Clock
	offset  float64
	sum     string
	attempt *history.Attempt
	bad     []judge.BadNote
	hud     render.HUD
	done    bool
}

func NewProgram(info *config.Info, l *loader.Loader, touch TouchSource, events <-chan Event, store *history.Store) *Program {
	return &Program{
		Info:   info,
		Delay:  1.5,
		Step:   1,
		Source: timing.Monotonic(),
		loader: l,
		touch:  touch,
		events: events,
		store:  store,
		hud: render.HUD{
			Name:     info.Name,
			Level:    info.Level,
			Autoplay: info.Autoplay,
		},
	}
}

// Err is the reason the program stopped early, if any.
func (p *Program) Err() error {
	return p.err
}

// Frame runs one host loop step. It returns false once the session is over.
func (p *Program) Frame(now time.Time) bool {
	if nil == p.chart {
		switch p.loader.Poll() {
		case loader.Pending:
			if _, rows := p.Scene.R.Size(); rows > 0 {
				p.Scene.R.Fill(rows/2, 2, "Loading "+p.Info.Name+strings.Repeat(".", now.Second()%4))
			}
			p.drainControls()
			return !p.done
		case loader.Failed:
			_, p.err = p.loader.Result()
			return false
		}
		r, _ := p.loader.Result()
		p.start(r)
	}

	for drained := false; !drained; {
		select {
		case e := <-p.events:
			if e == Suspended && !p.clock.Paused() {
				log.Println("suspended, pausing")
				p.clock.Pause()
			}
		default:
			drained = true
		}
	}

	touches, controls := p.touch.Poll()
	for _, c := range controls {
		p.control(c)
	}
	if p.done {
		return false
	}

	song := p.clock.Now()
	p.syncMusic(song)
	t := math.Max(song-p.offset, 0)

	p.hud.Countdown = p.clock.Countdown(countdown)
	p.hud.Paused = p.clock.Paused()
	if !p.hud.Paused && p.hud.Countdown == 0 {
		frame := judge.Frame{Time: t, Touches: touches}
		p.attempt.Record(frame)
		p.bad = p.judge.Update(p.chart, frame, p.bad)
	} else if lifted := ended(touches); len(lifted) > 0 {
		// the clock is held, but holds lifted now must still break
		frame := judge.Frame{Time: t, Touches: lifted}
		p.attempt.Record(frame)
		p.bad = p.judge.Update(p.chart, frame, p.bad)
	}

	if t > p.chart.TrackLength+endPadding {
		p.finish()
		return false
	}

	p.hud.Progress = t / p.chart.TrackLength
	p.hud.Stats = p.judge.Stats()
	p.bad = p.Scene.Draw(p.chart, p.judge, t, p.bad, &p.hud)
	return true
}

// drainControls lets quit work while assets load.
func (p *Program) drainControls() {
	_, controls := p.touch.Poll()
	for _, c := range controls {
		if c == input.Quit {
			p.done = true
		}
	}
}

func (p *Program) start(r *loader.Result) {
	p.chart = r.Chart
	p.music = r.Music
	p.offset = r.Chart.Offset + p.Info.Offset
	p.sum = history.Sum(r.Text)
	p.judge = judge.New(p.chart, judge.Options{Autoplay: p.Info.Autoplay})
	p.clock = timing.NewManager(p.Source, p.Info.Speed)
	p.Scene.Aspect = p.Info.AspectRatio
	if bg, ok := p.Scene.R.(interface{ SetBackground(c color.NRGBA) }); ok {
		bg.SetBackground(r.Background)
	}
	p.hud.Best, p.hud.HasBest = p.store.Best(p.sum)
	p.restart()
	log.Printf("loaded %v: %v lines, %v notes, %.1fs\n",
		p.Info.Chart, len(p.chart.Lines), p.judge.Total(), p.chart.TrackLength)
}

// restart begins a new attempt from before the first beat.
func (p *Program) restart() {
	p.bad = p.judge.Reset(p.chart, p.bad)
	p.touch.Reset()
	p.clock.Reset()
	p.clock.Seek(-p.Delay)
	p.music.Pause()
	p.music.SeekTo(0)
	p.attempt = history.NewAttempt(p.sum, p.Info.Speed, p.Info.Autoplay)
}

// syncMusic keeps the music on the chart clock. Music is only moved when it
// drifts, since seeking is audible.
func (p *Program) syncMusic(song float64) {
	if p.clock.Paused() || song < 0 || song >= p.music.Length() {
		if !p.music.Paused() {
			p.music.Pause()
		}
		return
	}
	if p.music.Paused() {
		p.music.SeekTo(song)
		p.music.Resume()
		return
	}
	if math.Abs(p.music.Position()-song) > 0.05 {
		p.music.SeekTo(song)
	}
}

func ended(touches []game.Touch) []game.Touch {
	var out []game.Touch
	for _, touch := range touches {
		if touch.Phase == game.Ended {
			out = append(out, touch)
		}
	}
	return out
}

func (p *Program) control(c input.Control) {
	song := p.clock.Now()
	switch c {
	case input.TogglePause:
		if p.clock.Rewinding() {
			return
		}
		if p.clock.Paused() {
			p.clock.Resume()
		} else {
			p.clock.Pause()
		}
	case input.Rewind:
		p.clock.Rewind(math.Max(song-rewindSeconds, -p.Delay))
	case input.SeekBack:
		p.clock.Seek(math.Max(song-p.Step, -p.Delay))
	case input.SeekForward:
		p.clock.Seek(song + p.Step)
	case input.Retry:
		p.restart()
	case input.Quit:
		p.done = true
	}
}

func (p *Program) finish() {
	p.music.Pause()
	p.attempt.Finish(p.judge)
	if err := p.store.Save(p.attempt); nil != err {
		log.Println(err)
		return
	}
	if r := history.Replay(p.chart, p.attempt); r.Score() != p.attempt.Score {
		log.Printf("replay of %v scored %v, played %v\n", p.attempt.ID, r.Score(), p.attempt.Score)
	}
}

// Summary lists the attempts of this session.
func (p *Program) Summary() string {
	if nil == p.chart {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%v  %v\n", p.Info.Name, p.Info.Level)
	attempts, err := p.store.Load(p.sum)
	if nil != err {
		log.Println(err)
	}
	for i, a := range attempts {
		fmt.Fprintf(&b, "%2v) %07d  max combo %4v  %v/%v/%v/%v\n",
			i+1, a.Score, a.MaxCombo,
			a.Counts[game.Perfect], a.Counts[game.Good], a.Counts[game.Bad], a.Counts[game.Miss])
	}
	if stats := p.judge.Stats(); stats.Hits > 1 {
		fmt.Fprintf(&b, "mean %.1fms  stdev %.1fms\n", stats.Mean*1000, stats.Stdev*1000)
	}
	return b.String()
}
