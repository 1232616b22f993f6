// Package audio provides the music clock the host keeps in step with the
// chart clock.
package audio

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"math"
	"path"
	"strings"
	"time"

	"git.lost.host/meutraa/judgeline/internal/timing"
	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

// Clock is a music position the host can drive. Positions are in song
// seconds.
type Clock interface {
	Position() float64
	SeekTo(seconds float64)
	Pause()
	Resume()
	Paused() bool
	Length() float64
	Close() error
}

// Decode picks a decoder from the file extension.
func Decode(name string, data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	r := bytes.NewReader(data)
	switch strings.ToLower(path.Ext(name)) {
	case ".mp3":
		return mp3.Decode(io.NopCloser(r))
	case ".ogg":
		return vorbis.Decode(io.NopCloser(r))
	case ".wav":
		return wav.Decode(r)
	}
	return nil, beep.Format{}, fmt.Errorf("unsupported audio format %q", path.Ext(name))
}

// Player plays decoded music through the speaker. It starts paused.
type Player struct {
	format   beep.Format
	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl
}

// NewPlayer decodes the music and opens the speaker. The speaker runs at
// the song's sample rate scaled by speed, so music plays speed times faster
// and the chart clock must use the same speed.
func NewPlayer(name string, data []byte, speed float64) (*Player, error) {
	streamer, format, err := Decode(name, data)
	if nil != err {
		return nil, fmt.Errorf("unable to decode %v: %w", name, err)
	}
	rate := beep.SampleRate(math.Round(float64(format.SampleRate) * speed))
	if err := speaker.Init(rate, rate.N(time.Second/60)); nil != err {
		streamer.Close()
		return nil, fmt.Errorf("unable to open speaker: %w", err)
	}
	p := &Player{
		format:   format,
		streamer: streamer,
		ctrl:     &beep.Ctrl{Streamer: streamer, Paused: true},
	}
	speaker.Play(p.ctrl)
	return p, nil
}

func (p *Player) Position() float64 {
	speaker.Lock()
	defer speaker.Unlock()
	return p.format.SampleRate.D(p.streamer.Position()).Seconds()
}

func (p *Player) Length() float64 {
	return p.format.SampleRate.D(p.streamer.Len()).Seconds()
}

// SeekTo clamps to the track. Seeking to a negative time lands on 0.
func (p *Player) SeekTo(seconds float64) {
	n := p.format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	if n < 0 {
		n = 0
	}
	speaker.Lock()
	defer speaker.Unlock()
	if l := p.streamer.Len(); n >= l {
		n = l - 1
	}
	if n < 0 {
		return
	}
	if err := p.streamer.Seek(n); nil != err {
		log.Println("unable to seek music:", err)
	}
}

func (p *Player) Pause() {
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
}

func (p *Player) Resume() {
	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
}

func (p *Player) Paused() bool {
	speaker.Lock()
	defer speaker.Unlock()
	return p.ctrl.Paused
}

func (p *Player) Close() error {
	speaker.Clear()
	return p.streamer.Close()
}

// Silent stands in for music that failed to load. It counts time with a
// timing.Manager so the session plays normally without sound.
type Silent struct {
	clock  *timing.Manager
	length float64
}

func NewSilent(source timing.Source, speed, length float64) *Silent {
	m := timing.NewManager(source, speed)
	m.Pause()
	return &Silent{clock: m, length: length}
}

func (s *Silent) Position() float64 {
	return math.Min(math.Max(s.clock.Now(), 0), s.length)
}

func (s *Silent) SeekTo(seconds float64) {
	s.clock.Seek(math.Min(math.Max(seconds, 0), s.length))
}

func (s *Silent) Pause()       { s.clock.Pause() }
func (s *Silent) Resume()      { s.clock.Resume() }
func (s *Silent) Paused() bool { return s.clock.Paused() }

func (s *Silent) Length() float64 {
	return s.length
}

func (s *Silent) Close() error {
	return nil
}
