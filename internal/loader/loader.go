// Package loader reads a chart and its assets in the background. The host
// polls it once per frame and starts the session when it is ready.
package loader

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"

	"git.lost.host/meutraa/judgeline/internal/audio"
	"git.lost.host/meutraa/judgeline/internal/game"
	"git.lost.host/meutraa/judgeline/internal/parser"
	"git.lost.host/meutraa/judgeline/internal/timing"
)

type State uint8

const (
	Pending State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "unknown"
}

type FileSystem interface {
	ReadFile(name string) ([]byte, error)
}

// DirFS reads files relative to a directory.
type DirFS string

func (d DirFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(string(d), filepath.FromSlash(name)))
}

// AssetLoadError is a music or illustration failure. The session still
// starts with a fallback.
type AssetLoadError struct {
	Asset string
	Path  string
	Err   error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("unable to load %v %q: %v", e.Asset, e.Path, e.Err)
}

func (e *AssetLoadError) Unwrap() error {
	return e.Err
}

// OpenMusic turns music bytes into a playable clock.
type OpenMusic func(name string, data []byte, speed float64) (audio.Clock, error)

func openPlayer(name string, data []byte, speed float64) (audio.Clock, error) {
	return audio.NewPlayer(name, data, speed)
}

type Request struct {
	FS           FileSystem
	Format       *game.ChartFormat // detected from the chart text when nil
	Chart        string
	Music        string
	Illustration string
	Speed        float64
	OpenMusic    OpenMusic // audio.NewPlayer when nil
}

type Result struct {
	Chart *game.Chart
	Text  string // chart text, for the history sum
	Music audio.Clock
	// Average colour of the illustration, black when there is none
	Background color.NRGBA
	Warnings   []error
}

type Loader struct {
	done   chan struct{}
	state  State
	result *Result
	err    error
}

// Start begins loading in a new goroutine.
func Start(req Request) *Loader {
	l := &Loader{done: make(chan struct{})}
	go func() {
		l.result, l.err = load(req)
		close(l.done)
	}()
	return l
}

// Poll never blocks. It may be called any number of times while Pending.
func (l *Loader) Poll() State {
	if l.state != Pending {
		return l.state
	}
	select {
	case <-l.done:
		if nil != l.err {
			l.state = Failed
		} else {
			l.state = Ready
		}
	default:
	}
	return l.state
}

// Wait blocks until loading finishes.
func (l *Loader) Wait() State {
	<-l.done
	return l.Poll()
}

// Result is only meaningful once Poll reports Ready or Failed.
func (l *Loader) Result() (*Result, error) {
	if l.Poll() == Pending {
		return nil, fmt.Errorf("assets are still loading")
	}
	return l.result, l.err
}

func load(req Request) (*Result, error) {
	data, err := req.FS.ReadFile(req.Chart)
	if nil != err {
		return nil, fmt.Errorf("unable to read chart: %w", err)
	}
	format := parser.Detect(string(data))
	if nil != req.Format {
		format = *req.Format
	}
	chart, err := parser.Parse(format, string(data))
	if nil != err {
		return nil, fmt.Errorf("unable to load %v: %w", req.Chart, err)
	}
	r := &Result{Chart: chart, Text: string(data)}

	open := req.OpenMusic
	if nil == open {
		open = openPlayer
	}
	music, err := req.FS.ReadFile(req.Music)
	if nil == err {
		r.Music, err = open(req.Music, music, req.Speed)
	}
	if nil != err {
		r.warn("music", req.Music, err)
		r.Music = audio.NewSilent(timing.Monotonic(), req.Speed, chart.TrackLength)
	}

	if req.Illustration != "" {
		r.Background, err = illustration(req.FS, req.Illustration)
		if nil != err {
			r.warn("illustration", req.Illustration, err)
		}
	}
	return r, nil
}

func (r *Result) warn(asset, path string, err error) {
	e := &AssetLoadError{Asset: asset, Path: path, Err: err}
	log.Println(e)
	r.Warnings = append(r.Warnings, e)
}

func illustration(fs FileSystem, name string) (color.NRGBA, error) {
	black := color.NRGBA{0, 0, 0, 255}
	data, err := fs.ReadFile(name)
	if nil != err {
		return black, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if nil != err {
		return black, err
	}
	return average(img), nil
}

// average samples at most 64x64 pixels.
func average(img image.Image) color.NRGBA {
	b := img.Bounds()
	sx, sy := b.Dx()/64+1, b.Dy()/64+1
	var r, g, bl, n uint64
	for y := b.Min.Y; y < b.Max.Y; y += sy {
		for x := b.Min.X; x < b.Max.X; x += sx {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			r += uint64(c.R)
			g += uint64(c.G)
			bl += uint64(c.B)
			n++
		}
	}
	if n == 0 {
		return color.NRGBA{0, 0, 0, 255}
	}
	return color.NRGBA{uint8(r / n), uint8(g / n), uint8(bl / n), 255}
}
