// Package input turns terminal key presses into touches and host controls.
package input

import (
	"log"

	"git.lost.host/meutraa/judgeline/internal/game"
	"git.lost.host/meutraa/judgeline/internal/timing"
	"github.com/eiannone/keyboard"
)

type Control uint8

const (
	TogglePause Control = iota
	Rewind              // resume a few seconds back after a countdown
	SeekBack
	SeekForward
	Retry
	Quit
)

func (c Control) String() string {
	switch c {
	case TogglePause:
		return "pause"
	case Rewind:
		return "rewind"
	case SeekBack:
		return "seek back"
	case SeekForward:
		return "seek forward"
	case Retry:
		return "retry"
	case Quit:
		return "quit"
	}
	return "unknown"
}

var controlRunes = map[rune]Control{
	'c': Rewind,
	'r': Retry,
	'q': Quit,
}

var controlKeys = map[keyboard.Key]Control{
	keyboard.KeySpace:      TogglePause,
	keyboard.KeyArrowLeft:  SeekBack,
	keyboard.KeyArrowRight: SeekForward,
	keyboard.KeyEsc:        Quit,
	keyboard.KeyCtrlC:      Quit,
}

type lane struct {
	id   int // -1 when up
	last float64
}

// Keyboard maps each lane key to a touch at a fixed screen x on the y=0
// axis. Terminals report no key releases, so a lane stays down while its key
// keeps repeating and is released once no press arrived for the release
// period. A press on a lane that is already down counts as a repeat.
type Keyboard struct {
	events  <-chan keyboard.KeyEvent
	source  timing.Source
	release float64
	runes   map[rune]int
	lanes   []lane
	nextID  int

	touches  []game.Touch
	controls []Control
}

func NewKeyboard(events <-chan keyboard.KeyEvent, keys []rune, release float64, source timing.Source) *Keyboard {
	k := &Keyboard{
		events:  events,
		source:  source,
		release: release,
		runes:   map[rune]int{},
		lanes:   make([]lane, len(keys)),
	}
	for i, r := range keys {
		k.runes[r] = i
		k.lanes[i].id = -1
	}
	return k
}

// Lanes is the number of lane keys.
func (k *Keyboard) Lanes() int {
	return len(k.lanes)
}

// LaneX is the screen x of a lane. Lanes split [-1, 1] evenly.
func (k *Keyboard) LaneX(i int) float64 {
	return -1 + (2*float64(i)+1)/float64(len(k.lanes))
}

// Down reports whether a lane is currently held.
func (k *Keyboard) Down(i int) bool {
	return k.lanes[i].id >= 0
}

// Poll drains every pending key event without blocking. The returned slices
// are reused by the next call.
func (k *Keyboard) Poll() ([]game.Touch, []Control) {
	now := k.source()
	k.touches = k.touches[:0]
	k.controls = k.controls[:0]

	for i := range k.lanes {
		l := &k.lanes[i]
		if l.id >= 0 && now-l.last > k.release {
			k.touches = append(k.touches, game.Touch{ID: l.id, Phase: game.Ended, X: k.LaneX(i)})
			l.id = -1
		}
	}

	for {
		select {
		case ev, ok := <-k.events:
			if !ok {
				return k.touches, k.controls
			}
			k.handle(ev, now)
		default:
			return k.touches, k.controls
		}
	}
}

func (k *Keyboard) handle(ev keyboard.KeyEvent, now float64) {
	if nil != ev.Err {
		log.Println("keyboard error", ev.Err)
		return
	}
	if ev.Key != 0 {
		if c, ok := controlKeys[ev.Key]; ok {
			k.controls = append(k.controls, c)
		}
		return
	}
	if c, ok := controlRunes[ev.Rune]; ok {
		k.controls = append(k.controls, c)
		return
	}
	i, ok := k.runes[ev.Rune]
	if !ok {
		return
	}
	l := &k.lanes[i]
	l.last = now
	if l.id >= 0 {
		k.touches = append(k.touches, game.Touch{ID: l.id, Phase: game.Moved, X: k.LaneX(i)})
		return
	}
	l.id = k.nextID
	k.nextID++
	k.touches = append(k.touches, game.Touch{ID: l.id, Phase: game.Started, X: k.LaneX(i)})
}

// Reset lifts every lane without emitting releases.
func (k *Keyboard) Reset() {
	for i := range k.lanes {
		k.lanes[i].id = -1
	}
}
