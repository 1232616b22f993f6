package input

import (
	"errors"
	"testing"

	"git.lost.host/meutraa/judgeline/internal/game"
	"github.com/eiannone/keyboard"
)

type fakeSource struct {
	now float64
}

func (f *fakeSource) read() float64 {
	return f.now
}

func setup() (*Keyboard, chan keyboard.KeyEvent, *fakeSource) {
	events := make(chan keyboard.KeyEvent, 16)
	src := &fakeSource{}
	return NewKeyboard(events, []rune("asdf"), 0.5, src.read), events, src
}

func TestLaneX(t *testing.T) {
	k, _, _ := setup()
	for lane, x := range map[int]float64{0: -0.75, 1: -0.25, 2: 0.25, 3: 0.75} {
		if k.LaneX(lane) != x {
			t.Log("lane", lane, k.LaneX(lane), "expected", x)
			t.Fail()
		}
	}
}

func TestPressRepeatRelease(t *testing.T) {
	k, events, src := setup()

	touches, controls := k.Poll()
	if len(touches) != 0 || len(controls) != 0 {
		t.Fatal("nothing pressed yet")
	}

	events <- keyboard.KeyEvent{Rune: 's'}
	touches, _ = k.Poll()
	if len(touches) != 1 || touches[0].Phase != game.Started || touches[0].X != -0.25 {
		t.Fatal("expected a started touch on lane 1", touches)
	}
	id := touches[0].ID

	src.now = 0.4
	events <- keyboard.KeyEvent{Rune: 's'}
	touches, _ = k.Poll()
	if len(touches) != 1 || touches[0].Phase != game.Moved || touches[0].ID != id {
		t.Fatal("expected the repeat to move the same touch", touches)
	}

	src.now = 0.8
	if touches, _ = k.Poll(); len(touches) != 0 || !k.Down(1) {
		t.Fatal("released before the release period", touches)
	}

	src.now = 1
	touches, _ = k.Poll()
	if len(touches) != 1 || touches[0].Phase != game.Ended || touches[0].ID != id || k.Down(1) {
		t.Fatal("expected the lane to be released", touches)
	}

	events <- keyboard.KeyEvent{Rune: 's'}
	touches, _ = k.Poll()
	if len(touches) != 1 || touches[0].Phase != game.Started || touches[0].ID == id {
		t.Fatal("expected a new touch id", touches)
	}
}

func TestSeveralLanes(t *testing.T) {
	k, events, _ := setup()
	events <- keyboard.KeyEvent{Rune: 'f'}
	events <- keyboard.KeyEvent{Rune: 'a'}
	events <- keyboard.KeyEvent{Rune: 'x'}
	touches, _ := k.Poll()
	if len(touches) != 2 || touches[0].X != 0.75 || touches[1].X != -0.75 || touches[0].ID == touches[1].ID {
		t.Fatal("expected two touches in press order", touches)
	}
}

func TestControls(t *testing.T) {
	k, events, _ := setup()
	events <- keyboard.KeyEvent{Key: keyboard.KeySpace}
	events <- keyboard.KeyEvent{Key: keyboard.KeyArrowLeft}
	events <- keyboard.KeyEvent{Key: keyboard.KeyArrowRight}
	events <- keyboard.KeyEvent{Rune: 'c'}
	events <- keyboard.KeyEvent{Rune: 'r'}
	events <- keyboard.KeyEvent{Err: errors.New("closed")}
	events <- keyboard.KeyEvent{Key: keyboard.KeyEsc}
	touches, controls := k.Poll()
	expected := []Control{TogglePause, SeekBack, SeekForward, Rewind, Retry, Quit}
	if len(touches) != 0 || len(controls) != len(expected) {
		t.Fatal("unexpected controls", controls, touches)
	}
	for i := range expected {
		if controls[i] != expected[i] {
			t.Log(i, controls[i], "expected", expected[i])
			t.Fail()
		}
	}
}

func TestReset(t *testing.T) {
	k, events, src := setup()
	events <- keyboard.KeyEvent{Rune: 'a'}
	k.Poll()
	k.Reset()
	src.now = 10
	if touches, _ := k.Poll(); len(touches) != 0 || k.Down(0) {
		t.Error("reset lanes should not release", touches)
	}
}
