package parser

import (
	"math"

	"git.lost.host/meutraa/judgeline/internal/game"
	"github.com/tidwall/gjson"
)

const (
	pgr = game.FormatPgr

	// Phigros times are counted in 1/32 beats of the line's own bpm
	pgrBeatUnit = 1.875
	// positionX to line local units
	pgrNoteXScale = 0.1125
)

var pgrNoteKinds = map[int64]game.NoteKind{
	1: game.Tap,
	2: game.Drag,
	3: game.Hold,
	4: game.Flick,
}

func requireFields(v gjson.Result, fields ...string) (string, bool) {
	for _, f := range fields {
		if !v.Get(f).Exists() {
			return f, false
		}
	}
	return "", true
}

func parsePgrNotes(list gjson.Result, line int, unit float64, above bool) ([]game.Note, error) {
	if !list.Exists() {
		return nil, nil
	}
	if !list.IsArray() {
		return nil, malformed(pgr, 0, "judge line %d: note list is not an array", line)
	}
	notes := []game.Note{}
	for i, n := range list.Array() {
		if f, ok := requireFields(n, "type", "time", "positionX"); !ok {
			return nil, malformed(pgr, 0, "judge line %d: note %d is missing %q", line, i, f)
		}
		kind, ok := pgrNoteKinds[n.Get("type").Int()]
		if !ok {
			return nil, malformed(pgr, 0, "judge line %d: note %d has unknown type %v", line, i, n.Get("type").Raw)
		}
		speed := 1.0
		if s := n.Get("speed"); s.Exists() {
			speed = s.Float()
		}
		note := game.Note{
			Line:  line,
			Kind:  kind,
			Time:  n.Get("time").Float() * unit,
			Speed: speed,
			X:     n.Get("positionX").Float() * pgrNoteXScale,
			Above: above,
		}
		if kind == game.Hold {
			note.HoldTime = n.Get("holdTime").Float() * unit
		}
		notes = append(notes, note)
	}
	return notes, nil
}

// pgrEvents reads one event list, value extracts the start or end value of an event.
func pgrEvents(list gjson.Result, line int, unit float64, what string, value func(e gjson.Result, end bool) float64) (game.Anim, error) {
	if !list.IsArray() {
		return nil, malformed(pgr, 0, "judge line %d: missing %s events", line, what)
	}
	anim := game.Anim{}
	for i, e := range list.Array() {
		if f, ok := requireFields(e, "startTime", "endTime", "start", "end"); !ok {
			return nil, malformed(pgr, 0, "judge line %d: %s event %d is missing %q", line, what, i, f)
		}
		anim = append(anim, game.Event{
			Start:      e.Get("startTime").Float() * unit,
			End:        e.Get("endTime").Float() * unit,
			StartValue: value(e, false),
			EndValue:   value(e, true),
			Easing:     game.Linear,
		})
	}
	return anim, nil
}

func pgrValue(key string, scale, shift float64) func(gjson.Result, bool) float64 {
	return func(e gjson.Result, end bool) float64 {
		k := "start" + key
		if end {
			k = "end" + key
		}
		return e.Get(k).Float()*scale + shift
	}
}

// formatVersion 1 packs x and y into one number as x*1000 + y
func pgrPacked(y bool) func(gjson.Result, bool) float64 {
	return func(e gjson.Result, end bool) float64 {
		v := e.Get("start").Float()
		if end {
			v = e.Get("end").Float()
		}
		if y {
			return math.Mod(v, 1000)/520*2 - 1
		}
		return math.Floor(v/1000)/880*2 - 1
	}
}

func ParsePhigros(text string) (*game.Chart, error) {
	if !gjson.Valid(text) {
		return nil, malformed(pgr, 0, "invalid json")
	}
	root := gjson.Parse(text)
	version := int64(3)
	if v := root.Get("formatVersion"); v.Exists() {
		version = v.Int()
	}
	lines := root.Get("judgeLineList")
	if !lines.IsArray() {
		return nil, malformed(pgr, 0, "missing judgeLineList")
	}

	chart := &game.Chart{Offset: root.Get("offset").Float()}
	for index, l := range lines.Array() {
		bpm := l.Get("bpm").Float()
		if bpm <= 0 {
			return nil, malformed(pgr, 0, "judge line %d: missing or non-positive bpm", index)
		}
		unit := pgrBeatUnit / bpm

		above, err := parsePgrNotes(l.Get("notesAbove"), index, unit, true)
		if nil != err {
			return nil, err
		}
		below, err := parsePgrNotes(l.Get("notesBelow"), index, unit, false)
		if nil != err {
			return nil, err
		}

		var layer game.Layer
		moves := l.Get("judgeLineMoveEvents")
		if version == 1 {
			layer.X, err = pgrEvents(moves, index, unit, "move", pgrPacked(false))
			if nil == err {
				layer.Y, err = pgrEvents(moves, index, unit, "move", pgrPacked(true))
			}
		} else {
			layer.X, err = pgrEvents(moves, index, unit, "move", pgrValue("", 2, -1))
			if nil == err {
				layer.Y, err = pgrEvents(moves, index, unit, "move", pgrValue("2", 2, -1))
			}
		}
		if nil != err {
			return nil, err
		}
		if layer.Rotation, err = pgrEvents(l.Get("judgeLineRotateEvents"), index, unit, "rotate", pgrValue("", -1, 0)); nil != err {
			return nil, err
		}
		if layer.Opacity, err = pgrEvents(l.Get("judgeLineDisappearEvents"), index, unit, "disappear", pgrValue("", 1, 0)); nil != err {
			return nil, err
		}

		kinds := []struct {
			anim *game.Anim
			def  float64
			name string
		}{
			{&layer.X, 0, "move"},
			{&layer.Y, 0, "move"},
			{&layer.Rotation, 0, "rotate"},
			{&layer.Opacity, 1, "disappear"},
		}
		for _, k := range kinds {
			if *k.anim, err = finishAnim(pgr, *k.anim, k.def, false, k.name, index); nil != err {
				return nil, err
			}
		}

		speed := game.SpeedEvents{}
		for _, e := range l.Get("speedEvents").Array() {
			v := e.Get("value").Float()
			speed = append(speed, game.SpeedEvent{
				Start:      e.Get("startTime").Float() * unit,
				End:        e.Get("endTime").Float() * unit,
				StartValue: v,
				EndValue:   v,
			})
		}

		chart.Lines = append(chart.Lines, game.JudgeLine{
			Notes:  append(above, below...),
			Layers: []game.Layer{layer},
			Speed:  speed,
		})
	}
	return chart, nil
}
