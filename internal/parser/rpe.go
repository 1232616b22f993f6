package parser

import (
	"git.lost.host/meutraa/judgeline/internal/game"
	"github.com/tidwall/gjson"
)

const (
	rpe = game.FormatRpe

	rpeWidth      = 675.0
	rpeHeight     = 450.0
	rpeSpeedScale = 1.0 / 9.0
)

var rpeNoteKinds = map[int64]game.NoteKind{
	1: game.Tap,
	2: game.Hold,
	3: game.Flick,
	4: game.Drag,
}

// rpeBeat reads a [bar, numerator, denominator] triple.
func rpeBeat(v gjson.Result) (float64, bool) {
	parts := v.Array()
	if len(parts) != 3 || parts[2].Float() == 0 {
		return 0, false
	}
	return parts[0].Float() + parts[1].Float()/parts[2].Float(), true
}

type rpeReader struct {
	bpm *game.BPMTable
}

func (r *rpeReader) seconds(v gjson.Result) (float64, bool) {
	beat, ok := rpeBeat(v)
	if !ok {
		return 0, false
	}
	return r.bpm.Seconds(beat), true
}

func (r *rpeReader) events(list gjson.Result, line int, what string, scale float64) (game.Anim, error) {
	anim := game.Anim{}
	for i, e := range list.Array() {
		if f, ok := requireFields(e, "startTime", "endTime", "start", "end"); !ok {
			return nil, malformed(rpe, 0, "judge line %d: %s event %d is missing %q", line, what, i, f)
		}
		start, ok1 := r.seconds(e.Get("startTime"))
		end, ok2 := r.seconds(e.Get("endTime"))
		if !ok1 || !ok2 {
			return nil, malformed(rpe, 0, "judge line %d: %s event %d has an invalid beat", line, what, i)
		}
		easing := game.Linear
		if t := e.Get("easingType"); t.Exists() {
			easing = game.EasingFromID(t.Int())
		}
		anim = append(anim, game.Event{
			Start:      start,
			End:        end,
			StartValue: e.Get("start").Float() * scale,
			EndValue:   e.Get("end").Float() * scale,
			Easing:     easing,
		})
	}
	return anim, nil
}

func (r *rpeReader) layer(l gjson.Result, line int, first bool) (game.Layer, game.SpeedEvents, error) {
	var layer game.Layer
	alpha := 0.0
	if first {
		alpha = 1
	}
	kinds := []struct {
		anim  *game.Anim
		key   string
		scale float64
		def   float64
	}{
		{&layer.X, "moveXEvents", 1 / rpeWidth, 0},
		{&layer.Y, "moveYEvents", 1 / rpeHeight, 0},
		{&layer.Rotation, "rotateEvents", -1, 0},
		{&layer.Opacity, "alphaEvents", 1.0 / 255, alpha},
	}
	for _, k := range kinds {
		anim, err := r.events(l.Get(k.key), line, k.key, k.scale)
		if nil != err {
			return layer, nil, err
		}
		if *k.anim, err = finishAnim(rpe, anim, k.def, true, k.key, line); nil != err {
			return layer, nil, err
		}
	}

	speed := game.SpeedEvents{}
	for i, e := range l.Get("speedEvents").Array() {
		start, ok1 := r.seconds(e.Get("startTime"))
		end, ok2 := r.seconds(e.Get("endTime"))
		if !ok1 || !ok2 {
			return layer, nil, malformed(rpe, 0, "judge line %d: speed event %d has an invalid beat", line, i)
		}
		speed = append(speed, game.SpeedEvent{
			Start:      start,
			End:        end,
			StartValue: e.Get("start").Float() * rpeSpeedScale,
			EndValue:   e.Get("end").Float() * rpeSpeedScale,
		})
	}
	return layer, speed, nil
}

func (r *rpeReader) notes(list gjson.Result, line int) ([]game.Note, error) {
	notes := []game.Note{}
	for i, n := range list.Array() {
		if f, ok := requireFields(n, "type", "startTime", "endTime", "positionX"); !ok {
			return nil, malformed(rpe, 0, "judge line %d: note %d is missing %q", line, i, f)
		}
		kind, ok := rpeNoteKinds[n.Get("type").Int()]
		if !ok {
			return nil, malformed(rpe, 0, "judge line %d: note %d has unknown type %v", line, i, n.Get("type").Raw)
		}
		start, ok1 := r.seconds(n.Get("startTime"))
		end, ok2 := r.seconds(n.Get("endTime"))
		if !ok1 || !ok2 {
			return nil, malformed(rpe, 0, "judge line %d: note %d has an invalid beat", line, i)
		}
		speed := 1.0
		if s := n.Get("speed"); s.Exists() {
			speed = s.Float()
		}
		note := game.Note{
			Line:  line,
			Kind:  kind,
			Time:  start,
			Speed: speed,
			X:     n.Get("positionX").Float() / rpeWidth,
			Above: n.Get("above").Int() == 1,
			Fake:  n.Get("isFake").Int() == 1,
		}
		if kind == game.Hold {
			if end < start {
				return nil, malformed(rpe, 0, "judge line %d: hold %d ends before it starts", line, i)
			}
			note.HoldTime = end - start
		}
		notes = append(notes, note)
	}
	return notes, nil
}

func ParseRPE(text string) (*game.Chart, error) {
	if !gjson.Valid(text) {
		return nil, malformed(rpe, 0, "invalid json")
	}
	root := gjson.Parse(text)

	bpms := []game.BPM{}
	for i, b := range root.Get("BPMList").Array() {
		beat, ok := rpeBeat(b.Get("startTime"))
		value := b.Get("bpm").Float()
		if !ok || value <= 0 {
			return nil, malformed(rpe, 0, "BPMList entry %d is invalid", i)
		}
		bpms = append(bpms, game.BPM{StartingBeat: beat, Value: value})
	}
	if len(bpms) == 0 {
		return nil, malformed(rpe, 0, "missing BPMList")
	}
	lines := root.Get("judgeLineList")
	if !lines.IsArray() {
		return nil, malformed(rpe, 0, "missing judgeLineList")
	}

	r := &rpeReader{bpm: game.NewBPMTable(bpms)}
	chart := &game.Chart{Offset: root.Get("META.offset").Float() / 1000}
	for index, l := range lines.Array() {
		line := game.JudgeLine{}
		speeds := []game.SpeedEvents{}
		for _, layer := range l.Get("eventLayers").Array() {
			if layer.Type == gjson.Null {
				continue
			}
			parsed, speed, err := r.layer(layer, index, len(line.Layers) == 0)
			if nil != err {
				return nil, err
			}
			line.Layers = append(line.Layers, parsed)
			speeds = append(speeds, speed)
		}
		line.Speed = game.MergeSpeed(speeds...)
		if len(line.Layers) == 0 {
			line.Layers = []game.Layer{game.DefaultLayer()}
		}
		notes, err := r.notes(l.Get("notes"), index)
		if nil != err {
			return nil, err
		}
		line.Notes = notes
		chart.Lines = append(chart.Lines, line)
	}
	return chart, nil
}
