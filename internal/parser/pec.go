package parser

import (
	"bufio"
	"sort"
	"strconv"
	"strings"

	"git.lost.host/meutraa/judgeline/internal/game"
)

const (
	pec = game.FormatPec

	pecWidth      = 2048.0
	pecHeight     = 1400.0
	pecNoteWidth  = 1024.0
	pecSpeedScale = 1.0 / 7.0
	// PhiEditor plays audio 150ms ahead of the written offset
	pecOffsetBias = 0.15
	// judge line indices at or above this are rejected
	pecMaxLines = 4096
)

type pecToken struct {
	text string
	line int
}

type pecReader struct {
	tokens []pecToken
	pos    int
}

func newPecReader(text string) *pecReader {
	r := &pecReader{}
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for n := 1; scanner.Scan(); n++ {
		for _, f := range strings.Fields(scanner.Text()) {
			r.tokens = append(r.tokens, pecToken{text: f, line: n})
		}
	}
	return r
}

func (r *pecReader) next() (pecToken, bool) {
	if r.pos >= len(r.tokens) {
		return pecToken{}, false
	}
	t := r.tokens[r.pos]
	r.pos++
	return t, true
}

func (r *pecReader) float(cmd pecToken) (float64, error) {
	t, ok := r.next()
	if !ok {
		return 0, malformed(pec, cmd.line, "%q is missing arguments", cmd.text)
	}
	v, err := strconv.ParseFloat(t.text, 64)
	if nil != err {
		return 0, wrapMalformed(pec, t.line, err, "%q has a bad argument", cmd.text)
	}
	return v, nil
}

func (r *pecReader) floats(cmd pecToken, n int) ([]float64, error) {
	vs := make([]float64, n)
	for i := range vs {
		v, err := r.float(cmd)
		if nil != err {
			return nil, err
		}
		vs[i] = v
	}
	return vs, nil
}

type pecKind int

const (
	pecX pecKind = iota
	pecY
	pecRotation
	pecAlpha
)

// pecFrame is either an instant set (end == start) or a tween towards value.
type pecFrame struct {
	kind       pecKind
	start, end float64 // beats, then seconds after conversion
	value      float64
	easing     game.Easing
	set        bool
	src        int
}

type pecNote struct {
	game.Note
	beat, endBeat float64
	src           int
}

type pecLine struct {
	frames []pecFrame
	speeds []struct{ beat, value float64 }
}

var pecNoteKinds = map[string]game.NoteKind{
	"n1": game.Tap,
	"n2": game.Hold,
	"n3": game.Flick,
	"n4": game.Drag,
}

func ParsePEC(text string) (*game.Chart, error) {
	r := newPecReader(text)
	first, ok := r.next()
	if !ok {
		return nil, malformed(pec, 0, "empty chart")
	}
	offset, err := strconv.ParseFloat(first.text, 64)
	if nil != err {
		return nil, wrapMalformed(pec, first.line, err, "missing offset")
	}

	bpms := []game.BPM{}
	notes := []*pecNote{}
	lines := map[int]*pecLine{}
	lineAt := func(cmd pecToken, v float64) (*pecLine, error) {
		if v < 0 || v >= pecMaxLines {
			return nil, malformed(pec, cmd.line, "%q judge line %v out of range [0, %v)", cmd.text, v, pecMaxLines)
		}
		index := int(v)
		if float64(index) != v {
			return nil, malformed(pec, cmd.line, "%q has invalid judge line %v", cmd.text, v)
		}
		l, ok := lines[index]
		if !ok {
			l = &pecLine{}
			lines[index] = l
		}
		return l, nil
	}

	for {
		cmd, ok := r.next()
		if !ok {
			break
		}
		switch cmd.text {
		case "bp":
			vs, err := r.floats(cmd, 2)
			if nil != err {
				return nil, err
			}
			if vs[1] <= 0 {
				return nil, malformed(pec, cmd.line, "non-positive bpm %v", vs[1])
			}
			bpms = append(bpms, game.BPM{StartingBeat: vs[0], Value: vs[1]})
		case "n1", "n3", "n4", "n2":
			n := 5
			if cmd.text == "n2" {
				n = 6
			}
			vs, err := r.floats(cmd, n)
			if nil != err {
				return nil, err
			}
			if vs[0] < 0 || vs[0] != float64(int(vs[0])) {
				return nil, malformed(pec, cmd.line, "note has invalid judge line %v", vs[0])
			}
			note := &pecNote{src: cmd.line, beat: vs[1], endBeat: vs[1]}
			note.Line = int(vs[0])
			note.Kind = pecNoteKinds[cmd.text]
			note.Speed = 1
			rest := vs[2:]
			if cmd.text == "n2" {
				note.endBeat = vs[2]
				rest = vs[3:]
			}
			note.X = rest[0] / pecNoteWidth
			note.Above = rest[1] == 1
			note.Fake = rest[2] == 1
			notes = append(notes, note)
		case "#", "&":
			v, err := r.float(cmd)
			if nil != err {
				return nil, err
			}
			if len(notes) == 0 {
				return nil, malformed(pec, cmd.line, "%q before any note", cmd.text)
			}
			if cmd.text == "#" {
				notes[len(notes)-1].Speed = v
			}
		case "cv":
			vs, err := r.floats(cmd, 3)
			if nil != err {
				return nil, err
			}
			l, err := lineAt(cmd, vs[0])
			if nil != err {
				return nil, err
			}
			l.speeds = append(l.speeds, struct{ beat, value float64 }{vs[1], vs[2] * pecSpeedScale})
		case "cp", "cd", "ca":
			n := 3
			if cmd.text == "cp" {
				n = 4
			}
			vs, err := r.floats(cmd, n)
			if nil != err {
				return nil, err
			}
			l, err := lineAt(cmd, vs[0])
			if nil != err {
				return nil, err
			}
			set := func(kind pecKind, v float64) {
				l.frames = append(l.frames, pecFrame{kind: kind, start: vs[1], end: vs[1], value: v, set: true, src: cmd.line})
			}
			switch cmd.text {
			case "cp":
				set(pecX, vs[2]/pecWidth*2-1)
				set(pecY, vs[3]/pecHeight*2-1)
			case "cd":
				set(pecRotation, -vs[2])
			case "ca":
				set(pecAlpha, vs[2]/255)
			}
		case "cm", "cr", "cf":
			n := map[string]int{"cm": 6, "cr": 5, "cf": 4}[cmd.text]
			vs, err := r.floats(cmd, n)
			if nil != err {
				return nil, err
			}
			l, err := lineAt(cmd, vs[0])
			if nil != err {
				return nil, err
			}
			if vs[2] < vs[1] {
				return nil, malformed(pec, cmd.line, "%q ends before it starts", cmd.text)
			}
			tween := func(kind pecKind, v float64, easing game.Easing) {
				l.frames = append(l.frames, pecFrame{kind: kind, start: vs[1], end: vs[2], value: v, easing: easing, src: cmd.line})
			}
			switch cmd.text {
			case "cm":
				easing := game.EasingFromID(int64(vs[5]))
				tween(pecX, vs[3]/pecWidth*2-1, easing)
				tween(pecY, vs[4]/pecHeight*2-1, easing)
			case "cr":
				tween(pecRotation, -vs[3], game.EasingFromID(int64(vs[4])))
			case "cf":
				tween(pecAlpha, vs[3]/255, game.Linear)
			}
		default:
			return nil, malformed(pec, cmd.line, "unknown command %q", cmd.text)
		}
	}

	if len(bpms) == 0 {
		return nil, malformed(pec, 0, "missing bp command")
	}
	bpm := game.NewBPMTable(bpms)

	count := 0
	for index := range lines {
		if index+1 > count {
			count = index + 1
		}
	}
	chart := &game.Chart{
		Offset: offset/1000 - pecOffsetBias,
		Lines:  make([]game.JudgeLine, count),
	}
	for index := 0; index < count; index++ {
		line := &chart.Lines[index]
		l, ok := lines[index]
		if !ok {
			l = &pecLine{}
		}
		layer, err := pecLayer(l, bpm, index)
		if nil != err {
			return nil, err
		}
		line.Layers = []game.Layer{layer}
		for _, s := range l.speeds {
			t := bpm.Seconds(s.beat)
			line.Speed = append(line.Speed, game.SpeedEvent{Start: t, End: t, StartValue: s.value, EndValue: s.value})
		}
	}

	for _, n := range notes {
		if _, ok := lines[n.Line]; !ok {
			return nil, malformed(pec, n.src, "note references missing judge line %d", n.Line)
		}
		note := n.Note
		note.Time = bpm.Seconds(n.beat)
		if note.Kind == game.Hold {
			if n.endBeat < n.beat {
				return nil, malformed(pec, n.src, "hold ends before it starts")
			}
			note.HoldTime = bpm.Seconds(n.endBeat) - note.Time
		}
		chart.Lines[n.Line].Notes = append(chart.Lines[n.Line].Notes, note)
	}
	return chart, nil
}

// pecLayer turns the keyframes of one line into gapless events. Kinds the
// source never mentions get a constant default over the whole chart.
func pecLayer(l *pecLine, bpm *game.BPMTable, index int) (game.Layer, error) {
	byKind := make([][]pecFrame, 4)
	for _, f := range l.frames {
		f.start, f.end = bpm.Seconds(f.start), bpm.Seconds(f.end)
		byKind[f.kind] = append(byKind[f.kind], f)
	}
	defaults := [4]float64{pecX: 0, pecY: 0, pecRotation: 0, pecAlpha: 1}
	anims := [4]game.Anim{}
	for kind, frames := range byKind {
		def := defaults[kind]
		if len(frames) == 0 {
			anims[kind] = game.Constant(def)
			continue
		}
		sort.SliceStable(frames, func(i, j int) bool { return frames[i].start < frames[j].start })
		anim := game.Anim{{Start: frames[0].start, End: frames[0].start, StartValue: def, EndValue: def, Easing: game.Linear}}
		cur := def
		for _, f := range frames {
			if f.start < anim[len(anim)-1].End-game.Gap {
				return game.Layer{}, malformed(pec, f.src, "judge line %d: event overlaps the previous one", index)
			}
			from := cur
			if f.set {
				from = f.value
			}
			anim = append(anim, game.Event{Start: f.start, End: f.end, StartValue: from, EndValue: f.value, Easing: f.easing})
			cur = f.value
		}
		anims[kind] = anim.FillGaps()
	}
	return game.Layer{X: anims[pecX], Y: anims[pecY], Rotation: anims[pecRotation], Opacity: anims[pecAlpha]}, nil
}
