package parser

import (
	"git.lost.host/meutraa/judgeline/internal/game"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

type Parser interface {
	Parse(text string) (*game.Chart, error)
}

// Func adapts a plain function to Parser.
type Func func(text string) (*game.Chart, error)

func (f Func) Parse(text string) (*game.Chart, error) {
	return f(text)
}

var parsers = map[game.ChartFormat]Parser{
	game.FormatPgr: Func(ParsePhigros),
	game.FormatRpe: Func(ParseRPE),
	game.FormatPec: Func(ParsePEC),
}

// Parse reads a chart in the given format. The returned chart has every
// line's notes and events sorted and its floor heights computed.
func Parse(format game.ChartFormat, text string) (*game.Chart, error) {
	p, ok := parsers[format]
	if !ok {
		return nil, errors.Errorf("no parser for chart format %v", format)
	}
	chart, err := p.Parse(text)
	if nil != err {
		return nil, errors.Wrapf(err, "unable to parse %v chart", format)
	}
	chart.Prepare()
	return chart, nil
}

// Detect guesses the format of a chart from its text. Text that is not json
// is taken to be PEC.
func Detect(text string) game.ChartFormat {
	if !gjson.Valid(text) {
		return game.FormatPec
	}
	if gjson.Get(text, "META").Exists() || gjson.Get(text, "BPMList").Exists() {
		return game.FormatRpe
	}
	return game.FormatPgr
}

// finishAnim sorts the events, checks them and substitutes def for an empty list.
func finishAnim(format game.ChartFormat, anim game.Anim, def float64, allowGaps bool, what string, line int) (game.Anim, error) {
	if len(anim) == 0 {
		return game.Constant(def), nil
	}
	anim.Sort()
	if i := anim.Validate(allowGaps); i != -1 {
		return nil, malformed(format, 0, "judge line %d: %s event %d at [%v, %v] overlaps or leaves a gap",
			line, what, i, anim[i].Start, anim[i].End)
	}
	if allowGaps {
		anim = anim.FillGaps()
	}
	return anim, nil
}
