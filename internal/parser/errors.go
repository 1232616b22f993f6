package parser

import (
	"fmt"

	"git.lost.host/meutraa/judgeline/internal/game"
	"github.com/pkg/errors"
)

// ErrMalformed is matched by every ParseError.
var ErrMalformed = errors.New("malformed chart")

type ParseError struct {
	Format game.ChartFormat
	Line   int // Source line for text formats, 0 when unknown
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	msg := e.Msg
	if nil != e.Err {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Line > 0 {
		return fmt.Sprintf("%v chart, line %d: %s", e.Format, e.Line, msg)
	}
	return fmt.Sprintf("%v chart: %s", e.Format, msg)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrMalformed
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func malformed(format game.ChartFormat, line int, msg string, args ...interface{}) error {
	return &ParseError{Format: format, Line: line, Msg: fmt.Sprintf(msg, args...)}
}

func wrapMalformed(format game.ChartFormat, line int, err error, msg string, args ...interface{}) error {
	return &ParseError{Format: format, Line: line, Msg: fmt.Sprintf(msg, args...), Err: errors.WithStack(err)}
}
