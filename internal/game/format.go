package game

import (
	"fmt"
	"strings"
)

// ChartFormat selects the reader for a chart file.
type ChartFormat uint8

const (
	FormatPgr ChartFormat = iota // Phigros official json
	FormatRpe                    // Re:PhiEdit json
	FormatPec                    // PhiEditor text commands
)

func (f ChartFormat) String() string {
	switch f {
	case FormatPgr:
		return "pgr"
	case FormatRpe:
		return "rpe"
	case FormatPec:
		return "pec"
	}
	return "unknown"
}

func ParseChartFormat(s string) (ChartFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pgr", "phigros":
		return FormatPgr, nil
	case "rpe":
		return FormatRpe, nil
	case "pec":
		return FormatPec, nil
	}
	return 0, fmt.Errorf("unknown chart format %q", s)
}

func (f *ChartFormat) UnmarshalText(text []byte) error {
	v, err := ParseChartFormat(string(text))
	if nil != err {
		return err
	}
	*f = v
	return nil
}

func (f ChartFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}
