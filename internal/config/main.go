package config

import (
	"fmt"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"
)

const Version = "0.3.0"

var (
	Directory   *string
	Autoplay    *bool
	Speed       *float64
	Offset      *time.Duration
	Delay       *time.Duration
	FramePeriod *time.Duration
	Release     *time.Duration
	SeekStep    *time.Duration
	LogFile     *string
	keys        *string

	// Lane keys, left to right
	Keys []rune
)

// Parse reads the command line. It may be called more than once, each call
// starts from the defaults.
func Parse(args []string) error {
	app := kingpin.New("judgeline", "Play Phigros, RPE and PEC charts in the terminal.")
	app.Version(Version)
	app.HelpFlag.Short('h')

	Directory = app.Arg("directory", "Chart directory, with an info.yml or a chart and music file").Required().ExistingDir()
	Autoplay = app.Flag("autoplay", "Judge every note perfect without input").Short('a').Bool()
	Speed = app.Flag("speed", "Playback speed, 0 uses info.yml").Default("0").Short('r').Float64()
	Offset = app.Flag("offset", "Global offset added to the chart offset").Default("0ms").Short('o').Duration()
	Delay = app.Flag("delay", "Start delay").Default("1.5s").Short('d').Duration()
	FramePeriod = app.Flag("frame-period", "Render frame period").Default("4ms").Short('p').Duration()
	Release = app.Flag("release", "Time without key repeats before a held lane is released").Default("600ms").Duration()
	SeekStep = app.Flag("seek", "Seek distance of the arrow keys").Default("1s").Duration()
	LogFile = app.Flag("log", "Log file").Default("judgeline.log").String()
	keys = app.Flag("keys", "Lane keys, c r and q are reserved").Default("asdfghjkl;").Short('k').String()

	if _, err := app.Parse(args); nil != err {
		return err
	}

	Keys = []rune(*keys)
	if len(Keys) == 0 {
		return fmt.Errorf("at least one lane key is required")
	}
	for _, r := range Keys {
		switch r {
		case 'c', 'r', 'q', ' ':
			return fmt.Errorf("lane key %q is reserved", r)
		}
	}
	if *Speed < 0 {
		return fmt.Errorf("speed must not be negative")
	}
	return nil
}
