package game

type Chart struct {
	Lines       []JudgeLine
	Offset      float64 // Seconds subtracted from audio time to get chart time
	TrackLength float64 // Seconds

	transforms []Transform
}

// NoteCount is the number of judgeable notes.
func (c *Chart) NoteCount() int {
	count := 0
	for i := range c.Lines {
		for j := range c.Lines[i].Notes {
			if !c.Lines[i].Notes[j].Fake {
				count++
			}
		}
	}
	return count
}

// LastNoteEnd is the latest end time of any note, 0 for an empty chart.
func (c *Chart) LastNoteEnd() float64 {
	last := 0.0
	for i := range c.Lines {
		for j := range c.Lines[i].Notes {
			if e := c.Lines[i].Notes[j].End(); e > last {
				last = e
			}
		}
	}
	return last
}

// Prepare sorts every line and fixes back references. Parsers call it once.
func (c *Chart) Prepare() {
	for i := range c.Lines {
		c.Lines[i].Prepare(i)
	}
	if c.TrackLength == 0 {
		c.TrackLength = c.LastNoteEnd() + 1
	}
}

// Update caches the transform of every line at t for the renderer.
func (c *Chart) Update(t float64) {
	if len(c.transforms) != len(c.Lines) {
		c.transforms = make([]Transform, len(c.Lines))
	}
	for i := range c.Lines {
		c.transforms[i] = c.Lines[i].TransformAt(t)
	}
}

// Transforms returns the transforms cached by the last Update.
func (c *Chart) Transforms() []Transform {
	return c.transforms
}
