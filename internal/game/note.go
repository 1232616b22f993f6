package game

type NoteKind uint8

const (
	Tap NoteKind = iota
	Drag
	Hold
	Flick
)

func (k NoteKind) String() string {
	switch k {
	case Tap:
		return "tap"
	case Drag:
		return "drag"
	case Hold:
		return "hold"
	case Flick:
		return "flick"
	}
	return "unknown"
}

// Note is immutable chart data. Judgement state lives in the judge.
type Note struct {
	Line     int      // Index of the owning judge line
	Kind     NoteKind // Tap, Drag, Hold or Flick
	Time     float64  // The time the note should be hit, in chart seconds
	HoldTime float64  // Duration of a hold, 0 otherwise
	Speed    float64  // Multiplier on the fall distance
	X        float64  // Offset along the line
	Above    bool     // Approaches from above the line
	Fake     bool     // Rendered but never judged

	Height    float64 // Floor position of the line at Time
	EndHeight float64 // Floor position of the line at Time+HoldTime
}

func (n *Note) End() float64 {
	return n.Time + n.HoldTime
}

// NoteState is the lifecycle of one note inside a judging session.
type NoteState uint8

const (
	Unjudged NoteState = iota
	PerfectHit
	GoodHit
	BadHit
	Missed
	HoldInProgress
	HoldCompleted
	HoldBroken
)

func (s NoteState) Judged() bool {
	return s != Unjudged && s != HoldInProgress
}
