package game

type Phase uint8

const (
	Started Phase = iota
	Moved
	Ended
)

// Touch is one pointer event of a frame. X and Y share the judge line coordinate space.
type Touch struct {
	ID    int
	Phase Phase
	X, Y  float64
}
