package timing

import (
	"math"
	"time"
)

// Source reports monotonic real time in seconds.
type Source func() float64

// Monotonic returns a Source backed by the runtime's monotonic clock.
func Monotonic() Source {
	epoch := time.Now()
	return func() float64 {
		return time.Since(epoch).Seconds()
	}
}

// Manager converts real time into chart seconds. It never blocks, every
// method is arithmetic over stored timestamps.
type Manager struct {
	source Source
	speed  float64

	base   float64 // chart time at anchor
	anchor float64 // real time base was taken at

	paused    bool
	pauseTime float64

	rewinding bool
	rewindAt  float64 // real time the countdown started
}

func NewManager(source Source, speed float64) *Manager {
	if speed <= 0 {
		speed = 1
	}
	m := &Manager{source: source, speed: speed}
	m.anchor = source()
	return m
}

func (m *Manager) real() float64 {
	if m.paused {
		return m.pauseTime
	}
	return m.source()
}

// Now is the current chart time, frozen while paused.
func (m *Manager) Now() float64 {
	return m.base + (m.real()-m.anchor)*m.speed
}

func (m *Manager) Speed() float64 {
	return m.speed
}

// SetSpeed rebases so Now stays continuous across the change.
func (m *Manager) SetSpeed(speed float64) {
	if speed <= 0 {
		return
	}
	m.base = m.Now()
	m.anchor = m.real()
	m.speed = speed
}

func (m *Manager) Paused() bool {
	return m.paused
}

func (m *Manager) Pause() {
	if m.paused {
		return
	}
	m.pauseTime = m.source()
	m.paused = true
}

// Resume shifts the anchor forward by the paused duration.
func (m *Manager) Resume() {
	if !m.paused {
		return
	}
	m.anchor += m.source() - m.pauseTime
	m.paused = false
}

// Seek makes the next Now read to.
func (m *Manager) Seek(to float64) {
	m.base = to
	m.anchor = m.real()
}

// Rewind holds the clock at to for a countdown of the given length in real
// seconds and resumes from there once Countdown reports it finished.
func (m *Manager) Rewind(to float64) {
	m.Pause()
	m.Seek(to)
	m.rewinding = true
	m.rewindAt = m.source()
}

// Countdown returns the whole seconds left of a rewind countdown, or 0 once
// it has finished. The first call after the end resumes the clock.
func (m *Manager) Countdown(length int) int {
	if !m.rewinding {
		return 0
	}
	left := length - int(math.Floor(m.source()-m.rewindAt))
	if left <= 0 {
		m.rewinding = false
		m.Resume()
		return 0
	}
	return left
}

func (m *Manager) Rewinding() bool {
	return m.rewinding
}

// Reset starts the clock again from zero and clears pause and rewind state.
func (m *Manager) Reset() {
	m.paused = false
	m.rewinding = false
	m.Seek(0)
}
