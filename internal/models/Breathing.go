package models

import "fmt"

type PhaseKind string

const (
	PhaseInhale PhaseKind = "inhale"
	PhaseHold   PhaseKind = "hold"
	PhaseExhale PhaseKind = "exhale"
	PhaseRest   PhaseKind = "rest"
)

var phaseColors = map[PhaseKind]string{
	PhaseInhale: "#4A90E2",
	PhaseHold:   "#9B59B6",
	PhaseExhale: "#2ECC71",
	PhaseRest:   "#95A5A6",
}

var phaseVerbs = map[PhaseKind]string{
	PhaseInhale: "Breathe in",
	PhaseHold:   "Hold",
	PhaseExhale: "Breathe out",
	PhaseRest:   "Rest",
}

func (k PhaseKind) Valid() bool {
	_, ok := phaseColors[k]
	return ok
}

// Color is the display color a presentation layer should use for the phase.
func (k PhaseKind) Color() string {
	return phaseColors[k]
}

func (k PhaseKind) Verb() string {
	return phaseVerbs[k]
}

type Phase struct {
	Kind            PhaseKind `json:"kind" yaml:"kind"`
	DurationSeconds int       `json:"duration_seconds" yaml:"duration"`
	Instruction     string    `json:"instruction" yaml:"instruction"`
}

type BreathingPattern struct {
	Name        string  `json:"name" yaml:"name"`
	Title       string  `json:"title" yaml:"title"`
	Phases      []Phase `json:"phases" yaml:"phases"`
	TotalCycles int     `json:"total_cycles" yaml:"cycles"`
}

// CycleDuration is the sum of all phase durations.
func (p BreathingPattern) CycleDuration() int {
	total := 0
	for _, ph := range p.Phases {
		total += ph.DurationSeconds
	}
	return total
}

func (p BreathingPattern) TotalDuration() int {
	return p.CycleDuration() * p.TotalCycles
}

type SessionStatus int

const (
	SessionIdle SessionStatus = iota
	SessionRunning
	SessionPaused
	SessionCompleted
)

func (s SessionStatus) String() string {
	switch s {
	case SessionIdle:
		return "idle"
	case SessionRunning:
		return "running"
	case SessionPaused:
		return "paused"
	case SessionCompleted:
		return "completed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

func (s SessionStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// SessionState is a point-in-time copy of a guided session.
type SessionState struct {
	Pattern          string        `json:"pattern"`
	Status           SessionStatus `json:"status"`
	CycleIndex       int           `json:"cycle_index"`
	TotalCycles      int           `json:"total_cycles"`
	PhaseIndex       int           `json:"phase_index"`
	Phase            Phase         `json:"phase"`
	PhaseColor       string        `json:"phase_color"`
	RemainingSeconds int           `json:"remaining_seconds"`
	ProgressPercent  float64       `json:"progress_percent"`
}

func (s SessionState) Running() bool   { return s.Status == SessionRunning }
func (s SessionState) Completed() bool { return s.Status == SessionCompleted }
