package engagement

import (
	"calmd/internal/models"
)

// PhaseChange describes a transition between two phases of a running session.
type PhaseChange struct {
	Previous   models.Phase
	Current    models.Phase
	CycleIndex int
	PhaseIndex int
	NewCycle   bool
}

// GuidedSession drives one breathing pattern through its phases and cycles.
// It only advances when Tick is called; the caller owns the clock. A session
// is not safe for concurrent use, its host must serialize calls.
type GuidedSession struct {
	pattern   models.BreathingPattern
	status    models.SessionStatus
	cycle     int
	phase     int
	remaining int

	onPhaseChange func(PhaseChange)
	onCompleted   func(models.SessionState)
}

func NewGuidedSession(p models.BreathingPattern) (*GuidedSession, error) {
	s := &GuidedSession{}
	if err := s.SelectPattern(p); err != nil {
		return nil, err
	}
	return s, nil
}

// OnPhaseChange registers fn to be called from Tick after every phase move.
func (s *GuidedSession) OnPhaseChange(fn func(PhaseChange)) {
	s.onPhaseChange = fn
}

// OnCompleted registers fn to be called once, from the Tick that finishes the last phase.
func (s *GuidedSession) OnCompleted(fn func(models.SessionState)) {
	s.onCompleted = fn
}

// SelectPattern replaces the pattern and returns to Idle. An invalid pattern
// is rejected and the current session is left as it was.
func (s *GuidedSession) SelectPattern(p models.BreathingPattern) error {
	if err := ValidatePattern(p); err != nil {
		return err
	}
	s.pattern = clonePattern(p)
	s.Reset()
	return nil
}

func (s *GuidedSession) Pattern() models.BreathingPattern {
	return clonePattern(s.pattern)
}

func (s *GuidedSession) Status() models.SessionStatus {
	return s.status
}

// Reset returns to Idle at the first phase of the first cycle.
func (s *GuidedSession) Reset() {
	s.status = models.SessionIdle
	s.cycle = 0
	s.phase = 0
	s.remaining = s.pattern.Phases[0].DurationSeconds
}

// Start resumes or begins the countdown. It reports whether the state changed.
func (s *GuidedSession) Start() bool {
	if s.status != models.SessionIdle && s.status != models.SessionPaused {
		return false
	}
	s.status = models.SessionRunning
	return true
}

// Pause freezes the countdown exactly where it is.
func (s *GuidedSession) Pause() bool {
	if s.status != models.SessionRunning {
		return false
	}
	s.status = models.SessionPaused
	return true
}

// Tick advances time by one unit. Ticks outside Running are ignored and
// reported as not consumed.
func (s *GuidedSession) Tick() bool {
	if s.status != models.SessionRunning {
		return false
	}
	if s.remaining > 1 {
		s.remaining--
		return true
	}

	phases := s.pattern.Phases
	change := PhaseChange{Previous: phases[s.phase]}
	switch {
	case s.phase+1 < len(phases):
		s.phase++
	case s.cycle+1 < s.pattern.TotalCycles:
		s.cycle++
		s.phase = 0
		change.NewCycle = true
	default:
		s.remaining = 0
		s.status = models.SessionCompleted
		if s.onCompleted != nil {
			s.onCompleted(s.Snapshot())
		}
		return true
	}

	s.remaining = phases[s.phase].DurationSeconds
	if s.onPhaseChange != nil {
		change.Current = phases[s.phase]
		change.CycleIndex = s.cycle
		change.PhaseIndex = s.phase
		s.onPhaseChange(change)
	}
	return true
}

// Progress returns overall completion in percent, 100 once Completed.
func (s *GuidedSession) Progress() float64 {
	total := s.pattern.TotalDuration()
	if s.status == models.SessionCompleted || total == 0 {
		return 100
	}
	return 100 * float64(s.elapsed()) / float64(total)
}

func (s *GuidedSession) elapsed() int {
	elapsed := s.cycle * s.pattern.CycleDuration()
	for _, ph := range s.pattern.Phases[:s.phase] {
		elapsed += ph.DurationSeconds
	}
	return elapsed + s.pattern.Phases[s.phase].DurationSeconds - s.remaining
}

func (s *GuidedSession) Snapshot() models.SessionState {
	current := s.pattern.Phases[s.phase]
	return models.SessionState{
		Pattern:          s.pattern.Name,
		Status:           s.status,
		CycleIndex:       s.cycle,
		TotalCycles:      s.pattern.TotalCycles,
		PhaseIndex:       s.phase,
		Phase:            current,
		PhaseColor:       current.Kind.Color(),
		RemainingSeconds: s.remaining,
		ProgressPercent:  s.Progress(),
	}
}
