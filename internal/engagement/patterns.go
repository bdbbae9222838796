package engagement

import (
	"fmt"
	"slices"

	"calmd/internal/models"
)

// PatternLibrary is a read-only catalog of breathing patterns, keyed by name.
type PatternLibrary struct {
	patterns map[string]models.BreathingPattern
	order    []string
}

// NewPatternLibrary validates every pattern up front. A library never holds
// a pattern that SelectPattern would reject.
func NewPatternLibrary(patterns ...models.BreathingPattern) (*PatternLibrary, error) {
	lib := &PatternLibrary{patterns: make(map[string]models.BreathingPattern, len(patterns))}
	for _, p := range patterns {
		if err := ValidatePattern(p); err != nil {
			return nil, err
		}
		if _, ok := lib.patterns[p.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePattern, p.Name)
		}
		lib.patterns[p.Name] = clonePattern(p)
		lib.order = append(lib.order, p.Name)
	}
	return lib, nil
}

func (l *PatternLibrary) Get(name string) (models.BreathingPattern, bool) {
	p, ok := l.patterns[name]
	if !ok {
		return models.BreathingPattern{}, false
	}
	return clonePattern(p), true
}

// List returns patterns in declaration order.
func (l *PatternLibrary) List() []models.BreathingPattern {
	out := make([]models.BreathingPattern, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, clonePattern(l.patterns[name]))
	}
	return out
}

func (l *PatternLibrary) Len() int {
	return len(l.order)
}

func ValidatePattern(p models.BreathingPattern) error {
	if p.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidPattern)
	}
	if len(p.Phases) == 0 {
		return fmt.Errorf("%w: %q has no phases", ErrInvalidPattern, p.Name)
	}
	if p.TotalCycles < 1 {
		return fmt.Errorf("%w: %q has %d cycles", ErrInvalidPattern, p.Name, p.TotalCycles)
	}
	for i, ph := range p.Phases {
		if !ph.Kind.Valid() {
			return fmt.Errorf("%w: %q phase %d has unknown kind %q", ErrInvalidPattern, p.Name, i, ph.Kind)
		}
		if ph.DurationSeconds <= 0 {
			return fmt.Errorf("%w: %q phase %d has duration %d", ErrInvalidPattern, p.Name, i, ph.DurationSeconds)
		}
	}
	return nil
}

func clonePattern(p models.BreathingPattern) models.BreathingPattern {
	p.Phases = slices.Clone(p.Phases)
	return p
}
