package battle

// PhaseTransitionKind discriminates phase advance conditions.
type PhaseTransitionKind int

const (
	TransitionNever PhaseTransitionKind = iota
	TransitionTimeElapsed
	TransitionStrengthRatioBelow
	TransitionCasualtiesExceed
	TransitionManual
)

// PhaseTransition says when a phase plan hands off to the next phase.
type PhaseTransition struct {
	Kind     PhaseTransitionKind
	Ticks    int     // TimeElapsed
	Ratio    float64 // StrengthRatioBelow
	Fraction float64 // CasualtiesExceed

	manual bool
}

// SignalManual arms a Manual transition for the next update.
func (t *PhaseTransition) SignalManual() {
	t.manual = true
}

// Triggered reports whether the phase should advance.
func (t *PhaseTransition) Triggered(ticksInPhase int, strengthRatio, casualtyFrac float64) bool {
	switch t.Kind {
	case TransitionTimeElapsed:
		return ticksInPhase >= t.Ticks
	case TransitionStrengthRatioBelow:
		return strengthRatio < t.Ratio
	case TransitionCasualtiesExceed:
		return casualtyFrac > t.Fraction
	case TransitionManual:
		return t.manual
	default:
		return false
	}
}

// PhasePlan is one stage of a commander's battle plan: which targets
// matter, how much reserve to commit, and how hot to run.
type PhasePlan struct {
	Name               string
	PriorityTargets    []Hex
	ReserveCommitment  float64 // fraction of reserve units to release
	AggressionModifier float64 // added to personality aggression
	Transition         PhaseTransition
}

// PhasePlanManager walks an ordered list of phases. At most one
// advance per update; the final phase is held indefinitely.
type PhasePlanManager struct {
	Phases []*PhasePlan

	current        int
	phaseStartTick int
}

func NewPhasePlanManager(phases []*PhasePlan) *PhasePlanManager {
	return &PhasePlanManager{Phases: phases}
}

// Current returns the active phase, or nil with no phases configured.
func (pm *PhasePlanManager) Current() *PhasePlan {
	if pm == nil || len(pm.Phases) == 0 {
		return nil
	}
	return pm.Phases[pm.current]
}

// CurrentIndex returns the active phase index.
func (pm *PhasePlanManager) CurrentIndex() int {
	return pm.current
}

// Update checks the active transition and advances at most one phase.
// Returns the name of the newly entered phase, or "" if unchanged.
func (pm *PhasePlanManager) Update(tick int, strengthRatio, casualtyFrac float64) string {
	cur := pm.Current()
	if cur == nil || pm.current >= len(pm.Phases)-1 {
		return ""
	}
	if !cur.Transition.Triggered(tick-pm.phaseStartTick, strengthRatio, casualtyFrac) {
		return ""
	}
	cur.Transition.manual = false
	pm.current++
	pm.phaseStartTick = tick
	return pm.Phases[pm.current].Name
}
