package battle

// Morale constants.
const (
	contagionStress    = 0.10
	officerDeathStress = 0.30
	flankStress        = 0.20

	rallyStressThreshold = 0.5
	rallyTicksRequired   = 30
	rallySafeDistance    = 3
	rallyMinBrokenTicks  = 20
	routStressDecay      = 0.01
	contagionRange       = 2

	// Units cut off from every command unit accrue stress. Armies
	// fielded without any command unit are exempt, matching the
	// commander-death contingency convention.
	commandRadius    = 5
	leaderlessStress = 0.02
)

// MoraleState is the break/rally position of a unit, derived from its
// stance. Transitions run Steady -> Shaken -> Broken -> (Rallying ->
// Steady | Destroyed). The only permitted skip is Steady straight to
// Broken when a single tick's stress jumps past both thresholds.
type MoraleState int

const (
	Steady MoraleState = iota
	Shaken
	Broken
	Rallying
	MoraleDestroyed
)

func (m MoraleState) String() string {
	switch m {
	case Steady:
		return "steady"
	case Shaken:
		return "shaken"
	case Broken:
		return "broken"
	case Rallying:
		return "rallying"
	case MoraleDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// MoraleOf maps a unit's stance to its morale state.
func MoraleOf(u *Unit) MoraleState {
	switch {
	case u.Destroyed:
		return MoraleDestroyed
	case u.Stance == Routing:
		return Broken
	case u.Stance == RallyingStance:
		return Rallying
	case u.Stance == ShakenStance:
		return Shaken
	default:
		return Steady
	}
}

// shakenFraction of the break threshold at which a steady unit
// becomes shaken.
const shakenFraction = 0.7

// stressContribution is one unit's accumulated stress input for a
// tick, computed for every unit before any transition applies.
type stressContribution struct {
	contagion  float64
	positional float64
	leaderless float64
}

// gatherStress computes this tick's stress inputs for every unit of
// an army without mutating anything. Contagion counts broken allies
// within range, weighted by the sufferer's cohesion (tight units
// resist panic spreading). Positional stress covers flanked and
// surrounded units. Units out of reach of every command unit accrue
// leaderless stress.
func gatherStress(army *Army, enemy *Army) map[UnitID]stressContribution {
	out := make(map[UnitID]stressContribution, len(army.Units))

	var brokenPositions []Hex
	for _, u := range army.Units {
		if !u.Destroyed && u.Broken() {
			brokenPositions = append(brokenPositions, u.Position)
		}
	}
	enemyPositions := positionSet(enemy)

	var commandPositions []Hex
	for _, u := range army.Units {
		if !u.Destroyed && u.Kind == Command {
			commandPositions = append(commandPositions, u.Position)
		}
	}

	for _, u := range army.Units {
		if u.Destroyed || u.Broken() {
			continue
		}
		var c stressContribution

		nearby := 0
		for _, p := range brokenPositions {
			if u.Position.Distance(p) <= contagionRange {
				nearby++
			}
		}
		if nearby > 0 {
			weight := 1.5 - u.Cohesion*0.5
			c.contagion = float64(nearby) * contagionStress * weight
		}

		if isSurrounded(u, enemyPositions) {
			c.positional += flankStress
		} else if isFlanked(u, enemyPositions) {
			c.positional += flankStress
		}

		if len(commandPositions) > 0 && u.Kind != Command {
			led := false
			for _, p := range commandPositions {
				if u.Position.Distance(p) <= commandRadius {
					led = true
					break
				}
			}
			if !led {
				c.leaderless = leaderlessStress
			}
		}

		out[u.ID] = c
	}
	return out
}

// applyMoraleTransitions applies accumulated stress and runs the
// state machine for one unit. Returns the transition that happened,
// or "" for none.
func applyMoraleTransitions(u *Unit, c stressContribution, tick int) string {
	u.AddStress(c.contagion + c.positional + c.leaderless)

	threshold := u.StressThreshold()
	switch {
	case u.Stance == Routing || u.Stance == RallyingStance:
		return ""
	case u.Stress >= threshold:
		from := MoraleOf(u)
		u.Stance = Routing
		u.BrokenAt = tick
		u.Cohesion *= 0.5
		if u.Cohesion < 0.1 {
			u.Cohesion = 0.1
		}
		u.Order = nil
		u.Path = nil
		if from == Steady {
			// Catastrophic single-tick jump past both thresholds.
			return "break_catastrophic"
		}
		return "break"
	case u.Stress >= threshold*shakenFraction && u.Stance != ShakenStance && u.Stance != Engaged:
		u.Stance = ShakenStance
		return "shaken"
	case u.Stress < threshold*shakenFraction && u.Stance == ShakenStance:
		u.Stance = Formed
		return "steadied"
	}
	return ""
}

// decayRoutStress bleeds stress off a broken unit each tick. A unit
// running from the fight takes no new stress inputs, so this is the
// only way its stress ever drops back under the rally bar.
func decayRoutStress(u *Unit) {
	u.Stress -= routStressDecay
	if u.Stress < 0 {
		u.Stress = 0
	}
}

// checkRally decides whether a broken unit begins rallying. No rally
// within reach of enemies or before the minimum time since breaking;
// a nearby leader eases the stress bar.
func checkRally(u *Unit, tick int, nearEnemy, nearLeader bool) bool {
	if u.Stance != Routing || nearEnemy {
		return false
	}
	if u.BrokenAt < 0 || tick-u.BrokenAt < rallyMinBrokenTicks {
		return false
	}
	if u.Stress < rallyStressThreshold {
		return true
	}
	return nearLeader && u.Stress < rallyStressThreshold+0.2
}

// advanceRally progresses a rallying unit and reports whether it
// reformed this tick.
func advanceRally(u *Unit, tick int) bool {
	if u.Stance != RallyingStance || u.RallyingSince < 0 {
		return false
	}
	if tick-u.RallyingSince >= rallyTicksRequired {
		u.Stance = Formed
		u.RallyingSince = -1
		u.Stress = 0
		return true
	}
	return false
}
