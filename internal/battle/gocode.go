package battle

// TriggerKind discriminates go-code trigger conditions.
type TriggerKind int

const (
	TriggerManual TriggerKind = iota
	TriggerAtTick
	TriggerWaypointReached
	TriggerEnemySpottedCount
	TriggerUnitEngaged
	TriggerCasualtyThreshold
)

func (k TriggerKind) String() string {
	switch k {
	case TriggerManual:
		return "manual"
	case TriggerAtTick:
		return "at_tick"
	case TriggerWaypointReached:
		return "waypoint_reached"
	case TriggerEnemySpottedCount:
		return "enemy_spotted_count"
	case TriggerUnitEngaged:
		return "unit_engaged"
	case TriggerCasualtyThreshold:
		return "casualty_threshold"
	default:
		return "unknown"
	}
}

// Trigger is a go-code's firing condition.
type Trigger struct {
	Kind     TriggerKind
	Tick     int     // AtTick
	Unit     UnitID  // WaypointReached, UnitEngaged
	Hex      Hex     // WaypointReached
	Count    int     // EnemySpottedCount
	Fraction float64 // CasualtyThreshold
}

// rearms reports whether the trigger may fire again after its
// condition leaves and re-enters. Point-in-time triggers fire once;
// threshold triggers re-arm.
func (t Trigger) rearms() bool {
	return t.Kind == TriggerEnemySpottedCount || t.Kind == TriggerCasualtyThreshold
}

// GoCode is a named pre-authorized order bundle released when its
// trigger condition holds.
type GoCode struct {
	Name    string
	Trigger Trigger
	Orders  []Order

	ManualFire bool // set by a delivered ExecuteGoCode order

	fired     bool // fire-once consumption
	condition bool // condition held last evaluation, for re-arm edge detection
}

// Fired reports whether a fire-once go-code has been consumed.
func (gc *GoCode) Fired() bool {
	return gc.fired
}

// triggerState is the battlefield snapshot go-code evaluation reads.
type triggerState struct {
	tick             int
	unitPositions    map[UnitID]Hex
	engagedUnits     map[UnitID]struct{}
	spottedCount     int
	casualtyFraction float64
}

// evaluate decides whether the go-code fires this tick, handling the
// per-kind re-arm policy. Threshold triggers fire on the rising edge
// only: the condition must leave before it can fire again. A manual
// signal fires any go-code regardless of trigger kind, unless it has
// already been consumed.
func (gc *GoCode) evaluate(st triggerState) bool {
	if gc.ManualFire {
		gc.ManualFire = false
		if gc.fired {
			return false
		}
		gc.fired = true
		return true
	}
	if gc.Trigger.Kind == TriggerManual {
		return false
	}

	holds := gc.conditionHolds(st)
	if gc.Trigger.rearms() {
		fire := holds && !gc.condition
		gc.condition = holds
		return fire
	}

	if gc.fired || !holds {
		return false
	}
	gc.fired = true
	return true
}

func (gc *GoCode) conditionHolds(st triggerState) bool {
	switch gc.Trigger.Kind {
	case TriggerAtTick:
		return st.tick >= gc.Trigger.Tick
	case TriggerWaypointReached:
		pos, ok := st.unitPositions[gc.Trigger.Unit]
		return ok && pos == gc.Trigger.Hex
	case TriggerEnemySpottedCount:
		return st.spottedCount >= gc.Trigger.Count
	case TriggerUnitEngaged:
		_, ok := st.engagedUnits[gc.Trigger.Unit]
		return ok
	case TriggerCasualtyThreshold:
		return st.casualtyFraction > gc.Trigger.Fraction
	default:
		return false
	}
}

// ContingencyKind discriminates contingency triggers.
type ContingencyKind int

const (
	ContingencyUnitBreaks ContingencyKind = iota
	ContingencyCommanderDies
	ContingencyPositionLost
	ContingencyCasualtiesExceed
)

func (k ContingencyKind) String() string {
	switch k {
	case ContingencyUnitBreaks:
		return "unit_breaks"
	case ContingencyCommanderDies:
		return "commander_dies"
	case ContingencyPositionLost:
		return "position_lost"
	case ContingencyCasualtiesExceed:
		return "casualties_exceed"
	default:
		return "unknown"
	}
}

// ResponseKind discriminates contingency responses.
type ResponseKind int

const (
	ResponseRetreat ResponseKind = iota
	ResponseRally
	ResponseSignal
)

// Contingency is a pre-planned response to a battlefield event. Each
// fires at most once.
type Contingency struct {
	Kind     ContingencyKind
	Unit     UnitID  // UnitBreaks
	Hex      Hex     // PositionLost
	Fraction float64 // CasualtiesExceed

	Response ResponseKind
	Route    []Hex  // Retreat
	RallyHex Hex    // Rally
	Signal   string // go-code name

	activated bool
}

// Activated reports whether the contingency has already fired.
func (c *Contingency) Activated() bool {
	return c.activated
}

// contingencyState is the snapshot contingency evaluation reads.
type contingencyState struct {
	brokenUnits      map[UnitID]struct{}
	commanderAlive   bool
	ownPositions     map[Hex]struct{}
	enemyPositions   map[Hex]struct{}
	casualtyFraction float64
}

// evaluate decides whether the contingency fires this tick.
func (c *Contingency) evaluate(st contingencyState) bool {
	if c.activated {
		return false
	}
	var holds bool
	switch c.Kind {
	case ContingencyUnitBreaks:
		_, holds = st.brokenUnits[c.Unit]
	case ContingencyCommanderDies:
		holds = !st.commanderAlive
	case ContingencyPositionLost:
		_, enemyThere := st.enemyPositions[c.Hex]
		_, ownThere := st.ownPositions[c.Hex]
		holds = enemyThere && !ownThere
	case ContingencyCasualtiesExceed:
		holds = st.casualtyFraction > c.Fraction
	}
	if holds {
		c.activated = true
	}
	return holds
}
