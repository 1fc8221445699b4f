package battle

// Pace is how hard a unit pushes along its waypoints.
type Pace int

const (
	Walk Pace = iota
	Quick
	Run
	Charge
)

func (p Pace) String() string {
	switch p {
	case Walk:
		return "walk"
	case Quick:
		return "quick"
	case Run:
		return "run"
	case Charge:
		return "charge"
	default:
		return "unknown"
	}
}

// SpeedMultiplier scales the unit's base speed.
func (p Pace) SpeedMultiplier() float64 {
	switch p {
	case Walk:
		return 0.5
	case Run:
		return 1.5
	case Charge:
		return 2.0
	default:
		return 1.0
	}
}

// FatigueMultiplier scales fatigue accumulation while moving.
func (p Pace) FatigueMultiplier() float64 {
	switch p {
	case Walk:
		return 0.5
	case Run:
		return 2.0
	case Charge:
		return 4.0
	default:
		return 1.0
	}
}

// Behavior is what a unit does on reaching a waypoint.
type Behavior int

const (
	MoveTo Behavior = iota
	HoldAt
	AttackFrom
	ScanFrom
	RallyAt
)

func (b Behavior) String() string {
	switch b {
	case MoveTo:
		return "move_to"
	case HoldAt:
		return "hold_at"
	case AttackFrom:
		return "attack_from"
	case ScanFrom:
		return "scan_from"
	case RallyAt:
		return "rally_at"
	default:
		return "unknown"
	}
}

// Waypoint is one leg of a unit's movement plan.
type Waypoint struct {
	Position Hex
	Behavior Behavior
	Pace     Pace
}

// WaypointPlan is a unit's ordered movement legs plus a cursor.
type WaypointPlan struct {
	Unit      UnitID
	Waypoints []Waypoint
	Current   int
}

// NewWaypointPlan returns an empty plan for the unit.
func NewWaypointPlan(unit UnitID) *WaypointPlan {
	return &WaypointPlan{Unit: unit}
}

// Add appends a waypoint.
func (p *WaypointPlan) Add(w Waypoint) {
	p.Waypoints = append(p.Waypoints, w)
}

// Reset clears all waypoints and rewinds the cursor.
func (p *WaypointPlan) Reset() {
	p.Waypoints = p.Waypoints[:0]
	p.Current = 0
}

// CurrentWaypoint returns the active waypoint, or nil when the plan is
// exhausted.
func (p *WaypointPlan) CurrentWaypoint() *Waypoint {
	if p.Current >= len(p.Waypoints) {
		return nil
	}
	return &p.Waypoints[p.Current]
}

// Advance moves the cursor to the next waypoint. Returns false at the
// last one.
func (p *WaypointPlan) Advance() bool {
	if p.Current < len(p.Waypoints)-1 {
		p.Current++
		return true
	}
	return false
}

// EngagementRule governs whether a unit initiates combat.
type EngagementRule int

const (
	Aggressive EngagementRule = iota
	Defensive
	HoldFire
	Skirmish
)

func (r EngagementRule) String() string {
	switch r {
	case Aggressive:
		return "aggressive"
	case Defensive:
		return "defensive"
	case HoldFire:
		return "hold_fire"
	case Skirmish:
		return "skirmish"
	default:
		return "unknown"
	}
}

// ShouldInitiate reports whether a unit under this rule opens combat.
func (r EngagementRule) ShouldInitiate(beingAttacked bool) bool {
	switch r {
	case Aggressive, Skirmish:
		return true
	case Defensive:
		return beingAttacked
	default:
		return false
	}
}

// Deployment places one unit at battle start.
type Deployment struct {
	Unit    UnitID
	Pos     Hex
	Facing  Direction
	Stance  Stance
	Reserve bool
}

// BattlePlan is one side's pre-battle data: deployments, waypoint
// plans, engagement rules, go-codes, and contingencies. Consumed at
// setup; only trigger bookkeeping mutates during the battle.
type BattlePlan struct {
	Deployments   []Deployment
	WaypointPlans []*WaypointPlan
	Rules         map[UnitID]EngagementRule
	GoCodes       []*GoCode
	Contingencies []*Contingency
}

// NewBattlePlan returns an empty plan.
func NewBattlePlan() *BattlePlan {
	return &BattlePlan{Rules: make(map[UnitID]EngagementRule)}
}

// PlanFor returns the waypoint plan for a unit, creating one if absent.
func (bp *BattlePlan) PlanFor(unit UnitID) *WaypointPlan {
	for _, p := range bp.WaypointPlans {
		if p.Unit == unit {
			return p
		}
	}
	p := NewWaypointPlan(unit)
	bp.WaypointPlans = append(bp.WaypointPlans, p)
	return p
}

// RuleFor returns the engagement rule for a unit, Aggressive when
// none is set.
func (bp *BattlePlan) RuleFor(unit UnitID) EngagementRule {
	if r, ok := bp.Rules[unit]; ok {
		return r
	}
	return Aggressive
}

// GoCodeByName returns the named go-code, or nil.
func (bp *BattlePlan) GoCodeByName(name string) *GoCode {
	for _, gc := range bp.GoCodes {
		if gc.Name == name {
			return gc
		}
	}
	return nil
}
