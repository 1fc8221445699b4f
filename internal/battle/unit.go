package battle

import "sort"

// UnitID identifies a unit within one battle. IDs are small ints
// assigned in deployment order so iteration and tie-breaks are stable
// across runs.
type UnitID int

// Side is one of the two opposing armies.
type Side int

const (
	SideA Side = iota
	SideB
)

func (s Side) String() string {
	if s == SideA {
		return "a"
	}
	return "b"
}

// Enemy returns the opposing side.
func (s Side) Enemy() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// UnitKind is the troop class of a unit.
type UnitKind int

const (
	Levy UnitKind = iota
	Infantry
	HeavyInfantry
	Spearmen
	LightCavalry
	Cavalry
	HeavyCavalry
	Scouts
	Command
)

func (k UnitKind) String() string {
	switch k {
	case Levy:
		return "levy"
	case Infantry:
		return "infantry"
	case HeavyInfantry:
		return "heavy_infantry"
	case Spearmen:
		return "spearmen"
	case LightCavalry:
		return "light_cavalry"
	case Cavalry:
		return "cavalry"
	case HeavyCavalry:
		return "heavy_cavalry"
	case Scouts:
		return "scouts"
	case Command:
		return "command"
	default:
		return "unknown"
	}
}

// Mounted reports whether the kind rides.
func (k UnitKind) Mounted() bool {
	switch k {
	case LightCavalry, Cavalry, HeavyCavalry, Command:
		return true
	default:
		return false
	}
}

// Speed returns the kind's movement speed relative to the infantry
// baseline.
func (k UnitKind) Speed() float64 {
	switch k {
	case HeavyInfantry:
		return 0.7
	case Spearmen:
		return 0.9
	case LightCavalry:
		return 2.0
	case Cavalry:
		return 1.8
	case HeavyCavalry:
		return 1.5
	case Scouts:
		return 1.5
	case Command:
		return 1.5
	default:
		return 1.0
	}
}

// StressThreshold returns the kind's base breaking point.
func (k UnitKind) StressThreshold() float64 {
	switch k {
	case Levy:
		return 0.6
	case HeavyInfantry:
		return 1.2
	case LightCavalry:
		return 0.8
	case HeavyCavalry:
		return 1.3
	case Scouts:
		return 0.7
	case Command:
		return 1.2
	default:
		return 1.0
	}
}

// CanCharge reports whether the kind gets a charge bonus.
func (k UnitKind) CanCharge() bool {
	switch k {
	case LightCavalry, Cavalry, HeavyCavalry:
		return true
	default:
		return false
	}
}

// Stance is a unit's current combat posture.
type Stance int

const (
	Formed Stance = iota
	Moving
	Engaged
	ShakenStance
	Routing
	RallyingStance
	Patrol
	Alert
)

func (s Stance) String() string {
	switch s {
	case Formed:
		return "formed"
	case Moving:
		return "moving"
	case Engaged:
		return "engaged"
	case ShakenStance:
		return "shaken"
	case Routing:
		return "routing"
	case RallyingStance:
		return "rallying"
	case Patrol:
		return "patrol"
	case Alert:
		return "alert"
	default:
		return "unknown"
	}
}

// Unit is one fighting body on the field. Mutated every tick by the
// movement, combat, and morale phases.
type Unit struct {
	ID   UnitID
	Name string
	Side Side
	Kind UnitKind

	Position Hex
	Facing   Direction

	Strength   int // combatants at deployment
	Casualties int

	Stance    Stance
	Formation FormationKind
	Ordinal   int  // stable slot index within its army
	Reserve   bool // withheld until the phase plan commits it

	Cohesion float64 // 0 scattered .. 1 tight
	Fatigue  float64 // 0 fresh .. 1 exhausted
	Stress   float64 // accumulated, clamped to [0, 2]

	RallyingSince int // tick the unit began rallying, -1 when not
	BrokenAt      int // tick the unit broke, -1 when never

	Order *Order // current delivered order, nil when idle
	Path  []Hex  // remaining hexes toward the active waypoint

	moveCredit float64 // accumulated movement allowance

	Destroyed bool
}

// NewUnit builds a unit at full strength in Formed stance.
func NewUnit(id UnitID, side Side, kind UnitKind, strength int) *Unit {
	return &Unit{
		ID:            id,
		Side:          side,
		Kind:          kind,
		Strength:      strength,
		Stance:        Formed,
		Formation:     FormationLine,
		Cohesion:      1.0,
		RallyingSince: -1,
		BrokenAt:      -1,
	}
}

// EffectiveStrength returns combatants still standing.
func (u *Unit) EffectiveStrength() int {
	s := u.Strength - u.Casualties
	if s < 0 {
		return 0
	}
	return s
}

// Broken reports whether the unit is routing.
func (u *Unit) Broken() bool {
	return u.Stance == Routing
}

// CanFight reports whether the unit may take part in an engagement.
func (u *Unit) CanFight() bool {
	if u.Destroyed || u.Stance == Routing || u.Stance == RallyingStance {
		return false
	}
	return u.EffectiveStrength() > 0
}

// StressThreshold returns the stress level at which this unit breaks,
// adjusted for cohesion and fatigue.
func (u *Unit) StressThreshold() float64 {
	t := u.Kind.StressThreshold()
	if u.Cohesion > 0.8 {
		t += 0.1
	}
	t -= u.Fatigue * 0.2
	if t < 0.3 {
		t = 0.3
	}
	return t
}

// AddStress raises the unit's stress, clamped to [0, 2].
func (u *Unit) AddStress(d float64) {
	u.Stress += d
	if u.Stress > 2 {
		u.Stress = 2
	}
	if u.Stress < 0 {
		u.Stress = 0
	}
}

// Army is one side's ordered collection of units plus its fog-of-war
// snapshot and commander.
type Army struct {
	Side      Side
	Units     []*Unit // ascending ID order
	HQ        Hex
	Couriers  *CourierSystem
	Sight     *ArmyVisibility
	Commander *Commander
	Plan      *BattlePlan
}

// NewArmy builds an empty army with its own courier system and an
// empty visibility snapshot.
func NewArmy(side Side) *Army {
	return &Army{
		Side:     side,
		Couriers: NewCourierSystem(),
		Sight:    NewArmyVisibility(),
	}
}

// AddUnit appends a unit, keeping ascending ID order and assigning the
// next ordinal.
func (a *Army) AddUnit(u *Unit) {
	u.Side = a.Side
	u.Ordinal = len(a.Units)
	a.Units = append(a.Units, u)
	sort.Slice(a.Units, func(i, j int) bool { return a.Units[i].ID < a.Units[j].ID })
}

// Unit returns the unit with the given ID, or nil.
func (a *Army) Unit(id UnitID) *Unit {
	for _, u := range a.Units {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// TotalStrength returns the army's deployed combatant count.
func (a *Army) TotalStrength() int {
	total := 0
	for _, u := range a.Units {
		total += u.Strength
	}
	return total
}

// EffectiveStrength returns combatants still standing across the army.
func (a *Army) EffectiveStrength() int {
	total := 0
	for _, u := range a.Units {
		if !u.Destroyed {
			total += u.EffectiveStrength()
		}
	}
	return total
}

// Casualties returns the army's cumulative losses.
func (a *Army) Casualties() int {
	total := 0
	for _, u := range a.Units {
		total += u.Casualties
	}
	return total
}

// RoutingFraction returns the fraction of surviving units currently
// broken.
func (a *Army) RoutingFraction() float64 {
	alive, routing := 0, 0
	for _, u := range a.Units {
		if u.Destroyed {
			continue
		}
		alive++
		if u.Broken() {
			routing++
		}
	}
	if alive == 0 {
		return 0
	}
	return float64(routing) / float64(alive)
}

// FightingUnits returns the count of units still able to fight or
// recover (anything not destroyed and not routing).
func (a *Army) FightingUnits() int {
	n := 0
	for _, u := range a.Units {
		if !u.Destroyed && !u.Broken() {
			n++
		}
	}
	return n
}
