package battle

// TestBattle is a headless battle harness used exclusively by tests.
// It assembles a map and two armies from options applied in ordered
// passes, then exposes the running BattleState and its event log.
type TestBattle struct {
	Map   *Map
	A, B  *Army
	State *BattleState

	nextID    UnitID
	stateOpts []Option
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // map, seed, resolver: applied first
	simOptUnit                       // add units: applied once the map exists
	simOptPlan                       // rules, go-codes, commanders: applied last
)

// SimOption is a builder function applied to a TestBattle during
// construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestBattle)
}

// WithGrid sets the map dimensions.
func WithGrid(width, height int) SimOption {
	return SimOption{simOptInfra, func(tb *TestBattle) {
		tb.Map = NewMap(width, height)
	}}
}

// WithTerrain paints one hex.
func WithTerrain(q, r int, t Terrain) SimOption {
	return SimOption{simOptInfra, func(tb *TestBattle) {
		tb.Map.SetTerrain(Hex{q, r}, t)
	}}
}

// WithFeature adds a terrain feature to one hex.
func WithFeature(q, r int, f Feature) SimOption {
	return SimOption{simOptInfra, func(tb *TestBattle) {
		tb.Map.AddFeature(Hex{q, r}, f)
	}}
}

// WithElevation raises one hex.
func WithElevation(q, r, level int) SimOption {
	return SimOption{simOptInfra, func(tb *TestBattle) {
		tb.Map.SetElevation(Hex{q, r}, level)
	}}
}

// WithBattleSeed sets the deterministic draw seed.
func WithBattleSeed(seed uint64) SimOption {
	return SimOption{simOptInfra, func(tb *TestBattle) {
		tb.stateOpts = append(tb.stateOpts, WithSeed(seed))
	}}
}

// WithTestResolver plugs in a resolver.
func WithTestResolver(r Resolver) SimOption {
	return SimOption{simOptInfra, func(tb *TestBattle) {
		tb.stateOpts = append(tb.stateOpts, WithResolver(r))
	}}
}

// WithTickLimit caps the battle length.
func WithTickLimit(n int) SimOption {
	return SimOption{simOptInfra, func(tb *TestBattle) {
		tb.stateOpts = append(tb.stateOpts, WithMaxTicks(n))
	}}
}

// WithHQ places a side's headquarters.
func WithHQ(side Side, q, r int) SimOption {
	return SimOption{simOptInfra, func(tb *TestBattle) {
		tb.army(side).HQ = Hex{q, r}
	}}
}

// WithUnit adds a unit at (q, r). IDs are assigned sequentially in
// declaration order starting at 0.
func WithUnit(side Side, kind UnitKind, strength, q, r int) SimOption {
	return SimOption{simOptUnit, func(tb *TestBattle) {
		tb.addUnit(side, kind, strength, Hex{q, r}, nil, Quick)
	}}
}

// WithAdvancingUnit adds a unit marching from (q, r) toward (tq, tr).
func WithAdvancingUnit(side Side, kind UnitKind, strength, q, r, tq, tr int) SimOption {
	return SimOption{simOptUnit, func(tb *TestBattle) {
		dest := Hex{tq, tr}
		tb.addUnit(side, kind, strength, Hex{q, r}, &dest, Quick)
	}}
}

// WithChargingUnit adds a unit charging from (q, r) toward (tq, tr).
func WithChargingUnit(side Side, kind UnitKind, strength, q, r, tq, tr int) SimOption {
	return SimOption{simOptUnit, func(tb *TestBattle) {
		dest := Hex{tq, tr}
		tb.addUnit(side, kind, strength, Hex{q, r}, &dest, Charge)
	}}
}

// WithRule sets a unit's engagement rule.
func WithRule(side Side, unit UnitID, rule EngagementRule) SimOption {
	return SimOption{simOptPlan, func(tb *TestBattle) {
		tb.army(side).Plan.Rules[unit] = rule
	}}
}

// WithGoCode attaches a go-code to a side's plan.
func WithGoCode(side Side, gc *GoCode) SimOption {
	return SimOption{simOptPlan, func(tb *TestBattle) {
		a := tb.army(side)
		a.Plan.GoCodes = append(a.Plan.GoCodes, gc)
	}}
}

// WithContingency attaches a contingency to a side's plan.
func WithContingency(side Side, c *Contingency) SimOption {
	return SimOption{simOptPlan, func(tb *TestBattle) {
		a := tb.army(side)
		a.Plan.Contingencies = append(a.Plan.Contingencies, c)
	}}
}

// WithAI gives a side a personality-driven commander.
func WithAI(side Side, p Personality, phases *PhasePlanManager) SimOption {
	return SimOption{simOptPlan, func(tb *TestBattle) {
		a := tb.army(side)
		a.Commander = NewCommander(int(side), side, p, phases, tb.State.Seed)
	}}
}

// NewTestBattle builds a battle from options. Infrastructure options
// apply first, then units, then plan-level options; the finished
// BattleState is available as State.
func NewTestBattle(opts ...SimOption) *TestBattle {
	tb := &TestBattle{
		Map: NewMap(20, 20),
		A:   NewArmy(SideA),
		B:   NewArmy(SideB),
	}
	tb.A.Plan = NewBattlePlan()
	tb.B.Plan = NewBattlePlan()

	for _, pass := range []simOptionKind{simOptInfra, simOptUnit} {
		for _, opt := range opts {
			if opt.kind == pass {
				opt.fn(tb)
			}
		}
	}
	tb.State = NewBattle(tb.Map, tb.A, tb.B, tb.stateOpts...)
	for _, opt := range opts {
		if opt.kind == simOptPlan {
			opt.fn(tb)
		}
	}
	return tb
}

func (tb *TestBattle) army(side Side) *Army {
	if side == SideA {
		return tb.A
	}
	return tb.B
}

func (tb *TestBattle) addUnit(side Side, kind UnitKind, strength int, at Hex, dest *Hex, pace Pace) {
	a := tb.army(side)
	u := NewUnit(tb.nextID, side, kind, strength)
	tb.nextID++
	u.Position = at
	a.AddUnit(u)
	a.Plan.Deployments = append(a.Plan.Deployments, Deployment{
		Unit: u.ID, Pos: at, Facing: East, Stance: Formed,
	})
	if dest != nil {
		a.Plan.PlanFor(u.ID).Add(Waypoint{Position: *dest, Behavior: MoveTo, Pace: pace})
		u.Stance = Moving
	}
}

// RunTicks steps the battle n ticks or until it ends.
func (tb *TestBattle) RunTicks(n int) {
	for i := 0; i < n && !tb.State.Over; i++ {
		tb.State.Step()
	}
}

// Unit finds a unit by ID on either side.
func (tb *TestBattle) Unit(id UnitID) *Unit {
	if u := tb.A.Unit(id); u != nil {
		return u
	}
	return tb.B.Unit(id)
}

// Log returns the battle's event log.
func (tb *TestBattle) Log() *Log {
	return tb.State.Log
}
