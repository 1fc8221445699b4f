package battle

import "fmt"

// BattleState is the root aggregate for one battle: the map, both
// armies, and the tick counter. Everything mutates in place; two
// states built from the same inputs and seed march in lockstep.
type BattleState struct {
	Map  *Map
	A, B *Army

	Tick     int
	MaxTicks int
	Seed     uint64

	Log      *Log
	Resolver Resolver

	Outcome Outcome // from side A's point of view
	Over    bool

	// Scenario-authored early-end predicates, per side.
	VictoryA []*VictoryCondition
	VictoryB []*VictoryCondition

	occupied map[Hex]UnitID
}

// Option configures a BattleState at setup.
type Option func(*BattleState)

// WithSeed sets the deterministic draw seed.
func WithSeed(seed uint64) Option {
	return func(bs *BattleState) { bs.Seed = seed }
}

// WithResolver plugs in an external combat resolution engine.
func WithResolver(r Resolver) Option {
	return func(bs *BattleState) { bs.Resolver = r }
}

// WithMaxTicks overrides the tick limit.
func WithMaxTicks(n int) Option {
	return func(bs *BattleState) { bs.MaxTicks = n }
}

// WithVerboseLog records per-tick detail events as well.
func WithVerboseLog() Option {
	return func(bs *BattleState) { bs.Log = NewLog(true) }
}

// WithVictoryConditions attaches compiled early-end predicates for a
// side.
func WithVictoryConditions(side Side, conds ...*VictoryCondition) Option {
	return func(bs *BattleState) {
		if side == SideA {
			bs.VictoryA = append(bs.VictoryA, conds...)
		} else {
			bs.VictoryB = append(bs.VictoryB, conds...)
		}
	}
}

// NewBattle assembles a battle from a map and two armies, applies
// both sides' deployments, and takes the opening visibility snapshot.
func NewBattle(m *Map, a, b *Army, opts ...Option) *BattleState {
	bs := &BattleState{
		Map:      m,
		A:        a,
		B:        b,
		MaxTicks: maxBattleTicks,
		Log:      NewLog(false),
		Resolver: StatisticalResolver{},
		occupied: make(map[Hex]UnitID),
	}
	for _, opt := range opts {
		opt(bs)
	}

	if a.Plan == nil {
		a.Plan = NewBattlePlan()
	}
	if b.Plan == nil {
		b.Plan = NewBattlePlan()
	}
	bs.deploy(a)
	bs.deploy(b)
	RecomputeVisibility(a.Sight, m, a, b)
	RecomputeVisibility(b.Sight, m, b, a)
	bs.Log.Add(0, "battle", "start",
		fmt.Sprintf("%d vs %d", a.TotalStrength(), b.TotalStrength()), 0)
	return bs
}

// deploy applies an army's planned deployments and registers unit
// positions in the occupancy index.
func (bs *BattleState) deploy(army *Army) {
	if army.Plan != nil {
		for _, d := range army.Plan.Deployments {
			u := army.Unit(d.Unit)
			if u == nil {
				continue
			}
			u.Position = d.Pos
			u.Facing = d.Facing
			if d.Stance != Formed {
				u.Stance = d.Stance
			}
			u.Reserve = d.Reserve
		}
	}
	for _, u := range army.Units {
		if !u.Destroyed {
			bs.occupied[u.Position] = u.ID
		}
	}
}

// armies returns both armies in fixed A-then-B order with their
// opponents.
func (bs *BattleState) armies() [2][2]*Army {
	return [2][2]*Army{{bs.A, bs.B}, {bs.B, bs.A}}
}

// side returns the army fighting for the given side.
func (bs *BattleState) side(s Side) *Army {
	if s == SideA {
		return bs.A
	}
	return bs.B
}

// Run steps the battle until it ends or stop returns true. stop is
// checked between ticks, so a stopped battle is always at a tick
// boundary.
func (bs *BattleState) Run(stop func() bool) Outcome {
	for !bs.Over {
		if stop != nil && stop() {
			break
		}
		bs.Step()
	}
	return bs.Outcome
}

// RunToEnd steps the battle until an outcome is reached.
func (bs *BattleState) RunToEnd() Outcome {
	return bs.Run(nil)
}
