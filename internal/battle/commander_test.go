package battle

import (
	"math"
	"testing"
)

func commanderContext(tick int) DecisionContext {
	u := NewUnit(0, SideA, Infantry, 100)
	u.Position = Hex{2, 5}
	return DecisionContext{
		Tick:          tick,
		Side:          SideA,
		OwnUnits:      []*Unit{u},
		StrengthRatio: math.Inf(1),
		OwnHQ:         Hex{0, 5},
		EnemyHQ:       Hex{19, 5},
	}
}

func TestCommanderAdvancesWithNothingVisible(t *testing.T) {
	p := DefaultPersonality()
	p.Difficulty.MistakeChance = 0
	c := NewCommander(0, SideA, p, nil, 7)
	orders := c.Decide(commanderContext(0))
	if len(orders) != 1 {
		t.Fatalf("got %d orders, want 1", len(orders))
	}
	o := orders[0]
	if o.Kind != OrderMoveTo || o.Dest != (Hex{19, 5}) {
		t.Fatalf("order = %v, want move to enemy HQ", o)
	}
}

func TestCommanderReEvaluationInterval(t *testing.T) {
	p := DefaultPersonality()
	p.Prefs.ReEvaluationInterval = 10
	p.Difficulty.MistakeChance = 0
	c := NewCommander(0, SideA, p, nil, 7)

	if orders := c.Decide(commanderContext(0)); len(orders) == 0 {
		t.Fatal("first evaluation emitted nothing")
	}
	for tick := 1; tick < 10; tick++ {
		if orders := c.Decide(commanderContext(tick)); len(orders) != 0 {
			t.Fatalf("re-evaluated at tick %d, inside the interval", tick)
		}
	}
	if orders := c.Decide(commanderContext(10)); len(orders) == 0 {
		t.Fatal("did not re-evaluate once the interval elapsed")
	}
}

func TestCommanderReactionDelay(t *testing.T) {
	p := AggressivePersonality()
	p.Difficulty.ReactionDelay = 5
	p.Difficulty.MistakeChance = 0
	p.Prefs.ReEvaluationInterval = 1
	c := NewCommander(0, SideA, p, nil, 7)

	sighting := EnemySighting{ID: 10, Kind: Infantry, Position: Hex{10, 5}, Strength: 100, Stance: Formed}

	// Until the delay runs out the enemy is not actionable: the
	// commander plans as if the field were empty.
	for tick := 0; tick < 5; tick++ {
		ctx := commanderContext(tick)
		ctx.VisibleEnemy = []EnemySighting{sighting}
		ctx.StrengthRatio = 1.0
		for _, o := range c.Decide(ctx) {
			if o.Kind == OrderAttack {
				t.Fatalf("attacked at tick %d, before the delay ran out", tick)
			}
		}
	}

	ctx := commanderContext(5)
	ctx.VisibleEnemy = []EnemySighting{sighting}
	ctx.StrengthRatio = 1.0
	orders := c.Decide(ctx)
	if len(orders) != 1 || orders[0].Kind != OrderAttack || orders[0].Enemy != 10 {
		t.Fatalf("orders = %v, want an attack on unit 10 once the delay ran out", orders)
	}
}

func TestCommanderReactionDelayPerEnemy(t *testing.T) {
	p := AggressivePersonality()
	p.Difficulty.ReactionDelay = 5
	p.Difficulty.MistakeChance = 0
	p.Prefs.ReEvaluationInterval = 1
	c := NewCommander(0, SideA, p, nil, 7)

	first := EnemySighting{ID: 10, Kind: Infantry, Position: Hex{10, 5}, Strength: 100, Stance: Formed}
	for tick := 0; tick < 8; tick++ {
		ctx := commanderContext(tick)
		ctx.VisibleEnemy = []EnemySighting{first}
		ctx.StrengthRatio = 1.0
		c.Decide(ctx)
	}

	// A second, much weaker enemy appears at tick 8. It would win
	// target scoring outright, but its own delay has to run first.
	second := EnemySighting{ID: 11, Kind: Infantry, Position: Hex{10, 6}, Strength: 10, Stance: Formed}
	ctx := commanderContext(8)
	ctx.VisibleEnemy = []EnemySighting{first, second}
	ctx.StrengthRatio = 1.0
	orders := c.Decide(ctx)
	if len(orders) != 1 || orders[0].Enemy != 10 {
		t.Fatalf("orders = %v, want the attack held on unit 10 while 11 settles", orders)
	}

	ctx = commanderContext(13)
	ctx.VisibleEnemy = []EnemySighting{first, second}
	ctx.StrengthRatio = 1.0
	orders = c.Decide(ctx)
	if len(orders) != 1 || orders[0].Enemy != 11 {
		t.Fatalf("orders = %v, want the attack shifted to unit 11", orders)
	}
}

func TestCommanderRetreatsWhenOutmatched(t *testing.T) {
	p := DefaultPersonality()
	p.Difficulty.MistakeChance = 0
	p.Difficulty.ReactionDelay = 0
	c := NewCommander(0, SideA, p, nil, 7)

	ctx := commanderContext(0)
	ctx.VisibleEnemy = []EnemySighting{{ID: 10, Position: Hex{4, 5}, Strength: 400}}
	ctx.StrengthRatio = 0.25 // below the 0.3 retreat threshold

	orders := c.Decide(ctx)
	if len(orders) != 1 {
		t.Fatalf("got %d orders, want 1", len(orders))
	}
	if orders[0].Kind != OrderRetreat {
		t.Fatalf("order kind = %v, want retreat", orders[0].Kind)
	}
	if len(orders[0].Route) != 1 || orders[0].Route[0] != (Hex{0, 5}) {
		t.Fatalf("retreat route = %v, want own HQ", orders[0].Route)
	}
}

func TestCommanderRetreatsOverCasualtyThreshold(t *testing.T) {
	p := DefaultPersonality()
	p.Difficulty.MistakeChance = 0
	p.Difficulty.ReactionDelay = 0
	c := NewCommander(0, SideA, p, nil, 7)

	ctx := commanderContext(0)
	ctx.VisibleEnemy = []EnemySighting{{ID: 10, Position: Hex{4, 5}, Strength: 50}}
	ctx.StrengthRatio = 2.0
	ctx.CasualtyFrac = 0.6 // over the 0.5 casualty threshold

	orders := c.Decide(ctx)
	if len(orders) != 1 || orders[0].Kind != OrderRetreat {
		t.Fatalf("orders = %v, want a single retreat", orders)
	}
}

func TestCommanderAggressionPicksAttack(t *testing.T) {
	ctx := commanderContext(0)
	ctx.VisibleEnemy = []EnemySighting{{ID: 10, Position: Hex{8, 5}, Strength: 60}}
	ctx.StrengthRatio = 1.5

	agg := AggressivePersonality()
	agg.Difficulty.MistakeChance = 0
	agg.Difficulty.ReactionDelay = 0
	orders := NewCommander(0, SideA, agg, nil, 7).Decide(ctx)
	if len(orders) != 1 || orders[0].Kind != OrderAttack {
		t.Fatalf("aggressive orders = %v, want a single attack", orders)
	}
	if orders[0].Enemy != 10 {
		t.Fatalf("attack target = %d, want 10", orders[0].Enemy)
	}

	caut := CautiousPersonality()
	caut.Difficulty.MistakeChance = 0
	caut.Difficulty.ReactionDelay = 0
	orders = NewCommander(0, SideA, caut, nil, 7).Decide(ctx)
	if len(orders) != 1 || orders[0].Kind != OrderMoveTo {
		t.Fatalf("cautious orders = %v, want a single advance", orders)
	}
	if orders[0].Dest == ctx.VisibleEnemy[0].Position {
		t.Fatal("cautious advance moved all the way onto the enemy")
	}
}

func TestCommanderPrefersWeakAndRoutingTargets(t *testing.T) {
	p := AggressivePersonality()
	p.Difficulty.MistakeChance = 0
	p.Difficulty.ReactionDelay = 0
	c := NewCommander(0, SideA, p, nil, 7)

	ctx := commanderContext(0)
	ctx.StrengthRatio = 1.0
	ctx.VisibleEnemy = []EnemySighting{
		{ID: 10, Position: Hex{8, 5}, Strength: 100, Stance: Formed},
		{ID: 11, Position: Hex{8, 6}, Strength: 100, Stance: Routing},
	}
	orders := c.Decide(ctx)
	if len(orders) != 1 || orders[0].Enemy != 11 {
		t.Fatalf("orders = %v, want attack on the routing unit", orders)
	}
}

func TestCommanderReleasesReserves(t *testing.T) {
	p := DefaultPersonality()
	p.Difficulty.MistakeChance = 0
	p.Difficulty.ReactionDelay = 0
	phases := NewPhasePlanManager([]*PhasePlan{
		{Name: "commit", ReserveCommitment: 0.5, Transition: PhaseTransition{Kind: TransitionNever}},
	})
	c := NewCommander(0, SideA, p, phases, 7)

	ctx := commanderContext(0)
	line := ctx.OwnUnits[0]
	for i := 1; i <= 4; i++ {
		u := NewUnit(UnitID(i), SideA, Infantry, 100)
		u.Position = Hex{1, 4 + i}
		u.Reserve = true
		ctx.OwnUnits = append(ctx.OwnUnits, u)
	}

	orders := c.Decide(ctx)
	// One advance for the line unit plus floor(4 * 0.5) reserve releases.
	if len(orders) != 3 {
		t.Fatalf("got %d orders, want 3", len(orders))
	}
	if orders[0].Target != line.ID {
		t.Fatalf("first order targets %d, want the line unit", orders[0].Target)
	}
	if orders[1].Target != 1 || orders[2].Target != 2 {
		t.Fatalf("reserve release order targets = %d, %d; want 1, 2", orders[1].Target, orders[2].Target)
	}
}

func TestCommanderMistakesDropEverything(t *testing.T) {
	p := DefaultPersonality()
	p.Difficulty.MistakeChance = 1.0
	p.Difficulty.ReactionDelay = 0
	c := NewCommander(0, SideA, p, nil, 7)

	if orders := c.Decide(commanderContext(0)); len(orders) != 0 {
		t.Fatalf("certain-mistake commander still emitted %d orders", len(orders))
	}
}

func TestBuildDecisionContextFog(t *testing.T) {
	m := NewMap(40, 10)
	own := NewArmy(SideA)
	own.HQ = Hex{0, 5}
	u := NewUnit(0, SideA, Infantry, 100)
	u.Position = Hex{2, 5}
	own.AddUnit(u)

	enemy := NewArmy(SideB)
	enemy.HQ = Hex{39, 5}
	e := NewUnit(1, SideB, Infantry, 100)
	e.Position = Hex{30, 5} // far outside vision range
	enemy.AddUnit(e)

	RecomputeVisibility(own.Sight, m, own, enemy)

	ctx := buildDecisionContext(0, own, enemy, m, Difficulty{})
	if len(ctx.VisibleEnemy) != 0 {
		t.Fatalf("fogged context sees %d enemies, want 0", len(ctx.VisibleEnemy))
	}
	if !math.IsInf(ctx.StrengthRatio, 1) {
		t.Fatalf("fogged strength ratio = %v, want +Inf", ctx.StrengthRatio)
	}

	omniscient := buildDecisionContext(0, own, enemy, m, Difficulty{IgnoresFogOfWar: true})
	if len(omniscient.VisibleEnemy) != 1 {
		t.Fatalf("omniscient context sees %d enemies, want 1", len(omniscient.VisibleEnemy))
	}
	if omniscient.StrengthRatio != 1.0 {
		t.Fatalf("omniscient strength ratio = %v, want 1.0", omniscient.StrengthRatio)
	}
}

func TestDecisionContextHelpers(t *testing.T) {
	ctx := DecisionContext{
		VisibleEnemy: []EnemySighting{
			{ID: 1, Position: Hex{10, 0}, Strength: 80},
			{ID: 2, Position: Hex{3, 0}, Strength: 120},
		},
	}
	if w, ok := ctx.WeakestEnemy(); !ok || w.ID != 1 {
		t.Fatalf("WeakestEnemy = %v, %v; want unit 1", w, ok)
	}
	if c, ok := ctx.ClosestEnemy(Hex{0, 0}); !ok || c.ID != 2 {
		t.Fatalf("ClosestEnemy = %v, %v; want unit 2", c, ok)
	}
	empty := DecisionContext{}
	if _, ok := empty.WeakestEnemy(); ok {
		t.Fatal("WeakestEnemy found something in an empty context")
	}
}
