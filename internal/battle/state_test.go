package battle

import (
	"reflect"
	"testing"
)

func meetingEngagement(seed uint64) *TestBattle {
	return NewTestBattle(
		WithGrid(30, 12),
		WithBattleSeed(seed),
		WithTickLimit(400),
		WithHQ(SideA, 0, 6),
		WithHQ(SideB, 29, 6),
		WithUnit(SideA, Infantry, 100, 5, 5),
		WithUnit(SideA, Infantry, 100, 5, 7),
		WithUnit(SideA, LightCavalry, 60, 4, 6),
		WithUnit(SideB, Infantry, 100, 24, 5),
		WithUnit(SideB, Infantry, 100, 24, 7),
		WithUnit(SideB, HeavyCavalry, 60, 25, 6),
		WithAI(SideA, DefaultPersonality(), nil),
		WithAI(SideB, AggressivePersonality(), nil),
	)
}

func TestBattleDeterministic(t *testing.T) {
	first := meetingEngagement(99)
	first.RunTicks(150)
	second := meetingEngagement(99)
	second.RunTicks(150)

	if !reflect.DeepEqual(first.Log().Records(), second.Log().Records()) {
		t.Fatal("identical seeds diverged")
	}
	if first.State.Tick != second.State.Tick || first.State.Outcome != second.State.Outcome {
		t.Fatalf("end state diverged: tick %d/%d outcome %v/%v",
			first.State.Tick, second.State.Tick, first.State.Outcome, second.State.Outcome)
	}

	third := meetingEngagement(100)
	third.RunTicks(150)
	if reflect.DeepEqual(first.Log().Records(), third.Log().Records()) {
		t.Fatal("different seeds produced identical logs")
	}
}

func TestAdjacentUnitsEngageImmediately(t *testing.T) {
	tb := NewTestBattle(
		WithUnit(SideA, Infantry, 100, 5, 5),
		WithUnit(SideB, Infantry, 100, 6, 5),
	)
	tb.RunTicks(1)

	if !tb.Log().Has("engage", "contact") {
		t.Fatal("adjacent hostiles never made contact")
	}
	if tb.Log().Count("combat", "casualties") == 0 {
		t.Fatal("contact produced no combat")
	}
	if tb.Unit(0).Stance != Engaged || tb.Unit(1).Stance != Engaged {
		t.Fatalf("stances = %v, %v; want both engaged", tb.Unit(0).Stance, tb.Unit(1).Stance)
	}
}

func TestEngagementRevertsWhenResolved(t *testing.T) {
	tb := NewTestBattle(
		WithUnit(SideA, Infantry, 200, 5, 5),
		WithUnit(SideB, Infantry, 1, 6, 5),
	)
	tb.RunTicks(5)

	weak := tb.Unit(1)
	if !weak.Destroyed {
		t.Fatal("one-man unit survived five ticks against a full battalion")
	}
	if !tb.Log().Has("combat", "destroyed") {
		t.Fatal("destruction was not logged")
	}
	survivor := tb.Unit(0)
	if survivor.Stance == Engaged {
		t.Fatal("survivor still engaged with its opponent gone")
	}
	if survivor.EffectiveStrength() < 0 || weak.EffectiveStrength() < 0 {
		t.Fatal("effective strength went negative")
	}
}

func TestBrokenUnitDecaysStressAndRallies(t *testing.T) {
	tb := NewTestBattle(
		WithGrid(40, 10),
		WithUnit(SideA, Command, 20, 2, 1),
		WithUnit(SideA, Infantry, 100, 2, 5),
		WithUnit(SideA, Infantry, 100, 5, 1),
		WithUnit(SideB, Infantry, 100, 39, 5),
	)
	broken := tb.Unit(1)
	broken.Stance = Routing
	broken.Stress = 1.10
	broken.BrokenAt = 0

	tb.RunTicks(120)

	if !tb.Log().Has("morale", "rally_start") {
		t.Fatal("broken unit never started rallying")
	}
	if !tb.Log().Has("morale", "rallied") {
		t.Fatal("rallying unit never reformed")
	}
	if broken.Stance == Routing || broken.Stance == RallyingStance {
		t.Fatalf("stance = %s, want the unit back in line", broken.Stance)
	}
}

func TestHoldFireUnitsDoNotFight(t *testing.T) {
	tb := NewTestBattle(
		WithUnit(SideA, Infantry, 100, 5, 5),
		WithUnit(SideB, Infantry, 100, 6, 5),
		WithRule(SideA, 0, HoldFire),
		WithRule(SideB, 1, HoldFire),
	)
	tb.RunTicks(10)

	if tb.Log().Has("engage", "contact") {
		t.Fatal("hold-fire units opened an engagement")
	}
	if tb.Unit(0).Casualties != 0 || tb.Unit(1).Casualties != 0 {
		t.Fatal("hold-fire units took casualties")
	}
}

func TestGoCodeCasualtyThresholdFiresOnceInBattle(t *testing.T) {
	tb := NewTestBattle(
		WithHQ(SideA, 0, 5),
		WithUnit(SideA, Infantry, 100, 2, 5),
		WithUnit(SideB, Infantry, 100, 15, 5),
		WithGoCode(SideA, &GoCode{
			Name:    "fall-back",
			Trigger: Trigger{Kind: TriggerCasualtyThreshold, Fraction: 0.4},
			Orders:  []Order{RetreatOrder(0, []Hex{{0, 5}})},
		}),
		WithRule(SideA, 0, HoldFire),
		WithRule(SideB, 1, HoldFire),
	)

	tb.Unit(0).Casualties = 50
	tb.RunTicks(10)

	if got := tb.Log().Count("gocode", "fired"); got != 1 {
		t.Fatalf("go-code fired %d times, want 1", got)
	}
	rec, ok := tb.Log().LastOf("gocode", "fired")
	if !ok || rec.Value != "fall-back" {
		t.Fatalf("fired record = %+v, want fall-back", rec)
	}

	// The order travels by courier from HQ (0,5) to the unit at (2,5):
	// two hexes at 0.40 hexes per tick is a five tick ride.
	dispatched := tb.Log().Filter("courier", "dispatched")
	if len(dispatched) != 1 {
		t.Fatalf("%d couriers dispatched, want 1", len(dispatched))
	}
	if want := float64(dispatched[0].Tick + 5); dispatched[0].Num != want {
		t.Fatalf("courier arrival = %v, want %v", dispatched[0].Num, want)
	}
	if !tb.Log().Has("courier", "delivered") {
		t.Fatal("go-code order never delivered")
	}
}

func TestContingencyRetreatOnCasualties(t *testing.T) {
	tb := NewTestBattle(
		WithHQ(SideA, 0, 5),
		WithUnit(SideA, Infantry, 100, 4, 5),
		WithUnit(SideA, Infantry, 100, 4, 7),
		WithUnit(SideB, Infantry, 100, 15, 5),
		WithContingency(SideA, &Contingency{
			Kind:     ContingencyCasualtiesExceed,
			Fraction: 0.3,
			Response: ResponseRetreat,
		}),
	)

	tb.Unit(0).Casualties = 80
	tb.RunTicks(1)

	if got := tb.Log().Count("gocode", "contingency"); got != 1 {
		t.Fatalf("contingency fired %d times, want 1", got)
	}
	dispatched := tb.Log().Filter("courier", "dispatched")
	if len(dispatched) != 2 {
		t.Fatalf("%d retreat couriers dispatched, want one per unit", len(dispatched))
	}

	tb.RunTicks(1)
	if got := tb.Log().Count("gocode", "contingency"); got != 1 {
		t.Fatal("contingency re-fired")
	}
}

func TestOrderToDestroyedUnitLogged(t *testing.T) {
	tb := NewTestBattle(
		WithHQ(SideA, 0, 5),
		WithUnit(SideA, Infantry, 100, 2, 5),
		WithUnit(SideB, Infantry, 100, 17, 5),
		WithGoCode(SideA, &GoCode{
			Name:    "ghost-advance",
			Trigger: Trigger{Kind: TriggerAtTick, Tick: 1},
			Orders:  []Order{MoveOrder(0, Hex{10, 5})},
		}),
	)
	tb.Unit(0).Destroyed = true
	tb.RunTicks(1)

	if !tb.Log().Has("internal", "order_dropped") {
		t.Fatal("order to a destroyed unit dropped silently")
	}
	if tb.Log().Has("courier", "dispatched") {
		t.Fatal("courier dispatched to a destroyed unit")
	}
}

func TestBattleReachesOutcomeAtTickLimit(t *testing.T) {
	tb := NewTestBattle(
		WithGrid(20, 10),
		WithTickLimit(50),
		WithHQ(SideA, 0, 5),
		WithHQ(SideB, 19, 5),
		WithUnit(SideA, Infantry, 100, 2, 5),
		WithUnit(SideB, Infantry, 100, 17, 5),
	)
	tb.RunTicks(100)

	if !tb.State.Over {
		t.Fatal("battle did not end at its tick limit")
	}
	if tb.State.Tick > 51 {
		t.Fatalf("battle ran to tick %d past its limit", tb.State.Tick)
	}
	if tb.State.Outcome != Draw {
		t.Fatalf("idle standoff outcome = %v, want draw", tb.State.Outcome)
	}
	if !tb.Log().Has("battle", "end") {
		t.Fatal("battle end was not logged")
	}
}

func TestVictoryConditionEndsBattle(t *testing.T) {
	vc, err := CompileVictoryCondition("timeout", "tick >= 10", PyrrhicVictory)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	tb := NewTestBattle(
		WithUnit(SideA, Infantry, 100, 2, 5),
		WithUnit(SideB, Infantry, 100, 17, 5),
	)
	tb.State.VictoryA = append(tb.State.VictoryA, vc)
	tb.RunTicks(100)

	if !tb.State.Over {
		t.Fatal("victory condition did not end the battle")
	}
	if tb.State.Outcome != PyrrhicVictory {
		t.Fatalf("outcome = %v, want pyrrhic victory", tb.State.Outcome)
	}
	if tb.State.Tick > 11 {
		t.Fatalf("battle ran to tick %d past its condition", tb.State.Tick)
	}
}

func TestEnemyVictoryConditionInverts(t *testing.T) {
	vc, err := CompileVictoryCondition("held-out", "tick >= 10", PyrrhicVictory)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	tb := NewTestBattle(
		WithUnit(SideA, Infantry, 100, 2, 5),
		WithUnit(SideB, Infantry, 100, 17, 5),
	)
	tb.State.VictoryB = append(tb.State.VictoryB, vc)
	tb.RunTicks(100)

	if !tb.State.Over {
		t.Fatal("enemy victory condition did not end the battle")
	}
	// A pyrrhic win for side B is still a loss for side A.
	if tb.State.Outcome != Defeat {
		t.Fatalf("outcome = %v, want defeat", tb.State.Outcome)
	}
}

func TestMistakeProneCommanderDispatchesNothing(t *testing.T) {
	p := DefaultPersonality()
	p.Difficulty.MistakeChance = 1.0
	tb := NewTestBattle(
		WithUnit(SideA, Infantry, 100, 2, 5),
		WithAI(SideA, p, nil),
	)
	tb.RunTicks(30)

	if got := tb.Log().Count("courier", "dispatched"); got != 0 {
		t.Fatalf("certain-mistake commander dispatched %d couriers", got)
	}
}

func TestAIBattleRunsToEnd(t *testing.T) {
	tb := meetingEngagement(7)
	tb.State.RunToEnd()

	if !tb.State.Over {
		t.Fatal("RunToEnd returned with the battle still open")
	}
	if tb.State.Outcome == Undecided {
		t.Fatal("finished battle has no outcome")
	}
	for _, army := range []*Army{tb.A, tb.B} {
		for _, u := range army.Units {
			if u.EffectiveStrength() < 0 {
				t.Fatalf("unit %d strength went negative", u.ID)
			}
		}
	}
	if !tb.Log().Has("courier", "dispatched") {
		t.Fatal("no commander orders were ever dispatched")
	}
}
