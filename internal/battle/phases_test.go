package battle

import "testing"

func TestPhaseTransitionTriggers(t *testing.T) {
	cases := []struct {
		name       string
		tr         PhaseTransition
		ticks      int
		ratio      float64
		casualties float64
		want       bool
	}{
		{"never", PhaseTransition{Kind: TransitionNever}, 1000, 0.1, 0.9, false},
		{"time not elapsed", PhaseTransition{Kind: TransitionTimeElapsed, Ticks: 100}, 99, 1, 0, false},
		{"time elapsed", PhaseTransition{Kind: TransitionTimeElapsed, Ticks: 100}, 100, 1, 0, true},
		{"ratio above", PhaseTransition{Kind: TransitionStrengthRatioBelow, Ratio: 0.8}, 0, 0.9, 0, false},
		{"ratio below", PhaseTransition{Kind: TransitionStrengthRatioBelow, Ratio: 0.8}, 0, 0.7, 0, true},
		{"casualties under", PhaseTransition{Kind: TransitionCasualtiesExceed, Fraction: 0.3}, 0, 1, 0.3, false},
		{"casualties over", PhaseTransition{Kind: TransitionCasualtiesExceed, Fraction: 0.3}, 0, 1, 0.31, true},
	}
	for _, tc := range cases {
		got := tc.tr.Triggered(tc.ticks, tc.ratio, tc.casualties)
		if got != tc.want {
			t.Errorf("%s: Triggered = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestPhaseTransitionManual(t *testing.T) {
	tr := &PhaseTransition{Kind: TransitionManual}
	if tr.Triggered(500, 0.1, 0.9) {
		t.Fatal("manual transition triggered unsignaled")
	}
	tr.SignalManual()
	if !tr.Triggered(0, 1, 0) {
		t.Fatal("signaled manual transition did not trigger")
	}
}

func TestPhasePlanManagerAdvances(t *testing.T) {
	pm := NewPhasePlanManager([]*PhasePlan{
		{Name: "skirmish", Transition: PhaseTransition{Kind: TransitionTimeElapsed, Ticks: 10}},
		{Name: "assault", Transition: PhaseTransition{Kind: TransitionCasualtiesExceed, Fraction: 0.5}},
		{Name: "consolidate", Transition: PhaseTransition{Kind: TransitionNever}},
	})
	if pm.Current().Name != "skirmish" {
		t.Fatalf("opening phase = %q, want skirmish", pm.Current().Name)
	}
	if name := pm.Update(5, 1, 0); name != "" {
		t.Fatalf("advanced early to %q", name)
	}
	if name := pm.Update(10, 1, 0); name != "assault" {
		t.Fatalf("advance returned %q, want assault", name)
	}
	if pm.CurrentIndex() != 1 {
		t.Fatalf("CurrentIndex = %d, want 1", pm.CurrentIndex())
	}
	// The elapsed-time counter restarts with the new phase.
	if name := pm.Update(11, 1, 0.2); name != "" {
		t.Fatalf("advanced out of assault early, to %q", name)
	}
	if name := pm.Update(12, 1, 0.6); name != "consolidate" {
		t.Fatalf("advance returned %q, want consolidate", name)
	}
}

func TestPhasePlanManagerOneAdvancePerUpdate(t *testing.T) {
	pm := NewPhasePlanManager([]*PhasePlan{
		{Name: "first", Transition: PhaseTransition{Kind: TransitionTimeElapsed, Ticks: 0}},
		{Name: "second", Transition: PhaseTransition{Kind: TransitionTimeElapsed, Ticks: 0}},
		{Name: "third", Transition: PhaseTransition{Kind: TransitionNever}},
	})
	if name := pm.Update(0, 1, 0); name != "second" {
		t.Fatalf("first update advanced to %q, want second", name)
	}
	if name := pm.Update(0, 1, 0); name != "third" {
		t.Fatalf("second update advanced to %q, want third", name)
	}
}

func TestPhasePlanManagerStaysOnFinal(t *testing.T) {
	pm := NewPhasePlanManager([]*PhasePlan{
		{Name: "only", Transition: PhaseTransition{Kind: TransitionTimeElapsed, Ticks: 1}},
	})
	for tick := 0; tick < 20; tick++ {
		if name := pm.Update(tick, 1, 0); name != "" {
			t.Fatalf("final phase advanced at tick %d", tick)
		}
	}
	if pm.Current().Name != "only" {
		t.Fatalf("left the final phase: %q", pm.Current().Name)
	}
}

func TestPhasePlanManagerNilSafe(t *testing.T) {
	var pm *PhasePlanManager
	if pm.Current() != nil {
		t.Fatal("nil manager returned a phase")
	}
	if name := pm.Update(0, 1, 0); name != "" {
		t.Fatalf("nil manager advanced to %q", name)
	}
}

func TestPhaseTransitionLogged(t *testing.T) {
	phases := NewPhasePlanManager([]*PhasePlan{
		{Name: "approach", Transition: PhaseTransition{Kind: TransitionTimeElapsed, Ticks: 3}},
		{Name: "assault", Transition: PhaseTransition{Kind: TransitionNever}},
	})
	p := DefaultPersonality()
	p.Difficulty.MistakeChance = 0
	tb := NewTestBattle(
		WithUnit(SideA, Infantry, 100, 2, 5),
		WithUnit(SideB, Infantry, 100, 17, 5),
		WithAI(SideA, p, phases),
	)
	tb.RunTicks(10)

	rec, ok := tb.Log().LastOf("phase", "entered")
	if !ok {
		t.Fatal("phase transition never logged")
	}
	if rec.Value != "assault" || rec.Side != "a" {
		t.Fatalf("entered record = %+v, want side a entering assault", rec)
	}
	if got := tb.Log().Count("phase", "entered"); got != 1 {
		t.Fatalf("phase transition logged %d times, want 1", got)
	}
}
