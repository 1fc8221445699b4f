package battle

import "fmt"

// Step advances the battle one tick. Phases run in a fixed order so
// the same inputs always replay the same battle: command decisions,
// courier traffic, unit movement, engagement detection, combat
// resolution, morale, routs, go-codes and contingencies, then the
// end check.
func (bs *BattleState) Step() {
	if bs.Over {
		return
	}
	bs.Tick++
	tick := bs.Tick

	bs.commandPhase(tick)
	bs.courierPhase(tick)
	bs.movementPhase(tick)
	engs := bs.engagementPhase(tick)
	bs.combatPhase(tick, engs)
	bs.moralePhase(tick)
	bs.routPhase(tick)
	bs.goCodePhase(tick)
	bs.contingencyPhase(tick)
	bs.endPhase(tick)
}

// commandPhase refreshes each side's fog-of-war snapshot and lets its
// commander decide. Decisions ride couriers; nothing takes effect
// until delivery.
func (bs *BattleState) commandPhase(tick int) {
	for _, pair := range bs.armies() {
		own, enemy := pair[0], pair[1]
		RecomputeVisibility(own.Sight, bs.Map, own, enemy)
		if own.Commander == nil {
			continue
		}
		ctx := buildDecisionContext(tick, own, enemy, bs.Map, own.Commander.Personality.Difficulty)
		if name := own.Commander.Phases.Update(tick, ctx.StrengthRatio, ctx.CasualtyFrac); name != "" {
			bs.Log.AddSide(tick, own.Side, "phase", "entered", name, 0)
		}
		for _, o := range own.Commander.Decide(ctx) {
			bs.dispatch(tick, own, o)
		}
	}
}

// dispatch sends an order from the army's HQ by courier and logs the
// traffic.
func (bs *BattleState) dispatch(tick int, army *Army, o Order) {
	u := army.Unit(o.Target)
	if u == nil || u.Destroyed {
		bs.Log.AddUnit(tick, army.Side, o.Target, "internal", "order_dropped", o.String(), 0)
		return
	}
	c, superseded := army.Couriers.Send(o, army.HQ, u.Position, tick)
	if superseded != nil {
		bs.Log.AddUnit(tick, army.Side, superseded.Order.Target,
			"courier", "superseded", superseded.Order.String(), float64(superseded.ID))
	}
	bs.Log.AddUnit(tick, army.Side, o.Target,
		"courier", "dispatched", o.String(), float64(c.Arrival))
}

// courierPhase moves couriers, rolls interception against enemy
// pickets, and applies every order that arrives this tick.
func (bs *BattleState) courierPhase(tick int) {
	for _, pair := range bs.armies() {
		own, enemy := pair[0], pair[1]
		own.Couriers.AdvanceAll()
		for _, c := range own.Couriers.CheckInterception(enemy, bs.Seed, tick) {
			bs.Log.AddUnit(tick, own.Side, c.Order.Target,
				"courier", "intercepted", c.Order.String(), float64(c.ID))
		}
		for _, c := range own.Couriers.CollectArrived(tick) {
			if applyOrder(c.Order, own, own.Plan, bs.Map, enemy) {
				bs.Log.AddUnit(tick, own.Side, c.Order.Target,
					"courier", "delivered", c.Order.String(), float64(tick-c.Origin))
			} else {
				bs.Log.AddUnit(tick, own.Side, c.Order.Target,
					"courier", "undeliverable", c.Order.String(), float64(c.ID))
			}
		}
	}
}

// movementPhase advances every unit along its waypoint plan. Units
// standing still recover fatigue.
func (bs *BattleState) movementPhase(tick int) {
	for _, pair := range bs.armies() {
		own := pair[0]
		for _, u := range own.Units {
			if u.Destroyed || u.Broken() {
				continue
			}
			res := advanceUnitMovement(bs.Map, u, own.Plan, bs.occupied)
			if res.Moved {
				bs.Log.AddVerbose(tick, own.Side, u.ID, "move", "step",
					fmt.Sprintf("(%d,%d)", u.Position.Q, u.Position.R), 0)
			}
			if res.ReachedWaypoint {
				bs.Log.AddUnit(tick, own.Side, u.ID, "move", "waypoint",
					fmt.Sprintf("(%d,%d)", u.Position.Q, u.Position.R), 0)
			}
			if res.PathBlocked {
				bs.Log.AddVerbose(tick, own.Side, u.ID, "move", "blocked",
					fmt.Sprintf("(%d,%d)", u.Position.Q, u.Position.R), 0)
			}
			if !res.Moved && u.Stance != Engaged {
				u.Fatigue -= fatigueRecoveryRate
				if u.Fatigue < 0 {
					u.Fatigue = 0
				}
			}
		}
	}
}

// engagementPhase detects adjacent hostile pairs, honors each side's
// engagement rules, and flips participants into the Engaged stance.
// Units that lost all contact revert to Formed.
func (bs *BattleState) engagementPhase(tick int) []Engagement {
	var active []Engagement
	for _, e := range findEngagements(bs.A, bs.B) {
		a := bs.A.Unit(e.Attacker)
		b := bs.B.Unit(e.Defender)
		aInit := bs.A.Plan.RuleFor(a.ID).ShouldInitiate(false)
		bInit := bs.B.Plan.RuleFor(b.ID).ShouldInitiate(false)
		if !aInit && !bInit {
			continue
		}
		active = append(active, e)
		for _, u := range [2]*Unit{a, b} {
			if u.Stance != Engaged {
				side := u.Side
				bs.Log.AddUnit(tick, side, u.ID, "engage", "contact",
					fmt.Sprintf("(%d,%d)", u.Position.Q, u.Position.R), float64(e.Distance))
				u.Stance = Engaged
			}
		}
	}

	inContact := make(map[Side]map[UnitID]struct{}, 2)
	inContact[SideA] = make(map[UnitID]struct{})
	inContact[SideB] = make(map[UnitID]struct{})
	for _, e := range active {
		inContact[SideA][e.Attacker] = struct{}{}
		inContact[SideB][e.Defender] = struct{}{}
	}
	for _, pair := range bs.armies() {
		own := pair[0]
		for _, u := range own.Units {
			if u.Destroyed || u.Stance != Engaged {
				continue
			}
			if _, ok := inContact[own.Side][u.ID]; !ok {
				u.Stance = Formed
				bs.Log.AddVerbose(tick, own.Side, u.ID, "engage", "disengaged", "", 0)
			}
		}
	}
	return active
}

// combatPhase hands each engagement to the resolver and applies the
// returned deltas. A unit ground to zero strength is destroyed in the
// same tick it hits zero.
func (bs *BattleState) combatPhase(tick int, engs []Engagement) {
	if len(engs) == 0 {
		return
	}
	posA := positionSet(bs.A)
	posB := positionSet(bs.B)

	for _, e := range engs {
		a := bs.A.Unit(e.Attacker)
		b := bs.B.Unit(e.Defender)
		if !a.CanFight() || !b.CanFight() {
			continue
		}
		out := bs.Resolver.ResolveEngagement(
			bs.snapshot(a, bs.A, posB),
			bs.snapshot(b, bs.B, posA),
		)
		bs.applyOutcome(tick, a, out.AttackerCasualties, out.AttackerStress, out.AttackerFatigue)
		bs.applyOutcome(tick, b, out.DefenderCasualties, out.DefenderStress, out.DefenderFatigue)
	}
	bs.standDown(tick)
}

// standDown reverts engaged units that lost every adjacent opponent
// during combat, so same-tick destruction never leaves the survivor
// frozen in contact.
func (bs *BattleState) standDown(tick int) {
	inContact := map[Side]map[UnitID]struct{}{
		SideA: make(map[UnitID]struct{}),
		SideB: make(map[UnitID]struct{}),
	}
	for _, e := range findEngagements(bs.A, bs.B) {
		inContact[SideA][e.Attacker] = struct{}{}
		inContact[SideB][e.Defender] = struct{}{}
	}
	for _, pair := range bs.armies() {
		own := pair[0]
		for _, u := range own.Units {
			if u.Destroyed || u.Stance != Engaged {
				continue
			}
			if _, ok := inContact[own.Side][u.ID]; !ok {
				u.Stance = Formed
				bs.Log.AddVerbose(tick, own.Side, u.ID, "engage", "disengaged", "", 0)
			}
		}
	}
}

// snapshot builds the resolver's read-only view of one combatant.
func (bs *BattleState) snapshot(u *Unit, own *Army, enemyPositions map[Hex]struct{}) Snapshot {
	charging := false
	if wp := own.Plan.PlanFor(u.ID).CurrentWaypoint(); wp != nil {
		charging = wp.Pace == Charge && u.Kind.CanCharge()
	}
	return Snapshot{
		ID:                u.ID,
		Side:              u.Side,
		Kind:              u.Kind,
		Position:          u.Position,
		EffectiveStrength: u.EffectiveStrength(),
		Stress:            u.Stress,
		Fatigue:           u.Fatigue,
		Cohesion:          u.Cohesion,
		Cover:             bs.Map.Tile(u.Position).Cover(),
		Flanked:           isFlanked(u, enemyPositions),
		Surrounded:        isSurrounded(u, enemyPositions),
		Charging:          charging,
	}
}

// applyOutcome applies one side's combat deltas and handles same-tick
// destruction, including the morale shock of a fallen command unit.
func (bs *BattleState) applyOutcome(tick int, u *Unit, casualties int, stress, fatigue float64) {
	if casualties > 0 {
		u.Casualties += casualties
		bs.Log.AddUnit(tick, u.Side, u.ID, "combat", "casualties",
			fmt.Sprintf("%d lost, %d remain", casualties, u.EffectiveStrength()),
			float64(casualties))
	}
	u.AddStress(stress)
	u.Fatigue += fatigue
	if u.Fatigue > 1 {
		u.Fatigue = 1
	}

	if u.EffectiveStrength() == 0 && !u.Destroyed {
		u.Destroyed = true
		delete(bs.occupied, u.Position)
		bs.Log.AddUnit(tick, u.Side, u.ID, "combat", "destroyed", u.Kind.String(), 0)
		if u.Kind == Command {
			bs.officerDown(tick, u)
		}
	}
}

// officerDown spreads the shock of a fallen command unit to nearby
// friendly units.
func (bs *BattleState) officerDown(tick int, fallen *Unit) {
	own := bs.side(fallen.Side)
	for _, u := range own.Units {
		if u.Destroyed || u.ID == fallen.ID {
			continue
		}
		if u.Position.Distance(fallen.Position) <= contagionRange {
			u.AddStress(officerDeathStress)
			bs.Log.AddUnit(tick, u.Side, u.ID, "morale", "officer_down", "", officerDeathStress)
		}
	}
}

// moralePhase gathers stress for every unit first, then applies all
// transitions, so contagion reads the stances from before this tick's
// breaks. Rally checks and progress run after.
func (bs *BattleState) moralePhase(tick int) {
	for _, pair := range bs.armies() {
		own, enemy := pair[0], pair[1]
		contrib := gatherStress(own, enemy)
		for _, u := range own.Units {
			if u.Destroyed {
				continue
			}
			switch applyMoraleTransitions(u, contrib[u.ID], tick) {
			case "break", "break_catastrophic":
				bs.Log.AddUnit(tick, own.Side, u.ID, "morale", "break",
					fmt.Sprintf("stress %.2f over threshold %.2f", u.Stress, u.StressThreshold()),
					u.Stress)
			case "shaken":
				bs.Log.AddUnit(tick, own.Side, u.ID, "morale", "shaken", "", u.Stress)
			case "steadied":
				bs.Log.AddUnit(tick, own.Side, u.ID, "morale", "steadied", "", u.Stress)
			}
		}

		for _, u := range own.Units {
			if u.Destroyed {
				continue
			}
			switch u.Stance {
			case Routing:
				decayRoutStress(u)
				if checkRally(u, tick, bs.enemyWithin(enemy, u.Position, rallySafeDistance),
					bs.leaderNear(own, u)) {
					u.Stance = RallyingStance
					u.RallyingSince = tick
					bs.Log.AddUnit(tick, own.Side, u.ID, "morale", "rally_start", "", u.Stress)
				}
			case RallyingStance:
				if advanceRally(u, tick) {
					bs.Log.AddUnit(tick, own.Side, u.ID, "morale", "rallied", "", u.Stress)
				}
			}
		}
	}
}

// enemyWithin reports whether any surviving enemy stands within range
// of the hex.
func (bs *BattleState) enemyWithin(enemy *Army, pos Hex, rng int) bool {
	for _, e := range enemy.Units {
		if !e.Destroyed && e.Position.Distance(pos) <= rng {
			return true
		}
	}
	return false
}

// leaderNear reports whether a friendly command unit stands close
// enough to steady the unit.
func (bs *BattleState) leaderNear(own *Army, u *Unit) bool {
	for _, c := range own.Units {
		if c.Destroyed || c.Kind != Command || c.ID == u.ID {
			continue
		}
		if c.Position.Distance(u.Position) <= contagionRange {
			return true
		}
	}
	return false
}

// routPhase moves every broken unit away from the nearest threat.
func (bs *BattleState) routPhase(tick int) {
	for _, pair := range bs.armies() {
		own, enemy := pair[0], pair[1]
		var threats []Hex
		for _, e := range enemy.Units {
			if !e.Destroyed {
				threats = append(threats, e.Position)
			}
		}
		for _, u := range own.Units {
			if u.Destroyed || !u.Broken() {
				continue
			}
			if routStep(bs.Map, u, threats, bs.occupied) {
				bs.Log.AddVerbose(tick, own.Side, u.ID, "move", "rout",
					fmt.Sprintf("(%d,%d)", u.Position.Q, u.Position.R), 0)
			}
		}
	}
}

// goCodePhase evaluates each side's go-codes in declared order and
// dispatches the orders of those that fire through the couriers.
func (bs *BattleState) goCodePhase(tick int) {
	for _, pair := range bs.armies() {
		own := pair[0]
		st := triggerState{
			tick:             tick,
			unitPositions:    make(map[UnitID]Hex, len(own.Units)),
			engagedUnits:     make(map[UnitID]struct{}),
			spottedCount:     own.Sight.SpottedCount(),
			casualtyFraction: casualtyFraction(own),
		}
		for _, u := range own.Units {
			if u.Destroyed {
				continue
			}
			st.unitPositions[u.ID] = u.Position
			if u.Stance == Engaged {
				st.engagedUnits[u.ID] = struct{}{}
			}
		}
		for _, gc := range own.Plan.GoCodes {
			if !gc.evaluate(st) {
				continue
			}
			bs.Log.AddSide(tick, own.Side, "gocode", "fired", gc.Name, float64(len(gc.Orders)))
			for _, o := range gc.Orders {
				bs.dispatch(tick, own, o)
			}
		}
	}
}

// contingencyPhase evaluates each side's contingencies and applies
// their responses.
func (bs *BattleState) contingencyPhase(tick int) {
	for _, pair := range bs.armies() {
		own, enemy := pair[0], pair[1]
		st := contingencyState{
			brokenUnits:      make(map[UnitID]struct{}),
			commanderAlive:   commandAlive(own),
			ownPositions:     positionSet(own),
			enemyPositions:   positionSet(enemy),
			casualtyFraction: casualtyFraction(own),
		}
		for _, u := range own.Units {
			if !u.Destroyed && u.Broken() {
				st.brokenUnits[u.ID] = struct{}{}
			}
		}
		for _, c := range own.Plan.Contingencies {
			if !c.evaluate(st) {
				continue
			}
			bs.Log.AddSide(tick, own.Side, "gocode", "contingency", c.Kind.String(), 0)
			bs.applyContingency(tick, own, c)
		}
	}
}

// applyContingency carries out a fired contingency's response.
func (bs *BattleState) applyContingency(tick int, own *Army, c *Contingency) {
	switch c.Response {
	case ResponseRetreat:
		route := c.Route
		if len(route) == 0 {
			route = []Hex{own.HQ}
		}
		for _, u := range own.Units {
			if u.Destroyed || u.Broken() {
				continue
			}
			bs.dispatch(tick, own, RetreatOrder(u.ID, route))
		}
	case ResponseRally:
		for _, u := range own.Units {
			if !u.Destroyed && u.Broken() {
				bs.dispatch(tick, own, RallyOrder(u.ID))
			}
		}
	case ResponseSignal:
		if gc := own.Plan.GoCodeByName(c.Signal); gc != nil {
			gc.ManualFire = true
		}
	}
}

// endPhase checks scenario victory conditions, then the standing end
// rules. The first condition to hold wins; conditions are checked in
// declaration order, side A first.
func (bs *BattleState) endPhase(tick int) {
	for _, vc := range bs.VictoryA {
		ok, err := vc.Eval(tick, bs.A, bs.B, bs.Map)
		if err != nil {
			bs.Log.Add(tick, "internal", "victory_eval_error", err.Error(), 0)
			continue
		}
		if ok {
			bs.finish(tick, vc.Outcome, "condition "+vc.Name)
			return
		}
	}
	for _, vc := range bs.VictoryB {
		ok, err := vc.Eval(tick, bs.B, bs.A, bs.Map)
		if err != nil {
			bs.Log.Add(tick, "internal", "victory_eval_error", err.Error(), 0)
			continue
		}
		if ok {
			bs.finish(tick, vc.Outcome.Invert(), "condition "+vc.Name)
			return
		}
	}

	if outcome, over := checkBattleEnd(tick, bs.MaxTicks, bs.A, bs.B); over {
		bs.finish(tick, outcome, "")
	}
}

// finish closes the battle with an outcome for side A.
func (bs *BattleState) finish(tick int, outcome Outcome, why string) {
	bs.Outcome = outcome
	bs.Over = true
	bs.Log.Add(tick, "battle", "end", outcome.String()+" "+why, float64(tick))
}

// casualtyFraction is losses over deployed strength for one army.
func casualtyFraction(a *Army) float64 {
	total := a.TotalStrength()
	if total == 0 {
		return 0
	}
	return float64(a.Casualties()) / float64(total)
}

// commandAlive reports whether the army still has a living command
// unit. Armies fielded without one count as alive.
func commandAlive(a *Army) bool {
	has := false
	for _, u := range a.Units {
		if u.Kind == Command {
			has = true
			if !u.Destroyed {
				return true
			}
		}
	}
	return !has
}
