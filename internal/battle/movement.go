package battle

// Movement speeds in hexes per tick. One tick is one second and one
// hex is twenty meters, so infantry march at roughly 5 km/h.
const (
	infantryWalkSpeed  = 0.07
	infantryRunSpeed   = 0.14
	cavalryWalkSpeed   = 0.085
	cavalryTrotSpeed   = 0.20
	cavalryChargeSpeed = 0.50
	routSpeed          = 0.18

	fatigueRateMarch    = 0.005
	fatigueRecoveryRate = 0.01

	// Unspent movement allowance carries across ticks up to this much,
	// enough to eventually enter the costliest terrain.
	maxMoveCredit = 4.0
)

// baseSpeed returns hexes per tick for a unit class at a pace.
func baseSpeed(kind UnitKind, pace Pace) float64 {
	if kind.Mounted() {
		switch pace {
		case Walk:
			return cavalryWalkSpeed
		case Quick:
			return cavalryTrotSpeed
		case Run:
			return cavalryTrotSpeed * 1.5
		default:
			return cavalryChargeSpeed
		}
	}
	switch pace {
	case Walk:
		return infantryWalkSpeed
	case Quick:
		return infantryWalkSpeed * 1.5
	case Run:
		return infantryRunSpeed
	default:
		return infantryRunSpeed * 1.5
	}
}

// MovementResult reports what happened to one unit in a movement tick.
type MovementResult struct {
	Moved           bool
	ReachedWaypoint bool
	PathBlocked     bool
	FatigueDelta    float64
}

// applyOrder translates a delivered order into unit state and waypoint
// plan changes. Returns false when the target no longer exists or the
// order cannot apply.
func applyOrder(order Order, army *Army, plan *BattlePlan, m *Map, otherArmy *Army) bool {
	u := army.Unit(order.Target)
	if u == nil || u.Destroyed {
		return false
	}

	switch order.Kind {
	case OrderMoveTo:
		wp := plan.PlanFor(u.ID)
		wp.Reset()
		wp.Add(Waypoint{Position: order.Dest, Behavior: MoveTo, Pace: Quick})
		u.Stance = Moving

	case OrderAttack:
		target := otherArmy.Unit(order.Enemy)
		if target == nil || target.Destroyed {
			return false
		}
		wp := plan.PlanFor(u.ID)
		wp.Reset()
		wp.Add(Waypoint{Position: target.Position, Behavior: AttackFrom, Pace: Run})
		plan.Rules[u.ID] = Aggressive
		u.Stance = Moving

	case OrderDefend:
		wp := plan.PlanFor(u.ID)
		wp.Reset()
		wp.Add(Waypoint{Position: order.Dest, Behavior: HoldAt, Pace: Quick})
		plan.Rules[u.ID] = Defensive
		u.Stance = Moving

	case OrderRetreat:
		wp := plan.PlanFor(u.ID)
		wp.Reset()
		for i, pos := range order.Route {
			b := MoveTo
			if i == len(order.Route)-1 {
				b = RallyAt
			}
			wp.Add(Waypoint{Position: pos, Behavior: b, Pace: Run})
		}
		plan.Rules[u.ID] = HoldFire
		u.Stance = Moving

	case OrderHold:
		wp := plan.PlanFor(u.ID)
		wp.Reset()
		wp.Add(Waypoint{Position: u.Position, Behavior: HoldAt, Pace: Quick})
		u.Stance = Formed

	case OrderRally:
		if u.Broken() {
			u.Stance = RallyingStance
			u.AddStress(-0.2)
		}

	case OrderChangeFormation:
		u.Formation = order.Formation

	case OrderExecuteGoCode:
		// Handled by the go-code phase via the plan.
		gc := plan.GoCodeByName(order.GoCode)
		if gc == nil {
			return false
		}
		gc.ManualFire = true
	}

	u.Order = &order
	rebuildPath(u, plan, m)
	return true
}

// rebuildPath recomputes a unit's path to its active waypoint.
func rebuildPath(u *Unit, plan *BattlePlan, m *Map) {
	wp := plan.PlanFor(u.ID).CurrentWaypoint()
	if wp == nil || u.Position == wp.Position {
		u.Path = nil
		return
	}
	path := FindPath(m, u.Position, wp.Position, u.Kind.Mounted())
	if path == nil {
		u.Path = nil
		return
	}
	u.Path = path[1:] // drop the starting hex
}

// advanceUnitMovement steps a unit along its path within this tick's
// movement allowance. A blocked next hex halts the unit without
// consuming the skipped cost.
func advanceUnitMovement(m *Map, u *Unit, plan *BattlePlan, occupied map[Hex]UnitID) MovementResult {
	var result MovementResult

	if u.Stance != Moving && u.Stance != Formed {
		return result
	}
	wp := plan.PlanFor(u.ID).CurrentWaypoint()
	if wp == nil {
		return result
	}

	if u.Position == wp.Position {
		result.ReachedWaypoint = true
		applyWaypointBehavior(u, plan.PlanFor(u.ID), wp)
		rebuildPath(u, plan, m)
		return result
	}

	if len(u.Path) == 0 {
		rebuildPath(u, plan, m)
		if len(u.Path) == 0 {
			result.PathBlocked = true
			return result
		}
	}

	speed := baseSpeed(u.Kind, wp.Pace) * (1 - u.Fatigue*0.3) * wp.Pace.SpeedMultiplier()
	u.moveCredit += speed
	if u.moveCredit > maxMoveCredit {
		u.moveCredit = maxMoveCredit
	}

	for len(u.Path) > 0 {
		next := u.Path[0]
		cost, ok := m.MoveCost(next)
		if !ok || !passableFor(m.Tile(next), u.Kind.Mounted()) {
			result.PathBlocked = true
			break
		}
		if holder, taken := occupied[next]; taken && holder != u.ID {
			result.PathBlocked = true
			break
		}
		if u.moveCredit < cost {
			break
		}
		u.moveCredit -= cost
		delete(occupied, u.Position)
		u.Position = next
		occupied[next] = u.ID
		u.Path = u.Path[1:]
		result.Moved = true
	}

	if result.Moved {
		result.FatigueDelta = fatigueRateMarch * wp.Pace.FatigueMultiplier()
		u.Fatigue += result.FatigueDelta
		if u.Fatigue > 1 {
			u.Fatigue = 1
		}
	}

	if u.Position == wp.Position {
		result.ReachedWaypoint = true
		applyWaypointBehavior(u, plan.PlanFor(u.ID), wp)
		rebuildPath(u, plan, m)
	}
	return result
}

// applyWaypointBehavior applies the reached waypoint's behavior and
// advances the plan for pass-through legs.
func applyWaypointBehavior(u *Unit, wp *WaypointPlan, reached *Waypoint) {
	switch reached.Behavior {
	case MoveTo:
		if !wp.Advance() {
			u.Stance = Formed
		}
	case HoldAt:
		u.Stance = Formed
	case AttackFrom:
		u.Stance = Alert
	case ScanFrom:
		u.Stance = Patrol
	case RallyAt:
		u.Stance = Formed
	}
}

// routStep moves a broken unit one step away from the nearest threat.
func routStep(m *Map, u *Unit, threats []Hex, occupied map[Hex]UnitID) bool {
	if len(threats) == 0 {
		return false
	}
	nearest := threats[0]
	for _, t := range threats[1:] {
		if u.Position.Distance(t) < u.Position.Distance(nearest) {
			nearest = t
		}
	}

	u.moveCredit += routSpeed
	if u.moveCredit > maxMoveCredit {
		u.moveCredit = maxMoveCredit
	}

	// Pick the passable neighbor that gains the most distance.
	best := u.Position
	bestDist := u.Position.Distance(nearest)
	for _, nb := range u.Position.Neighbors() {
		if !m.InBounds(nb) || !passableFor(m.Tile(nb), u.Kind.Mounted()) {
			continue
		}
		if holder, taken := occupied[nb]; taken && holder != u.ID {
			continue
		}
		if d := nb.Distance(nearest); d > bestDist {
			best = nb
			bestDist = d
		}
	}
	if best == u.Position {
		return false
	}
	cost, ok := m.MoveCost(best)
	if !ok || u.moveCredit < cost {
		return false
	}
	u.moveCredit -= cost
	delete(occupied, u.Position)
	u.Position = best
	occupied[best] = u.ID
	return true
}
