package battle

import "math"

// BattleAI decides orders for one side. Implementations must be
// deterministic: same context, same orders.
type BattleAI interface {
	Decide(ctx DecisionContext) []Order
}

// Commander is the personality-driven AI for one army. Orders it
// emits are dispatched through the courier system, so they take
// effect only when the courier arrives.
type Commander struct {
	ID          int
	Side        Side
	Personality Personality
	Phases      *PhasePlanManager

	seed      uint64
	lastEval  int
	evaluated bool
	spottedAt map[UnitID]int // tick each enemy was first seen
}

func NewCommander(id int, side Side, p Personality, phases *PhasePlanManager, seed uint64) *Commander {
	return &Commander{
		ID:          id,
		Side:        side,
		Personality: p,
		Phases:      phases,
		seed:        seed,
		spottedAt:   make(map[UnitID]int),
	}
}

// Decide re-evaluates the battle and emits orders. Between
// re-evaluation intervals it emits nothing; freshly spotted enemies
// stay out of the actionable picture until the reaction delay runs
// out for each of them.
func (c *Commander) Decide(ctx DecisionContext) []Order {
	ctx.VisibleEnemy = c.actionableEnemies(ctx)

	if c.evaluated && ctx.Tick-c.lastEval < c.Personality.Prefs.ReEvaluationInterval {
		return nil
	}
	c.lastEval = ctx.Tick
	c.evaluated = true

	var orders []Order
	if ctx.StrengthRatio < c.Personality.Weights.RetreatThreshold ||
		ctx.CasualtyFrac > c.Personality.Weights.CasualtyThreshold {
		orders = c.retreatOrders(ctx)
	} else if len(ctx.VisibleEnemy) == 0 {
		orders = c.advanceOrders(ctx)
	} else {
		orders = c.engageOrders(ctx)
	}
	orders = append(orders, c.reserveOrders(ctx)...)
	return c.dropMistakes(ctx.Tick, orders)
}

// actionableEnemies records fresh sightings and filters out enemies
// seen too recently to act on. Each enemy's reaction delay runs from
// the tick it was first spotted.
func (c *Commander) actionableEnemies(ctx DecisionContext) []EnemySighting {
	for _, e := range ctx.VisibleEnemy {
		if _, ok := c.spottedAt[e.ID]; !ok {
			c.spottedAt[e.ID] = ctx.Tick
		}
	}
	delay := c.Personality.Difficulty.ReactionDelay
	if delay <= 0 {
		return ctx.VisibleEnemy
	}
	var out []EnemySighting
	for _, e := range ctx.VisibleEnemy {
		if ctx.Tick-c.spottedAt[e.ID] >= delay {
			out = append(out, e)
		}
	}
	return out
}

// retreatOrders pulls every fighting unit back toward the army's HQ.
func (c *Commander) retreatOrders(ctx DecisionContext) []Order {
	var orders []Order
	for _, u := range ctx.OwnUnits {
		if !u.CanFight() || u.Reserve {
			continue
		}
		o := RetreatOrder(u.ID, []Hex{ctx.OwnHQ})
		o.IssuedAt = ctx.Tick
		orders = append(orders, o)
	}
	return orders
}

// advanceOrders pushes the army toward the enemy HQ when nothing is
// visible to fight.
func (c *Commander) advanceOrders(ctx DecisionContext) []Order {
	var orders []Order
	for _, u := range ctx.OwnUnits {
		if !u.CanFight() || u.Reserve || u.Position == ctx.EnemyHQ {
			continue
		}
		o := MoveOrder(u.ID, ctx.EnemyHQ)
		o.IssuedAt = ctx.Tick
		orders = append(orders, o)
	}
	return orders
}

// engageOrders matches each unit with its best-scoring target.
// Aggressive commanders order attacks outright; others close to
// half the distance first.
func (c *Commander) engageOrders(ctx DecisionContext) []Order {
	aggression := c.Personality.Behavior.Aggression
	if ph := c.Phases.Current(); ph != nil {
		aggression += ph.AggressionModifier
	}

	engaged := make(map[UnitID]struct{})
	for _, e := range ctx.VisibleEnemy {
		if e.Stance == Engaged {
			engaged[e.ID] = struct{}{}
		}
	}

	var orders []Order
	for _, u := range ctx.OwnUnits {
		if !u.CanFight() || u.Reserve || u.Stance == Engaged {
			continue
		}
		target, ok := c.bestTarget(u, ctx, engaged)
		if !ok {
			continue
		}
		var o Order
		if aggression > 0.5 {
			o = AttackOrder(u.ID, target.ID)
		} else {
			line := u.Position.LineTo(target.Position)
			o = MoveOrder(u.ID, line[len(line)/2])
		}
		o.IssuedAt = ctx.Tick
		orders = append(orders, o)
	}
	return orders
}

// bestTarget scores every visible enemy for one unit. Weak, close,
// already-engaged, and routing enemies score higher.
func (c *Commander) bestTarget(u *Unit, ctx DecisionContext, engaged map[UnitID]struct{}) (EnemySighting, bool) {
	w := c.Personality.Weights
	var best EnemySighting
	bestScore := math.Inf(-1)
	found := false
	for _, e := range ctx.VisibleEnemy {
		weakness := 1.0 - float64(e.Strength)/100.0
		if weakness < 0 {
			weakness = 0
		}
		d := float64(u.Position.Distance(e.Position))
		score := weakness*w.AttackValue + 0.5/(1.0+d*0.1)
		if _, ok := engaged[e.ID]; ok {
			score += w.FlankingValue * 0.5
		}
		if e.Stance == Routing {
			score += 1.0
		}
		if score > bestScore {
			best = e
			bestScore = score
			found = true
		}
	}
	return best, found
}

// reserveOrders releases reserves according to the active phase's
// commitment fraction, lowest IDs first.
func (c *Commander) reserveOrders(ctx DecisionContext) []Order {
	ph := c.Phases.Current()
	if ph == nil || ph.ReserveCommitment <= 0 {
		return nil
	}
	var reserves []*Unit
	for _, u := range ctx.OwnUnits {
		if u.Reserve && u.CanFight() {
			reserves = append(reserves, u)
		}
	}
	release := int(math.Floor(float64(len(reserves)) * ph.ReserveCommitment))
	var orders []Order
	for _, u := range reserves[:release] {
		dest := ctx.EnemyHQ
		if e, ok := ctx.ClosestEnemy(u.Position); ok {
			dest = e.Position
		}
		o := MoveOrder(u.ID, dest)
		o.IssuedAt = ctx.Tick
		orders = append(orders, o)
	}
	return orders
}

// dropMistakes discards each order with the personality's mistake
// chance, drawn deterministically per order slot.
func (c *Commander) dropMistakes(tick int, orders []Order) []Order {
	mc := c.Personality.Difficulty.MistakeChance
	if mc <= 0 {
		return orders
	}
	kept := orders[:0]
	for i, o := range orders {
		if draw(c.seed, 0x31, uint64(tick), uint64(c.ID), uint64(i)) < mc {
			continue
		}
		kept = append(kept, o)
	}
	return kept
}
