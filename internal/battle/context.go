package battle

import (
	"math"
	"sort"
)

// EnemySighting is what the commander knows about one enemy unit,
// filtered through fog of war unless the difficulty ignores it.
type EnemySighting struct {
	ID       UnitID
	Kind     UnitKind
	Position Hex
	Strength int
	Stance   Stance
}

// DecisionContext is the commander's view of the battle at decision
// time. Built once per re-evaluation, never mutated.
type DecisionContext struct {
	Tick int
	Side Side

	OwnUnits      []*Unit
	VisibleEnemy  []EnemySighting
	StrengthRatio float64 // own effective / visible enemy effective
	CasualtyFrac  float64 // own casualties / original strength

	OwnHQ   Hex
	EnemyHQ Hex
}

// buildDecisionContext assembles the fog-filtered picture for one
// side. With no visible enemies the strength ratio is +Inf, which
// reads as overwhelming superiority and drives an advance.
func buildDecisionContext(tick int, own, enemy *Army, m *Map, diff Difficulty) DecisionContext {
	ctx := DecisionContext{
		Tick:    tick,
		Side:    own.Side,
		OwnHQ:   own.HQ,
		EnemyHQ: enemy.HQ,
	}

	for _, u := range own.Units {
		if !u.Destroyed {
			ctx.OwnUnits = append(ctx.OwnUnits, u)
		}
	}

	enemyStrength := 0.0
	for _, u := range enemy.Units {
		if u.Destroyed {
			continue
		}
		if !diff.IgnoresFogOfWar && !own.Sight.Spotted(u.ID) {
			continue
		}
		ctx.VisibleEnemy = append(ctx.VisibleEnemy, EnemySighting{
			ID:       u.ID,
			Kind:     u.Kind,
			Position: u.Position,
			Strength: u.Strength,
			Stance:   u.Stance,
		})
		enemyStrength += float64(u.EffectiveStrength())
	}
	sort.Slice(ctx.VisibleEnemy, func(i, j int) bool {
		return ctx.VisibleEnemy[i].ID < ctx.VisibleEnemy[j].ID
	})

	ownStrength := float64(own.EffectiveStrength())
	if enemyStrength > 0 {
		ctx.StrengthRatio = ownStrength / enemyStrength
	} else {
		ctx.StrengthRatio = math.Inf(1)
	}

	if total := own.TotalStrength(); total > 0 {
		ctx.CasualtyFrac = float64(own.Casualties()) / float64(total)
	}
	return ctx
}

// WeakestEnemy returns the visible enemy with the lowest strength,
// lowest ID winning ties. ok is false with nothing visible.
func (ctx *DecisionContext) WeakestEnemy() (EnemySighting, bool) {
	var best EnemySighting
	found := false
	for _, e := range ctx.VisibleEnemy {
		if !found || e.Strength < best.Strength {
			best = e
			found = true
		}
	}
	return best, found
}

// ClosestEnemy returns the visible enemy nearest to from.
func (ctx *DecisionContext) ClosestEnemy(from Hex) (EnemySighting, bool) {
	var best EnemySighting
	bestDist := math.MaxInt
	found := false
	for _, e := range ctx.VisibleEnemy {
		d := from.Distance(e.Position)
		if d < bestDist {
			best = e
			bestDist = d
			found = true
		}
	}
	return best, found
}
