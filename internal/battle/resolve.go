package battle

import "math"

const baseCasualtyRate = 0.02
const fatigueRateCombat = 0.02

// Snapshot is the read-only view of one combatant handed to a
// Resolver. The engine builds snapshots from live units and applies
// only the returned deltas; resolvers never see mutable state.
type Snapshot struct {
	ID                UnitID
	Side              Side
	Kind              UnitKind
	Position          Hex
	EffectiveStrength int
	Stress            float64
	Fatigue           float64
	Cohesion          float64
	Cover             float64
	Flanked           bool
	Surrounded        bool
	Charging          bool
}

// CombatOutcome carries the deltas a resolver computed for one engagement.
// The engine applies these and nothing else.
type CombatOutcome struct {
	AttackerCasualties int
	DefenderCasualties int
	AttackerStress     float64
	DefenderStress     float64
	AttackerFatigue    float64
	DefenderFatigue    float64
}

// Resolver computes one engagement's outcome from combatant
// snapshots. Implementations must be deterministic for identical
// snapshots and draw inputs.
type Resolver interface {
	ResolveEngagement(attacker, defender Snapshot) CombatOutcome
}

// StatisticalResolver is the built-in resolver: casualty rates scale
// with relative strength, cover, fatigue, and tactical position. It
// keeps batch runs self-contained when no external resolution engine
// is plugged in.
type StatisticalResolver struct{}

// ResolveEngagement computes proportional casualties for one tick of
// contact.
func (StatisticalResolver) ResolveEngagement(attacker, defender Snapshot) CombatOutcome {
	attackPower := combatPower(attacker)
	defendPower := combatPower(defender) * (1 + defender.Cover)

	if defender.Flanked {
		attackPower *= 1.3
	}
	if defender.Surrounded {
		attackPower *= 1.5
	}
	if attacker.Charging && attacker.Kind.CanCharge() {
		attackPower *= 1.4
	}

	total := attackPower + defendPower
	if total <= 0 {
		return CombatOutcome{}
	}

	// Each side loses in proportion to the other's share of power.
	defLoss := baseCasualtyRate * float64(defender.EffectiveStrength) * (attackPower / total) * 2
	attLoss := baseCasualtyRate * float64(attacker.EffectiveStrength) * (defendPower / total) * 2

	out := CombatOutcome{
		AttackerCasualties: clampCasualties(attLoss, attacker.EffectiveStrength),
		DefenderCasualties: clampCasualties(defLoss, defender.EffectiveStrength),
		AttackerFatigue:    fatigueRateCombat,
		DefenderFatigue:    fatigueRateCombat,
	}
	out.AttackerStress = stressFromLosses(out.AttackerCasualties, attacker.EffectiveStrength)
	out.DefenderStress = stressFromLosses(out.DefenderCasualties, defender.EffectiveStrength)
	if defender.Flanked {
		out.DefenderStress += flankStress
	}
	return out
}

func combatPower(s Snapshot) float64 {
	power := float64(s.EffectiveStrength)
	power *= 1 - s.Fatigue*0.3
	power *= 0.7 + s.Cohesion*0.3
	switch s.Kind {
	case HeavyInfantry, HeavyCavalry:
		power *= 1.3
	case Levy:
		power *= 0.7
	}
	return power
}

func clampCasualties(loss float64, strength int) int {
	n := int(math.Ceil(loss))
	if n < 0 {
		n = 0
	}
	if n > strength {
		n = strength
	}
	return n
}

// stressFromLosses converts this tick's casualties into stress for
// the side that took them.
func stressFromLosses(casualties, strength int) float64 {
	if strength == 0 {
		return 0
	}
	return float64(casualties) / float64(strength) * 1.5
}
