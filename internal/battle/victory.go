package battle

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

const (
	maxBattleTicks = 6000
	routedFraction = 0.8
	decisiveRatio  = 2.0
)

// Outcome classifies a finished battle from side A's point of view.
type Outcome int

const (
	Undecided Outcome = iota
	DecisiveVictory
	Victory
	PyrrhicVictory
	Draw
	Defeat
	DecisiveDefeat
)

func (o Outcome) String() string {
	switch o {
	case Undecided:
		return "undecided"
	case DecisiveVictory:
		return "decisive_victory"
	case Victory:
		return "victory"
	case PyrrhicVictory:
		return "pyrrhic_victory"
	case Draw:
		return "draw"
	case Defeat:
		return "defeat"
	case DecisiveDefeat:
		return "decisive_defeat"
	default:
		return "unknown"
	}
}

// Invert flips an outcome to the other side's point of view.
func (o Outcome) Invert() Outcome {
	switch o {
	case DecisiveVictory:
		return DecisiveDefeat
	case Victory:
		return Defeat
	case PyrrhicVictory:
		return Defeat
	case Defeat:
		return Victory
	case DecisiveDefeat:
		return DecisiveVictory
	default:
		return o
	}
}

// checkBattleEnd decides whether the battle is over and with what
// outcome for side A. A side with no strength left, or with more than
// 80% of it routing, has lost. At the tick limit the outcome falls to
// whichever side holds at least a two-to-one strength edge.
func checkBattleEnd(tick, maxTicks int, a, b *Army) (Outcome, bool) {
	aStrength := a.EffectiveStrength()
	bStrength := b.EffectiveStrength()

	switch {
	case aStrength == 0 && bStrength == 0:
		return Draw, true
	case aStrength == 0:
		return DecisiveDefeat, true
	case bStrength == 0:
		return DecisiveVictory, true
	}

	aRouted := a.RoutingFraction() > routedFraction
	bRouted := b.RoutingFraction() > routedFraction
	switch {
	case aRouted && bRouted:
		return Draw, true
	case aRouted:
		return Defeat, true
	case bRouted:
		return Victory, true
	}

	if tick >= maxTicks {
		ratio := float64(aStrength) / float64(bStrength)
		switch {
		case ratio >= decisiveRatio:
			return Victory, true
		case ratio <= 1/decisiveRatio:
			return Defeat, true
		default:
			return Draw, true
		}
	}
	return Undecided, false
}

// VictoryCondition is a scenario-authored predicate compiled once at
// setup and evaluated against the battle state each tick. When it
// holds, the battle ends immediately with the given outcome for the
// owning side.
type VictoryCondition struct {
	Name    string
	Outcome Outcome
	program *vm.Program
}

// victoryEnv is the expression environment. Field names are the
// identifiers scenario authors write.
type victoryEnv struct {
	Tick             int     `expr:"tick"`
	OwnStrength      int     `expr:"own_strength"`
	EnemyStrength    int     `expr:"enemy_strength"`
	OwnCasualtyFrac  float64 `expr:"own_casualty_fraction"`
	ObjectivesHeld   int     `expr:"objectives_held"`
	ObjectivesTotal  int     `expr:"objectives_total"`
	EnemyRoutingFrac float64 `expr:"enemy_routing_fraction"`
}

// CompileVictoryCondition parses and type-checks a predicate source.
// Bad expressions fail here, at setup, never mid-battle.
func CompileVictoryCondition(name, src string, outcome Outcome) (*VictoryCondition, error) {
	prog, err := expr.Compile(src, expr.Env(victoryEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("victory condition %q: %w", name, err)
	}
	return &VictoryCondition{Name: name, Outcome: outcome, program: prog}, nil
}

// Eval runs the predicate for one side.
func (vc *VictoryCondition) Eval(tick int, own, enemy *Army, m *Map) (bool, error) {
	held := 0
	ownPos := make(map[Hex]struct{}, len(own.Units))
	for _, u := range own.Units {
		if !u.Destroyed {
			ownPos[u.Position] = struct{}{}
		}
	}
	for _, obj := range m.Objectives {
		if _, ok := ownPos[obj.Hex]; ok {
			held++
		}
	}

	frac := 0.0
	if total := own.TotalStrength(); total > 0 {
		frac = float64(own.Casualties()) / float64(total)
	}

	out, err := expr.Run(vc.program, victoryEnv{
		Tick:             tick,
		OwnStrength:      own.EffectiveStrength(),
		EnemyStrength:    enemy.EffectiveStrength(),
		OwnCasualtyFrac:  frac,
		ObjectivesHeld:   held,
		ObjectivesTotal:  len(m.Objectives),
		EnemyRoutingFrac: enemy.RoutingFraction(),
	})
	if err != nil {
		return false, fmt.Errorf("victory condition %q: %w", vc.Name, err)
	}
	return out.(bool), nil
}
