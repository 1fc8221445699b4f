package config

import (
	"fmt"

	"github.com/mwhiting/hexfront/internal/battle"
)

func parseTerrain(s string) (battle.Terrain, error) {
	switch s {
	case "open":
		return battle.Open, nil
	case "rough":
		return battle.Rough, nil
	case "forest":
		return battle.Forest, nil
	case "shallow_water":
		return battle.ShallowWater, nil
	case "deep_water":
		return battle.DeepWater, nil
	case "cliff":
		return battle.Cliff, nil
	case "road":
		return battle.Road, nil
	case "building":
		return battle.Building, nil
	default:
		return battle.Open, fmt.Errorf("unknown terrain %q", s)
	}
}

func parseFeature(s string) (battle.Feature, error) {
	switch s {
	case "hill":
		return battle.Hill, nil
	case "ridge":
		return battle.Ridge, nil
	case "stream":
		return battle.Stream, nil
	case "bridge":
		return battle.Bridge, nil
	case "wall":
		return battle.Wall, nil
	case "gate":
		return battle.Gate, nil
	case "tower":
		return battle.Tower, nil
	case "treeline":
		return battle.Treeline, nil
	default:
		return battle.NoFeature, fmt.Errorf("unknown feature %q", s)
	}
}

func parseUnitKind(s string) (battle.UnitKind, error) {
	switch s {
	case "levy":
		return battle.Levy, nil
	case "infantry":
		return battle.Infantry, nil
	case "heavy_infantry":
		return battle.HeavyInfantry, nil
	case "spearmen":
		return battle.Spearmen, nil
	case "light_cavalry":
		return battle.LightCavalry, nil
	case "cavalry":
		return battle.Cavalry, nil
	case "heavy_cavalry":
		return battle.HeavyCavalry, nil
	case "scouts":
		return battle.Scouts, nil
	case "command":
		return battle.Command, nil
	default:
		return battle.Infantry, fmt.Errorf("unknown unit kind %q", s)
	}
}

func parseFacing(s string) (battle.Direction, error) {
	switch s {
	case "", "east":
		return battle.East, nil
	case "northeast":
		return battle.NorthEast, nil
	case "northwest":
		return battle.NorthWest, nil
	case "west":
		return battle.West, nil
	case "southwest":
		return battle.SouthWest, nil
	case "southeast":
		return battle.SouthEast, nil
	default:
		return battle.East, fmt.Errorf("unknown facing %q", s)
	}
}

func parseStance(s string) (battle.Stance, error) {
	switch s {
	case "", "formed":
		return battle.Formed, nil
	case "patrol":
		return battle.Patrol, nil
	case "alert":
		return battle.Alert, nil
	default:
		return battle.Formed, fmt.Errorf("unknown stance %q", s)
	}
}

func parseRule(s string) (battle.EngagementRule, error) {
	switch s {
	case "aggressive":
		return battle.Aggressive, nil
	case "defensive":
		return battle.Defensive, nil
	case "hold_fire":
		return battle.HoldFire, nil
	case "skirmish":
		return battle.Skirmish, nil
	default:
		return battle.Aggressive, fmt.Errorf("unknown engagement rule %q", s)
	}
}

func parseBehavior(s string) (battle.Behavior, error) {
	switch s {
	case "", "move_to":
		return battle.MoveTo, nil
	case "hold_at":
		return battle.HoldAt, nil
	case "attack_from":
		return battle.AttackFrom, nil
	case "scan_from":
		return battle.ScanFrom, nil
	case "rally_at":
		return battle.RallyAt, nil
	default:
		return battle.MoveTo, fmt.Errorf("unknown waypoint behavior %q", s)
	}
}

func parsePace(s string) (battle.Pace, error) {
	switch s {
	case "", "quick":
		return battle.Quick, nil
	case "walk":
		return battle.Walk, nil
	case "run":
		return battle.Run, nil
	case "charge":
		return battle.Charge, nil
	default:
		return battle.Quick, fmt.Errorf("unknown pace %q", s)
	}
}

func parseFormation(s string) (battle.FormationKind, error) {
	switch s {
	case "line":
		return battle.FormationLine, nil
	case "column":
		return battle.FormationColumn, nil
	case "wedge":
		return battle.FormationWedge, nil
	case "square":
		return battle.FormationSquare, nil
	default:
		return battle.FormationLine, fmt.Errorf("unknown formation %q", s)
	}
}

func parseOutcome(s string) (battle.Outcome, error) {
	switch s {
	case "decisive_victory":
		return battle.DecisiveVictory, nil
	case "victory":
		return battle.Victory, nil
	case "pyrrhic_victory":
		return battle.PyrrhicVictory, nil
	case "draw":
		return battle.Draw, nil
	case "defeat":
		return battle.Defeat, nil
	case "decisive_defeat":
		return battle.DecisiveDefeat, nil
	default:
		return battle.Draw, fmt.Errorf("unknown outcome %q", s)
	}
}
