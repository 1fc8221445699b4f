package battle

// ScoreWeights control post-battle performance scoring.
type ScoreWeights struct {
	Win        float64 `yaml:"win"`
	Defeat     float64 `yaml:"defeat"`
	Efficiency float64 `yaml:"efficiency"`
	Speed      float64 `yaml:"speed"`
	Survival   float64 `yaml:"survival"`
}

func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Win:        1000,
		Defeat:     -500,
		Efficiency: 500,
		Speed:      0.5,
		Survival:   200,
	}
}

// BattleScore is the numeric evaluation of one side's performance.
type BattleScore struct {
	Outcome    Outcome
	Total      float64
	Result     float64 // win/defeat component
	Efficiency float64 // casualties inflicted vs taken
	Speed      float64 // reward for finishing early
	Survival   float64 // own strength preserved
}

// ScoreBattle evaluates a finished battle for one side. Efficiency
// compares inflicted against suffered casualties, survival rewards
// remaining strength, and speed rewards ticks left on the clock for
// winners.
func ScoreBattle(w ScoreWeights, outcome Outcome, tick int, own, enemy *Army) BattleScore {
	s := BattleScore{Outcome: outcome}

	won := outcome == DecisiveVictory || outcome == Victory || outcome == PyrrhicVictory
	switch {
	case won:
		s.Result = w.Win
	case outcome == Defeat || outcome == DecisiveDefeat:
		s.Result = w.Defeat
	}

	inflicted := float64(enemy.Casualties())
	suffered := float64(own.Casualties())
	if inflicted+suffered > 0 {
		s.Efficiency = w.Efficiency * (inflicted - suffered) / (inflicted + suffered)
	}

	if total := own.TotalStrength(); total > 0 {
		s.Survival = w.Survival * float64(own.EffectiveStrength()) / float64(total)
	}

	if won && tick < maxBattleTicks {
		s.Speed = w.Speed * float64(maxBattleTicks-tick) / 100.0
	}

	s.Total = s.Result + s.Efficiency + s.Speed + s.Survival
	return s
}
