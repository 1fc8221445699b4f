package battle

// Personality shapes how an AI commander weighs targets, commits
// reserves, and reacts to losses. Loaded from YAML profiles; the zero
// value is unusable, use DefaultPersonality as the base.
type Personality struct {
	Name       string      `yaml:"name"`
	Behavior   Behaviors   `yaml:"behavior"`
	Weights    Weights     `yaml:"weights"`
	Prefs      Preferences `yaml:"preferences"`
	Difficulty Difficulty  `yaml:"difficulty"`
}

// Behaviors are broad temperament dials, each in [0,1].
type Behaviors struct {
	Aggression float64 `yaml:"aggression"`
	Caution    float64 `yaml:"caution"`
	Initiative float64 `yaml:"initiative"`
	Cunning    float64 `yaml:"cunning"`
}

// Weights bias decision scoring.
type Weights struct {
	AttackValue       float64 `yaml:"attack_value"`
	DefenseValue      float64 `yaml:"defense_value"`
	FlankingValue     float64 `yaml:"flanking_value"`
	ReserveValue      float64 `yaml:"reserve_value"`
	RetreatThreshold  float64 `yaml:"retreat_threshold"`
	CasualtyThreshold float64 `yaml:"casualty_threshold"`
}

// Preferences are categorical tendencies.
type Preferences struct {
	PreferredRange       string `yaml:"preferred_range"`
	ReserveUsage         string `yaml:"reserve_usage"`
	ReEvaluationInterval int    `yaml:"re_evaluation_interval"`
}

// Difficulty handicaps or sharpens the commander.
type Difficulty struct {
	IgnoresFogOfWar bool    `yaml:"ignores_fog_of_war"`
	ReactionDelay   int     `yaml:"reaction_delay"`
	MistakeChance   float64 `yaml:"mistake_chance"`
}

// DefaultPersonality returns a balanced mid-difficulty commander.
func DefaultPersonality() Personality {
	return Personality{
		Name: "balanced",
		Behavior: Behaviors{
			Aggression: 0.5,
			Caution:    0.5,
			Initiative: 0.5,
			Cunning:    0.3,
		},
		Weights: Weights{
			AttackValue:       1.0,
			DefenseValue:      1.0,
			FlankingValue:     1.2,
			ReserveValue:      0.8,
			RetreatThreshold:  0.3,
			CasualtyThreshold: 0.5,
		},
		Prefs: Preferences{
			PreferredRange:       "medium",
			ReserveUsage:         "conservative",
			ReEvaluationInterval: 10,
		},
		Difficulty: Difficulty{
			IgnoresFogOfWar: false,
			ReactionDelay:   2,
			MistakeChance:   0.1,
		},
	}
}

// AggressivePersonality favors early, heavy commitment.
func AggressivePersonality() Personality {
	p := DefaultPersonality()
	p.Name = "aggressive"
	p.Behavior.Aggression = 0.9
	p.Behavior.Caution = 0.2
	p.Behavior.Initiative = 0.8
	p.Weights.AttackValue = 1.5
	p.Weights.DefenseValue = 0.6
	p.Weights.RetreatThreshold = 0.15
	p.Weights.CasualtyThreshold = 0.7
	p.Prefs.PreferredRange = "close"
	p.Prefs.ReserveUsage = "aggressive"
	p.Prefs.ReEvaluationInterval = 6
	return p
}

// CautiousPersonality favors defense and early withdrawal.
func CautiousPersonality() Personality {
	p := DefaultPersonality()
	p.Name = "cautious"
	p.Behavior.Aggression = 0.25
	p.Behavior.Caution = 0.85
	p.Behavior.Initiative = 0.3
	p.Weights.AttackValue = 0.7
	p.Weights.DefenseValue = 1.4
	p.Weights.RetreatThreshold = 0.45
	p.Weights.CasualtyThreshold = 0.35
	p.Prefs.PreferredRange = "long"
	p.Prefs.ReEvaluationInterval = 14
	return p
}
