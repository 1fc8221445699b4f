package config

import (
	"fmt"

	"github.com/mwhiting/hexfront/internal/battle"
)

// Scenario is the decoded form of a scenario file. Build turns it
// into a ready-to-run battle.
type Scenario struct {
	Name     string       `yaml:"name"`
	Seed     uint64       `yaml:"seed"`
	MaxTicks int          `yaml:"max_ticks"`
	Map      MapConfig    `yaml:"map"`
	SideA    SideConfig   `yaml:"side_a"`
	SideB    SideConfig   `yaml:"side_b"`
	Victory  []VictorySpec `yaml:"victory"`
	Score    *ScoreSpec   `yaml:"score"`
}

type ScoreSpec struct {
	Win        *float64 `yaml:"win"`
	Defeat     *float64 `yaml:"defeat"`
	Efficiency *float64 `yaml:"efficiency"`
	Speed      *float64 `yaml:"speed"`
	Survival   *float64 `yaml:"survival"`
}

type HexSpec struct {
	Q int `yaml:"q"`
	R int `yaml:"r"`
}

func (h HexSpec) hex() battle.Hex {
	return battle.Hex{Q: h.Q, R: h.R}
}

type MapConfig struct {
	Width      int             `yaml:"width"`
	Height     int             `yaml:"height"`
	Terrain    []TerrainPatch  `yaml:"terrain"`
	Elevation  []ElevationSpec `yaml:"elevation"`
	Features   []FeatureSpec   `yaml:"features"`
	Objectives []ObjectiveSpec `yaml:"objectives"`
}

type TerrainPatch struct {
	Type string    `yaml:"type"`
	At   []HexSpec `yaml:"at"`
}

type ElevationSpec struct {
	Level int       `yaml:"level"`
	At    []HexSpec `yaml:"at"`
}

type FeatureSpec struct {
	Type string    `yaml:"type"`
	At   []HexSpec `yaml:"at"`
}

type ObjectiveSpec struct {
	Name     string  `yaml:"name"`
	At       HexSpec `yaml:"at"`
	Required bool    `yaml:"required"`
}

type SideConfig struct {
	HQ            HexSpec           `yaml:"hq"`
	Personality   string            `yaml:"personality"`
	Units         []UnitSpec        `yaml:"units"`
	Formations    []FormationSpec   `yaml:"formations"`
	GoCodes       []GoCodeSpec      `yaml:"go_codes"`
	Contingencies []ContingencySpec `yaml:"contingencies"`
	Phases        []PhaseSpec       `yaml:"phases"`
}

type UnitSpec struct {
	Name      string         `yaml:"name"`
	Kind      string         `yaml:"kind"`
	Strength  int            `yaml:"strength"`
	At        HexSpec        `yaml:"at"`
	Facing    string         `yaml:"facing"`
	Stance    string         `yaml:"stance"`
	Reserve   bool           `yaml:"reserve"`
	Rule      string         `yaml:"rule"`
	Waypoints []WaypointSpec `yaml:"waypoints"`
}

type WaypointSpec struct {
	Q        int    `yaml:"q"`
	R        int    `yaml:"r"`
	Behavior string `yaml:"behavior"`
	Pace     string `yaml:"pace"`
}

type FormationSpec struct {
	Kind   string   `yaml:"kind"`
	Center HexSpec  `yaml:"center"`
	Facing string   `yaml:"facing"`
	Units  []string `yaml:"units"`
}

type GoCodeSpec struct {
	Name    string      `yaml:"name"`
	Trigger TriggerSpec `yaml:"trigger"`
	Orders  []OrderSpec `yaml:"orders"`
}

type TriggerSpec struct {
	Kind     string   `yaml:"kind"`
	Tick     int      `yaml:"tick"`
	Unit     string   `yaml:"unit"`
	At       *HexSpec `yaml:"at"`
	Count    int      `yaml:"count"`
	Fraction float64  `yaml:"fraction"`
}

type OrderSpec struct {
	Kind      string    `yaml:"kind"`
	Unit      string    `yaml:"unit"`
	To        *HexSpec  `yaml:"to"`
	Enemy     string    `yaml:"enemy"`
	Route     []HexSpec `yaml:"route"`
	Formation string    `yaml:"formation"`
	GoCode    string    `yaml:"go_code"`
}

type ContingencySpec struct {
	Kind     string    `yaml:"kind"`
	Unit     string    `yaml:"unit"`
	At       *HexSpec  `yaml:"at"`
	Fraction float64   `yaml:"fraction"`
	Response string    `yaml:"response"`
	Route    []HexSpec `yaml:"route"`
	Signal   string    `yaml:"signal"`
}

type PhaseSpec struct {
	Name               string          `yaml:"name"`
	PriorityTargets    []HexSpec       `yaml:"priority_targets"`
	ReserveCommitment  float64         `yaml:"reserve_commitment"`
	AggressionModifier float64         `yaml:"aggression_modifier"`
	Transition         *TransitionSpec `yaml:"transition"`
}

type TransitionSpec struct {
	Kind     string  `yaml:"kind"`
	Ticks    int     `yaml:"ticks"`
	Ratio    float64 `yaml:"ratio"`
	Fraction float64 `yaml:"fraction"`
}

type VictorySpec struct {
	Name    string `yaml:"name"`
	Side    string `yaml:"side"`
	When    string `yaml:"when"`
	Outcome string `yaml:"outcome"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	var sc Scenario
	if err := loadValidated(path, scenarioSchema, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// ParseScenario validates and decodes an in-memory scenario.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := decodeValidated(data, scenarioSchema, &sc, "scenario"); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Build assembles the battle: map, both armies with their plans and
// commanders, victory conditions, and options. Every cross-reference
// (unit names, go-code signals) is resolved here; a dangling name is
// a setup error.
func (sc *Scenario) Build(opts ...battle.Option) (*battle.BattleState, error) {
	m, err := sc.Map.build()
	if err != nil {
		return nil, err
	}

	nextID := battle.UnitID(0)
	a, namesA, err := sc.SideA.build(battle.SideA, &nextID)
	if err != nil {
		return nil, fmt.Errorf("side_a: %w", err)
	}
	b, namesB, err := sc.SideB.build(battle.SideB, &nextID)
	if err != nil {
		return nil, fmt.Errorf("side_b: %w", err)
	}
	if err := sc.SideA.buildPlans(a, namesA, namesB, sc.Seed, 0); err != nil {
		return nil, fmt.Errorf("side_a: %w", err)
	}
	if err := sc.SideB.buildPlans(b, namesB, namesA, sc.Seed, 1); err != nil {
		return nil, fmt.Errorf("side_b: %w", err)
	}

	all := []battle.Option{battle.WithSeed(sc.Seed)}
	if sc.MaxTicks > 0 {
		all = append(all, battle.WithMaxTicks(sc.MaxTicks))
	}
	for _, v := range sc.Victory {
		outcome, err := parseOutcome(v.Outcome)
		if err != nil {
			return nil, fmt.Errorf("victory %q: %w", v.Name, err)
		}
		cond, err := battle.CompileVictoryCondition(v.Name, v.When, outcome)
		if err != nil {
			return nil, err
		}
		side := battle.SideA
		if v.Side == "b" {
			side = battle.SideB
		}
		all = append(all, battle.WithVictoryConditions(side, cond))
	}
	all = append(all, opts...)

	return battle.NewBattle(m, a, b, all...), nil
}

// ScoreWeights returns the scenario's scoring weights, filling unset
// fields from the defaults.
func (sc *Scenario) ScoreWeights() battle.ScoreWeights {
	w := battle.DefaultScoreWeights()
	if sc.Score == nil {
		return w
	}
	if sc.Score.Win != nil {
		w.Win = *sc.Score.Win
	}
	if sc.Score.Defeat != nil {
		w.Defeat = *sc.Score.Defeat
	}
	if sc.Score.Efficiency != nil {
		w.Efficiency = *sc.Score.Efficiency
	}
	if sc.Score.Speed != nil {
		w.Speed = *sc.Score.Speed
	}
	if sc.Score.Survival != nil {
		w.Survival = *sc.Score.Survival
	}
	return w
}

func (mc MapConfig) build() (*battle.Map, error) {
	m := battle.NewMap(mc.Width, mc.Height)
	for _, p := range mc.Terrain {
		t, err := parseTerrain(p.Type)
		if err != nil {
			return nil, err
		}
		for _, h := range p.At {
			m.SetTerrain(h.hex(), t)
		}
	}
	for _, e := range mc.Elevation {
		for _, h := range e.At {
			m.SetElevation(h.hex(), e.Level)
		}
	}
	for _, f := range mc.Features {
		ft, err := parseFeature(f.Type)
		if err != nil {
			return nil, err
		}
		for _, h := range f.At {
			m.AddFeature(h.hex(), ft)
		}
	}
	for _, o := range mc.Objectives {
		m.Objectives = append(m.Objectives, battle.Objective{
			Hex: o.At.hex(), Name: o.Name, Required: o.Required,
		})
	}
	return m, nil
}

// build creates the army and its units. Plans come later, once both
// sides' name tables exist for cross-references.
func (s SideConfig) build(side battle.Side, nextID *battle.UnitID) (*battle.Army, map[string]battle.UnitID, error) {
	army := battle.NewArmy(side)
	army.HQ = s.HQ.hex()
	names := make(map[string]battle.UnitID, len(s.Units))

	for _, us := range s.Units {
		kind, err := parseUnitKind(us.Kind)
		if err != nil {
			return nil, nil, fmt.Errorf("unit %q: %w", us.Name, err)
		}
		if _, dup := names[us.Name]; dup {
			return nil, nil, fmt.Errorf("duplicate unit name %q", us.Name)
		}
		u := battle.NewUnit(*nextID, side, kind, us.Strength)
		u.Name = us.Name
		*nextID++
		names[us.Name] = u.ID
		army.AddUnit(u)
	}
	return army, names, nil
}

// buildPlans fills in the army's battle plan, commander, and phase
// plans, resolving unit names on both sides.
func (s SideConfig) buildPlans(army *battle.Army, own, enemy map[string]battle.UnitID, seed uint64, commanderID int) error {
	plan := battle.NewBattlePlan()
	army.Plan = plan

	for _, us := range s.Units {
		id := own[us.Name]
		facing, err := parseFacing(us.Facing)
		if err != nil {
			return fmt.Errorf("unit %q: %w", us.Name, err)
		}
		stance, err := parseStance(us.Stance)
		if err != nil {
			return fmt.Errorf("unit %q: %w", us.Name, err)
		}
		plan.Deployments = append(plan.Deployments, battle.Deployment{
			Unit: id, Pos: us.At.hex(), Facing: facing, Stance: stance, Reserve: us.Reserve,
		})
		if us.Rule != "" {
			rule, err := parseRule(us.Rule)
			if err != nil {
				return fmt.Errorf("unit %q: %w", us.Name, err)
			}
			plan.Rules[id] = rule
		}
		if len(us.Waypoints) > 0 {
			wp := plan.PlanFor(id)
			for _, w := range us.Waypoints {
				behavior, err := parseBehavior(w.Behavior)
				if err != nil {
					return fmt.Errorf("unit %q: %w", us.Name, err)
				}
				pace, err := parsePace(w.Pace)
				if err != nil {
					return fmt.Errorf("unit %q: %w", us.Name, err)
				}
				wp.Add(battle.Waypoint{
					Position: battle.Hex{Q: w.Q, R: w.R}, Behavior: behavior, Pace: pace,
				})
			}
		}
	}

	// Formation groups override individual deployment positions.
	for _, fs := range s.Formations {
		kind, err := parseFormation(fs.Kind)
		if err != nil {
			return err
		}
		facing, err := parseFacing(fs.Facing)
		if err != nil {
			return err
		}
		var members []*battle.Unit
		for _, name := range fs.Units {
			id, ok := own[name]
			if !ok {
				return fmt.Errorf("formation references unknown unit %q", name)
			}
			members = append(members, army.Unit(id))
		}
		placed := battle.LayoutFormation(kind, fs.Center.hex(), facing, members)
		for i := range plan.Deployments {
			if pos, ok := placed[plan.Deployments[i].Unit]; ok {
				plan.Deployments[i].Pos = pos
				plan.Deployments[i].Facing = facing
			}
		}
	}

	for _, gs := range s.GoCodes {
		gc, err := gs.build(own, enemy)
		if err != nil {
			return fmt.Errorf("go-code %q: %w", gs.Name, err)
		}
		plan.GoCodes = append(plan.GoCodes, gc)
	}
	for _, cs := range s.Contingencies {
		c, err := cs.build(own, plan)
		if err != nil {
			return fmt.Errorf("contingency %q: %w", cs.Kind, err)
		}
		plan.Contingencies = append(plan.Contingencies, c)
	}

	personality, err := ResolvePersonality(s.Personality)
	if err != nil {
		return err
	}
	var phases *battle.PhasePlanManager
	if len(s.Phases) > 0 {
		var pp []*battle.PhasePlan
		for _, ps := range s.Phases {
			p, err := ps.build()
			if err != nil {
				return fmt.Errorf("phase %q: %w", ps.Name, err)
			}
			pp = append(pp, p)
		}
		phases = battle.NewPhasePlanManager(pp)
	}
	army.Commander = battle.NewCommander(commanderID, army.Side, personality, phases, seed)
	return nil
}

func (gs GoCodeSpec) build(own, enemy map[string]battle.UnitID) (*battle.GoCode, error) {
	trigger, err := gs.Trigger.build(own)
	if err != nil {
		return nil, err
	}
	gc := &battle.GoCode{Name: gs.Name, Trigger: trigger}
	for _, os := range gs.Orders {
		o, err := os.build(own, enemy)
		if err != nil {
			return nil, err
		}
		gc.Orders = append(gc.Orders, o)
	}
	return gc, nil
}

func (ts TriggerSpec) build(own map[string]battle.UnitID) (battle.Trigger, error) {
	t := battle.Trigger{Tick: ts.Tick, Count: ts.Count, Fraction: ts.Fraction}
	switch ts.Kind {
	case "manual":
		t.Kind = battle.TriggerManual
	case "at_tick":
		t.Kind = battle.TriggerAtTick
	case "waypoint_reached":
		t.Kind = battle.TriggerWaypointReached
	case "enemy_spotted_count":
		t.Kind = battle.TriggerEnemySpottedCount
	case "unit_engaged":
		t.Kind = battle.TriggerUnitEngaged
	case "casualty_threshold":
		t.Kind = battle.TriggerCasualtyThreshold
	default:
		return t, fmt.Errorf("unknown trigger kind %q", ts.Kind)
	}
	if ts.Unit != "" {
		id, ok := own[ts.Unit]
		if !ok {
			return t, fmt.Errorf("trigger references unknown unit %q", ts.Unit)
		}
		t.Unit = id
	}
	if ts.At != nil {
		t.Hex = ts.At.hex()
	}
	return t, nil
}

func (os OrderSpec) build(own, enemy map[string]battle.UnitID) (battle.Order, error) {
	id, ok := own[os.Unit]
	if !ok {
		return battle.Order{}, fmt.Errorf("order references unknown unit %q", os.Unit)
	}
	switch os.Kind {
	case "move_to":
		if os.To == nil {
			return battle.Order{}, fmt.Errorf("move_to for %q needs a destination", os.Unit)
		}
		return battle.MoveOrder(id, os.To.hex()), nil
	case "attack":
		eid, ok := enemy[os.Enemy]
		if !ok {
			return battle.Order{}, fmt.Errorf("attack references unknown enemy %q", os.Enemy)
		}
		return battle.AttackOrder(id, eid), nil
	case "defend":
		if os.To == nil {
			return battle.Order{}, fmt.Errorf("defend for %q needs a position", os.Unit)
		}
		return battle.DefendOrder(id, os.To.hex()), nil
	case "retreat":
		route := make([]battle.Hex, len(os.Route))
		for i, h := range os.Route {
			route[i] = h.hex()
		}
		return battle.RetreatOrder(id, route), nil
	case "hold":
		return battle.HoldOrder(id), nil
	case "rally":
		return battle.RallyOrder(id), nil
	case "change_formation":
		kind, err := parseFormation(os.Formation)
		if err != nil {
			return battle.Order{}, err
		}
		return battle.FormationOrder(id, kind), nil
	case "execute_go_code":
		return battle.GoCodeOrder(id, os.GoCode), nil
	default:
		return battle.Order{}, fmt.Errorf("unknown order kind %q", os.Kind)
	}
}

func (cs ContingencySpec) build(own map[string]battle.UnitID, plan *battle.BattlePlan) (*battle.Contingency, error) {
	c := &battle.Contingency{Fraction: cs.Fraction, Signal: cs.Signal}
	switch cs.Kind {
	case "unit_breaks":
		c.Kind = battle.ContingencyUnitBreaks
		id, ok := own[cs.Unit]
		if !ok {
			return nil, fmt.Errorf("references unknown unit %q", cs.Unit)
		}
		c.Unit = id
	case "commander_dies":
		c.Kind = battle.ContingencyCommanderDies
	case "position_lost":
		c.Kind = battle.ContingencyPositionLost
		if cs.At == nil {
			return nil, fmt.Errorf("position_lost needs a hex")
		}
		c.Hex = cs.At.hex()
	case "casualties_exceed":
		c.Kind = battle.ContingencyCasualtiesExceed
	default:
		return nil, fmt.Errorf("unknown contingency kind %q", cs.Kind)
	}
	switch cs.Response {
	case "retreat":
		c.Response = battle.ResponseRetreat
		for _, h := range cs.Route {
			c.Route = append(c.Route, h.hex())
		}
	case "rally":
		c.Response = battle.ResponseRally
	case "signal":
		c.Response = battle.ResponseSignal
		if plan.GoCodeByName(cs.Signal) == nil {
			return nil, fmt.Errorf("signal references unknown go-code %q", cs.Signal)
		}
	default:
		return nil, fmt.Errorf("unknown response %q", cs.Response)
	}
	return c, nil
}

func (ps PhaseSpec) build() (*battle.PhasePlan, error) {
	p := &battle.PhasePlan{
		Name:               ps.Name,
		ReserveCommitment:  ps.ReserveCommitment,
		AggressionModifier: ps.AggressionModifier,
	}
	for _, h := range ps.PriorityTargets {
		p.PriorityTargets = append(p.PriorityTargets, h.hex())
	}
	if ps.Transition != nil {
		t := battle.PhaseTransition{
			Ticks:    ps.Transition.Ticks,
			Ratio:    ps.Transition.Ratio,
			Fraction: ps.Transition.Fraction,
		}
		switch ps.Transition.Kind {
		case "never":
			t.Kind = battle.TransitionNever
		case "time_elapsed":
			t.Kind = battle.TransitionTimeElapsed
		case "strength_ratio_below":
			t.Kind = battle.TransitionStrengthRatioBelow
		case "casualties_exceed":
			t.Kind = battle.TransitionCasualtiesExceed
		case "manual":
			t.Kind = battle.TransitionManual
		default:
			return nil, fmt.Errorf("unknown transition kind %q", ps.Transition.Kind)
		}
		p.Transition = t
	}
	return p, nil
}
