package battle

// Vision constants, in hexes.
const (
	baseVisionRange      = 8
	scoutVisionBonus     = 4
	elevationVisionBonus = 2
)

// ArmyVisibility is one army's fog-of-war snapshot: the hexes its
// surviving units can currently see, the hexes it has seen before,
// and the enemy units currently spotted. The snapshot is rebuilt from
// live positions every tick so it never carries stale spotted data.
type ArmyVisibility struct {
	visible    map[Hex]struct{}
	remembered map[Hex]struct{}
	spotted    map[UnitID]struct{}
	lastKnown  map[UnitID]Hex // last hex each spotted enemy was seen in
}

// NewArmyVisibility returns an empty snapshot.
func NewArmyVisibility() *ArmyVisibility {
	return &ArmyVisibility{
		visible:    make(map[Hex]struct{}),
		remembered: make(map[Hex]struct{}),
		spotted:    make(map[UnitID]struct{}),
		lastKnown:  make(map[UnitID]Hex),
	}
}

// Visible reports whether the hex is currently in view.
func (v *ArmyVisibility) Visible(h Hex) bool {
	_, ok := v.visible[h]
	return ok
}

// Remembered reports whether the hex was seen on an earlier tick but
// is out of view now.
func (v *ArmyVisibility) Remembered(h Hex) bool {
	_, ok := v.remembered[h]
	return ok
}

// Spotted reports whether the enemy unit is currently in view.
func (v *ArmyVisibility) Spotted(id UnitID) bool {
	_, ok := v.spotted[id]
	return ok
}

// SpottedCount returns how many enemy units are currently in view.
func (v *ArmyVisibility) SpottedCount() int {
	return len(v.spotted)
}

// LastKnown returns the hex an enemy unit was last seen in.
func (v *ArmyVisibility) LastKnown(id UnitID) (Hex, bool) {
	h, ok := v.lastKnown[id]
	return h, ok
}

// update replaces the visible set, moving hexes that fell out of view
// into the remembered set.
func (v *ArmyVisibility) update(visible map[Hex]struct{}) {
	for h := range v.visible {
		v.remembered[h] = struct{}{}
	}
	v.visible = visible
	for h := range v.visible {
		delete(v.remembered, h)
	}
}

// UnitVisionRange returns how far a unit can see from its current
// position: the base range, a scout bonus for light cavalry and
// scouts, and an elevation bonus per level of high ground.
func UnitVisionRange(u *Unit, m *Map) int {
	rng := baseVisionRange
	if u.Kind == LightCavalry || u.Kind == Scouts {
		rng += scoutVisionBonus
	}
	if elev := m.Tile(u.Position).Elevation; elev > 0 {
		rng += elevationVisionBonus * elev
	}
	return rng
}

// RecomputeVisibility rebuilds an army's snapshot from the live
// positions of its surviving units and the enemy army. Destroyed
// units contribute no vision.
func RecomputeVisibility(v *ArmyVisibility, m *Map, own, enemy *Army) {
	visible := make(map[Hex]struct{})
	for _, u := range own.Units {
		if u.Destroyed || u.EffectiveStrength() == 0 {
			continue
		}
		for _, h := range m.VisibleHexes(u.Position, UnitVisionRange(u, m)) {
			visible[h] = struct{}{}
		}
	}
	v.update(visible)

	v.spotted = make(map[UnitID]struct{})
	for _, e := range enemy.Units {
		if e.Destroyed {
			continue
		}
		if _, ok := visible[e.Position]; ok {
			v.spotted[e.ID] = struct{}{}
			v.lastKnown[e.ID] = e.Position
		}
	}
}
