package battle

// Engagement is a detected adjacent hostile pair eligible for combat
// resolution this tick.
type Engagement struct {
	Attacker UnitID
	Defender UnitID
	Distance int
}

// detectEngagement reports whether two hostile units are close enough
// and both able to fight.
func detectEngagement(a, b *Unit) (Engagement, bool) {
	if !a.CanFight() || !b.CanFight() {
		return Engagement{}, false
	}
	d := a.Position.Distance(b.Position)
	if d > 1 {
		return Engagement{}, false
	}
	return Engagement{Attacker: a.ID, Defender: b.ID, Distance: d}, true
}

// findEngagements scans both armies for adjacent hostile pairs. Units
// are visited in ascending ID order on both sides so the result order
// is stable across runs.
func findEngagements(attackers, defenders *Army) []Engagement {
	var out []Engagement
	for _, a := range attackers.Units {
		for _, d := range defenders.Units {
			if e, ok := detectEngagement(a, d); ok {
				out = append(out, e)
			}
		}
	}
	return out
}

// isFlanked reports whether an enemy stands in the unit's rear hex.
func isFlanked(u *Unit, enemyPositions map[Hex]struct{}) bool {
	rear := u.Position.Add(u.Facing.Opposite().Offset())
	_, ok := enemyPositions[rear]
	return ok
}

// isSurrounded reports whether three or more adjacent hexes hold
// enemies.
func isSurrounded(u *Unit, enemyPositions map[Hex]struct{}) bool {
	n := 0
	for _, nb := range u.Position.Neighbors() {
		if _, ok := enemyPositions[nb]; ok {
			n++
		}
	}
	return n >= 3
}

// positionSet collects the positions of an army's surviving
// units.
func positionSet(a *Army) map[Hex]struct{} {
	out := make(map[Hex]struct{}, len(a.Units))
	for _, u := range a.Units {
		if !u.Destroyed {
			out[u.Position] = struct{}{}
		}
	}
	return out
}
