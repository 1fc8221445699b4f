package battle

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTileMoveCosts(t *testing.T) {
	cases := []struct {
		tile Tile
		want float64
		ok   bool
	}{
		{Tile{Terrain: Open}, 1.0, true},
		{Tile{Terrain: Road}, 0.7, true},
		{Tile{Terrain: Rough}, 1.5, true},
		{Tile{Terrain: Forest}, 2.5, true},
		{Tile{Terrain: ShallowWater}, 2.0, true},
		{Tile{Terrain: Building}, 3.0, true},
		{Tile{Terrain: DeepWater}, 0, false},
		{Tile{Terrain: Cliff}, 0, false},
		{Tile{Terrain: Open, Features: []Feature{Hill}}, 1.3, true},
		{Tile{Terrain: Rough, Features: []Feature{Stream}}, 2.0, true},
		{Tile{Terrain: DeepWater, Features: []Feature{Bridge}}, 0.7, true},
	}
	for _, c := range cases {
		got, ok := c.tile.MoveCost()
		if ok != c.ok {
			t.Errorf("%v: ok=%v, want %v", c.tile, ok, c.ok)
			continue
		}
		if ok && !almostEqual(got, c.want) {
			t.Errorf("%v: cost=%g, want %g", c.tile, got, c.want)
		}
	}
}

func TestTileCoverCapped(t *testing.T) {
	plain := Tile{Terrain: Open}
	if got := plain.Cover(); got != 0 {
		t.Fatalf("open ground cover = %g", got)
	}
	forest := Tile{Terrain: Forest}
	if got := forest.Cover(); !almostEqual(got, 0.5) {
		t.Fatalf("forest cover = %g, want 0.5", got)
	}
	fortress := Tile{Terrain: Building, Features: []Feature{Wall, Tower}}
	if got := fortress.Cover(); got != 1 {
		t.Fatalf("stacked cover = %g, want cap at 1", got)
	}
}

func TestMapOffMapIsImpassable(t *testing.T) {
	m := NewMap(5, 5)
	if m.InBounds(Hex{-1, 0}) || m.InBounds(Hex{5, 0}) || m.InBounds(Hex{0, 5}) {
		t.Fatal("out-of-range hex reported in bounds")
	}
	if _, ok := m.Tile(Hex{-1, 0}).MoveCost(); ok {
		t.Fatal("off-map tile is passable")
	}
}

func TestLineOfSightBlockers(t *testing.T) {
	m := NewMap(10, 10)
	from, to := Hex{0, 5}, Hex{6, 5}

	if !m.LineOfSight(from, to) {
		t.Fatal("clear ground blocked sight")
	}

	m.SetTerrain(Hex{3, 5}, Forest)
	if m.LineOfSight(from, to) {
		t.Fatal("forest between did not block sight")
	}

	// The endpoints themselves never block.
	m.SetTerrain(Hex{3, 5}, Open)
	m.SetTerrain(Hex{6, 5}, Forest)
	if !m.LineOfSight(from, to) {
		t.Fatal("target hex terrain blocked sight to itself")
	}
}

func TestLineOfSightRidgeFeature(t *testing.T) {
	m := NewMap(10, 10)
	from, to := Hex{0, 5}, Hex{5, 5}
	m.AddFeature(Hex{2, 5}, Ridge)
	if m.LineOfSight(from, to) {
		t.Fatal("ridge did not block sight")
	}
}

func TestVisibleHexesRespectsRange(t *testing.T) {
	m := NewMap(30, 30)
	from := Hex{15, 15}
	for _, h := range m.VisibleHexes(from, 4) {
		if from.Distance(h) > 4 {
			t.Fatalf("hex %v outside range 4 reported visible", h)
		}
		if !m.InBounds(h) {
			t.Fatalf("off-map hex %v reported visible", h)
		}
	}
}

func TestUnitVisionRange(t *testing.T) {
	m := NewMap(10, 10)
	foot := NewUnit(0, SideA, Infantry, 100)
	foot.Position = Hex{5, 5}
	if got := UnitVisionRange(foot, m); got != baseVisionRange {
		t.Fatalf("infantry vision = %d, want %d", got, baseVisionRange)
	}

	scout := NewUnit(1, SideA, Scouts, 50)
	scout.Position = Hex{5, 5}
	if got := UnitVisionRange(scout, m); got != baseVisionRange+scoutVisionBonus {
		t.Fatalf("scout vision = %d, want %d", got, baseVisionRange+scoutVisionBonus)
	}

	m.SetElevation(Hex{5, 5}, 2)
	if got := UnitVisionRange(foot, m); got != baseVisionRange+2*elevationVisionBonus {
		t.Fatalf("elevated vision = %d, want %d", got, baseVisionRange+2*elevationVisionBonus)
	}
}

func TestRecomputeVisibilitySpotsAndRemembers(t *testing.T) {
	m := NewMap(30, 10)
	a := NewArmy(SideA)
	b := NewArmy(SideB)

	watcher := NewUnit(0, SideA, Infantry, 100)
	watcher.Position = Hex{0, 5}
	a.AddUnit(watcher)

	near := NewUnit(1, SideB, Infantry, 100)
	near.Position = Hex{5, 5}
	far := NewUnit(2, SideB, Infantry, 100)
	far.Position = Hex{25, 5}
	b.AddUnit(near)
	b.AddUnit(far)

	RecomputeVisibility(a.Sight, m, a, b)
	if !a.Sight.Spotted(near.ID) {
		t.Fatal("enemy within vision range not spotted")
	}
	if a.Sight.Spotted(far.ID) {
		t.Fatal("enemy beyond vision range spotted")
	}
	if pos, ok := a.Sight.LastKnown(near.ID); !ok || pos != near.Position {
		t.Fatalf("last known = %v,%v", pos, ok)
	}

	// The enemy slips out of range; the hex stays remembered and the
	// spot is dropped.
	wasVisible := Hex{5, 5}
	near.Position = Hex{25, 6}
	RecomputeVisibility(a.Sight, m, a, b)
	if a.Sight.Spotted(near.ID) {
		t.Fatal("stale spot survived recompute")
	}
	if !a.Sight.Remembered(wasVisible) && !a.Sight.Visible(wasVisible) {
		t.Fatal("previously seen hex forgotten entirely")
	}
}
