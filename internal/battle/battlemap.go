package battle

import "strings"

// Tile is one hex of the battle map.
type Tile struct {
	Terrain   Terrain
	Elevation int
	Features  []Feature
}

// MoveCost returns the cost to enter this tile, terrain plus features.
// A Bridge makes water crossable at road cost. Impassable tiles return
// ok=false.
func (t Tile) MoveCost() (float64, bool) {
	base, ok := t.Terrain.MoveCost()
	if !ok {
		if t.hasFeature(Bridge) {
			base, ok = 0.7, true
		} else {
			return 0, false
		}
	}
	for _, f := range t.Features {
		base += f.MoveCostModifier()
	}
	return base, ok
}

// Cover returns the combined cover value of terrain and features,
// capped at 1.
func (t Tile) Cover() float64 {
	c := t.Terrain.Cover()
	for _, f := range t.Features {
		c += f.DefenseBonus()
	}
	if c > 1 {
		c = 1
	}
	return c
}

// BlocksSight reports whether line of sight passes through this tile.
func (t Tile) BlocksSight() bool {
	if t.Terrain.BlocksSight() {
		return true
	}
	for _, f := range t.Features {
		if f.BlocksSight() {
			return true
		}
	}
	return false
}

func (t Tile) hasFeature(f Feature) bool {
	for _, have := range t.Features {
		if have == f {
			return true
		}
	}
	return false
}

// Objective is a named hex a side may need to control.
type Objective struct {
	Hex      Hex
	Name     string
	Required bool
}

// Map is a bounded hex grid of tiles. It is immutable during a battle;
// setters exist for scenario construction only.
type Map struct {
	Width  int
	Height int

	tiles map[Hex]Tile

	DeploymentA []Hex
	DeploymentB []Hex
	Objectives  []Objective
}

// NewMap builds a Width x Height map of open ground at elevation zero.
func NewMap(width, height int) *Map {
	m := &Map{
		Width:  width,
		Height: height,
		tiles:  make(map[Hex]Tile, width*height),
	}
	for q := 0; q < width; q++ {
		for r := 0; r < height; r++ {
			m.tiles[Hex{q, r}] = Tile{Terrain: Open}
		}
	}
	return m
}

// InBounds reports whether the hex is on the map.
func (m *Map) InBounds(h Hex) bool {
	return h.Q >= 0 && h.R >= 0 && h.Q < m.Width && h.R < m.Height
}

// Tile returns the tile at h. Off-map hexes read as impassable cliff.
func (m *Map) Tile(h Hex) Tile {
	t, ok := m.tiles[h]
	if !ok {
		return Tile{Terrain: Cliff}
	}
	return t
}

// SetTerrain changes the terrain at h, keeping elevation and features.
func (m *Map) SetTerrain(h Hex, t Terrain) {
	if !m.InBounds(h) {
		return
	}
	tile := m.tiles[h]
	tile.Terrain = t
	m.tiles[h] = tile
}

// SetElevation sets the elevation level at h.
func (m *Map) SetElevation(h Hex, elev int) {
	if !m.InBounds(h) {
		return
	}
	tile := m.tiles[h]
	tile.Elevation = elev
	m.tiles[h] = tile
}

// AddFeature adds a feature at h if not already present.
func (m *Map) AddFeature(h Hex, f Feature) {
	if !m.InBounds(h) {
		return
	}
	tile := m.tiles[h]
	if !tile.hasFeature(f) {
		tile.Features = append(tile.Features, f)
	}
	m.tiles[h] = tile
}

// MoveCost returns the cost to enter h, or ok=false if impassable.
func (m *Map) MoveCost(h Hex) (float64, bool) {
	if !m.InBounds(h) {
		return 0, false
	}
	return m.Tile(h).MoveCost()
}

// ElevationDiff returns from's elevation minus to's. Positive means
// from stands higher.
func (m *Map) ElevationDiff(from, to Hex) int {
	return m.Tile(from).Elevation - m.Tile(to).Elevation
}

// LineOfSight reports whether an observer at from can see to.
// Intermediate hexes with sight-blocking terrain or features block the
// line; the endpoints themselves never block.
func (m *Map) LineOfSight(from, to Hex) bool {
	line := from.LineTo(to)
	if len(line) <= 2 {
		return true
	}
	for _, h := range line[1 : len(line)-1] {
		if m.InBounds(h) && m.Tile(h).BlocksSight() {
			return false
		}
	}
	return true
}

// VisibleHexes returns every in-bounds hex within range of from that
// has clear line of sight.
func (m *Map) VisibleHexes(from Hex, rng int) []Hex {
	out := make([]Hex, 0, 1+3*rng*(rng+1))
	for _, h := range from.InRange(rng) {
		if m.InBounds(h) && m.LineOfSight(from, h) {
			out = append(out, h)
		}
	}
	return out
}

// String renders the map terrain for debugging output.
func (m *Map) String() string {
	var b strings.Builder
	for r := 0; r < m.Height; r++ {
		if r%2 == 1 {
			b.WriteByte(' ')
		}
		for q := 0; q < m.Width; q++ {
			b.WriteRune(terrainRune(m.Tile(Hex{q, r}).Terrain))
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func terrainRune(t Terrain) rune {
	switch t {
	case Open:
		return '.'
	case Rough:
		return ','
	case Forest:
		return 'F'
	case ShallowWater:
		return 'w'
	case DeepWater:
		return 'W'
	case Road:
		return '='
	case Building:
		return 'B'
	case Cliff:
		return '#'
	default:
		return '?'
	}
}
