package battle

// Terrain is the ground type of a hex.
type Terrain int

const (
	Open Terrain = iota
	Rough
	Forest
	ShallowWater
	DeepWater
	Cliff
	Road
	Building
)

func (t Terrain) String() string {
	switch t {
	case Open:
		return "open"
	case Rough:
		return "rough"
	case Forest:
		return "forest"
	case ShallowWater:
		return "shallow_water"
	case DeepWater:
		return "deep_water"
	case Cliff:
		return "cliff"
	case Road:
		return "road"
	case Building:
		return "building"
	default:
		return "unknown"
	}
}

// MoveCost returns the movement cost multiplier to enter a hex of this
// terrain. Impassable terrain returns ok=false.
func (t Terrain) MoveCost() (cost float64, ok bool) {
	switch t {
	case Open:
		return 1.0, true
	case Rough:
		return 1.5, true
	case Forest:
		return 2.5, true
	case ShallowWater:
		return 2.0, true
	case Road:
		return 0.7, true
	case Building:
		return 3.0, true
	default:
		return 0, false
	}
}

// BlocksSight reports whether the terrain blocks line of sight through
// the hex.
func (t Terrain) BlocksSight() bool {
	return t == Forest || t == Building
}

// Cover returns the cover value of the terrain, 0 none to 1 full.
func (t Terrain) Cover() float64 {
	switch t {
	case Rough:
		return 0.2
	case Forest:
		return 0.5
	case Building:
		return 0.7
	default:
		return 0
	}
}

// ImpassableForInfantry reports terrain foot units cannot enter.
func (t Terrain) ImpassableForInfantry() bool {
	return t == DeepWater || t == Cliff
}

// ImpassableForCavalry reports terrain mounted units cannot enter.
func (t Terrain) ImpassableForCavalry() bool {
	switch t {
	case DeepWater, Cliff, Forest, Building:
		return true
	default:
		return false
	}
}

// Conceals reports whether units in this terrain can hide.
func (t Terrain) Conceals() bool {
	return t == Forest || t == Building
}

// Feature is an optional structure on a hex, on top of its terrain.
type Feature int

const (
	NoFeature Feature = iota
	Hill
	Ridge
	Stream
	Bridge
	Wall
	Gate
	Tower
	Treeline
)

func (f Feature) String() string {
	switch f {
	case Hill:
		return "hill"
	case Ridge:
		return "ridge"
	case Stream:
		return "stream"
	case Bridge:
		return "bridge"
	case Wall:
		return "wall"
	case Gate:
		return "gate"
	case Tower:
		return "tower"
	case Treeline:
		return "treeline"
	default:
		return "none"
	}
}

// MoveCostModifier returns the additional cost the feature adds to
// entering its hex.
func (f Feature) MoveCostModifier() float64 {
	switch f {
	case Hill:
		return 0.3
	case Ridge:
		return 0.2
	case Stream:
		return 0.5
	case Wall:
		return 1.0
	case Treeline:
		return 0.2
	default:
		return 0
	}
}

// DefenseBonus returns the additive defense bonus the feature grants.
func (f Feature) DefenseBonus() float64 {
	switch f {
	case Hill:
		return 0.1
	case Ridge:
		return 0.2
	case Wall:
		return 0.4
	case Gate:
		return 0.3
	case Tower:
		return 0.5
	case Treeline:
		return 0.1
	default:
		return 0
	}
}

// BlocksSight reports whether the feature blocks line of sight through
// its hex.
func (f Feature) BlocksSight() bool {
	return f == Ridge || f == Wall
}
