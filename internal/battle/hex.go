package battle

import "math"

// Hex is an axial coordinate on the battle grid. The third cube
// coordinate S is derived, so two ints identify a hex.
type Hex struct {
	Q, R int
}

// S returns the derived cube coordinate.
func (h Hex) S() int {
	return -h.Q - h.R
}

// Distance returns the hex distance between two coordinates.
func (h Hex) Distance(o Hex) int {
	dq := abs(h.Q - o.Q)
	dr := abs(h.R - o.R)
	ds := abs(h.S() - o.S())
	return (dq + dr + ds) / 2
}

// Neighbors returns the six adjacent coordinates in direction order
// (East, NorthEast, NorthWest, West, SouthWest, SouthEast).
func (h Hex) Neighbors() [6]Hex {
	return [6]Hex{
		{h.Q + 1, h.R},
		{h.Q + 1, h.R - 1},
		{h.Q, h.R - 1},
		{h.Q - 1, h.R},
		{h.Q - 1, h.R + 1},
		{h.Q, h.R + 1},
	}
}

// LineTo returns the hexes on a straight line from h to o, inclusive
// of both endpoints.
func (h Hex) LineTo(o Hex) []Hex {
	n := h.Distance(o)
	if n == 0 {
		return []Hex{h}
	}
	line := make([]Hex, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		q := float64(h.Q) + float64(o.Q-h.Q)*t
		r := float64(h.R) + float64(o.R-h.R)*t
		line = append(line, roundHex(q, r))
	}
	return line
}

// InRange returns every hex within the given range of h, inclusive.
func (h Hex) InRange(rng int) []Hex {
	out := make([]Hex, 0, 1+3*rng*(rng+1))
	for q := -rng; q <= rng; q++ {
		lo := max(-rng, -q-rng)
		hi := min(rng, -q+rng)
		for r := lo; r <= hi; r++ {
			out = append(out, Hex{h.Q + q, h.R + r})
		}
	}
	return out
}

// Toward returns the neighbor of h closest to the target, or h itself
// if already there.
func (h Hex) Toward(target Hex) Hex {
	if h == target {
		return h
	}
	best := h
	bestDist := h.Distance(target)
	for _, n := range h.Neighbors() {
		if d := n.Distance(target); d < bestDist {
			best = n
			bestDist = d
		}
	}
	return best
}

// roundHex snaps fractional axial coordinates to the nearest hex.
func roundHex(q, r float64) Hex {
	s := -q - r
	rq := math.Round(q)
	rr := math.Round(r)
	rs := math.Round(s)

	qDiff := math.Abs(rq - q)
	rDiff := math.Abs(rr - r)
	sDiff := math.Abs(rs - s)

	if qDiff > rDiff && qDiff > sDiff {
		rq = -rr - rs
	} else if rDiff > sDiff {
		rr = -rq - rs
	}
	return Hex{int(rq), int(rr)}
}

// Direction is one of the six hex facings.
type Direction int

const (
	East Direction = iota
	NorthEast
	NorthWest
	West
	SouthWest
	SouthEast
)

func (d Direction) String() string {
	switch d {
	case East:
		return "east"
	case NorthEast:
		return "northeast"
	case NorthWest:
		return "northwest"
	case West:
		return "west"
	case SouthWest:
		return "southwest"
	case SouthEast:
		return "southeast"
	default:
		return "unknown"
	}
}

// Offset returns the unit hex step for this direction.
func (d Direction) Offset() Hex {
	switch d {
	case East:
		return Hex{1, 0}
	case NorthEast:
		return Hex{1, -1}
	case NorthWest:
		return Hex{0, -1}
	case West:
		return Hex{-1, 0}
	case SouthWest:
		return Hex{-1, 1}
	default:
		return Hex{0, 1}
	}
}

// Opposite returns the reverse facing.
func (d Direction) Opposite() Direction {
	return (d + 3) % 6
}

// Add returns h shifted by o.
func (h Hex) Add(o Hex) Hex {
	return Hex{h.Q + o.Q, h.R + o.R}
}

// Scale returns h's components multiplied by k.
func (h Hex) Scale(k int) Hex {
	return Hex{h.Q * k, h.R * k}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
