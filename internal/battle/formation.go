package battle

// FormationKind is the shape a group of units adopts.
type FormationKind int

const (
	FormationLine FormationKind = iota
	FormationColumn
	FormationWedge
	FormationSquare
)

func (k FormationKind) String() string {
	switch k {
	case FormationLine:
		return "line"
	case FormationColumn:
		return "column"
	case FormationWedge:
		return "wedge"
	case FormationSquare:
		return "square"
	default:
		return "unknown"
	}
}

// perpendicular returns the direction one facing-step to the left,
// used as the lateral axis of a formation.
func perpendicular(facing Direction) Direction {
	return (facing + 1) % 6
}

// FormationPositions computes the target hex for each slot of a
// formation of count units centered on center and facing the given
// way. Slot i always maps to the same hex for the same inputs, so
// re-laying-out an unchanged formation moves nobody.
func FormationPositions(kind FormationKind, center Hex, facing Direction, count int) []Hex {
	switch kind {
	case FormationColumn:
		return columnPositions(center, facing, 2, count)
	case FormationWedge:
		return wedgePositions(center, facing, count)
	case FormationSquare:
		return squarePositions(center, facing, count)
	default:
		return linePositions(center, facing, 2, count)
	}
}

func linePositions(center Hex, facing Direction, depth, count int) []Hex {
	out := make([]Hex, 0, count)
	lateral := perpendicular(facing).Offset()
	back := facing.Opposite().Offset()

	perRank := (count + depth - 1) / depth
	if perRank < 1 {
		perRank = 1
	}
	half := perRank / 2

	for i := 0; i < count; i++ {
		rank := i / perRank
		slot := i%perRank - half
		out = append(out, center.Add(lateral.Scale(slot)).Add(back.Scale(rank)))
	}
	return out
}

func columnPositions(center Hex, facing Direction, width, count int) []Hex {
	out := make([]Hex, 0, count)
	forward := facing.Offset()
	lateral := perpendicular(facing).Offset()
	half := width / 2

	for i := 0; i < count; i++ {
		row := i / width
		col := i%width - half
		out = append(out, center.Add(forward.Scale(row)).Add(lateral.Scale(col)))
	}
	return out
}

func wedgePositions(center Hex, facing Direction, count int) []Hex {
	out := make([]Hex, 0, count)
	out = append(out, center)

	back := facing.Opposite().Offset()
	left := perpendicular(facing).Offset()
	right := perpendicular(facing).Opposite().Offset()

	row := 1
	for len(out) < count {
		for side := 0; side <= row && len(out) < count; side++ {
			out = append(out, center.Add(back.Scale(row)).Add(left.Scale(side)))
			if side == 0 || len(out) >= count {
				continue
			}
			out = append(out, center.Add(back.Scale(row)).Add(right.Scale(side)))
		}
		row++
	}
	return out
}

func squarePositions(center Hex, facing Direction, count int) []Hex {
	out := make([]Hex, 0, count)
	forward := facing.Offset()
	lateral := perpendicular(facing).Offset()

	side := 1
	for side*side < count {
		side++
	}
	half := side / 2

	for i := 0; i < count; i++ {
		row := i/side - half
		col := i%side - half
		out = append(out, center.Add(forward.Scale(row)).Add(lateral.Scale(col)))
	}
	return out
}

// LayoutFormation assigns formation target hexes to units by their
// stable ordinal. Units are matched to slots in ordinal order so the
// layout is idempotent.
func LayoutFormation(kind FormationKind, center Hex, facing Direction, units []*Unit) map[UnitID]Hex {
	positions := FormationPositions(kind, center, facing, len(units))
	targets := make(map[UnitID]Hex, len(units))
	for i, u := range units {
		targets[u.ID] = positions[i]
	}
	return targets
}
