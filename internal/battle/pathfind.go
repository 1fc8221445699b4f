package battle

import "container/heap"

// pathNode is an entry in the A* open set.
type pathNode struct {
	hex  Hex
	f    float64
	seq  int // insertion order, breaks float ties deterministically
}

type pathQueue []pathNode

func (q pathQueue) Len() int { return len(q) }
func (q pathQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].seq < q[j].seq
}
func (q pathQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *pathQueue) Push(x any)        { *q = append(*q, x.(pathNode)) }
func (q *pathQueue) Pop() any {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}

// FindPath runs A* from start to goal honoring terrain costs and the
// unit class's impassable terrain. The returned path includes both
// endpoints. Returns nil when no path exists.
func FindPath(m *Map, start, goal Hex, mounted bool) []Hex {
	if start == goal {
		return []Hex{start}
	}
	if !m.InBounds(goal) || !passableFor(m.Tile(goal), mounted) {
		return nil
	}

	// Road hexes cost 0.7 to enter, so the distance heuristic is
	// scaled down to stay admissible.
	const minEntryCost = 0.7

	open := &pathQueue{{hex: start, f: minEntryCost * float64(start.Distance(goal))}}
	cameFrom := make(map[Hex]Hex)
	gScore := map[Hex]float64{start: 0}
	seq := 0

	for open.Len() > 0 {
		current := heap.Pop(open).(pathNode)
		if current.hex == goal {
			return reconstructPath(cameFrom, current.hex)
		}
		currentG := gScore[current.hex]

		for _, nb := range current.hex.Neighbors() {
			if !m.InBounds(nb) {
				continue
			}
			tile := m.Tile(nb)
			if !passableFor(tile, mounted) {
				continue
			}
			cost, ok := tile.MoveCost()
			if !ok {
				continue
			}
			tentative := currentG + cost
			if prev, seen := gScore[nb]; seen && tentative >= prev {
				continue
			}
			cameFrom[nb] = current.hex
			gScore[nb] = tentative
			seq++
			heap.Push(open, pathNode{hex: nb, f: tentative + minEntryCost*float64(nb.Distance(goal)), seq: seq})
		}
	}
	return nil
}

func passableFor(t Tile, mounted bool) bool {
	if t.hasFeature(Bridge) {
		return true
	}
	if mounted {
		return !t.Terrain.ImpassableForCavalry()
	}
	return !t.Terrain.ImpassableForInfantry()
}

func reconstructPath(cameFrom map[Hex]Hex, current Hex) []Hex {
	path := []Hex{current}
	for {
		prev, ok := cameFrom[current]
		if !ok {
			break
		}
		path = append(path, prev)
		current = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathCost sums entry costs along a path. Impassable hexes contribute
// nothing.
func PathCost(m *Map, path []Hex) float64 {
	total := 0.0
	for _, h := range path {
		if c, ok := m.MoveCost(h); ok {
			total += c
		}
	}
	return total
}
