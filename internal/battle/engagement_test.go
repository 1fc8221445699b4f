package battle

import "testing"

func TestDetectEngagementAdjacency(t *testing.T) {
	a := NewUnit(0, SideA, Infantry, 100)
	b := NewUnit(1, SideB, Infantry, 100)

	a.Position, b.Position = Hex{5, 5}, Hex{6, 5}
	if _, ok := detectEngagement(a, b); !ok {
		t.Fatal("adjacent units did not engage")
	}

	b.Position = Hex{7, 5}
	if _, ok := detectEngagement(a, b); ok {
		t.Fatal("units two hexes apart engaged")
	}
}

func TestDetectEngagementRequiresFighters(t *testing.T) {
	a := NewUnit(0, SideA, Infantry, 100)
	b := NewUnit(1, SideB, Infantry, 100)
	a.Position, b.Position = Hex{5, 5}, Hex{6, 5}

	b.Stance = Routing
	if _, ok := detectEngagement(a, b); ok {
		t.Fatal("routing unit was engaged as a combatant")
	}

	b.Stance = Formed
	b.Casualties = b.Strength
	if _, ok := detectEngagement(a, b); ok {
		t.Fatal("wiped-out unit engaged")
	}
}

func TestFindEngagementsStableOrder(t *testing.T) {
	armyA, armyB := NewArmy(SideA), NewArmy(SideB)
	for i := 0; i < 3; i++ {
		u := NewUnit(UnitID(i), SideA, Infantry, 100)
		u.Position = Hex{5, i}
		armyA.AddUnit(u)
		e := NewUnit(UnitID(10+i), SideB, Infantry, 100)
		e.Position = Hex{6, i}
		armyB.AddUnit(e)
	}

	first := findEngagements(armyA, armyB)
	if len(first) == 0 {
		t.Fatal("no engagements found")
	}
	for i := 1; i < len(first); i++ {
		prev, cur := first[i-1], first[i]
		if cur.Attacker < prev.Attacker ||
			(cur.Attacker == prev.Attacker && cur.Defender < prev.Defender) {
			t.Fatalf("engagements out of ID order at %d: %+v after %+v", i, cur, prev)
		}
	}
}

func TestSurrounded(t *testing.T) {
	u := NewUnit(0, SideA, Infantry, 100)
	u.Position = Hex{5, 5}

	positions := map[Hex]struct{}{
		{6, 5}: {},
		{4, 5}: {},
	}
	if isSurrounded(u, positions) {
		t.Fatal("two adjacent enemies counted as surrounded")
	}
	positions[Hex{5, 4}] = struct{}{}
	if !isSurrounded(u, positions) {
		t.Fatal("three adjacent enemies not surrounded")
	}
}
