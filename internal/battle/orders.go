package battle

import "fmt"

// OrderKind discriminates order payloads.
type OrderKind int

const (
	OrderMoveTo OrderKind = iota
	OrderAttack
	OrderDefend
	OrderRetreat
	OrderHold
	OrderRally
	OrderChangeFormation
	OrderExecuteGoCode
)

func (k OrderKind) String() string {
	switch k {
	case OrderMoveTo:
		return "move_to"
	case OrderAttack:
		return "attack"
	case OrderDefend:
		return "defend"
	case OrderRetreat:
		return "retreat"
	case OrderHold:
		return "hold"
	case OrderRally:
		return "rally"
	case OrderChangeFormation:
		return "change_formation"
	case OrderExecuteGoCode:
		return "execute_go_code"
	default:
		return "unknown"
	}
}

// Order is a command for one unit. Orders are immutable once issued;
// a delivered order replaces the target's current order wholesale.
type Order struct {
	Kind      OrderKind
	Target    UnitID // unit the order is addressed to
	Dest      Hex    // MoveTo, Defend
	Enemy     UnitID // Attack
	Route     []Hex  // Retreat
	Formation FormationKind
	GoCode    string
	IssuedAt  int
}

func (o Order) String() string {
	switch o.Kind {
	case OrderMoveTo, OrderDefend:
		return fmt.Sprintf("%s (%d,%d)", o.Kind, o.Dest.Q, o.Dest.R)
	case OrderAttack:
		return fmt.Sprintf("attack unit %d", o.Enemy)
	case OrderRetreat:
		return fmt.Sprintf("retreat via %d hexes", len(o.Route))
	case OrderChangeFormation:
		return fmt.Sprintf("form %s", o.Formation)
	case OrderExecuteGoCode:
		return fmt.Sprintf("execute go-code %q", o.GoCode)
	default:
		return o.Kind.String()
	}
}

// MoveOrder commands a unit to a destination hex.
func MoveOrder(target UnitID, dest Hex) Order {
	return Order{Kind: OrderMoveTo, Target: target, Dest: dest}
}

// AttackOrder commands a unit to assault an enemy unit.
func AttackOrder(target, enemy UnitID) Order {
	return Order{Kind: OrderAttack, Target: target, Enemy: enemy}
}

// DefendOrder commands a unit to take and hold a position.
func DefendOrder(target UnitID, pos Hex) Order {
	return Order{Kind: OrderDefend, Target: target, Dest: pos}
}

// RetreatOrder commands a unit along a withdrawal route, rallying at
// the final hex.
func RetreatOrder(target UnitID, route []Hex) Order {
	return Order{Kind: OrderRetreat, Target: target, Route: route}
}

// HoldOrder commands a unit to stand at its current position.
func HoldOrder(target UnitID) Order {
	return Order{Kind: OrderHold, Target: target}
}

// RallyOrder commands a broken unit to begin reforming.
func RallyOrder(target UnitID) Order {
	return Order{Kind: OrderRally, Target: target}
}

// FormationOrder commands a unit to re-form into the given shape.
func FormationOrder(target UnitID, kind FormationKind) Order {
	return Order{Kind: OrderChangeFormation, Target: target, Formation: kind}
}

// GoCodeOrder triggers a named go-code on delivery.
func GoCodeOrder(target UnitID, name string) Order {
	return Order{Kind: OrderExecuteGoCode, Target: target, GoCode: name}
}
