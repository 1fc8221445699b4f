package battle

import "math"

// Courier constants.
const (
	courierSpeed             = 0.40 // hexes per tick
	courierInterceptionRange = 2
	interceptChancePatrol    = 0.5
	interceptChanceAlert     = 0.7
)

// CourierID identifies a courier within one army's courier system.
// IDs are monotonic ints so same-tick deliveries break ties
// deterministically.
type CourierID int

// CourierStatus is a courier's lifecycle state.
type CourierStatus int

const (
	EnRoute CourierStatus = iota
	Arrived
	Intercepted
	Lost
)

func (s CourierStatus) String() string {
	switch s {
	case EnRoute:
		return "en_route"
	case Arrived:
		return "arrived"
	case Intercepted:
		return "intercepted"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

// CourierInFlight is an order in transit. The courier rides a straight
// hex line from source to destination, accumulating fractional
// progress each tick.
type CourierInFlight struct {
	ID     CourierID
	Order  Order
	Source Hex
	Dest   Hex

	Position Hex   // current interpolated hex
	path     []Hex // remaining hexes, destination last
	progress float64

	Origin  int // tick dispatched
	Arrival int // earliest tick the order can apply
	Status  CourierStatus
}

// advance moves the courier along its line by speed hexes.
func (c *CourierInFlight) advance(speed float64) {
	if c.Status != EnRoute {
		return
	}
	c.progress += speed
	for c.progress >= 1.0 && len(c.path) > 0 {
		c.Position = c.path[0]
		c.path = c.path[1:]
		c.progress -= 1.0
	}
	if len(c.path) == 0 && c.Position == c.Dest {
		c.Status = Arrived
	}
}

// CourierSystem owns one side's couriers in flight. At most one
// undelivered order per target unit is active: a newer send marks the
// pending courier lost.
type CourierSystem struct {
	inFlight []*CourierInFlight
	nextID   CourierID
}

// NewCourierSystem returns an empty system.
func NewCourierSystem() *CourierSystem {
	return &CourierSystem{}
}

// Send dispatches a courier carrying the order from source to dest.
// Any courier already in flight to the same target unit is superseded
// and returned so the caller can log the loss.
func (cs *CourierSystem) Send(order Order, source, dest Hex, tick int) (*CourierInFlight, *CourierInFlight) {
	var superseded *CourierInFlight
	for _, c := range cs.inFlight {
		if c.Status == EnRoute && c.Order.Target == order.Target {
			c.Status = Lost
			superseded = c
			break
		}
	}

	order.IssuedAt = tick
	dist := source.Distance(dest)
	c := &CourierInFlight{
		ID:       cs.nextID,
		Order:    order,
		Source:   source,
		Dest:     dest,
		Position: source,
		Origin:   tick,
		Arrival:  tick + int(math.Ceil(float64(dist)/courierSpeed)),
		Status:   EnRoute,
	}
	if dist == 0 {
		c.Status = Arrived
		c.Arrival = tick
	} else {
		line := source.LineTo(dest)
		c.path = line[1:]
	}
	cs.nextID++
	cs.inFlight = append(cs.inFlight, c)
	return c, superseded
}

// AdvanceAll moves every en-route courier one tick.
func (cs *CourierSystem) AdvanceAll() {
	for _, c := range cs.inFlight {
		c.advance(courierSpeed)
	}
}

// CheckInterception rolls a deterministic draw for each en-route
// courier within reach of an enemy patrol or alert unit. Intercepted
// couriers are returned for logging; their orders never apply.
func (cs *CourierSystem) CheckInterception(enemy *Army, seed uint64, tick int) []*CourierInFlight {
	var caught []*CourierInFlight
	for _, c := range cs.inFlight {
		if c.Status != EnRoute {
			continue
		}
		for _, e := range enemy.Units {
			if e.Destroyed || (e.Stance != Patrol && e.Stance != Alert) {
				continue
			}
			if e.Position.Distance(c.Position) > courierInterceptionRange {
				continue
			}
			chance := interceptChancePatrol
			if e.Stance == Alert {
				chance = interceptChanceAlert
			}
			if draw(seed, 0x11, uint64(tick), uint64(c.ID), uint64(e.ID)) < chance {
				c.Status = Intercepted
				caught = append(caught, c)
				break
			}
		}
	}
	return caught
}

// CollectArrived removes and returns all couriers whose order is due
// at or before the given tick, in (arrival, ID) order. Lost and
// intercepted couriers are dropped silently here; they were reported
// when they failed.
func (cs *CourierSystem) CollectArrived(tick int) []*CourierInFlight {
	var arrived []*CourierInFlight
	remaining := cs.inFlight[:0]
	for _, c := range cs.inFlight {
		switch c.Status {
		case Arrived:
			if c.Arrival <= tick {
				arrived = append(arrived, c)
			} else {
				remaining = append(remaining, c)
			}
		case EnRoute:
			remaining = append(remaining, c)
		}
	}
	cs.inFlight = remaining

	// Stable delivery order for same-tick arrivals.
	for i := 1; i < len(arrived); i++ {
		for j := i; j > 0; j-- {
			a, b := arrived[j-1], arrived[j]
			if a.Arrival < b.Arrival || (a.Arrival == b.Arrival && a.ID < b.ID) {
				break
			}
			arrived[j-1], arrived[j] = b, a
		}
	}
	return arrived
}

// InFlight returns the count of en-route couriers.
func (cs *CourierSystem) InFlight() int {
	n := 0
	for _, c := range cs.inFlight {
		if c.Status == EnRoute {
			n++
		}
	}
	return n
}

// Pending returns the en-route courier addressed to the unit, or nil.
func (cs *CourierSystem) Pending(target UnitID) *CourierInFlight {
	for _, c := range cs.inFlight {
		if c.Status == EnRoute && c.Order.Target == target {
			return c
		}
	}
	return nil
}
