package battle

import "fmt"

// Record is one entry in a battle's event log.
type Record struct {
	Tick     int     `json:"tick"`
	Category string  `json:"category"` // courier, move, engage, combat, morale, gocode, phase, internal, battle
	Key      string  `json:"key"`      // specific event name within the category
	Unit     UnitID  `json:"unit"`     // -1 for army or battle level events
	Side     string  `json:"side"`     // "a", "b", or "--"
	Value    string  `json:"value"`    // human-readable detail
	Num      float64 `json:"num"`      // optional numeric value for threshold checks
}

// String formats the record as a fixed-width log line.
//
//	[T=042] a/3  morale  break  stress 1.21 over threshold 1.10
func (r Record) String() string {
	who := "--"
	if r.Unit >= 0 {
		who = fmt.Sprintf("%s/%d", r.Side, r.Unit)
	} else if r.Side != "--" && r.Side != "" {
		who = r.Side
	}
	return fmt.Sprintf("[T=%04d] %-5s %-9s %-20s %s", r.Tick, who, r.Category, r.Key, r.Value)
}

// Log is the append-only event log for one battle. It is unbounded
// and machine-readable; flushing to storage is the caller's concern,
// never the tick loop's.
type Log struct {
	records []Record
	verbose bool
}

// NewLog creates a Log. If verbose is true, per-tick position entries
// are also recorded.
func NewLog(verbose bool) *Log {
	return &Log{verbose: verbose}
}

// Add records a battle-level event with no unit attached.
func (l *Log) Add(tick int, category, key, value string, num float64) {
	l.records = append(l.records, Record{
		Tick: tick, Category: category, Key: key,
		Unit: -1, Side: "--", Value: value, Num: num,
	})
}

// AddUnit records an event attached to a unit.
func (l *Log) AddUnit(tick int, side Side, unit UnitID, category, key, value string, num float64) {
	l.records = append(l.records, Record{
		Tick: tick, Category: category, Key: key,
		Unit: unit, Side: side.String(), Value: value, Num: num,
	})
}

// AddSide records an army-level event.
func (l *Log) AddSide(tick int, side Side, category, key, value string, num float64) {
	l.records = append(l.records, Record{
		Tick: tick, Category: category, Key: key,
		Unit: -1, Side: side.String(), Value: value, Num: num,
	})
}

// AddVerbose records a unit event only when verbose mode is on.
func (l *Log) AddVerbose(tick int, side Side, unit UnitID, category, key, value string, num float64) {
	if !l.verbose {
		return
	}
	l.AddUnit(tick, side, unit, category, key, value, num)
}

// Records returns all recorded events in order.
func (l *Log) Records() []Record {
	return l.records
}

// Filter returns records matching the given category and/or key.
// Pass empty string to match any value for that field.
func (l *Log) Filter(category, key string) []Record {
	var out []Record
	for _, r := range l.records {
		if category != "" && r.Category != category {
			continue
		}
		if key != "" && r.Key != key {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterUnit returns records for a specific unit.
func (l *Log) FilterUnit(side Side, unit UnitID) []Record {
	var out []Record
	for _, r := range l.records {
		if r.Side == side.String() && r.Unit == unit {
			out = append(out, r)
		}
	}
	return out
}

// FilterTickRange returns records within [from, to] inclusive.
func (l *Log) FilterTickRange(from, to int) []Record {
	var out []Record
	for _, r := range l.records {
		if r.Tick >= from && r.Tick <= to {
			out = append(out, r)
		}
	}
	return out
}

// Count returns how many records match the given category and key.
func (l *Log) Count(category, key string) int {
	return len(l.Filter(category, key))
}

// LastOf returns the most recent record matching category+key, or
// false if none.
func (l *Log) LastOf(category, key string) (Record, bool) {
	rs := l.Filter(category, key)
	if len(rs) == 0 {
		return Record{}, false
	}
	return rs[len(rs)-1], true
}

// Has returns true if at least one record matches category and key.
func (l *Log) Has(category, key string) bool {
	return l.Count(category, key) > 0
}
