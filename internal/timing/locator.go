package timing

import "fmt"

// SpacingMode selects how notes are spaced on screen and so whether a
// cursor is located by its time or by its row.
type SpacingMode int

const (
	ConstantTime SpacingMode = iota
	ConstantRow
	Variable
)

func (m SpacingMode) String() string {
	switch m {
	case ConstantTime:
		return "time"
	case ConstantRow:
		return "row"
	case Variable:
		return "variable"
	}
	return fmt.Sprintf("spacing(%d)", int(m))
}

func ParseSpacingMode(s string) (SpacingMode, error) {
	for _, m := range []SpacingMode{ConstantTime, ConstantRow, Variable} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown spacing mode %q", s)
}

// Cursor is a point in a chart, known both by time and by row.
type Cursor struct {
	Time     float64
	Position float64
}

// FindBest locates the event governing at by time in ConstantTime mode and
// by position otherwise.
func (t *Tree) FindBest(mode SpacingMode, at Cursor) Enumerator {
	if mode == ConstantTime {
		return t.FindBestByTime(at.Time)
	}
	return t.FindBestByPosition(at.Position)
}

// FindBestByTime returns the event governing chartTime: the last event at
// or before it, or the first event when chartTime precedes them all.
func (t *Tree) FindBestByTime(chartTime float64) Enumerator {
	return t.findBest(func(e *Event) float64 { return e.Time }, chartTime)
}

// FindBestByPosition is FindBestByTime for a row position.
func (t *Tree) FindBestByPosition(position float64) Enumerator {
	return t.findBest(func(e *Event) float64 { return float64(e.Row) }, position)
}

func (t *Tree) findBest(key func(*Event) float64, q float64) Enumerator {
	before := func(e *Event) bool { return key(e) < q }

	n := t.greatestPreceding(before)
	if n == nil {
		n = t.leastFollowing(before)
		if n == nil {
			return Enumerator{}
		}
	}

	// The descent only separates keys below q from the rest. Walk over the
	// events sitting exactly on q so that the last of them governs.
	for next := successor(n); next != nil && key(eventAt(next)) <= q; next = successor(next) {
		n = next
	}
	return Enumerator{node: n}
}
