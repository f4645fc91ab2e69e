package timing

import (
	"math/rand"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
)

func newEvent(row int, kind Kind, t float64) *Event {
	return &Event{Row: row, Kind: kind, Time: t}
}

func boundaryTree() (*Tree, []*Event) {
	tree := NewTree()
	events := []*Event{
		newEvent(200, Tempo, 2.0),
		newEvent(0, Tempo, 0.0),
		newEvent(100, Tempo, 1.0),
	}
	for _, e := range events {
		tree.Insert(e)
	}
	return tree, tree.Events()
}

func TestFindBestByPositionBoundaries(t *testing.T) {
	tree, events := boundaryTree()

	var tests = map[float64]*Event{
		150:  events[1],
		200:  events[2],
		1000: events[2],
		100:  events[1],
		99.9: events[0],
		0:    events[0],
		-5:   events[0],
	}
	for q, expected := range tests {
		it := tree.FindBestByPosition(q)
		if assert.True(t, it.Valid(), "position %v", q) {
			assert.Same(t, expected, it.Current(), "position %v", q)
		}
	}
}

func TestFindBestByTimeBoundaries(t *testing.T) {
	tree, events := boundaryTree()

	var tests = map[float64]*Event{
		1.5:  events[1],
		2.0:  events[2],
		1.0:  events[1],
		0.5:  events[0],
		-1.0: events[0],
	}
	for q, expected := range tests {
		it := tree.FindBestByTime(q)
		if assert.True(t, it.Valid(), "time %v", q) {
			assert.Same(t, expected, it.Current(), "time %v", q)
		}
	}
}

func TestFindBestEmpty(t *testing.T) {
	tree := NewTree()
	for _, q := range []float64{-1, 0, 1, 1e9} {
		assert.False(t, tree.FindBestByTime(q).Valid())
		assert.False(t, tree.FindBestByPosition(q).Valid())
		assert.Nil(t, tree.FindBestByPosition(q).Current())
	}
	assert.False(t, tree.FindBest(Variable, Cursor{}).Valid())
}

func TestFindBestDuplicates(t *testing.T) {
	tree := NewTree()
	a := newEvent(100, Stop, 1.0)
	b := newEvent(100, Tempo, 1.0)
	c := newEvent(100, Stop, 1.0)
	first := newEvent(0, Tempo, 0)
	for _, e := range []*Event{a, b, c, first} {
		tree.Insert(e)
	}

	// Ties order by kind, then by insertion. The last one governs.
	for i := 0; i < 3; i++ {
		assert.Same(t, c, tree.FindBestByPosition(100).Current())
		assert.Same(t, c, tree.FindBestByPosition(101).Current())
		assert.Same(t, c, tree.FindBestByTime(1.0).Current())
	}
	assert.Same(t, first, tree.FindBestByPosition(99).Current())

	it := tree.FindBestByPosition(100)
	assert.True(t, it.MovePrev())
	assert.Same(t, a, it.Current())
	assert.True(t, it.MovePrev())
	assert.Same(t, b, it.Current())
}

func TestFindBestDuplicatesBeforeEverything(t *testing.T) {
	tree := NewTree()
	a := newEvent(100, Tempo, 1.0)
	b := newEvent(100, Scroll, 1.0)
	tree.Insert(b)
	tree.Insert(a)

	assert.Same(t, b, tree.FindBestByPosition(100).Current())
	assert.Same(t, a, tree.FindBestByPosition(50).Current())
	assert.Same(t, a, tree.FindBestByTime(0).Current())
}

func TestFindBestDispatch(t *testing.T) {
	tree := NewTree()
	early := newEvent(0, Tempo, 0)
	late := newEvent(192, Tempo, 5)
	tree.Insert(early)
	tree.Insert(late)

	// The cursor's time and position disagree on purpose.
	at := Cursor{Time: 1, Position: 200}
	assert.Same(t, early, tree.FindBest(ConstantTime, at).Current())
	assert.Same(t, late, tree.FindBest(ConstantRow, at).Current())
	assert.Same(t, late, tree.FindBest(Variable, at).Current())
}

func TestFindBestReflectsMutation(t *testing.T) {
	tree, events := boundaryTree()
	assert.Same(t, events[1], tree.FindBestByPosition(150).Current())

	assert.True(t, tree.Delete(events[1]))
	assert.False(t, tree.Delete(events[1]))
	assert.Same(t, events[0], tree.FindBestByPosition(150).Current())

	e := newEvent(120, Scroll, 1.2)
	tree.Insert(e)
	assert.Same(t, e, tree.FindBestByPosition(150).Current())
	assert.Equal(t, 3, tree.Len())
}

func TestEnumerator(t *testing.T) {
	tree, events := boundaryTree()

	it := tree.First()
	for i := range events {
		assert.Same(t, events[i], it.Current())
		it.MoveNext()
	}
	assert.False(t, it.Valid())
	assert.False(t, it.MoveNext())

	it = tree.Last()
	assert.Same(t, events[2], it.Current())
	assert.True(t, it.MovePrev())
	assert.True(t, it.MovePrev())
	assert.False(t, it.MovePrev())
	assert.False(t, it.Valid())
}

func bruteBest(events []*Event, key func(*Event) float64, q float64) *Event {
	var best *Event
	for _, e := range events {
		if key(e) <= q {
			best = e
		}
	}
	if best == nil && len(events) > 0 {
		return events[0]
	}
	return best
}

func TestFindBestMatchesLinearScan(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	byRow := func(e *Event) float64 { return float64(e.Row) }
	byTime := func(e *Event) float64 { return e.Time }

	for trial := 0; trial < 50; trial++ {
		tree := NewTree()
		n := r.Intn(40)
		for i := 0; i < n; i++ {
			row := 12 * r.Intn(16)
			tree.Insert(newEvent(row, Kind(r.Intn(int(kindCount))), float64(row)/96))
		}
		events := tree.Events()
		for i := 1; i < len(events); i++ {
			if events[i-1].Row > events[i].Row {
				t.Fatalf("events out of order: %s", spew.Sdump(events))
			}
		}

		for i := 0; i < 100; i++ {
			q := r.Float64()*220 - 10
			if got, expected := tree.FindBestByPosition(q).Current(), bruteBest(events, byRow, q); got != expected {
				t.Log("position", q)
				t.Log("got     ", spew.Sdump(got))
				t.Log("expected", spew.Sdump(expected))
				t.Fail()
			}
			qt := q / 96
			if got, expected := tree.FindBestByTime(qt).Current(), bruteBest(events, byTime, qt); got != expected {
				t.Log("time", qt)
				t.Log("got     ", spew.Sdump(got))
				t.Log("expected", spew.Sdump(expected))
				t.Fail()
			}
		}

		// Exact keys, where ties live.
		for _, e := range events {
			assert.Same(t, bruteBest(events, byRow, float64(e.Row)), tree.FindBestByPosition(float64(e.Row)).Current())
		}
	}
}

func TestParseSpacingMode(t *testing.T) {
	for _, m := range []SpacingMode{ConstantTime, ConstantRow, Variable} {
		parsed, err := ParseSpacingMode(m.String())
		assert.NoError(t, err)
		assert.Equal(t, m, parsed)
	}
	_, err := ParseSpacingMode("beats")
	assert.Error(t, err)
}

var result *Event

func BenchmarkFindBestByPosition(b *testing.B) {
	tree := NewTree()
	for i := 0; i < 1000; i++ {
		tree.Insert(newEvent(i*48, Tempo, float64(i)))
	}
	b.ResetTimer()

	var e *Event
	for n := 0; n < b.N; n++ {
		e = tree.FindBestByPosition(float64(n%48000) + 0.5).Current()
	}
	result = e
}

func BenchmarkFindBestByTime(b *testing.B) {
	tree := NewTree()
	for i := 0; i < 1000; i++ {
		tree.Insert(newEvent(i*48, Tempo, float64(i)))
	}
	b.ResetTimer()

	var e *Event
	for n := 0; n < b.N; n++ {
		e = tree.FindBestByTime(float64(n%1000) + 0.5).Current()
	}
	result = e
}
