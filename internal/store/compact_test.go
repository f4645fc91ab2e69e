package store

import (
	"testing"

	"git.lost.host/meutraa/chartscope/internal/timing"
)

func events(es ...timing.Event) []*timing.Event {
	ps := make([]*timing.Event, len(es))
	for i := range es {
		ps[i] = &es[i]
	}
	return ps
}

var compactTests = []struct {
	events    []*timing.Event
	compacted []EventsCompact
}{
	{events(), []EventsCompact{}},
	{
		events(
			timing.Event{Row: 0, Kind: timing.Tempo, Value: 120},
			timing.Event{Row: 96, Kind: timing.Warp, Value: 48},
			timing.Event{Row: 192, Kind: timing.Tempo, Value: 180},
		),
		[]EventsCompact{
			{Kind: timing.Tempo, Rows: []int{0, 192}, Values: []float64{120, 180}},
			{Kind: timing.Scroll},
			{Kind: timing.Warp, Rows: []int{96}, Values: []float64{48}},
		},
	},
	{
		events(timing.Event{Row: 48, Kind: timing.Stop, Value: 0.5}),
		[]EventsCompact{
			{Kind: timing.Tempo},
			{Kind: timing.Scroll},
			{Kind: timing.Warp},
			{Kind: timing.Delay},
			{Kind: timing.Stop, Rows: []int{48}, Values: []float64{0.5}},
		},
	},
}

func TestCompactEvents(t *testing.T) {
	equal := func(p, q []EventsCompact) bool {
		if len(p) != len(q) {
			return false
		}
		for i := 0; i < len(p); i++ {
			pi, qi := p[i], q[i]
			if pi.Kind != qi.Kind {
				return false
			}
			if len(pi.Rows) != len(qi.Rows) || len(pi.Values) != len(qi.Values) {
				return false
			}
			for j := 0; j < len(pi.Rows); j++ {
				if pi.Rows[j] != qi.Rows[j] || pi.Values[j] != qi.Values[j] {
					return false
				}
			}
		}
		return true
	}

	for _, test := range compactTests {
		out := compactEvents(test.events)
		if !equal(out, test.compacted) {
			t.Log("out     ", out)
			t.Log("expected", test.compacted)
			t.Fail()
		}
	}
}

func TestUncompactEvents(t *testing.T) {
	for _, test := range compactTests {
		td, err := uncompactEvents(0.25, test.compacted)
		if nil != err {
			t.Fatal(err)
		}
		out := td.Events()
		if len(out) != len(test.events) {
			t.Fatalf("expected %v events, got %v", len(test.events), len(out))
		}
		for i, e := range out {
			if e.Row != test.events[i].Row || e.Kind != test.events[i].Kind || e.Value != test.events[i].Value {
				t.Log("event   ", e)
				t.Log("expected", test.events[i])
				t.Fail()
			}
		}
		if td.Offset != 0.25 {
			t.Errorf("offset lost")
		}
	}
}

func TestUncompactRejectsMismatch(t *testing.T) {
	_, err := uncompactEvents(0, []EventsCompact{{Kind: timing.Tempo, Rows: []int{0, 1}, Values: []float64{120}}})
	if err == nil {
		t.Errorf("expected an error for mismatched rows and values")
	}
}
