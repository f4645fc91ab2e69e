package timing

import "fmt"

const (
	RowsPerBeat    = 48
	RowsPerMeasure = 4 * RowsPerBeat
)

// Kind is the type of a rate altering event. Events sharing a row are
// ordered by Kind, so the declaration order here matters.
type Kind uint8

const (
	Tempo Kind = iota
	Scroll
	Warp
	Delay
	Stop
	kindCount
)

func (k Kind) String() string {
	switch k {
	case Tempo:
		return "tempo"
	case Scroll:
		return "scroll"
	case Warp:
		return "warp"
	case Delay:
		return "delay"
	case Stop:
		return "stop"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Kinds returns every event kind in row order.
func Kinds() []Kind {
	return []Kind{Tempo, Scroll, Warp, Delay, Stop}
}

// Event is a point in a chart where the tempo, scroll rate or flow of time
// changes.
type Event struct {
	Row  int
	Kind Kind
	// Beats per minute for Tempo, seconds for Stop and Delay, rows for
	// Warp and a multiplier for Scroll.
	Value float64

	// The fields below are derived from every event up to and including
	// this one and are rewritten whenever the event set changes.

	Time          float64 // Chart time of Row, before any pauses at Row
	SecondsPerRow float64
	ScrollRate    float64
	WarpEnd       int     // Rows before WarpEnd take no time
	DelayLength   float64 // Delays at Row up to this event, paused before notes
	StopLength    float64 // Stops at Row up to this event, paused after notes

	seq uint64
}

func (e *Event) BPM() float64 {
	return 60 / (e.SecondsPerRow * RowsPerBeat)
}

func (e *Event) Beat() float64 {
	return float64(e.Row) / RowsPerBeat
}

func (e *Event) String() string {
	switch e.Kind {
	case Tempo:
		return fmt.Sprintf("%v %.3f bpm @ beat %.3f (%.3fs)", e.Kind, e.Value, e.Beat(), e.Time)
	case Stop, Delay:
		return fmt.Sprintf("%v %.3fs @ beat %.3f (%.3fs)", e.Kind, e.Value, e.Beat(), e.Time)
	case Warp:
		return fmt.Sprintf("%v %.3f beats @ beat %.3f (%.3fs)", e.Kind, e.Value/RowsPerBeat, e.Beat(), e.Time)
	case Scroll:
		return fmt.Sprintf("%v x%.2f @ beat %.3f (%.3fs)", e.Kind, e.Value, e.Beat(), e.Time)
	}
	return fmt.Sprintf("%v @ row %d", e.Kind, e.Row)
}

func secondsPerRow(bpm float64) float64 {
	return 60 / (bpm * RowsPerBeat)
}
