package timing

import (
	"errors"
	"fmt"
	"math"
)

const DefaultBPM = 120.0

var (
	ErrInvalidRow    = errors.New("row must not be negative")
	ErrInvalidBPM    = errors.New("tempo must be positive")
	ErrInvalidLength = errors.New("length must not be negative")
	ErrInvalidScroll = errors.New("scroll rate must be finite")
)

// Data is the timing of a chart: its offset and rate altering events.
// Times are in seconds, positions in rows.
type Data struct {
	// Offset is the .sm #OFFSET, row 0 is at -Offset seconds.
	Offset float64
	// BaseBPM applies when the chart has no tempo events.
	BaseBPM float64

	tree *Tree
}

func NewData(offset float64) *Data {
	return &Data{Offset: offset, BaseBPM: DefaultBPM, tree: NewTree()}
}

func (d *Data) Tree() *Tree {
	return d.tree
}

func (d *Data) Events() []*Event {
	return d.tree.Events()
}

func (d *Data) Len() int {
	return d.tree.Len()
}

func (d *Data) AddTempo(row int, bpm float64) (*Event, error) {
	if !(bpm > 0) || math.IsInf(bpm, 1) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBPM, bpm)
	}
	return d.add(row, Tempo, bpm)
}

func (d *Data) AddStop(row int, seconds float64) (*Event, error) {
	return d.addLength(row, Stop, seconds)
}

func (d *Data) AddDelay(row int, seconds float64) (*Event, error) {
	return d.addLength(row, Delay, seconds)
}

// AddWarp skips length rows starting at row.
func (d *Data) AddWarp(row int, length float64) (*Event, error) {
	return d.addLength(row, Warp, length)
}

func (d *Data) AddScroll(row int, rate float64) (*Event, error) {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScroll, rate)
	}
	return d.add(row, Scroll, rate)
}

func (d *Data) addLength(row int, kind Kind, length float64) (*Event, error) {
	if !(length >= 0) || math.IsInf(length, 1) {
		return nil, fmt.Errorf("%v: %w: %v", kind, ErrInvalidLength, length)
	}
	return d.add(row, kind, length)
}

func (d *Data) add(row int, kind Kind, value float64) (*Event, error) {
	if row < 0 {
		return nil, fmt.Errorf("%v: %w: %d", kind, ErrInvalidRow, row)
	}
	e := &Event{Row: row, Kind: kind, Value: value}
	d.tree.Insert(e)
	d.derive()
	return e, nil
}

// Remove deletes e and reports whether it was part of d.
func (d *Data) Remove(e *Event) bool {
	if !d.tree.Delete(e) {
		return false
	}
	d.derive()
	return true
}

// derive walks the events in order and rewrites their times and rate state.
func (d *Data) derive() {
	events := d.tree.Events()

	spr := secondsPerRow(d.BaseBPM)
	for _, e := range events {
		if e.Kind == Tempo {
			// The first tempo also covers the rows before it.
			spr = secondsPerRow(e.Value)
			break
		}
	}

	scroll := 1.0
	t := -d.Offset
	row, warpEnd := 0, 0
	var delay, stop float64
	for _, e := range events {
		if e.Row != row {
			start := clamp(warpEnd, row, e.Row)
			t += delay + stop + float64(e.Row-start)*spr
			row = e.Row
			delay, stop = 0, 0
		}

		switch e.Kind {
		case Tempo:
			spr = secondsPerRow(e.Value)
		case Scroll:
			scroll = e.Value
		case Warp:
			if end := e.Row + int(math.Round(e.Value)); end > warpEnd {
				warpEnd = end
			}
		case Delay:
			delay += e.Value
		case Stop:
			stop += e.Value
		}

		e.Time = t
		e.SecondsPerRow = spr
		e.ScrollRate = scroll
		e.WarpEnd = warpEnd
		e.DelayLength = delay
		e.StopLength = stop
	}
}

// TimeAt returns the chart time at which a note on row is hit.
func (d *Data) TimeAt(row float64) float64 {
	it := d.tree.FindBestByPosition(row)
	if !it.Valid() {
		return -d.Offset + row*secondsPerRow(d.BaseBPM)
	}

	e := it.Current()
	r := float64(e.Row)
	switch {
	case row < r:
		return e.Time - (r-row)*e.SecondsPerRow
	case row == r:
		return e.Time + e.DelayLength
	}
	start := clamp(float64(e.WarpEnd), r, row)
	return e.Time + e.DelayLength + e.StopLength + (row-start)*e.SecondsPerRow
}

// RowAt is the inverse of TimeAt. Where several rows share a time, as in
// pauses and warps, it returns the row of the governing event.
func (d *Data) RowAt(chartTime float64) float64 {
	it := d.tree.FindBestByTime(chartTime)
	if !it.Valid() {
		return (chartTime + d.Offset) / secondsPerRow(d.BaseBPM)
	}

	e := it.Current()
	if chartTime < e.Time {
		return float64(e.Row) - (e.Time-chartTime)/e.SecondsPerRow
	}
	dt := chartTime - e.Time - e.DelayLength - e.StopLength
	if dt <= 0 {
		return float64(e.Row)
	}
	return math.Max(float64(e.Row), float64(e.WarpEnd)) + dt/e.SecondsPerRow
}

func (d *Data) BPMAt(row float64) float64 {
	if it := d.tree.FindBestByPosition(row); it.Valid() {
		return it.Current().BPM()
	}
	return d.BaseBPM
}

func (d *Data) ScrollAt(row float64) float64 {
	if it := d.tree.FindBestByPosition(row); it.Valid() {
		return it.Current().ScrollRate
	}
	return 1
}

// BPMRange returns the slowest and fastest tempos in the chart.
func (d *Data) BPMRange() (float64, float64) {
	low, high := math.Inf(1), math.Inf(-1)
	for _, e := range d.tree.Events() {
		if e.Kind != Tempo {
			continue
		}
		low = math.Min(low, e.Value)
		high = math.Max(high, e.Value)
	}
	if math.IsInf(low, 1) {
		return d.BaseBPM, d.BaseBPM
	}
	return low, high
}
