package game

import (
	"time"
)

type Note struct {
	Index   uint8 // The chart column
	Row     int   // 48 rows per beat
	Denom   int   // The beat length, as a denominator, 4 = 1/4 beat
	IsMine  bool
	IsHold  bool          // Hold and roll heads
	Time    time.Duration // The time the note should be hit
	RowEnd  int           // The row a hold is released on, 0 for taps
	TimeEnd time.Duration // The time a hold is released
}

func (note *Note) Beat() float64 {
	return float64(note.Row) / 48
}
