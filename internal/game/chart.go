package game

import (
	"crypto/sha256"
	"encoding/base64"
	"math"
	"sort"
	"time"

	"git.lost.host/meutraa/chartscope/internal/timing"
)

type Chart struct {
	Notes      []*Note // Ordered by row, then column
	Measures   []*Measure
	NoteCount  int64
	HoldCount  int64
	MineCount  int64
	Difficulty Difficulty
	Timing     *timing.Data
}

// Between returns the notes with start <= row < end.
func (c *Chart) Between(start, end int) []*Note {
	i := sort.Search(len(c.Notes), func(i int) bool { return c.Notes[i].Row >= start })
	j := sort.Search(len(c.Notes), func(i int) bool { return c.Notes[i].Row >= end })
	if j < i {
		return nil
	}
	return c.Notes[i:j]
}

// LastRow is the row of the last note or hold end.
func (c *Chart) LastRow() int {
	last := 0
	for _, n := range c.Notes {
		if n.Row > last {
			last = n.Row
		}
		if n.RowEnd > last {
			last = n.RowEnd
		}
	}
	return last
}

func (c *Chart) Length() time.Duration {
	return Seconds(c.Timing.TimeAt(float64(c.LastRow())))
}

// Seconds converts chart time to a duration, rounded to the nanosecond.
func Seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

// Hash identifies the note data of a chart.
func (c *Chart) Hash() string {
	sum := sha256.Sum256([]byte(c.Difficulty.Section))
	return base64.StdEncoding.EncodeToString(sum[:])
}
